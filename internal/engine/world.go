package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/stanzixinwan/del-game/internal/domain"
	"go.uber.org/zap"
)

// Phase is the world's top-level mode.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseMeeting Phase = "meeting"
)

// Result is the terminal outcome. Empty until the game ends; once set it
// never changes and Advance becomes a no-op.
type Result string

const (
	ResultNone    Result = ""
	ResultBadWin  Result = "bad_agents_win"
	ResultGoodWin Result = "good_agents_win"
)

const (
	// killCheckInterval is how often a bad agent re-checks for an
	// unwitnessed kill opportunity during the playing phase.
	killCheckInterval = 2.0
	// minActionDelay/maxActionDelay bound the random gap between an
	// agent's scheduled decisions.
	minActionDelay = 2.0
	maxActionDelay = 8.0
	// initialDelayMin/Max stagger the very first decisions.
	initialDelayMin = 1.0
	initialDelayMax = 5.0
)

// Options configures a new world.
type Options struct {
	NumAgents int
	NumBad    int
	Seed      int64
	// MeetingInterval is the sim-time gap between automatic meetings.
	// Zero disables timer-triggered meetings.
	MeetingInterval float64
	Logger          *zap.Logger
	// EventSink, when set, receives every event after all belief updates
	// for it have completed. Used by the live feed.
	EventSink func(*domain.Event)
}

// World owns all global state and is its sole mutator: it materializes
// events from policy decisions, routes them to the right agents' memories
// per visibility, drives the meeting state machine and resolves votes.
// Advance and the snapshot accessors are safe for concurrent use; every
// other method is internal to the tick.
type World struct {
	mu     sync.RWMutex
	logger *zap.Logger
	rng    *rand.Rand

	agents      []*domain.Agent // ascending id order
	byID        map[string]*domain.Agent
	policies    map[string]Policy
	rooms       domain.RoomMap
	meetingRoom string
	numBad      int

	phase           Phase
	now             float64
	turn            int
	lastMeetingAt   float64
	meetingInterval float64
	meeting         *meetingSession
	result          Result

	beliefs *BeliefEngine
	events  []*domain.Event
	sink    func(*domain.Event)
}

// NewWorld builds a world with opts.NumAgents agents (npc0, npc1, ...), a
// seeded role assignment with opts.NumBad bad agents, the default room
// topology, and fully initialized knowledge bases.
func NewWorld(opts Options) (*World, error) {
	if opts.NumAgents < 3 {
		return nil, fmt.Errorf("engine: need at least 3 agents, got %d", opts.NumAgents)
	}
	if opts.NumBad < 1 || opts.NumBad >= opts.NumAgents {
		return nil, fmt.Errorf("engine: bad count %d out of range for %d agents", opts.NumBad, opts.NumAgents)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	rooms, meetingRoom := domain.DefaultTopology()

	// Starting rooms exclude the meeting room.
	var startRooms []string
	for _, name := range rooms.Names() {
		if name != meetingRoom {
			startRooms = append(startRooms, name)
		}
	}

	ids := make([]string, opts.NumAgents)
	for i := range ids {
		ids[i] = fmt.Sprintf("npc%d", i)
	}

	// Seeded role assignment.
	badSet := make(map[string]bool, opts.NumBad)
	for _, i := range rng.Perm(opts.NumAgents)[:opts.NumBad] {
		badSet[ids[i]] = true
	}
	var badTeam []string
	for _, id := range ids {
		if badSet[id] {
			badTeam = append(badTeam, id)
		}
	}

	w := &World{
		logger:          logger,
		rng:             rng,
		byID:            make(map[string]*domain.Agent, opts.NumAgents),
		policies:        make(map[string]Policy, opts.NumAgents),
		rooms:           rooms,
		meetingRoom:     meetingRoom,
		numBad:          opts.NumBad,
		phase:           PhasePlaying,
		meetingInterval: opts.MeetingInterval,
		beliefs:         NewBeliefEngine(logger),
		sink:            opts.EventSink,
	}

	for _, id := range ids {
		role := domain.RoleGood
		if badSet[id] {
			role = domain.RoleBad
		}
		a := domain.NewAgent(id, role, startRooms[rng.Intn(len(startRooms))])
		a.Worlds = domain.EnumerateHypotheses(ids, opts.NumBad, id, role, badTeam)
		for _, other := range ids {
			if other != id {
				a.Suspicion[other] = 0
			}
		}
		a.NextActionAt = initialDelayMin + rng.Float64()*(initialDelayMax-initialDelayMin)
		w.agents = append(w.agents, a)
		w.byID[id] = a
		w.policies[id] = PolicyForRole(role)
	}
	sort.Slice(w.agents, func(i, j int) bool { return w.agents[i].ID < w.agents[j].ID })

	logger.Info("world initialized",
		zap.Int("agents", opts.NumAgents),
		zap.Int("bad", opts.NumBad),
		zap.Int64("seed", opts.Seed))
	return w, nil
}

// Advance drives the simulation by delta time-units: the normal per-tick
// agent update during PLAYING, or one meeting step-unit during MEETING.
// Once a terminal result is set it is a no-op.
func (w *World) Advance(delta float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result != ResultNone {
		return
	}
	w.turn++
	if w.phase == PhaseMeeting {
		w.updateMeeting(delta)
		return
	}
	w.updatePlaying(delta)
}

// updatePlaying accrues sim time and runs the time-based agent scheduler:
// bad agents probe for unwitnessed kill windows every killCheckInterval,
// everyone acts when their scheduled time arrives.
func (w *World) updatePlaying(delta float64) {
	w.now += delta

	for _, a := range w.agents {
		if w.phase != PhasePlaying || w.result != ResultNone {
			// A report mid-loop moved us into a meeting (or ended the
			// game); nobody else acts this tick.
			return
		}
		if !a.Alive() {
			continue
		}

		if a.Role == domain.RoleBad && w.now-a.LastActionAt >= killCheckInterval {
			if target := loneGoodTarget(a, w); target != "" {
				w.applyAction(a, Action{Name: ActionKill, Target: target})
				a.LastActionAt = w.now
				a.NextActionAt = w.now + killCheckInterval
				continue
			}
		}

		if w.now >= a.NextActionAt {
			act := w.policies[a.ID].ChooseAction(a, w, w.rng)
			w.applyAction(a, act)
			a.LastActionAt = w.now
			a.NextActionAt = w.now + minActionDelay + w.rng.Float64()*(maxActionDelay-minActionDelay)
		}
	}

	if w.phase == PhasePlaying && w.result == ResultNone &&
		w.meetingInterval > 0 && w.now-w.lastMeetingAt >= w.meetingInterval {
		w.startMeeting("")
	}
}

// createEvent appends the event to the log and routes memory items to its
// audience. Every recipient's belief update completes before control
// returns, so no later event can overtake this one.
func (w *World) createEvent(ev *domain.Event) {
	w.events = append(w.events, ev)
	w.distribute(ev)
	if w.sink != nil {
		w.sink(ev)
	}
}

func (w *World) distribute(ev *domain.Event) {
	switch ev.Visibility {
	case domain.VisibilityPrivate:
		if a := w.byID[ev.Actor]; a != nil {
			w.deliver(a, domain.NewObservation(ev))
		}
	case domain.VisibilityWitnessed:
		if a := w.byID[ev.Actor]; a != nil {
			w.deliver(a, domain.NewObservation(ev))
		}
		for _, id := range ev.Witnesses {
			if a := w.byID[id]; a != nil {
				w.deliver(a, domain.NewObservation(ev))
			}
		}
	case domain.VisibilityPublic:
		if ev.Kind == domain.EventVoteResult {
			// The whole table watches the tally, the ejected agent
			// included: everyone takes it as fact.
			for _, a := range w.agents {
				if a.Alive() || (ev.VoteResult != nil && a.ID == ev.VoteResult.Ejected) {
					w.deliver(a, domain.NewObservation(ev))
				}
			}
			return
		}
		for _, a := range w.agents {
			if !a.Alive() {
				continue
			}
			if a.ID == ev.Actor {
				w.deliver(a, domain.NewObservation(ev))
			} else {
				// Hearing about it never licenses elimination, only
				// suspicion adjustment.
				w.deliver(a, domain.NewHearsay(ev, ev.Actor))
			}
		}
	}
}

func (w *World) deliver(a *domain.Agent, item *domain.MemoryItem) {
	a.Remember(item)
	w.beliefs.Apply(a, item, BeliefContext{DeadIDs: w.deadIDs(), NumBad: w.numBad})
}

func (w *World) deadIDs() []string {
	var out []string
	for _, a := range w.agents {
		if !a.Alive() {
			out = append(out, a.ID)
		}
	}
	return out
}

// evaluateResult records the terminal outcome once: bad agents win when
// they are not outnumbered by the living good agents, good agents win when
// no bad agent is left.
func (w *World) evaluateResult() {
	if w.result != ResultNone {
		return
	}
	var good, bad int
	for _, a := range w.agents {
		if !a.Alive() {
			continue
		}
		if a.Role == domain.RoleBad {
			bad++
		} else {
			good++
		}
	}
	switch {
	case bad == 0:
		w.result = ResultGoodWin
	case bad >= good:
		w.result = ResultBadWin
	default:
		return
	}
	w.logger.Info("game over",
		zap.String("result", string(w.result)),
		zap.Float64("time", w.now),
		zap.Int("turn", w.turn))
}

// ---- View (read-only surface for policies; called only inside Advance) ----

func (w *World) Now() float64 { return w.now }

func (w *World) NumBad() int { return w.numBad }

func (w *World) MeetingRoom() string { return w.meetingRoom }

func (w *World) LivingAgents() []*domain.Agent {
	var out []*domain.Agent
	for _, a := range w.agents {
		if a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

func (w *World) DeadAgents() []*domain.Agent {
	var out []*domain.Agent
	for _, a := range w.agents {
		if !a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

func (w *World) DeadAgentsAt(location string) []*domain.Agent {
	if location == "" {
		return nil
	}
	var out []*domain.Agent
	for _, a := range w.agents {
		if !a.Alive() && a.Location == location {
			out = append(out, a)
		}
	}
	return out
}

func (w *World) AgentByID(id string) *domain.Agent { return w.byID[id] }

func (w *World) RoomNames() []string { return w.rooms.Names() }

func (w *World) ConnectedRooms(room string) []string {
	if r, ok := w.rooms[room]; ok {
		return r.Connected
	}
	return nil
}

func (w *World) AreConnected(a, b string) bool {
	if r, ok := w.rooms[a]; ok {
		return r.IsConnectedTo(b)
	}
	return false
}

func (w *World) PreMeetingLocation(id string) (string, bool) {
	if w.meeting == nil {
		return "", false
	}
	loc, ok := w.meeting.snapshot[id]
	return loc, ok
}

// ---- Snapshots (safe for concurrent readers, e.g. the observer API) ----

// MeetingSnapshot is the externally visible meeting progress.
type MeetingSnapshot struct {
	Reporter string      `json:"reporter"`
	Step     MeetingStep `json:"step"`
	Timer    float64     `json:"timer"`
	Pending  int         `json:"pending_speakers"`
}

// WorldSnapshot is the world-level state polled once per tick by renderers.
type WorldSnapshot struct {
	Phase   Phase                  `json:"phase"`
	Time    float64                `json:"time"`
	Turn    int                    `json:"turn"`
	Result  Result                 `json:"result,omitempty"`
	Events  int                    `json:"events"`
	Meeting *MeetingSnapshot       `json:"meeting,omitempty"`
	Agents  []domain.AgentSnapshot `json:"agents"`
}

// Snapshot copies the externally visible world state.
func (w *World) Snapshot() WorldSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := WorldSnapshot{
		Phase:  w.phase,
		Time:   w.now,
		Turn:   w.turn,
		Result: w.result,
		Events: len(w.events),
	}
	if w.meeting != nil {
		snap.Meeting = &MeetingSnapshot{
			Reporter: w.meeting.reporter,
			Step:     w.meeting.step,
			Timer:    w.meeting.timer,
			Pending:  len(w.meeting.queue),
		}
	}
	for _, a := range w.agents {
		snap.Agents = append(snap.Agents, a.Snapshot())
	}
	return snap
}

// AgentSnapshot returns one agent's snapshot, or false when the id is
// unknown.
func (w *World) AgentSnapshot(id string) (domain.AgentSnapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.byID[id]
	if !ok {
		return domain.AgentSnapshot{}, false
	}
	return a.Snapshot(), true
}

// EventsSince returns the event log from index since on. Events are
// immutable, so sharing them with readers is safe.
func (w *World) EventsSince(since int) []*domain.Event {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if since < 0 {
		since = 0
	}
	if since >= len(w.events) {
		return nil
	}
	return append([]*domain.Event(nil), w.events[since:]...)
}

// CurrentPhase reports the phase for external callers.
func (w *World) CurrentPhase() Phase {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.phase
}

// ElapsedTime reports accumulated sim time.
func (w *World) ElapsedTime() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.now
}

// TurnCount reports the number of Advance calls processed.
func (w *World) TurnCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.turn
}

// GameResult reports the terminal outcome, empty while the game runs.
func (w *World) GameResult() Result {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result
}
