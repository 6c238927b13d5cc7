package domain

// LifeState tracks whether an agent is alive. The transition alive→dead
// happens exactly once (kill or ejection) and is never reversed.
type LifeState string

const (
	LifeAlive LifeState = "alive"
	LifeDead  LifeState = "dead"
)

// Behavior is an agent's ongoing, non-event activity state.
type Behavior string

const (
	BehaviorIdle   Behavior = "idle"
	BehaviorTask   Behavior = "task"
	BehaviorVoting Behavior = "voting"
)

// Agent holds one participant's identity and its knowledge base: the set of
// worlds it still considers possible, an append-only memory log, and a
// suspicion score for every other agent. The engine's world is the sole
// mutator of identity state; beliefs are mutated only through the belief
// engine.
type Agent struct {
	ID       string
	Role     Role
	Life     LifeState
	Behavior Behavior
	// Location is the current room, or empty once a corpse has been
	// cleared or the agent ejected.
	Location string

	Worlds    []Hypothesis
	Memory    []*MemoryItem
	Suspicion map[string]float64

	// Action scheduling during the playing phase.
	NextActionAt float64
	LastActionAt float64
}

func NewAgent(id string, role Role, location string) *Agent {
	return &Agent{
		ID:        id,
		Role:      role,
		Life:      LifeAlive,
		Behavior:  BehaviorIdle,
		Location:  location,
		Suspicion: make(map[string]float64),
	}
}

func (a *Agent) Alive() bool { return a.Life == LifeAlive }

// Remember appends an item to the agent's memory log.
func (a *Agent) Remember(item *MemoryItem) {
	a.Memory = append(a.Memory, item)
}

// RaiseSuspicion adjusts the held suspicion for another agent, clamped at
// zero. Unknown ids and self-suspicion are ignored.
func (a *Agent) RaiseSuspicion(id string, delta float64) {
	if id == a.ID {
		return
	}
	if _, ok := a.Suspicion[id]; !ok {
		return
	}
	a.Suspicion[id] += delta
	if a.Suspicion[id] < 0 {
		a.Suspicion[id] = 0
	}
}

// CountBadWorlds reports in how many of the agent's remaining candidate
// worlds the given agent is bad.
func (a *Agent) CountBadWorlds(id string) int {
	n := 0
	for _, w := range a.Worlds {
		if w[id] == RoleBad {
			n++
		}
	}
	return n
}

// KnowledgeSnapshot is the read-only belief view exposed to renderers.
type KnowledgeSnapshot struct {
	CandidateWorlds int                `json:"candidate_worlds"`
	MemoryLength    int                `json:"memory_length"`
	Suspicion       map[string]float64 `json:"suspicion"`
}

// AgentSnapshot is the per-agent state polled by external renderers.
type AgentSnapshot struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Life      LifeState         `json:"life"`
	Behavior  Behavior          `json:"behavior"`
	Location  string            `json:"location,omitempty"`
	Knowledge KnowledgeSnapshot `json:"knowledge"`
}

// Snapshot copies the agent's externally visible state.
func (a *Agent) Snapshot() AgentSnapshot {
	sus := make(map[string]float64, len(a.Suspicion))
	for id, v := range a.Suspicion {
		sus[id] = v
	}
	return AgentSnapshot{
		ID:       a.ID,
		Role:     a.Role,
		Life:     a.Life,
		Behavior: a.Behavior,
		Location: a.Location,
		Knowledge: KnowledgeSnapshot{
			CandidateWorlds: len(a.Worlds),
			MemoryLength:    len(a.Memory),
			Suspicion:       sus,
		},
	}
}
