package engine

import (
	"github.com/stanzixinwan/del-game/internal/domain"
	"go.uber.org/zap"
)

// MeetingStep is the current sub-phase of a meeting.
type MeetingStep string

const (
	StepStatements MeetingStep = "statements"
	StepVoting     MeetingStep = "voting"
	StepResult     MeetingStep = "result"
)

// MeetingStepInterval is the sim-time between meeting step-units: one
// statement (or the vote, or the result) becomes observable every interval.
const MeetingStepInterval = 2.0

// meetingSession holds all progress of a running meeting. Because every bit
// of state lives here rather than on a call stack, the machine suspends
// cleanly between ticks and resumes on the next Advance.
type meetingSession struct {
	reporter string
	step     MeetingStep
	queue    []string
	timer    float64
	votes    map[string]string
	// snapshot maps each living agent to its pre-meeting location for
	// restoration afterwards.
	snapshot map[string]string
}

// startMeeting freezes the simulation, gathers every living agent in the
// isolated meeting room and begins the statements round. The speaking order
// is living agents ascending by id, so runs are reproducible. An empty
// reporter (timer-triggered meeting) is attributed to the first living
// agent.
func (w *World) startMeeting(reporter string) {
	if w.meeting != nil || w.result != ResultNone {
		return
	}

	session := &meetingSession{
		step:     StepStatements,
		snapshot: make(map[string]string),
	}
	for _, a := range w.agents { // ascending id order
		if !a.Alive() {
			continue
		}
		session.snapshot[a.ID] = a.Location
		session.queue = append(session.queue, a.ID)
		a.Location = w.meetingRoom
		a.Behavior = domain.BehaviorVoting
	}
	if reporter == "" && len(session.queue) > 0 {
		reporter = session.queue[0]
	}
	session.reporter = reporter

	w.meeting = session
	w.phase = PhaseMeeting
	w.logger.Info("meeting started",
		zap.String("reporter", reporter),
		zap.Int("participants", len(session.queue)),
		zap.Float64("time", w.now))
}

// updateMeeting accumulates delta into the meeting timer and, once a full
// step interval has elapsed, executes exactly one unit of work, keeping one
// observable action per tick no matter how large delta was. Sim time does
// not accrue while a meeting runs.
func (w *World) updateMeeting(delta float64) {
	m := w.meeting
	m.timer += delta
	if m.timer < MeetingStepInterval {
		return
	}
	m.timer -= MeetingStepInterval

	switch m.step {
	case StepStatements:
		w.meetingStatementUnit(m)
	case StepVoting:
		m.votes = w.collectVotes()
		m.step = StepResult
	case StepResult:
		w.finishMeeting(m)
	}
}

// meetingStatementUnit gives the floor to the next living agent in the
// queue. The dead cannot speak and are skipped without consuming the unit.
func (w *World) meetingStatementUnit(m *meetingSession) {
	for len(m.queue) > 0 && !w.byID[m.queue[0]].Alive() {
		m.queue = m.queue[1:]
	}
	if len(m.queue) == 0 {
		m.step = StepVoting
		return
	}

	speaker := w.byID[m.queue[0]]
	m.queue = m.queue[1:]

	stmt := w.policies[speaker.ID].ChooseStatement(speaker, w, w.rng)
	if stmt != nil && w.byID[stmt.Subject] == nil {
		// A statement about a nonexistent agent is an invalid decision;
		// the speaker stays silent instead.
		w.logger.Debug("dropping statement about unknown subject",
			zap.String("speaker", speaker.ID),
			zap.String("subject", stmt.Subject))
		stmt = nil
	}
	if stmt != nil {
		var witnesses []string
		for _, other := range w.LivingAgents() {
			if other.ID != speaker.ID {
				witnesses = append(witnesses, other.ID)
			}
		}
		w.createEvent(domain.NewSayEvent(speaker.ID, w.meetingRoom, witnesses, stmt, w.now))
	}

	if len(m.queue) == 0 {
		m.step = StepVoting
	}
}

// finishMeeting tallies the ballots, applies an ejection, announces the
// result as a public fact, evaluates the win condition and, if the game
// goes on, sends everyone back where they stood.
func (w *World) finishMeeting(m *meetingSession) {
	ejectedID := tally(m.votes)

	var participants []string
	for _, a := range w.agents {
		if a.Alive() {
			participants = append(participants, a.ID)
		}
	}

	if ejectedID != "" {
		ejected := w.byID[ejectedID]
		ejected.Life = domain.LifeDead
		ejected.Location = ""
		ejected.Behavior = domain.BehaviorIdle
		w.logger.Info("agent ejected",
			zap.String("agent_id", ejectedID),
			zap.Int("ballots", len(m.votes)))
	} else {
		w.logger.Info("vote tied, nobody ejected", zap.Int("ballots", len(m.votes)))
	}

	w.evaluateResult()

	outcome := &domain.VoteOutcome{
		Ejected:   ejectedID,
		Votes:     m.votes,
		GameEnded: w.result != ResultNone,
	}
	w.createEvent(domain.NewVoteResultEvent(m.reporter, w.meetingRoom, participants, outcome, w.now))

	w.meeting = nil
	w.phase = PhasePlaying
	w.lastMeetingAt = w.now

	if w.result != ResultNone {
		return
	}
	for _, a := range w.agents {
		if !a.Alive() {
			continue
		}
		if loc, ok := m.snapshot[a.ID]; ok {
			a.Location = loc
		}
		a.Behavior = domain.BehaviorIdle
	}
}
