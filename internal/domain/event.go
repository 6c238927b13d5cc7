package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind identifies the instant action an event records.
type EventKind string

const (
	EventEnter      EventKind = "enter"
	EventKill       EventKind = "kill"
	EventSabotage   EventKind = "sabotage"
	EventReport     EventKind = "report"
	EventSay        EventKind = "say"
	EventVoteResult EventKind = "vote_result"
)

func ValidEventKind(k string) bool {
	switch EventKind(k) {
	case EventEnter, EventKill, EventSabotage, EventReport, EventSay, EventVoteResult:
		return true
	}
	return false
}

// Visibility determines which agents receive a memory item for an event
// and with what certainty.
type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityWitnessed Visibility = "witnessed"
	VisibilityPublic    Visibility = "public"
)

func ValidVisibility(v string) bool {
	switch Visibility(v) {
	case VisibilityPrivate, VisibilityWitnessed, VisibilityPublic:
		return true
	}
	return false
}

// VoteOutcome is the payload of a vote_result event. Ejected is empty when
// the tally was a tie or everyone abstained. Votes maps voter id to target
// id for every ballot actually cast.
type VoteOutcome struct {
	Ejected   string            `json:"ejected,omitempty"`
	Votes     map[string]string `json:"votes"`
	GameEnded bool              `json:"game_ended"`
}

// Event is an immutable record of a game action. It is referenced, never
// copied, by every MemoryItem derived from it; nothing may mutate an Event
// after construction.
type Event struct {
	ID         string       `json:"id"`
	Kind       EventKind    `json:"kind"`
	Actor      string       `json:"actor"`
	Location   string       `json:"location"`
	Witnesses  []string     `json:"witnesses,omitempty"`
	Visibility Visibility   `json:"visibility"`
	Timestamp  float64      `json:"timestamp"`
	Statement  *Statement   `json:"statement,omitempty"`
	VoteResult *VoteOutcome `json:"vote_result,omitempty"`
}

// NewEvent constructs an event. A structurally invalid event (missing actor,
// unknown kind or visibility, say without a statement, vote_result without a
// tally) is a programming error and panics rather than propagating half-built.
func NewEvent(kind EventKind, actor, location string, witnesses []string, visibility Visibility, timestamp float64) *Event {
	if actor == "" {
		panic("domain: event requires an actor")
	}
	if !ValidEventKind(string(kind)) {
		panic(fmt.Sprintf("domain: unknown event kind %q", kind))
	}
	if !ValidVisibility(string(visibility)) {
		panic(fmt.Sprintf("domain: unknown visibility %q", visibility))
	}
	return &Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Actor:      actor,
		Location:   location,
		Witnesses:  witnesses,
		Visibility: visibility,
		Timestamp:  timestamp,
	}
}

// NewSayEvent constructs a public say event carrying a statement.
func NewSayEvent(actor, location string, witnesses []string, stmt *Statement, timestamp float64) *Event {
	if stmt == nil {
		panic("domain: say event requires a statement")
	}
	e := NewEvent(EventSay, actor, location, witnesses, VisibilityPublic, timestamp)
	e.Statement = stmt
	return e
}

// NewVoteResultEvent constructs a public vote_result event carrying the tally.
func NewVoteResultEvent(actor, location string, witnesses []string, outcome *VoteOutcome, timestamp float64) *Event {
	if outcome == nil {
		panic("domain: vote_result event requires an outcome")
	}
	e := NewEvent(EventVoteResult, actor, location, witnesses, VisibilityPublic, timestamp)
	e.VoteResult = outcome
	return e
}
