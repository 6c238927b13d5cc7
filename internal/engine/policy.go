package engine

import (
	"math/rand"

	"github.com/stanzixinwan/del-game/internal/domain"
)

// ActionName is a non-verbal decision a policy can return during the
// playing phase. enter/kill/sabotage/report produce events; task/idle are
// behavior states and produce none.
type ActionName string

const (
	ActionEnter    ActionName = "enter"
	ActionKill     ActionName = "kill"
	ActionSabotage ActionName = "sabotage"
	ActionReport   ActionName = "report"
	ActionTask     ActionName = "task"
	ActionIdle     ActionName = "idle"
)

// Action is a policy decision. Target is a room name for enter and an agent
// id for kill; other actions ignore it.
type Action struct {
	Name   ActionName
	Target string
}

// View is the read-only world surface handed to policies. Policies must not
// mutate anything reached through it; the world applies all effects.
type View interface {
	Now() float64
	NumBad() int
	LivingAgents() []*domain.Agent
	DeadAgents() []*domain.Agent
	DeadAgentsAt(location string) []*domain.Agent
	AgentByID(id string) *domain.Agent
	RoomNames() []string
	ConnectedRooms(room string) []string
	AreConnected(a, b string) bool
	MeetingRoom() string
	// PreMeetingLocation reports where an agent stood when the current
	// meeting started. ok is false outside a meeting.
	PreMeetingLocation(id string) (string, bool)
}

// Policy is the decision surface of one agent. Implementations are pure
// readers of the agent's belief state and the view; the only randomness is
// the rand source passed in, which keeps runs reproducible under a fixed
// seed.
type Policy interface {
	ChooseAction(a *domain.Agent, view View, rng *rand.Rand) Action
	// ChooseStatement returns nil when the agent stays silent.
	ChooseStatement(a *domain.Agent, view View, rng *rand.Rand) *domain.Statement
	// ChooseVote returns (target, true) to cast a ballot or ("", false)
	// to abstain.
	ChooseVote(a *domain.Agent, view View, rng *rand.Rand) (string, bool)
}

// PolicyForRole selects the role-specific policy once at agent creation.
func PolicyForRole(role domain.Role) Policy {
	if role == domain.RoleBad {
		return &BadPolicy{}
	}
	return &GoodPolicy{}
}
