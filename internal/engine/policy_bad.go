package engine

import (
	"math/rand"

	"github.com/stanzixinwan/del-game/internal/domain"
)

// BadPolicy is the deceptive decision ladder for bad agents. A bad agent
// holds exactly one candidate world (it knows the bad team), so its own
// hypothesis doubles as a role oracle.
type BadPolicy struct{}

func (p *BadPolicy) ChooseAction(a *domain.Agent, view View, rng *rand.Rand) Action {
	// Alone with a single good target: strike.
	if target := loneGoodTarget(a, view); target != "" {
		return Action{Name: ActionKill, Target: target}
	}

	// Blend in: occasional movement or fake work, rare sabotage.
	if rng.Float64() < 0.3 {
		if rng.Float64() < 0.5 {
			if rooms := view.ConnectedRooms(a.Location); len(rooms) > 0 {
				return Action{Name: ActionEnter, Target: rooms[rng.Intn(len(rooms))]}
			}
		}
		return Action{Name: ActionTask}
	}
	if rng.Float64() < 0.05 {
		return Action{Name: ActionSabotage}
	}
	return Action{Name: ActionIdle}
}

// ChooseStatement walks the deceptive ladder: an emergency fake alibi when
// a corpse lies where this agent stood before the meeting, then a weighted
// pick among framing, confusion and partner-vouching, then a default lie.
func (p *BadPolicy) ChooseStatement(a *domain.Agent, view View, rng *rand.Rand) *domain.Statement {
	// 1. A corpse at my pre-meeting spot needs explaining away.
	if myRoom, ok := view.PreMeetingLocation(a.ID); ok && myRoom != "" {
		for _, dead := range view.DeadAgents() {
			if dead.Location != "" && dead.Location == myRoom {
				if alibi := fakeAlibiRoom(view, myRoom, rng); alibi != "" {
					return domain.NewStatement(domain.PredicateLocation, a.ID, alibi, a.ID, view.Now())
				}
			}
		}
	}

	// 2. Weighted misdirection.
	goods := livingGoodTargets(a, view)
	partner := livingPartner(a, view)
	roll := rng.Float64()
	switch {
	case roll < 0.45 && len(goods) > 0:
		target := goods[rng.Intn(len(goods))]
		return domain.NewStatement(domain.PredicateRole, target, string(domain.RoleBad), a.ID, view.Now())
	case roll < 0.70 && len(goods) > 0:
		target := goods[rng.Intn(len(goods))]
		return domain.NewStatement(domain.PredicateDid, target, "sabotage", a.ID, view.Now())
	case partner != "":
		return domain.NewStatement(domain.PredicateRole, partner, string(domain.RoleGood), a.ID, view.Now())
	}

	// 3. Default lie.
	return domain.NewStatement(domain.PredicateDid, a.ID, "task", a.ID, view.Now())
}

// ChooseVote prefers good targets, with enough noise to avoid a pattern.
func (p *BadPolicy) ChooseVote(a *domain.Agent, view View, rng *rand.Rand) (string, bool) {
	var others []string
	for _, other := range view.LivingAgents() {
		if other.ID != a.ID {
			others = append(others, other.ID)
		}
	}
	if len(others) == 0 {
		return "", false
	}

	goods := livingGoodTargets(a, view)
	if len(goods) > 0 && rng.Float64() < 0.8 {
		return goods[rng.Intn(len(goods))], true
	}
	return others[rng.Intn(len(others))], true
}

// loneGoodTarget reports the single living good agent sharing a's room, or
// "" when the room is empty, crowded, or holds a partner.
func loneGoodTarget(a *domain.Agent, view View) string {
	var present []*domain.Agent
	for _, other := range view.LivingAgents() {
		if other.ID != a.ID && other.Location == a.Location {
			present = append(present, other)
		}
	}
	if len(present) != 1 {
		return ""
	}
	if isBadInOwnWorld(a, present[0].ID) {
		return ""
	}
	return present[0].ID
}

// livingGoodTargets lists living agents that are good in a's world.
func livingGoodTargets(a *domain.Agent, view View) []string {
	var out []string
	for _, other := range view.LivingAgents() {
		if other.ID != a.ID && !isBadInOwnWorld(a, other.ID) {
			out = append(out, other.ID)
		}
	}
	return out
}

// livingPartner returns a living fellow bad agent, or "".
func livingPartner(a *domain.Agent, view View) string {
	for _, other := range view.LivingAgents() {
		if other.ID != a.ID && isBadInOwnWorld(a, other.ID) {
			return other.ID
		}
	}
	return ""
}

func isBadInOwnWorld(a *domain.Agent, id string) bool {
	if len(a.Worlds) == 0 {
		return false
	}
	return a.Worlds[0][id] == domain.RoleBad
}

// fakeAlibiRoom picks a room to claim instead of the incriminating one. The
// meeting room is never a credible alibi.
func fakeAlibiRoom(view View, avoid string, rng *rand.Rand) string {
	var rooms []string
	for _, name := range view.RoomNames() {
		if name != avoid && name != view.MeetingRoom() {
			rooms = append(rooms, name)
		}
	}
	if len(rooms) == 0 {
		return ""
	}
	return rooms[rng.Intn(len(rooms))]
}
