package engine

import (
	"math/rand"

	"github.com/stanzixinwan/del-game/internal/domain"
)

const (
	// suspicionHigh is the score above which a good agent treats another
	// agent as its prime suspect.
	suspicionHigh = 0.5
	// reportWorldThreshold triggers a report once an agent has narrowed
	// its candidate worlds this far.
	reportWorldThreshold = 2
)

// GoodPolicy is the truthful decision ladder for good agents.
type GoodPolicy struct{}

func (p *GoodPolicy) ChooseAction(a *domain.Agent, view View, rng *rand.Rand) Action {
	// A corpse in the room is reported immediately.
	if len(view.DeadAgentsAt(a.Location)) > 0 {
		return Action{Name: ActionReport}
	}

	// Confident enough about who is bad: call the meeting.
	if len(a.Worlds) > 0 && len(a.Worlds) <= reportWorldThreshold {
		return Action{Name: ActionReport}
	}

	// Shadow the prime suspect.
	if suspect, score := topSuspect(a, view); suspect != "" && score > suspicionHigh {
		target := view.AgentByID(suspect)
		if target != nil && target.Alive() && target.Location != "" && target.Location != a.Location {
			if view.AreConnected(a.Location, target.Location) {
				return Action{Name: ActionEnter, Target: target.Location}
			}
			if rooms := view.ConnectedRooms(a.Location); len(rooms) > 0 {
				return Action{Name: ActionEnter, Target: rooms[rng.Intn(len(rooms))]}
			}
		}
	}

	// Otherwise wander or work, mostly.
	if rng.Float64() < 0.8 {
		if rng.Float64() < 0.5 {
			if rooms := view.ConnectedRooms(a.Location); len(rooms) > 0 {
				return Action{Name: ActionEnter, Target: rooms[rng.Intn(len(rooms))]}
			}
		}
		return Action{Name: ActionTask}
	}
	return Action{Name: ActionIdle}
}

// ChooseStatement walks the truthful priority ladder: direct-witness
// accusation, then high-suspicion accusation, then info-sharing, then a
// self-alibi.
func (p *GoodPolicy) ChooseStatement(a *domain.Agent, view View, rng *rand.Rand) *domain.Statement {
	// 1. Accuse a killer this agent saw with its own eyes.
	for i := len(a.Memory) - 1; i >= 0; i-- {
		item := a.Memory[i]
		if item.Certainty != domain.CertaintyFact || item.Event.Kind != domain.EventKill {
			continue
		}
		killer := item.Event.Actor
		if killer == a.ID {
			continue
		}
		if t := view.AgentByID(killer); t != nil && t.Alive() {
			return domain.NewStatement(domain.PredicateRole, killer, string(domain.RoleBad), a.ID, view.Now())
		}
	}

	// 2. Accuse the prime suspect.
	if suspect, score := topSuspect(a, view); suspect != "" && score > suspicionHigh {
		if rng.Float64() < 0.7 {
			return domain.NewStatement(domain.PredicateRole, suspect, string(domain.RoleBad), a.ID, view.Now())
		}
	}

	// 3. Share the freshest sighting of someone else.
	if rng.Float64() < 0.6 {
		for i := len(a.Memory) - 1; i >= 0; i-- {
			item := a.Memory[i]
			if item.SourceType != domain.SourceObservation || item.Event.Kind != domain.EventEnter {
				continue
			}
			seen := item.Event.Actor
			if seen == a.ID {
				continue
			}
			if t := view.AgentByID(seen); t != nil && t.Alive() {
				return domain.NewStatement(domain.PredicateLocation, seen, item.Event.Location, a.ID, view.Now())
			}
		}
	}

	// 4. Self-alibi, or stay silent.
	if rng.Float64() < 0.4 {
		return domain.NewStatement(domain.PredicateDid, a.ID, "task", a.ID, view.Now())
	}
	return nil
}

// ChooseVote picks the agent that is bad in the largest number of remaining
// candidate worlds, breaking ties by suspicion. An unresolved tie abstains.
func (p *GoodPolicy) ChooseVote(a *domain.Agent, view View, rng *rand.Rand) (string, bool) {
	scores := make(map[string]int)
	for _, other := range view.LivingAgents() {
		if other.ID == a.ID {
			continue
		}
		scores[other.ID] = a.CountBadWorlds(other.ID)
	}
	if len(scores) == 0 {
		return "", false
	}

	max := 0
	for _, n := range scores {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return "", false
	}

	var leaders []string
	for id, n := range scores {
		if n == max {
			leaders = append(leaders, id)
		}
	}
	if len(leaders) == 1 {
		return leaders[0], true
	}

	// Tie: a unique, positive suspicion maximum decides, otherwise abstain.
	best, bestSus, dup := "", -1.0, false
	for _, id := range leaders {
		s := a.Suspicion[id]
		switch {
		case s > bestSus:
			best, bestSus, dup = id, s, false
		case s == bestSus:
			dup = true
		}
	}
	if bestSus > 0 && !dup {
		return best, true
	}
	return "", false
}

// topSuspect returns the living agent with the highest suspicion score held
// by a, or "" when nobody stands out uniquely.
func topSuspect(a *domain.Agent, view View) (string, float64) {
	best, bestScore, dup := "", -1.0, false
	for _, other := range view.LivingAgents() {
		if other.ID == a.ID {
			continue
		}
		s := a.Suspicion[other.ID]
		switch {
		case s > bestScore:
			best, bestScore, dup = other.ID, s, false
		case s == bestScore:
			dup = true
		}
	}
	if dup || best == "" {
		return "", 0
	}
	return best, bestScore
}
