package engine

import (
	"github.com/stanzixinwan/del-game/internal/domain"
	"go.uber.org/zap"
)

const (
	// SuspicionAccusation is added to the hearer's suspicion of the subject
	// of a "role is bad" claim.
	SuspicionAccusation = 0.1
	// SuspicionSabotage is added to the hearer's suspicion of a sabotage
	// actor they only heard about.
	SuspicionSabotage = 0.2
)

// BeliefContext carries the public facts an elimination rule may consult in
// addition to the memory item itself.
type BeliefContext struct {
	// DeadIDs are the agents known dead at the time the item is processed.
	DeadIDs []string
	// NumBad is the publicly known number of bad roles in the game.
	NumBad int
}

// BeliefEngine applies Dynamic Epistemic Logic updates to a single agent's
// knowledge base. Hard evidence (FACT) eliminates candidate worlds; soft
// evidence (UNCERTAIN) only moves suspicion scores. The engine never
// mutates the event itself.
type BeliefEngine struct {
	logger *zap.Logger
}

func NewBeliefEngine(logger *zap.Logger) *BeliefEngine {
	return &BeliefEngine{logger: logger}
}

// Apply updates the agent's worlds and/or suspicion for one memory item.
// Dispatch is purely on the item's certainty.
func (e *BeliefEngine) Apply(a *domain.Agent, item *domain.MemoryItem, ctx BeliefContext) {
	switch item.Certainty {
	case domain.CertaintyFact:
		e.applyFact(a, item, ctx)
	case domain.CertaintyUncertain:
		e.applySoft(a, item)
	}
	// VERIFIED/DISPROVED items carry no update rule in this version.
}

func (e *BeliefEngine) applyFact(a *domain.Agent, item *domain.MemoryItem, ctx BeliefContext) {
	ev := item.Event
	switch ev.Kind {
	case domain.EventKill:
		// Seeing a kill proves the killer is bad.
		e.eliminate(a, "kill witnessed", func(w domain.Hypothesis) bool {
			return w[ev.Actor] == domain.RoleBad
		})
	case domain.EventVoteResult:
		e.applyVoteResult(a, ev.VoteResult, ctx)
	}
	// Other fact kinds (enter, sabotage, report, say) eliminate nothing.
}

func (e *BeliefEngine) applyVoteResult(a *domain.Agent, outcome *domain.VoteOutcome, ctx BeliefContext) {
	if outcome == nil || outcome.Ejected == "" {
		return
	}

	if !outcome.GameEnded {
		// The game went on, so the table ejected a good agent.
		ejected := outcome.Ejected
		e.eliminate(a, "ejected agent was good", func(w domain.Hypothesis) bool {
			return w[ejected] != domain.RoleBad
		})

		// Once the dead reach the known bad count, a world in which every
		// dead agent is bad cannot explain the game still running.
		if ctx.NumBad > 0 && len(ctx.DeadIDs) >= ctx.NumBad {
			dead := ctx.DeadIDs
			e.eliminate(a, "all dead bad is contradictory", func(w domain.Hypothesis) bool {
				for _, id := range dead {
					if w[id] != domain.RoleBad {
						return true
					}
				}
				return false
			})
		}
	}

	if a.ID == outcome.Ejected && a.Role == domain.RoleGood {
		// I am good and got voted out: at least one of my voters is bad.
		// This is a disjunctive constraint over the voter set, not a
		// per-voter elimination.
		var voters []string
		for voter, target := range outcome.Votes {
			if target == outcome.Ejected {
				voters = append(voters, voter)
			}
		}
		if len(voters) > 0 {
			e.eliminate(a, "at least one of my voters is bad", func(w domain.Hypothesis) bool {
				for _, v := range voters {
					if w[v] == domain.RoleBad {
						return true
					}
				}
				return false
			})
		}
	}
}

// eliminate keeps only the candidate worlds satisfying the predicate. An
// already empty candidate set is a recoverable contradiction signal: the
// elimination is skipped, never raised.
func (e *BeliefEngine) eliminate(a *domain.Agent, reason string, keep func(domain.Hypothesis) bool) {
	if len(a.Worlds) == 0 {
		e.logger.Debug("elimination skipped on empty candidate set",
			zap.String("agent_id", a.ID),
			zap.String("reason", reason))
		return
	}

	kept := a.Worlds[:0]
	for _, w := range a.Worlds {
		if keep(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) < len(a.Worlds) {
		e.logger.Debug("eliminated candidate worlds",
			zap.String("agent_id", a.ID),
			zap.String("reason", reason),
			zap.Int("removed", len(a.Worlds)-len(kept)),
			zap.Int("remaining", len(kept)))
	}
	a.Worlds = kept
}

func (e *BeliefEngine) applySoft(a *domain.Agent, item *domain.MemoryItem) {
	ev := item.Event
	switch ev.Kind {
	case domain.EventSay:
		stmt := ev.Statement
		if stmt != nil && stmt.Predicate == domain.PredicateRole && stmt.Value == string(domain.RoleBad) {
			a.RaiseSuspicion(stmt.Subject, SuspicionAccusation)
		}
	case domain.EventSabotage:
		a.RaiseSuspicion(ev.Actor, SuspicionSabotage)
	}
	// All other hearsay kinds are reserved for future rules.
}

// Corroborate is the extension point for promoting UNCERTAIN items to
// VERIFIED or DISPROVED by checking them against the agent's accumulated
// facts. No promotion rule is defined in this version: the certainty is
// returned unchanged so the absence of the transition stays visible and
// testable rather than silently missing.
func Corroborate(item *domain.MemoryItem, facts []*domain.MemoryItem) domain.Certainty {
	_ = facts
	return item.Certainty
}
