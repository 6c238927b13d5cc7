package engine

import (
	"github.com/stanzixinwan/del-game/internal/domain"
	"go.uber.org/zap"
)

// applyAction materializes one policy decision into world-state changes and
// an event. Invalid decisions (unknown room, unreachable room, dead or
// absent kill target) are absorbed as no-ops rather than propagated.
func (w *World) applyAction(a *domain.Agent, act Action) {
	if !a.Alive() {
		return
	}
	switch act.Name {
	case ActionEnter:
		w.applyEnter(a, act.Target)
	case ActionKill:
		w.applyKill(a, act.Target)
	case ActionSabotage:
		w.applySabotage(a)
	case ActionReport:
		w.applyReport(a)
	case ActionTask:
		a.Behavior = domain.BehaviorTask
	case ActionIdle:
		a.Behavior = domain.BehaviorIdle
	default:
		w.logger.Debug("ignoring unknown action",
			zap.String("agent_id", a.ID),
			zap.String("action", string(act.Name)))
	}
}

// applyEnter moves the agent into an adjacent room. The move is witnessed
// by whoever is already there.
func (w *World) applyEnter(a *domain.Agent, room string) {
	if _, ok := w.rooms[room]; !ok {
		return
	}
	if a.Location != "" && !w.AreConnected(a.Location, room) {
		return
	}
	a.Location = room
	a.Behavior = domain.BehaviorIdle

	var witnesses []string
	for _, other := range w.LivingAgents() {
		if other.ID != a.ID && other.Location == room {
			witnesses = append(witnesses, other.ID)
		}
	}
	visibility := domain.VisibilityPrivate
	if len(witnesses) > 0 {
		visibility = domain.VisibilityWitnessed
	}
	w.createEvent(domain.NewEvent(domain.EventEnter, a.ID, room, witnesses, visibility, w.now))
}

// applyKill eliminates the target. Bystanders in the room witness the kill
// as hard evidence against the actor.
func (w *World) applyKill(a *domain.Agent, targetID string) {
	target := w.byID[targetID]
	if target == nil || !target.Alive() || target.Location != a.Location {
		return
	}

	var witnesses []string
	for _, other := range w.LivingAgents() {
		if other.ID != a.ID && other.ID != targetID && other.Location == a.Location {
			witnesses = append(witnesses, other.ID)
		}
	}
	visibility := domain.VisibilityPrivate
	if len(witnesses) > 0 {
		visibility = domain.VisibilityWitnessed
	}
	w.createEvent(domain.NewEvent(domain.EventKill, a.ID, a.Location, witnesses, visibility, w.now))

	target.Life = domain.LifeDead
	a.Behavior = domain.BehaviorIdle
	w.logger.Info("agent killed",
		zap.String("actor", a.ID),
		zap.String("target", targetID),
		zap.String("location", a.Location),
		zap.Strings("witnesses", witnesses))

	w.evaluateResult()
}

// applySabotage raises a ship-wide alarm: a public event everyone else
// hears about second-hand.
func (w *World) applySabotage(a *domain.Agent) {
	a.Behavior = domain.BehaviorIdle
	w.createEvent(domain.NewEvent(domain.EventSabotage, a.ID, a.Location, nil, domain.VisibilityPublic, w.now))
}

// applyReport announces a find publicly, clears any corpses at the
// reporter's location, and convenes a meeting.
func (w *World) applyReport(a *domain.Agent) {
	var witnesses []string
	for _, other := range w.LivingAgents() {
		if other.ID != a.ID {
			witnesses = append(witnesses, other.ID)
		}
	}
	w.createEvent(domain.NewEvent(domain.EventReport, a.ID, a.Location, witnesses, domain.VisibilityPublic, w.now))

	// A reported corpse is cleared; its location becomes unknown so it
	// cannot be reported twice.
	for _, dead := range w.DeadAgentsAt(a.Location) {
		dead.Location = ""
	}

	w.startMeeting(a.ID)
}
