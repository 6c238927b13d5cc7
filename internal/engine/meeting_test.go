package engine

import (
	"testing"

	"github.com/stanzixinwan/del-game/internal/domain"
)

func TestMeetingPacing(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C", "D"})
	w.startMeeting("npc1")

	// 4 statement units + 1 voting unit + 1 result unit, each taking
	// MeetingStepInterval of sim time: 12 ticks at delta=1.0.
	for i := 0; i < 11; i++ {
		w.Advance(1.0)
		if w.phase != PhaseMeeting {
			t.Fatalf("meeting finished early at tick %d", i+1)
		}
	}
	w.Advance(1.0)
	if w.phase != PhasePlaying {
		t.Fatal("meeting should be over after 12 ticks")
	}
	if w.meeting != nil {
		t.Fatal("session should be discarded")
	}
}

func TestMeetingTakesAtMostOneStepPerAdvance(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C"})
	w.startMeeting("npc0")

	// A huge delta still advances the machine by a single unit.
	w.Advance(100.0)
	if w.meeting == nil || len(w.meeting.queue) != 2 {
		t.Fatal("one oversized tick must consume exactly one statement unit")
	}
}

func TestMeetingRestoresLocations(t *testing.T) {
	locs := []string{"A", "B", "C", "D"}
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		locs)
	w.startMeeting("npc2")

	for _, a := range w.agents {
		if a.Location != w.meetingRoom {
			t.Fatalf("%s not moved to the meeting room", a.ID)
		}
	}

	for w.phase == PhaseMeeting {
		w.Advance(1.0)
	}

	for i, a := range w.agents {
		if a.Location != locs[i] {
			t.Errorf("%s restored to %s, want %s", a.ID, a.Location, locs[i])
		}
		if a.Behavior != domain.BehaviorIdle {
			t.Errorf("%s behavior %s, want idle", a.ID, a.Behavior)
		}
	}
}

func TestTiedVoteEjectsNobody(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C", "D"})
	w.policies["npc0"] = &stubPolicy{vote: "npc1"}
	w.policies["npc1"] = &stubPolicy{vote: "npc2"}
	w.startMeeting("npc3")

	for w.phase == PhaseMeeting {
		w.Advance(1.0)
	}

	for _, a := range w.agents {
		if !a.Alive() {
			t.Fatalf("%s ejected on a tied vote", a.ID)
		}
	}
	ev := w.events[len(w.events)-1]
	if ev.Kind != domain.EventVoteResult || ev.VoteResult.Ejected != "" {
		t.Fatalf("expected empty ejection in the tally, got %+v", ev.VoteResult)
	}
	if len(ev.VoteResult.Votes) != 2 {
		t.Fatalf("expected 2 ballots recorded, got %d", len(ev.VoteResult.Votes))
	}
}

func TestEjectionReachesTheEjected(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C", "D", "A"})
	for _, id := range []string{"npc1", "npc2", "npc3"} {
		w.policies[id] = &stubPolicy{vote: "npc4"}
	}
	w.startMeeting("npc1")

	for w.phase == PhaseMeeting {
		w.Advance(1.0)
	}

	npc4 := w.byID["npc4"]
	if npc4.Alive() || npc4.Location != "" {
		t.Fatal("npc4 should be dead with no location")
	}
	if w.result != ResultNone {
		t.Fatalf("3 good vs 1 bad should keep playing, got %q", w.result)
	}

	// The ejected agent watched the tally itself: last memory is the
	// vote_result as an observation, and the disjunctive voter rule
	// leaves only worlds blaming a voter.
	last := npc4.Memory[len(npc4.Memory)-1]
	if last.Event.Kind != domain.EventVoteResult || last.SourceType != domain.SourceObservation {
		t.Fatalf("expected vote_result observation, got %s/%s", last.Event.Kind, last.SourceType)
	}
	if len(npc4.Worlds) != 3 {
		t.Fatalf("expected 3 worlds after the voter constraint, got %d", len(npc4.Worlds))
	}
	for _, world := range npc4.Worlds {
		if world["npc0"] == domain.RoleBad {
			t.Fatal("the non-voter world should have been eliminated")
		}
	}

	// Survivors learned the ejected agent was good.
	for _, id := range []string{"npc1", "npc2", "npc3"} {
		for _, world := range w.byID[id].Worlds {
			if world["npc4"] == domain.RoleBad {
				t.Fatalf("%s still holds an npc4-bad world", id)
			}
		}
	}
}

func TestEjectingLastBadEndsGame(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C", "D"})
	for _, id := range []string{"npc1", "npc2", "npc3"} {
		w.policies[id] = &stubPolicy{vote: "npc0"}
	}
	w.startMeeting("npc1")

	for w.phase == PhaseMeeting && w.result == ResultNone {
		w.Advance(1.0)
	}

	if w.result != ResultGoodWin {
		t.Fatalf("expected good win, got %q", w.result)
	}
	ev := w.events[len(w.events)-1]
	if !ev.VoteResult.GameEnded {
		t.Fatal("tally should flag the game end")
	}
	// Nobody goes back to a room after a terminal meeting.
	for _, id := range []string{"npc1", "npc2", "npc3"} {
		if w.byID[id].Location != w.meetingRoom {
			t.Errorf("%s left the meeting room after the game ended", id)
		}
	}
}

func TestDeadSpeakersAreSkipped(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C", "D"})
	w.startMeeting("npc0")

	// npc1 dies mid-meeting (hypothetically); its floor slot vanishes
	// without consuming a unit.
	w.byID["npc1"].Life = domain.LifeDead

	w.Advance(2.0) // npc0 speaks
	w.Advance(2.0) // npc1 skipped, npc2 speaks
	if len(w.meeting.queue) != 1 || w.meeting.queue[0] != "npc3" {
		t.Fatalf("expected only npc3 pending, got %v", w.meeting.queue)
	}
}

func TestTimerMeetingAttributedToFirstLiving(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C"})
	w.meetingInterval = 10

	for i := 0; i < 10; i++ {
		w.Advance(1.0)
	}

	if w.phase != PhaseMeeting {
		t.Fatal("expected a timer-triggered meeting")
	}
	if w.meeting.reporter != "npc0" {
		t.Fatalf("expected npc0 as default reporter, got %s", w.meeting.reporter)
	}
}

func TestStatementAboutUnknownSubjectIsDropped(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C"})
	w.policies["npc0"] = &stubPolicy{
		stmt: domain.NewStatement(domain.PredicateRole, "ghost", "bad", "npc0", 0),
	}
	w.startMeeting("npc0")

	w.Advance(2.0) // npc0's slot

	if len(w.events) != 0 {
		t.Fatalf("invalid statement must produce no event, got %d", len(w.events))
	}
}

func TestTally(t *testing.T) {
	if got := tally(map[string]string{}); got != "" {
		t.Errorf("empty ballot box should eject nobody, got %q", got)
	}
	if got := tally(map[string]string{"a": "x", "b": "y"}); got != "" {
		t.Errorf("tie should eject nobody, got %q", got)
	}
	if got := tally(map[string]string{"a": "x", "b": "x", "c": "y"}); got != "x" {
		t.Errorf("expected x ejected, got %q", got)
	}
}
