package engine

import (
	"math/rand"
	"testing"

	"github.com/stanzixinwan/del-game/internal/domain"
)

func keepWorlds(a *domain.Agent, keep func(domain.Hypothesis) bool) {
	var kept []domain.Hypothesis
	for _, w := range a.Worlds {
		if keep(w) {
			kept = append(kept, w)
		}
	}
	a.Worlds = kept
}

func TestGoodVotePicksMostSuspectWorld(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleGood, domain.RoleGood, domain.RoleGood, domain.RoleBad},
		[]string{"A", "B", "C", "D"})
	a := w.byID["npc0"]

	// Narrow npc0 down to the single world blaming npc3.
	keepWorlds(a, func(h domain.Hypothesis) bool { return h["npc3"] == domain.RoleBad })

	p := &GoodPolicy{}
	target, ok := p.ChooseVote(a, w, rand.New(rand.NewSource(1)))
	if !ok || target != "npc3" {
		t.Fatalf("expected vote for npc3, got %q (ok=%v)", target, ok)
	}
}

func TestGoodVoteAbstainsWithoutEvidence(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleGood, domain.RoleGood, domain.RoleGood, domain.RoleBad},
		[]string{"A", "B", "C", "D"})
	a := w.byID["npc0"]
	a.Worlds = nil // nothing to go on

	p := &GoodPolicy{}
	if _, ok := p.ChooseVote(a, w, rand.New(rand.NewSource(1))); ok {
		t.Fatal("expected abstention with an empty candidate set")
	}
}

func TestGoodVoteBreaksTieBySuspicion(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleGood, domain.RoleGood, domain.RoleGood, domain.RoleBad},
		[]string{"A", "B", "C", "D"})
	a := w.byID["npc0"]

	// One world each for npc1 and npc3; suspicion singles out npc1.
	keepWorlds(a, func(h domain.Hypothesis) bool {
		return h["npc1"] == domain.RoleBad || h["npc3"] == domain.RoleBad
	})
	a.Suspicion["npc1"] = 0.3

	p := &GoodPolicy{}
	target, ok := p.ChooseVote(a, w, rand.New(rand.NewSource(1)))
	if !ok || target != "npc1" {
		t.Fatalf("expected suspicion tiebreak toward npc1, got %q (ok=%v)", target, ok)
	}

	// With equal suspicion the tie is unresolved: abstain.
	a.Suspicion["npc3"] = 0.3
	if _, ok := p.ChooseVote(a, w, rand.New(rand.NewSource(1))); ok {
		t.Fatal("expected abstention on an unresolved tie")
	}
}

func TestGoodActionReportsCorpse(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "A", "A", "B"})
	w.byID["npc1"].Life = domain.LifeDead

	p := &GoodPolicy{}
	act := p.ChooseAction(w.byID["npc2"], w, rand.New(rand.NewSource(1)))
	if act.Name != ActionReport {
		t.Fatalf("expected report over a corpse, got %s", act.Name)
	}
}

func TestGoodActionReportsWhenNearlyCertain(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleGood, domain.RoleGood, domain.RoleGood, domain.RoleBad},
		[]string{"A", "B", "C", "D"})
	a := w.byID["npc0"]
	keepWorlds(a, func(h domain.Hypothesis) bool { return h["npc3"] == domain.RoleBad })

	p := &GoodPolicy{}
	act := p.ChooseAction(a, w, rand.New(rand.NewSource(1)))
	if act.Name != ActionReport {
		t.Fatalf("expected report when down to one world, got %s", act.Name)
	}
}

func TestGoodStatementAccusesWitnessedKiller(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "A", "A", "B"})
	a := w.byID["npc2"]
	kill := domain.NewEvent(domain.EventKill, "npc0", "A", []string{"npc2"}, domain.VisibilityWitnessed, 4.0)
	a.Remember(domain.NewObservation(kill))

	p := &GoodPolicy{}
	stmt := p.ChooseStatement(a, w, rand.New(rand.NewSource(1)))
	if stmt == nil {
		t.Fatal("expected an accusation")
	}
	if stmt.Predicate != domain.PredicateRole || stmt.Subject != "npc0" || stmt.Value != string(domain.RoleBad) {
		t.Fatalf("expected role/npc0/bad, got %s/%s/%s", stmt.Predicate, stmt.Subject, stmt.Value)
	}
}

func TestBadActionStrikesLoneTarget(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood},
		[]string{"A", "A", "B"})

	p := &BadPolicy{}
	act := p.ChooseAction(w.byID["npc0"], w, rand.New(rand.NewSource(1)))
	if act.Name != ActionKill || act.Target != "npc1" {
		t.Fatalf("expected kill npc1, got %s/%s", act.Name, act.Target)
	}
}

func TestBadActionSparesPartnerAndCrowds(t *testing.T) {
	p := &BadPolicy{}

	// Alone with the partner: no kill.
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleBad, domain.RoleGood},
		[]string{"A", "A", "B"})
	if act := p.ChooseAction(w.byID["npc0"], w, rand.New(rand.NewSource(1))); act.Name == ActionKill {
		t.Fatal("must not kill the partner")
	}

	// Two potential witnesses: no kill.
	w = buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood},
		[]string{"A", "A", "A"})
	if act := p.ChooseAction(w.byID["npc0"], w, rand.New(rand.NewSource(1))); act.Name == ActionKill {
		t.Fatal("must not kill in a crowded room")
	}
}

func TestBadVoteTargetsAreAlive(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "B", "C", "D"})
	a := w.byID["npc0"]
	rng := rand.New(rand.NewSource(3))

	p := &BadPolicy{}
	for i := 0; i < 20; i++ {
		target, ok := p.ChooseVote(a, w, rng)
		if !ok {
			t.Fatal("a bad agent with living targets never abstains")
		}
		if target == a.ID {
			t.Fatal("must not vote for itself")
		}
		if !w.byID[target].Alive() {
			t.Fatalf("voted for dead agent %s", target)
		}
	}
}

func TestBadStatementFakesAlibiOverCorpse(t *testing.T) {
	w := buildWorld(t,
		[]domain.Role{domain.RoleBad, domain.RoleGood, domain.RoleGood, domain.RoleGood},
		[]string{"A", "A", "B", "C"})
	w.applyKill(w.byID["npc0"], "npc1") // corpse stays at A
	w.startMeeting("npc2")

	p := &BadPolicy{}
	stmt := p.ChooseStatement(w.byID["npc0"], w, rand.New(rand.NewSource(1)))
	if stmt == nil {
		t.Fatal("expected a statement")
	}
	if stmt.Predicate != domain.PredicateLocation || stmt.Subject != "npc0" {
		t.Fatalf("expected a self location claim, got %s about %s", stmt.Predicate, stmt.Subject)
	}
	if stmt.Value == "A" || stmt.Value == w.meetingRoom {
		t.Fatalf("alibi %q is not credible", stmt.Value)
	}
}

func TestPolicyForRole(t *testing.T) {
	if _, ok := PolicyForRole(domain.RoleBad).(*BadPolicy); !ok {
		t.Fatal("expected BadPolicy for bad role")
	}
	if _, ok := PolicyForRole(domain.RoleGood).(*GoodPolicy); !ok {
		t.Fatal("expected GoodPolicy for good role")
	}
}
