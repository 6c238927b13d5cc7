package domain

import (
	"fmt"
	"sort"
)

// Role is an agent's alignment. Assigned at setup, immutable afterwards.
type Role string

const (
	RoleGood Role = "good"
	RoleBad  Role = "bad"
)

// Hypothesis is one complete candidate assignment of a role to every agent
// in the game — a single possible world of the Kripke model.
type Hypothesis map[string]Role

// NewHypothesis validates that the assignment covers the closed agent set
// exactly once per agent with exactly numBad bad roles.
func NewHypothesis(assignment map[string]Role, ids []string, numBad int) (Hypothesis, error) {
	if len(assignment) != len(ids) {
		return nil, fmt.Errorf("hypothesis covers %d agents, want %d", len(assignment), len(ids))
	}
	bad := 0
	for _, id := range ids {
		role, ok := assignment[id]
		if !ok {
			return nil, fmt.Errorf("hypothesis missing agent %s", id)
		}
		if role == RoleBad {
			bad++
		}
	}
	if bad != numBad {
		return nil, fmt.Errorf("hypothesis has %d bad agents, want %d", bad, numBad)
	}
	return Hypothesis(assignment), nil
}

// BadAgents returns the ids assigned bad in this world, sorted.
func (h Hypothesis) BadAgents() []string {
	var out []string
	for id, role := range h {
		if role == RoleBad {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the assignment.
func (h Hypothesis) Clone() Hypothesis {
	out := make(Hypothesis, len(h))
	for id, role := range h {
		out[id] = role
	}
	return out
}

// EnumerateHypotheses produces every assignment of exactly numBad bad roles
// over ids that is consistent with the observer's setup knowledge: its own
// role is correct in every candidate, and a bad observer knows the full bad
// team (so it holds exactly one candidate). ids must be the closed agent set.
func EnumerateHypotheses(ids []string, numBad int, selfID string, selfRole Role, badTeam []string) []Hypothesis {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	if selfRole == RoleBad {
		world := make(Hypothesis, len(sorted))
		for _, id := range sorted {
			world[id] = RoleGood
		}
		for _, id := range badTeam {
			world[id] = RoleBad
		}
		return []Hypothesis{world}
	}

	var worlds []Hypothesis
	for _, combo := range combinations(len(sorted), numBad) {
		world := make(Hypothesis, len(sorted))
		for _, id := range sorted {
			world[id] = RoleGood
		}
		for _, i := range combo {
			world[sorted[i]] = RoleBad
		}
		if world[selfID] != selfRole {
			continue
		}
		worlds = append(worlds, world)
	}
	return worlds
}

// combinations returns all k-subsets of {0..n-1} in lexicographic order.
func combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	var out [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i < n; i++ {
			combo[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
