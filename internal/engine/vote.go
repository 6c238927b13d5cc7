package engine

// collectVotes asks every living agent, in ascending id order, for a
// ballot. The whole round completes inside a single meeting step-unit:
// only statements are paced agent-by-agent. A ballot for a dead or unknown
// agent is an invalid decision and counts as an abstention.
func (w *World) collectVotes() map[string]string {
	votes := make(map[string]string)
	for _, voter := range w.agents {
		if !voter.Alive() {
			continue
		}
		target, ok := w.policies[voter.ID].ChooseVote(voter, w, w.rng)
		if !ok {
			continue
		}
		if t := w.byID[target]; t == nil || !t.Alive() {
			continue
		}
		votes[voter.ID] = target
	}
	return votes
}

// tally returns the agent with strictly the most votes, or "" on a tie or
// an empty ballot box.
func tally(votes map[string]string) string {
	counts := make(map[string]int)
	for _, target := range votes {
		counts[target]++
	}

	best, max, tied := "", 0, false
	for target, n := range counts {
		switch {
		case n > max:
			best, max, tied = target, n, false
		case n == max:
			tied = true
		}
	}
	if tied || max == 0 {
		return ""
	}
	return best
}
