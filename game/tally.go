package game

import (
	"sort"

	"github.com/MrAsnssr/Fraud/domain"
)

// TallyResult is the outcome of counting a completed voting round.
type TallyResult struct {
	// Counts maps player id to the number of votes received. Players
	// with zero votes are absent.
	Counts map[string]int
	// Leaders holds every player id tied for the highest count, sorted
	// for determinism.
	Leaders []string
	// Eliminated is set when a single leader exists.
	Eliminated string
	// Tied reports whether the round needs a re-vote.
	Tied bool
}

// CountVotes tallies a voting round. Votes are assumed to belong to a
// single voting round already.
func CountVotes(votes []domain.Vote) TallyResult {
	counts := make(map[string]int, len(votes))
	for _, v := range votes {
		counts[v.TargetID]++
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	var leaders []string
	for id, n := range counts {
		if n == max {
			leaders = append(leaders, id)
		}
	}
	sort.Strings(leaders)

	res := TallyResult{Counts: counts, Leaders: leaders}
	if len(leaders) == 1 {
		res.Eliminated = leaders[0]
	} else {
		res.Tied = true
	}
	return res
}
