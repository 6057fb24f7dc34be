package fixture

import (
	"slices"
	"strings"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// sortedByRank returns a copy of items ordered by ascending rank. Items
// with equal rank keep their original order.
func sortedByRank[T any](items []T, rank func(T) string) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return strings.Compare(rank(a), rank(b))
	})
	return out
}

func issueRank(issue model.FixtureIssue) string {
	return issue.RankOrDefault()
}

func outcomeRank(outcome model.AssertionOutcome) string {
	if outcome.Rank == "" {
		return model.DefaultRank
	}
	return outcome.Rank
}
