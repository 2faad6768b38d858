package rules

import (
	"strings"

	"github.com/querylift/sql-rewriter/pkg/types"
)

const joinMismatchConfidence = 0.8

// JoinPredicateRule compares JOIN ... ON conditions as an unordered set of
// "<kind> <predicate>" strings, so reordered but identical joins still
// match.
type JoinPredicateRule struct{}

// Name returns the rule name.
func (*JoinPredicateRule) Name() string {
	return "JoinPredicateRule"
}

// Compare scores the join predicate sets: 1.0 on equality, 0.8 with a
// difference otherwise.
func (*JoinPredicateRule) Compare(a, b *types.StructuralSummary) Outcome {
	if stringSetsEqual(joinKeys(a.JoinPredicates), joinKeys(b.JoinPredicates)) {
		return Outcome{Matches: true, Confidence: 1.0}
	}
	return Outcome{
		Matches:     false,
		Confidence:  joinMismatchConfidence,
		Differences: []string{"Join conditions differ"},
	}
}

func joinKeys(preds []types.JoinPredicate) []string {
	keys := make([]string, 0, len(preds))
	for _, p := range preds {
		keys = append(keys, strings.TrimSpace(p.Kind+" "+p.Predicate))
	}
	return keys
}
