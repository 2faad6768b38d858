package rules

import (
	"fmt"

	"github.com/querylift/sql-rewriter/pkg/types"
)

// StatementKindRule rejects comparisons across statement kinds. A SELECT
// can never be a rewrite of an UPDATE, so a mismatch scores zero.
type StatementKindRule struct{}

// Name returns the rule name.
func (*StatementKindRule) Name() string {
	return "StatementKindRule"
}

// Compare scores the statement kinds: 1.0 on match, 0.0 with a difference
// on mismatch.
func (*StatementKindRule) Compare(a, b *types.StructuralSummary) Outcome {
	if a.Kind != b.Kind {
		return Outcome{
			Matches:    false,
			Confidence: 0.0,
			Differences: []string{
				fmt.Sprintf("Statement type mismatch: %s vs %s", a.Kind, b.Kind),
			},
		}
	}
	return Outcome{Matches: true, Confidence: 1.0}
}
