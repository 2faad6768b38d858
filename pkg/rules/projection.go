package rules

import (
	"fmt"

	"github.com/querylift/sql-rewriter/pkg/types"
)

const (
	// wildcardProjectionConfidence caps a wildcard comparison below
	// certainty: SELECT * on either side is assumed compatible without
	// further checking, a known heuristic gap.
	wildcardProjectionConfidence = 0.9

	projectionMismatchConfidence = 0.7
)

// ProjectionRule compares the projected column sets. Projection order is
// deliberately ignored; order-insensitive equality is deemed close enough
// for a rewrite candidate.
type ProjectionRule struct{}

// Name returns the rule name.
func (*ProjectionRule) Name() string {
	return "ProjectionRule"
}

// Compare scores the projections: 0.9 without a difference if either side
// used a wildcard, otherwise 1.0 on set equality and 0.7 with a difference
// listing both sets.
func (*ProjectionRule) Compare(a, b *types.StructuralSummary) Outcome {
	if a.HasWildcardProjection() || b.HasWildcardProjection() {
		return Outcome{Matches: true, Confidence: wildcardProjectionConfidence}
	}
	if stringSetsEqual(a.ProjectedColumns, b.ProjectedColumns) {
		return Outcome{Matches: true, Confidence: 1.0}
	}
	return Outcome{
		Matches:    false,
		Confidence: projectionMismatchConfidence,
		Differences: []string{
			fmt.Sprintf("Different columns: %v vs %v", a.ProjectedColumns, b.ProjectedColumns),
		},
	}
}
