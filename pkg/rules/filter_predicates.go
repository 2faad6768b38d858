package rules

import (
	"sort"
	"strings"

	"github.com/querylift/sql-rewriter/pkg/sqlnorm"
	"github.com/querylift/sql-rewriter/pkg/types"
)

const filterMismatchConfidence = 0.7

// FilterPredicateRule compares WHERE clauses after a light predicate
// normalization: whitespace collapsed, != rewritten to <>, and top-level
// AND conjuncts sorted. Reordered conjunctive filters compare equal; OR
// expressions, nested parentheses and De Morgan restatements do not.
type FilterPredicateRule struct{}

// Name returns the rule name.
func (*FilterPredicateRule) Name() string {
	return "FilterPredicateRule"
}

// Compare scores the filter predicates: 1.0 on equality after
// normalization, 0.7 with a difference otherwise.
func (*FilterPredicateRule) Compare(a, b *types.StructuralSummary) Outcome {
	if normalizeCondition(a.WherePredicate) == normalizeCondition(b.WherePredicate) {
		return Outcome{Matches: true, Confidence: 1.0}
	}
	return Outcome{
		Matches:     false,
		Confidence:  filterMismatchConfidence,
		Differences: []string{"Filter conditions differ"},
	}
}

// normalizeCondition canonicalizes a predicate for comparison. The AND
// sort neutralizes conjunct reordering only; it does not simplify or
// reorder anything else.
func normalizeCondition(condition string) string {
	c := sqlnorm.CollapseWhitespace(condition)
	c = strings.ReplaceAll(c, "!=", "<>")
	parts := sqlnorm.SplitTopLevelAnd(c)
	if len(parts) < 2 {
		return c
	}
	sort.Strings(parts)
	return strings.Join(parts, " AND ")
}
