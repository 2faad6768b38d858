// Package validator provides the heuristic semantic equivalence check for
// SQL rewrite candidates.
//
// The validator normalizes both statements, extracts their structural
// facets, and aggregates a fixed set of independent comparison rules into
// a single verdict with a confidence score and a list of human-readable
// differences.
//
// # Quick Start
//
//	v := validator.New()
//	result := v.Validate(
//	    "SELECT * FROM t WHERE x = 1 AND y = 2",
//	    "SELECT * FROM t WHERE y = 2 AND x = 1",
//	)
//	fmt.Println(result.IsEquivalent, result.Confidence)
//
// The check is heuristic: it tolerates syntactic restatement (reordered
// AND clauses, != vs <>) but scores structural rewrites such as
// subquery-to-join conservatively. It never executes SQL and never fails;
// any pair of input strings produces a verdict.
package validator

import (
	"github.com/querylift/sql-rewriter/pkg/extract"
	"github.com/querylift/sql-rewriter/pkg/rules"
	"github.com/querylift/sql-rewriter/pkg/sqlnorm"
	"github.com/querylift/sql-rewriter/pkg/types"
)

// equivalenceThreshold is the minimum mean rule confidence for an
// equivalent verdict. The per-rule confidences are calibrated against this
// cutoff; change neither without the other.
const equivalenceThreshold = 0.9

const (
	reasonIdentical   = "Queries are identical after normalization"
	reasonEquivalent  = "Likely equivalent"
	reasonDifferences = "Differences detected"
)

// Validator runs the comparison rules over two SQL statements.
//
// Validator is pure and safe for concurrent use by multiple goroutines.
type Validator struct {
	extractor extract.Extractor
	rules     []rules.Rule
}

// New creates a Validator with the default pattern extractor and the
// built-in rule set. Options may substitute either.
func New(opts ...Option) *Validator {
	v := &Validator{
		extractor: extract.NewPatternExtractor(),
		rules:     rules.Defaults(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate judges whether candidateSQL is likely semantically equivalent
// to originalSQL.
//
// Byte-identical statements after normalization are equivalent at
// confidence 1.0; textual identity is treated as proof, while every
// rule-scored path stays below certainty. Otherwise the rules run in
// their fixed order and the verdict requires both a mean confidence at
// the acceptance threshold and zero recorded differences.
//
// Validate never fails: malformed SQL degrades to empty extracted fields
// and the rules compare defaults against defaults.
func (v *Validator) Validate(originalSQL, candidateSQL string) *types.ValidationResult {
	normA := sqlnorm.Normalize(originalSQL)
	normB := sqlnorm.Normalize(candidateSQL)

	if normA == normB {
		return &types.ValidationResult{
			IsEquivalent: true,
			Confidence:   1.0,
			Reason:       reasonIdentical,
			Differences:  []string{},
		}
	}

	summaryA := v.extractor.Extract(normA)
	summaryB := v.extractor.Extract(normB)

	differences := []string{}
	total := 0.0
	for _, rule := range v.rules {
		outcome := rule.Compare(summaryA, summaryB)
		total += outcome.Confidence
		differences = append(differences, outcome.Differences...)
	}

	confidence := 0.0
	if len(v.rules) > 0 {
		confidence = total / float64(len(v.rules))
	}

	equivalent := confidence >= equivalenceThreshold && len(differences) == 0
	reason := reasonDifferences
	if equivalent {
		reason = reasonEquivalent
	}

	return &types.ValidationResult{
		IsEquivalent: equivalent,
		Confidence:   confidence,
		Reason:       reason,
		Differences:  differences,
	}
}
