package validator

import (
	"github.com/querylift/sql-rewriter/pkg/extract"
	"github.com/querylift/sql-rewriter/pkg/rules"
)

// Option is a functional option for customizing a Validator.
type Option func(*Validator)

// WithExtractor substitutes the structural extractor. This is the seam for
// plugging in a grammar-aware extractor without touching the rules.
//
// Example:
//
//	v := validator.New(validator.WithExtractor(myParserBackedExtractor))
func WithExtractor(e extract.Extractor) Option {
	return func(v *Validator) {
		if e != nil {
			v.extractor = e
		}
	}
}

// WithRules replaces the rule set. Rules run in slice order; their
// confidences are averaged into the overall score.
//
// Example:
//
//	v := validator.New(validator.WithRules(customRegistry.All()))
func WithRules(rs []rules.Rule) Option {
	return func(v *Validator) {
		if len(rs) > 0 {
			v.rules = rs
		}
	}
}
