// Package extract derives structural summaries from normalized SQL text.
//
// Extraction is surface pattern search, not parsing: it never fails on
// malformed SQL and returns whatever clauses it can match. The Extractor
// interface is the seam where a grammar-aware implementation could be
// substituted without touching the comparison rules.
package extract

import (
	"github.com/querylift/sql-rewriter/pkg/types"
)

// Extractor produces a structural summary from normalized SQL.
//
// Implementations must be pure and safe for concurrent use. Absence of a
// clause yields an empty collection or string, never an error.
type Extractor interface {
	Extract(normalizedSQL string) *types.StructuralSummary
}
