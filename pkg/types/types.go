package types

// StatementKind represents the kind of SQL statement, derived from the
// leading keyword of the normalized text.
type StatementKind int32

const (
	StatementKind_KIND_UNSPECIFIED StatementKind = 0
	StatementKind_SELECT           StatementKind = 1
	StatementKind_INSERT           StatementKind = 2
	StatementKind_UPDATE           StatementKind = 3
	StatementKind_DELETE           StatementKind = 4
	StatementKind_OTHER            StatementKind = 5
)

func (k StatementKind) String() string {
	switch k {
	case StatementKind_KIND_UNSPECIFIED:
		return "KIND_UNSPECIFIED"
	case StatementKind_SELECT:
		return "SELECT"
	case StatementKind_INSERT:
		return "INSERT"
	case StatementKind_UPDATE:
		return "UPDATE"
	case StatementKind_DELETE:
		return "DELETE"
	case StatementKind_OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// WildcardProjection is the sentinel value stored in ProjectedColumns when
// the projection list contains '*'.
const WildcardProjection = "*"

// JoinKind values as extracted from the join qualifier. The empty string
// means a plain JOIN with no qualifier.
const (
	JoinKind_INNER = "INNER"
	JoinKind_LEFT  = "LEFT"
	JoinKind_RIGHT = "RIGHT"
	JoinKind_FULL  = "FULL"
)

// JoinPredicate is one JOIN ... ON ... occurrence.
type JoinPredicate struct {
	// Kind is the join qualifier (INNER, LEFT, RIGHT, FULL) or "" for a
	// plain JOIN.
	Kind string `json:"kind" yaml:"kind"`

	// Predicate is the ON condition text.
	Predicate string `json:"predicate" yaml:"predicate"`
}

// StructuralSummary is a shallow, pattern-extracted digest of a SQL
// statement's clauses. It is derived purely from its source string and is
// immutable once produced.
type StructuralSummary struct {
	// Kind is derived from the leading keyword.
	Kind StatementKind `json:"kind" yaml:"kind"`

	// Tables referenced in FROM and JOIN clauses, lowercased and sorted.
	// Alias tokens are retained as part of the identifier as extracted.
	Tables []string `json:"tables" yaml:"tables"`

	// ProjectedColumns between SELECT and FROM, trimmed and sorted, or
	// the single WildcardProjection sentinel if '*' appears anywhere in
	// the projection list.
	ProjectedColumns []string `json:"projected_columns" yaml:"projected_columns"`

	// WherePredicate is the raw WHERE clause text, "" if absent.
	WherePredicate string `json:"where_predicate" yaml:"where_predicate"`

	// JoinPredicates holds one entry per JOIN ... ON ... occurrence, in
	// statement order.
	JoinPredicates []JoinPredicate `json:"join_predicates" yaml:"join_predicates"`

	// GroupByColumns from GROUP BY, trimmed and sorted.
	GroupByColumns []string `json:"group_by_columns" yaml:"group_by_columns"`

	// OrderByColumns from ORDER BY, trimmed, statement order preserved.
	OrderByColumns []string `json:"order_by_columns" yaml:"order_by_columns"`
}

// HasWildcardProjection reports whether the projection list collapsed to
// the wildcard sentinel.
func (s *StructuralSummary) HasWildcardProjection() bool {
	return len(s.ProjectedColumns) == 1 && s.ProjectedColumns[0] == WildcardProjection
}

// ValidationResult is the verdict for one original/candidate pair.
//
// IsEquivalent is a heuristic judgment, not a proof: the validator scores
// structural agreement and can report both false negatives (valid rewrites
// that restructure the query) and false positives (two statements with no
// extractable structure compare equal on empty defaults).
type ValidationResult struct {
	// IsEquivalent is true when the overall confidence reaches the
	// acceptance threshold and no rule recorded a difference.
	IsEquivalent bool `json:"is_equivalent" yaml:"is_equivalent"`

	// Confidence in [0, 1]. 1.0 is reserved for byte-identical
	// normalized text; every rule-scored path stays below certainty.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Reason is a fixed human-readable summary of the verdict.
	Reason string `json:"reason" yaml:"reason"`

	// Differences lists per-rule findings in rule order. Empty when no
	// rule disagreed.
	Differences []string `json:"differences" yaml:"differences"`
}
