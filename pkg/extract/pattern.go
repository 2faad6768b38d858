package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/querylift/sql-rewriter/pkg/sqlnorm"
	"github.com/querylift/sql-rewriter/pkg/types"
)

var (
	// One or two words after FROM so a trailing alias token rides along.
	// The second word can also swallow the next keyword; both sides of a
	// comparison go through the same pattern, so the noise cancels out.
	fromTableRe = regexp.MustCompile(`(?i)\bFROM\s+(\w+(?:\s+\w+)?)`)
	joinTableRe = regexp.MustCompile(`(?i)\bJOIN\s+(\w+(?:\s+\w+)?)`)

	whereRe   = regexp.MustCompile(`(?i)\bWHERE\s+(.*?)(?:\bGROUP BY\b|\bORDER BY\b|$)`)
	groupByRe = regexp.MustCompile(`(?i)\bGROUP BY\s+(.*?)(?:\bHAVING\b|\bORDER BY\b|$)`)
	orderByRe = regexp.MustCompile(`(?i)\bORDER BY\s+(.*)$`)

	selectRe = regexp.MustCompile(`(?i)\bSELECT\s+`)

	// Join predicates only match single-word table names; an aliased join
	// yields no predicate at all. Deliberate extraction limitation.
	joinOnRe   = regexp.MustCompile(`(?i)(?:\b(INNER|LEFT|RIGHT|FULL)\s+)?\bJOIN\s+\w+\s+ON\s+`)
	joinStopRe = regexp.MustCompile(`(?i)\b(?:JOIN|WHERE|GROUP|ORDER)\b`)
)

// PatternExtractor is the default Extractor. It slices clauses out of the
// normalized text with case-insensitive pattern search.
type PatternExtractor struct{}

// NewPatternExtractor creates the default pattern-based extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract builds a StructuralSummary from normalized SQL. It is best-effort
// and never fails.
func (*PatternExtractor) Extract(normalizedSQL string) *types.StructuralSummary {
	return &types.StructuralSummary{
		Kind:             statementKind(normalizedSQL),
		Tables:           extractTables(normalizedSQL),
		ProjectedColumns: extractProjection(normalizedSQL),
		WherePredicate:   extractWhere(normalizedSQL),
		JoinPredicates:   extractJoinPredicates(normalizedSQL),
		GroupByColumns:   extractGroupBy(normalizedSQL),
		OrderByColumns:   extractOrderBy(normalizedSQL),
	}
}

func statementKind(sql string) types.StatementKind {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return types.StatementKind_OTHER
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT":
		return types.StatementKind_SELECT
	case "INSERT":
		return types.StatementKind_INSERT
	case "UPDATE":
		return types.StatementKind_UPDATE
	case "DELETE":
		return types.StatementKind_DELETE
	default:
		return types.StatementKind_OTHER
	}
}

// extractTables unions the primary table after FROM with every table after
// a JOIN keyword, lowercased and sorted for determinism.
func extractTables(sql string) []string {
	seen := make(map[string]struct{})
	if m := fromTableRe.FindStringSubmatch(sql); m != nil {
		seen[strings.ToLower(strings.TrimSpace(m[1]))] = struct{}{}
	}
	for _, m := range joinTableRe.FindAllStringSubmatch(sql, -1) {
		seen[strings.ToLower(strings.TrimSpace(m[1]))] = struct{}{}
	}
	return sortedSet(seen)
}

// extractProjection captures the segment between SELECT and the first
// top-level FROM. A '*' anywhere in the segment collapses the whole
// projection to the wildcard sentinel.
func extractProjection(sql string) []string {
	loc := selectRe.FindStringIndex(sql)
	if loc == nil {
		return nil
	}
	end := topLevelKeywordIndex(sql, loc[1], "FROM")
	if end < 0 {
		return nil
	}
	segment := strings.TrimSpace(sql[loc[1]:end])
	if strings.Contains(segment, "*") {
		return []string{types.WildcardProjection}
	}
	seen := make(map[string]struct{})
	for _, col := range sqlnorm.SplitTopLevel(segment, ',') {
		seen[col] = struct{}{}
	}
	return sortedSet(seen)
}

func extractWhere(sql string) string {
	if m := whereRe.FindStringSubmatch(sql); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractJoinPredicates captures one (kind, predicate) pair per
// JOIN <table> ON occurrence. The predicate runs to the next
// JOIN/WHERE/GROUP/ORDER keyword or end of string; scanning resumes at
// that keyword so consecutive joins are each captured.
func extractJoinPredicates(sql string) []types.JoinPredicate {
	var preds []types.JoinPredicate
	offset := 0
	for offset < len(sql) {
		m := joinOnRe.FindStringSubmatchIndex(sql[offset:])
		if m == nil {
			break
		}
		kind := ""
		if m[2] >= 0 {
			kind = strings.ToUpper(sql[offset+m[2] : offset+m[3]])
		}
		predStart := offset + m[1]
		predEnd := len(sql)
		next := predStart
		if stop := joinStopRe.FindStringIndex(sql[predStart:]); stop != nil {
			predEnd = predStart + stop[0]
			next = predStart + stop[0]
		} else {
			next = len(sql)
		}
		if pred := strings.TrimSpace(sql[predStart:predEnd]); pred != "" {
			preds = append(preds, types.JoinPredicate{Kind: kind, Predicate: pred})
		}
		offset = next
	}
	return preds
}

func extractGroupBy(sql string) []string {
	m := groupByRe.FindStringSubmatch(sql)
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, col := range sqlnorm.SplitTopLevel(m[1], ',') {
		seen[col] = struct{}{}
	}
	return sortedSet(seen)
}

func extractOrderBy(sql string) []string {
	m := orderByRe.FindStringSubmatch(sql)
	if m == nil {
		return nil
	}
	return sqlnorm.SplitTopLevel(m[1], ',')
}

// topLevelKeywordIndex returns the index of the first whole-word occurrence
// of keyword at parenthesis depth zero, at or after start, or -1.
func topLevelKeywordIndex(s string, start int, keyword string) int {
	depth := 0
	for i := start; i+len(keyword) <= len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && isWordAt(s, i, keyword) {
				return i
			}
		}
	}
	return -1
}

// isWordAt reports whether keyword occurs at s[i] with word boundaries on
// both sides, case-insensitively.
func isWordAt(s string, i int, keyword string) bool {
	if !strings.EqualFold(s[i:i+len(keyword)], keyword) {
		return false
	}
	if i > 0 && isWordChar(s[i-1]) {
		return false
	}
	if end := i + len(keyword); end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func sortedSet(seen map[string]struct{}) []string {
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
