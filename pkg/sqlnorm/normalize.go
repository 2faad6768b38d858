// Package sqlnorm canonicalizes raw SQL text for comparison.
//
// Normalization is lossy and best-effort: it uppercases recognized
// keywords, strips comments, and standardizes spacing so that
// textually-different-but-intent-identical statements compare equal. It is
// not a tokenizer; malformed SQL still produces some normalized string.
package sqlnorm

import (
	"regexp"
	"strings"
)

// Recognized SQL keywords for case normalization. Identifiers that collide
// with these words get uppercased too; the comparison rules only ever see
// both sides through the same pass, so the collision is harmless.
var keywords = []string{
	"select", "from", "where", "join", "inner", "left", "right", "full",
	"outer", "cross", "on", "and", "or", "not", "in", "exists", "group",
	"by", "order", "having", "limit", "offset", "as", "distinct", "union",
	"all", "insert", "into", "values", "update", "set", "delete", "like",
	"between", "is", "null", "asc", "desc", "case", "when", "then",
	"else", "end",
}

var (
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	keywordRe      = regexp.MustCompile(`(?i)\b(` + strings.Join(keywords, "|") + `)\b`)
	operatorRe     = regexp.MustCompile(`\s*(<=|>=|<>|!=|=|<|>)\s*`)
	commaRe        = regexp.MustCompile(`\s*,\s*`)
)

// Normalize canonicalizes a raw SQL string: comments removed, recognized
// keywords uppercased, single spaces around comparison operators and after
// commas, all whitespace runs collapsed, leading/trailing space trimmed.
//
// Normalize is idempotent and never fails; garbage in, garbage out.
func Normalize(sql string) string {
	s := lineCommentRe.ReplaceAllString(sql, " ")
	s = blockCommentRe.ReplaceAllString(s, " ")
	s = keywordRe.ReplaceAllStringFunc(s, strings.ToUpper)
	s = operatorRe.ReplaceAllString(s, " $1 ")
	s = commaRe.ReplaceAllString(s, ", ")
	return CollapseWhitespace(s)
}

// CollapseWhitespace reduces every whitespace run (including newlines) to a
// single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// SplitTopLevel splits s on sep occurrences at parenthesis depth zero and
// trims each element. Empty elements are dropped.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = appendTrimmed(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return appendTrimmed(parts, s[start:])
}

// SplitTopLevelAnd splits a predicate on AND conjunctions at parenthesis
// depth zero, case-insensitively. OR expressions and nested parentheses are
// left untouched.
func SplitTopLevelAnd(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && isAndAt(s, i) {
				parts = appendTrimmed(parts, s[start:i])
				start = i + 5
				i += 4
			}
		}
	}
	return appendTrimmed(parts, s[start:])
}

// isAndAt reports whether s[i:] starts a " AND " separator.
func isAndAt(s string, i int) bool {
	if i+5 > len(s) {
		return false
	}
	return s[i] == ' ' && strings.EqualFold(s[i+1:i+4], "AND") && s[i+4] == ' '
}

func appendTrimmed(parts []string, s string) []string {
	if t := strings.TrimSpace(s); t != "" {
		parts = append(parts, t)
	}
	return parts
}
