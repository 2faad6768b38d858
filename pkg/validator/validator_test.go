package validator

import (
	"math"
	"testing"

	"github.com/querylift/sql-rewriter/pkg/rules"
	"github.com/querylift/sql-rewriter/pkg/types"
)

const confidenceEpsilon = 1e-9

func TestValidate_IdenticalQueries(t *testing.T) {
	v := New()
	result := v.Validate("SELECT * FROM users", "SELECT * FROM users")

	if !result.IsEquivalent {
		t.Error("identical queries should be equivalent")
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if result.Reason != "Queries are identical after normalization" {
		t.Errorf("Reason = %q", result.Reason)
	}
	if len(result.Differences) != 0 {
		t.Errorf("Differences = %v, want none", result.Differences)
	}
}

func TestValidate_WhitespaceAndCase(t *testing.T) {
	v := New()
	result := v.Validate(
		"SELECT * FROM users WHERE age > 30",
		"select    *\nfrom users\nwhere age>30",
	)

	if !result.IsEquivalent {
		t.Errorf("whitespace and case variants should be equivalent, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
}

func TestValidate_ReorderedConjuncts(t *testing.T) {
	v := New()
	result := v.Validate(
		"SELECT id FROM orders WHERE status = 'open' AND total > 100",
		"SELECT id FROM orders WHERE total > 100 AND status = 'open'",
	)

	if !result.IsEquivalent {
		t.Errorf("reordered AND conjuncts should be equivalent, got %+v", result)
	}
	if result.Reason != "Likely equivalent" {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestValidate_NotEqualsSpelling(t *testing.T) {
	v := New()
	result := v.Validate(
		"SELECT id FROM orders WHERE status != 'open'",
		"SELECT id FROM orders WHERE status <> 'open'",
	)

	if !result.IsEquivalent {
		t.Errorf("!= and <> should be equivalent, got %+v", result)
	}
}

func TestValidate_DifferentTables(t *testing.T) {
	v := New()
	result := v.Validate("SELECT * FROM users", "SELECT * FROM accounts")

	if result.IsEquivalent {
		t.Error("queries over different tables must not be equivalent")
	}
	// kind 1.0, tables 0.5, wildcard projection 0.9, joins 1.0, filter 1.0
	if want := 4.4 / 5.0; math.Abs(result.Confidence-want) > confidenceEpsilon {
		t.Errorf("Confidence = %v, want %v", result.Confidence, want)
	}
	if len(result.Differences) != 1 {
		t.Fatalf("Differences = %v, want one entry", result.Differences)
	}
	if result.Differences[0] != "Different tables used: [accounts users]" {
		t.Errorf("Differences[0] = %q", result.Differences[0])
	}
	if result.Reason != "Differences detected" {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestValidate_DifferentStatementKinds(t *testing.T) {
	v := New()
	result := v.Validate("SELECT * FROM t", "DELETE FROM t")

	if result.IsEquivalent {
		t.Error("SELECT and DELETE must not be equivalent")
	}
	found := false
	for _, d := range result.Differences {
		if d == "Statement type mismatch: SELECT vs DELETE" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing statement kind difference in %v", result.Differences)
	}
}

// A subquery-to-join rewrite is the canonical false negative: the
// statements are usually equivalent in effect, but the structural
// comparison sees different table captures and a vanished WHERE clause
// and scores it conservatively below the acceptance threshold.
func TestValidate_SubqueryToJoinRewriteRejected(t *testing.T) {
	v := New()
	result := v.Validate(
		"SELECT * FROM customer WHERE customer_sk IN (SELECT customer_sk FROM sales WHERE price > 100)",
		"SELECT DISTINCT c.* FROM customer c INNER JOIN sales s ON c.customer_sk = s.customer_sk WHERE s.price > 100",
	)

	if result.IsEquivalent {
		t.Error("structural rewrite should be rejected by the heuristic")
	}
	// kind 1.0, tables 0.5, wildcard projection 0.9, joins 1.0, filter 0.7
	if want := 4.1 / 5.0; math.Abs(result.Confidence-want) > confidenceEpsilon {
		t.Errorf("Confidence = %v, want %v", result.Confidence, want)
	}
	if len(result.Differences) != 2 {
		t.Errorf("Differences = %v, want table and filter findings", result.Differences)
	}
}

func TestValidate_CommentsIgnored(t *testing.T) {
	v := New()
	result := v.Validate(
		"SELECT id FROM users -- all ids",
		"SELECT id /* key column */ FROM users",
	)

	if !result.IsEquivalent {
		t.Errorf("comments should not affect the verdict, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
}

func TestValidate_EmptyInputs(t *testing.T) {
	v := New()

	result := v.Validate("", "")
	if !result.IsEquivalent || result.Confidence != 1.0 {
		t.Errorf("two empty inputs should be identical, got %+v", result)
	}

	// Garbage degrades to empty summaries on both sides; with nothing to
	// contradict, the rules agree. Known and accepted heuristic behavior.
	result = v.Validate("not sql", "also not sql")
	if !result.IsEquivalent {
		t.Errorf("garbage inputs compare equal by design of the fallback, got %+v", result)
	}
}

func TestValidate_NeverPanics(t *testing.T) {
	v := New()
	inputs := []string{"", "SELECT", "((((", "SELECT * FROM", ";;;", "\x00\x01"}
	for _, a := range inputs {
		for _, b := range inputs {
			result := v.Validate(a, b)
			if result == nil {
				t.Fatalf("Validate(%q, %q) returned nil", a, b)
			}
			if result.Confidence < 0 || result.Confidence > 1 {
				t.Errorf("Validate(%q, %q) confidence out of range: %v", a, b, result.Confidence)
			}
		}
	}
}

type fixedOutcomeRule struct {
	name    string
	outcome rules.Outcome
}

func (r *fixedOutcomeRule) Name() string { return r.name }

func (r *fixedOutcomeRule) Compare(a, b *types.StructuralSummary) rules.Outcome {
	return r.outcome
}

func TestValidate_ConfidenceIsMeanOfRules(t *testing.T) {
	v := New(WithRules([]rules.Rule{
		&fixedOutcomeRule{name: "high", outcome: rules.Outcome{Matches: true, Confidence: 1.0}},
		&fixedOutcomeRule{name: "low", outcome: rules.Outcome{Matches: true, Confidence: 0.5}},
	}))

	result := v.Validate("SELECT a FROM t", "SELECT b FROM t")
	if want := 0.75; math.Abs(result.Confidence-want) > confidenceEpsilon {
		t.Errorf("Confidence = %v, want %v", result.Confidence, want)
	}
	// Mean below threshold, so no differences still means not equivalent.
	if result.IsEquivalent {
		t.Error("confidence below threshold must not be equivalent")
	}
}

func TestValidate_ThresholdRequiresNoDifferences(t *testing.T) {
	v := New(WithRules([]rules.Rule{
		&fixedOutcomeRule{name: "flagged", outcome: rules.Outcome{
			Matches:     false,
			Confidence:  1.0,
			Differences: []string{"something"},
		}},
	}))

	result := v.Validate("SELECT a FROM t", "SELECT b FROM t")
	if result.IsEquivalent {
		t.Error("a recorded difference must veto equivalence regardless of confidence")
	}
}

func TestNew_OptionGuards(t *testing.T) {
	// Nil extractor and empty rule set are ignored, not installed.
	v := New(WithExtractor(nil), WithRules(nil))
	if v.extractor == nil {
		t.Error("nil extractor should not replace the default")
	}
	if len(v.rules) == 0 {
		t.Error("empty rule slice should not replace the defaults")
	}
}
