// Package rules holds the structural comparison rules that score two SQL
// statements for likely semantic equivalence.
//
// Each rule is a pure, stateless comparison of two structural summaries.
// Rules run in a fixed declared order so difference messages come out in a
// deterministic sequence; their confidences are averaged by the validator,
// never short-circuited.
package rules

import (
	"fmt"

	"github.com/querylift/sql-rewriter/pkg/types"
)

// Outcome is the result of one rule comparison.
type Outcome struct {
	// Matches reports whether the rule considers the two summaries
	// structurally compatible.
	Matches bool

	// Confidence in [0, 1] for this rule alone.
	Confidence float64

	// Differences holds human-readable findings, empty on a match.
	Differences []string
}

// Rule compares two structural summaries.
//
// Implementations must be pure and safe for concurrent use.
type Rule interface {
	// Name returns the rule name for logs and registration.
	Name() string

	// Compare scores summaries a and b.
	Compare(a, b *types.StructuralSummary) Outcome
}

// Registry holds rules in registration order.
type Registry struct {
	rules []Rule
	names map[string]struct{}
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends a rule. It panics if the rule is nil or its name is
// already registered.
func (r *Registry) Register(rule Rule) {
	if rule == nil {
		panic("rules: Register rule is nil")
	}
	if _, dup := r.names[rule.Name()]; dup {
		panic(fmt.Sprintf("rules: Register called twice for rule %s", rule.Name()))
	}
	r.names[rule.Name()] = struct{}{}
	r.rules = append(r.rules, rule)
}

// All returns the registered rules in registration order. The returned
// slice is a copy.
func (r *Registry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// DefaultRegistry holds the built-in rules in their fixed order.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(&StatementKindRule{})
	DefaultRegistry.Register(&TablesRule{})
	DefaultRegistry.Register(&ProjectionRule{})
	DefaultRegistry.Register(&JoinPredicateRule{})
	DefaultRegistry.Register(&FilterPredicateRule{})
}

// Defaults returns the built-in rules in their fixed order: statement
// kind, tables, projection, join predicates, filter predicates.
func Defaults() []Rule {
	return DefaultRegistry.All()
}
