package rules

import (
	"fmt"
	"sort"

	"github.com/querylift/sql-rewriter/pkg/types"
)

// tableMismatchConfidence is deliberately the lowest non-zero rule score:
// touching different tables is the strongest structural signal of drift.
const tableMismatchConfidence = 0.5

// TablesRule compares the referenced table sets.
type TablesRule struct{}

// Name returns the rule name.
func (*TablesRule) Name() string {
	return "TablesRule"
}

// Compare scores the table sets: 1.0 on set equality, 0.5 with a
// difference listing the symmetric difference otherwise.
func (*TablesRule) Compare(a, b *types.StructuralSummary) Outcome {
	if stringSetsEqual(a.Tables, b.Tables) {
		return Outcome{Matches: true, Confidence: 1.0}
	}
	return Outcome{
		Matches:    false,
		Confidence: tableMismatchConfidence,
		Differences: []string{
			fmt.Sprintf("Different tables used: %v", symmetricDifference(a.Tables, b.Tables)),
		},
	}
}

// stringSetsEqual treats both slices as sets.
func stringSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

// symmetricDifference returns the sorted elements present in exactly one
// of the two sets.
func symmetricDifference(a, b []string) []string {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}
	var diff []string
	for v := range setA {
		if _, ok := setB[v]; !ok {
			diff = append(diff, v)
		}
	}
	for v := range setB {
		if _, ok := setA[v]; !ok {
			diff = append(diff, v)
		}
	}
	sort.Strings(diff)
	return diff
}
