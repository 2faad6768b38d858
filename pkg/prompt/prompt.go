// Package prompt builds rewrite prompts for the LLM generation step.
//
// The builder carries its system prompt, few-shot examples, and
// optimization hints as explicit per-instance configuration; there is no
// package-level mutable default.
package prompt

import (
	"fmt"
	"strings"
)

// DefaultSystemPrompt frames the model as a SQL performance engineer and
// pins the output contract: optimized SQL only, semantics preserved.
const DefaultSystemPrompt = `You are an expert SQL performance engineer.
Your task is to rewrite inefficient SQL queries to achieve better performance while maintaining 100% semantic equivalence.

Key principles:
1. MUST preserve exact semantic equivalence - results must be identical
2. Focus on performance improvements: reduce subqueries, optimize joins, eliminate redundancy
3. Apply proven optimization techniques: subquery unnesting, predicate pushdown, join reordering
4. Output ONLY the optimized SQL code, no explanations`

// OptimizationTechniques maps hint names to the description injected into
// the prompt when the hint is configured.
var OptimizationTechniques = map[string]string{
	"subquery_unnesting":       "Convert correlated subqueries to JOINs when possible",
	"predicate_pushdown":       "Push filter conditions closer to data sources",
	"join_reordering":          "Reorder joins to reduce intermediate result size",
	"redundancy_elimination":   "Remove redundant conditions and operations",
	"in_to_join":               "Convert IN subqueries to JOIN operations",
	"exists_to_join":           "Convert EXISTS subqueries to JOIN operations",
}

// maxFewShotExamples bounds the examples rendered into one prompt.
const maxFewShotExamples = 3

// ForeignKey describes one foreign key reference on a table.
type ForeignKey struct {
	Column   string `json:"column"`
	RefTable string `json:"ref_table"`
}

// TableSchema describes one table for the schema section of the prompt.
type TableSchema struct {
	TableName       string       `json:"table_name"`
	Columns         []string     `json:"columns"`
	PrimaryKeys     []string     `json:"primary_keys"`
	ForeignKeys     []ForeignKey `json:"foreign_keys"`
	CreateStatement string       `json:"create_statement,omitempty"`
}

// FewShotExample is one original/optimized pair shown to the model.
type FewShotExample struct {
	OriginalSQL  string  `json:"original_sql"`
	OptimizedSQL string  `json:"optimized_sql"`
	Explanation  string  `json:"explanation"`
	SpeedupRatio float64 `json:"speedup_ratio"`
}

// Builder assembles rewrite prompts.
type Builder struct {
	systemPrompt string
	examples     []FewShotExample
	hints        []string
}

// Option is a functional option for configuring a Builder.
type Option func(*Builder)

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(systemPrompt string) Option {
	return func(b *Builder) {
		if systemPrompt != "" {
			b.systemPrompt = systemPrompt
		}
	}
}

// WithFewShotExamples sets the few-shot examples. At most three are
// rendered into any one prompt.
func WithFewShotExamples(examples []FewShotExample) Option {
	return func(b *Builder) {
		b.examples = examples
	}
}

// WithOptimizationHints sets the hint names rendered into the prompt.
// Unknown names are skipped.
func WithOptimizationHints(hints []string) Option {
	return func(b *Builder) {
		b.hints = hints
	}
}

// NewBuilder creates a Builder with the default system prompt and no
// examples or hints.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{systemPrompt: DefaultSystemPrompt}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildRewritePrompt renders the full markdown rewrite prompt: system
// prompt, schema section, configured hints, few-shot examples (when
// useFewShot is set), the query to optimize, and the output requirements.
func (b *Builder) BuildRewritePrompt(originalSQL string, schemas []TableSchema, useFewShot bool) string {
	var sb strings.Builder
	sb.WriteString(b.systemPrompt)
	sb.WriteString("\n\n")

	if len(schemas) > 0 {
		sb.WriteString("## Database Schema\n\n")
		for _, schema := range schemas {
			fmt.Fprintf(&sb, "### Table: %s\n", schema.TableName)
			if schema.CreateStatement != "" {
				fmt.Fprintf(&sb, "```sql\n%s\n```\n", schema.CreateStatement)
			} else {
				fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(schema.Columns, ", "))
				if len(schema.PrimaryKeys) > 0 {
					fmt.Fprintf(&sb, "Primary Keys: %s\n", strings.Join(schema.PrimaryKeys, ", "))
				}
			}
			sb.WriteString("\n")
		}
	}

	if len(b.hints) > 0 {
		rendered := false
		for _, hint := range b.hints {
			desc, ok := OptimizationTechniques[hint]
			if !ok {
				continue
			}
			if !rendered {
				sb.WriteString("## Optimization Techniques to Consider\n\n")
				rendered = true
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", hint, desc)
		}
		if rendered {
			sb.WriteString("\n")
		}
	}

	if useFewShot && len(b.examples) > 0 {
		sb.WriteString("## Examples of Successful Optimizations\n\n")
		examples := b.examples
		if len(examples) > maxFewShotExamples {
			examples = examples[:maxFewShotExamples]
		}
		for i, example := range examples {
			fmt.Fprintf(&sb, "### Example %d (Speedup: %.1fx)\n\n", i+1, example.SpeedupRatio)
			sb.WriteString("**Original:**\n")
			fmt.Fprintf(&sb, "```sql\n%s\n```\n\n", example.OriginalSQL)
			sb.WriteString("**Optimized:**\n")
			fmt.Fprintf(&sb, "```sql\n%s\n```\n", example.OptimizedSQL)
			if example.Explanation != "" {
				fmt.Fprintf(&sb, "\n*%s*\n", example.Explanation)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Query to Optimize\n\n")
	sb.WriteString("Rewrite the following query for better performance:\n")
	fmt.Fprintf(&sb, "```sql\n%s\n```\n\n", originalSQL)
	sb.WriteString("## Requirements\n\n")
	sb.WriteString("1. Output ONLY the optimized SQL query inside a ```sql code block\n")
	sb.WriteString("2. Ensure 100% semantic equivalence\n")
	sb.WriteString("3. Focus on measurable performance improvements\n")
	sb.WriteString("4. If no optimization is possible, return the original query\n")

	return sb.String()
}
