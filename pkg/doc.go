// Package pkg provides LLM-assisted SQL rewriting with heuristic semantic
// validation for Go applications.
//
// SQL Rewriter asks a language model for optimized versions of a query and
// screens every candidate with a structural equivalence check before
// accepting it. The check never executes SQL.
//
// # Package Structure
//
// The pkg directory contains several specialized packages:
//
//   - validator: High-level semantic equivalence check (recommended starting point)
//   - rules: Structural comparison rules and their registry
//   - extract: Structural summary extraction from normalized SQL
//   - sqlnorm: SQL text normalization
//   - types: Core type definitions and data structures
//   - rewriter: End-to-end generate-validate-select pipeline
//   - prompt: Rewrite prompt construction with few-shot examples
//   - llm: LLM provider clients and response caching
//   - bench: Wall-clock benchmarking of original vs rewritten queries
//   - config: Configuration loading and management
//   - logger: Logging abstraction layer
//
// # Getting Started
//
// For most use cases, start with the validator package:
//
//	import (
//	    "github.com/querylift/sql-rewriter/pkg/validator"
//	)
//
//	func main() {
//	    v := validator.New()
//	    result := v.Validate(originalSQL, candidateSQL)
//	    // Check result.IsEquivalent, result.Confidence, result.Differences...
//	}
//
// # Comparison Rules
//
// The validator averages a fixed, ordered set of structural rules:
//
// Statement Kind: a SELECT is never a rewrite of an UPDATE; a mismatch
// scores zero.
//
// Tables: the referenced table sets must match; a mismatch is the
// strongest structural drift signal.
//
// Projection: projected column sets compared order-insensitively, with a
// wildcard on either side capping confidence below certainty.
//
// Join Predicates: JOIN ... ON conditions compared as an unordered set.
//
// Filter Predicates: WHERE clauses compared after conjunct sorting and
// operator spelling unification.
//
// The verdict requires both a mean confidence at the acceptance threshold
// and zero recorded differences. The check is deliberately conservative:
// structural rewrites such as subquery-to-join score below the threshold
// even when they are in fact equivalent.
//
// # Full Pipeline
//
// The rewriter package wires prompt construction, candidate generation,
// and validation together:
//
//	client := llm.NewClient(llm.NewOpenAIProvider(""))
//	rw := rewriter.New(client)
//	result, err := rw.Rewrite(ctx, originalSQL, schemas)
//
// See the examples directory for runnable programs.
package pkg
