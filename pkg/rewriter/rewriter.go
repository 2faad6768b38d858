// Package rewriter drives the end-to-end rewrite pipeline: build the
// prompt, generate candidates through the LLM client, validate each
// candidate for likely semantic equivalence, and select one.
//
// A candidate failing validation is rejected and logged, never fatal:
// multiple candidates are generated and only one needs to pass.
package rewriter

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/querylift/sql-rewriter/pkg/llm"
	"github.com/querylift/sql-rewriter/pkg/prompt"
	"github.com/querylift/sql-rewriter/pkg/types"
	"github.com/querylift/sql-rewriter/pkg/validator"
)

// SelectionMode controls which validated candidate wins.
type SelectionMode int32

const (
	// SelectionMode_FIRST_VALID picks the first candidate that passes
	// validation, in generation order.
	SelectionMode_FIRST_VALID SelectionMode = 0

	// SelectionMode_BEST_CONFIDENCE picks the validated candidate with
	// the highest validator confidence.
	SelectionMode_BEST_CONFIDENCE SelectionMode = 1
)

func (m SelectionMode) String() string {
	switch m {
	case SelectionMode_FIRST_VALID:
		return "FIRST_VALID"
	case SelectionMode_BEST_CONFIDENCE:
		return "BEST_CONFIDENCE"
	default:
		return "UNKNOWN"
	}
}

// CandidateOutcome pairs one generated candidate with its validation
// verdict.
type CandidateOutcome struct {
	SQL        string                  `json:"sql"`
	Validation *types.ValidationResult `json:"validation"`
}

// Stats carries per-phase measurements for one Rewrite call.
type Stats struct {
	CandidatesGenerated int           `json:"candidates_generated"`
	CandidatesValidated int           `json:"candidates_validated"`
	GenerationTime      time.Duration `json:"generation_time"`
	ValidationTime      time.Duration `json:"validation_time"`
	LLMLatency          time.Duration `json:"llm_latency"`
}

// Result is the outcome of one Rewrite call.
type Result struct {
	// Optimized is true when at least one candidate passed validation.
	Optimized bool `json:"optimized"`

	OriginalSQL  string `json:"original_sql"`
	OptimizedSQL string `json:"optimized_sql,omitempty"`

	// Reason summarizes why Optimized is set or not.
	Reason string `json:"reason"`

	// Candidates holds every generated candidate with its verdict, in
	// generation order.
	Candidates []CandidateOutcome `json:"candidates"`

	Stats Stats `json:"stats"`
}

// Rewriter composes the prompt builder, the LLM client, and the validator.
type Rewriter struct {
	client    *llm.Client
	builder   *prompt.Builder
	validator *validator.Validator
	genCfg    llm.GenerationConfig
	mode      SelectionMode
}

// Option is a functional option for configuring a Rewriter.
type Option func(*Rewriter)

// WithBuilder substitutes the prompt builder.
func WithBuilder(b *prompt.Builder) Option {
	return func(r *Rewriter) {
		if b != nil {
			r.builder = b
		}
	}
}

// WithValidator substitutes the semantic validator.
func WithValidator(v *validator.Validator) Option {
	return func(r *Rewriter) {
		if v != nil {
			r.validator = v
		}
	}
}

// WithGenerationConfig overrides the generation parameters.
func WithGenerationConfig(cfg llm.GenerationConfig) Option {
	return func(r *Rewriter) {
		r.genCfg = cfg
	}
}

// WithSelectionMode sets the candidate selection mode.
func WithSelectionMode(mode SelectionMode) Option {
	return func(r *Rewriter) {
		r.mode = mode
	}
}

// New creates a Rewriter over the client with a default prompt builder
// (TPC-DS examples, the standard hints), a default validator, default
// generation parameters, and first-valid selection.
func New(client *llm.Client, opts ...Option) *Rewriter {
	r := &Rewriter{
		client: client,
		builder: prompt.NewBuilder(
			prompt.WithFewShotExamples(prompt.TPCDSExamples()),
			prompt.WithOptimizationHints([]string{
				"subquery_unnesting",
				"predicate_pushdown",
				"join_reordering",
			}),
		),
		validator: validator.New(),
		genCfg:    llm.DefaultGenerationConfig(),
		mode:      SelectionMode_FIRST_VALID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite generates rewrite candidates for originalSQL and returns the
// selected one along with every candidate's verdict.
//
// It returns an error only when generation itself fails; a run where no
// candidate passes validation is a successful call with Optimized false.
func (r *Rewriter) Rewrite(ctx context.Context, originalSQL string, schemas []prompt.TableSchema) (*Result, error) {
	p := r.builder.BuildRewritePrompt(originalSQL, schemas, r.genCfg.UseFewShot)
	slog.Debug("built rewrite prompt", "length", len(p))

	genStart := time.Now()
	resp := r.client.Generate(ctx, p, r.genCfg)
	genTime := time.Since(genStart)

	if !resp.Success {
		return nil, errors.Errorf("candidate generation failed: %s", resp.ErrorMessage)
	}
	slog.Debug("generated candidates", "count", len(resp.Candidates), "latency", resp.Latency)

	result := &Result{
		OriginalSQL: originalSQL,
		Stats: Stats{
			CandidatesGenerated: len(resp.Candidates),
			GenerationTime:      genTime,
			LLMLatency:          resp.Latency,
		},
	}

	valStart := time.Now()
	selected := -1
	bestConfidence := -1.0
	for i, candidate := range resp.Candidates {
		verdict := r.validator.Validate(originalSQL, candidate)
		result.Candidates = append(result.Candidates, CandidateOutcome{
			SQL:        candidate,
			Validation: verdict,
		})

		if !verdict.IsEquivalent {
			slog.Info("candidate rejected",
				"candidate", i+1,
				"confidence", verdict.Confidence,
				"differences", verdict.Differences,
			)
			continue
		}

		result.Stats.CandidatesValidated++
		slog.Info("candidate validated", "candidate", i+1, "confidence", verdict.Confidence)

		switch r.mode {
		case SelectionMode_BEST_CONFIDENCE:
			if verdict.Confidence > bestConfidence {
				bestConfidence = verdict.Confidence
				selected = i
			}
		default:
			if selected < 0 {
				selected = i
			}
		}
	}
	result.Stats.ValidationTime = time.Since(valStart)

	if selected < 0 {
		result.Reason = "no candidates passed validation"
		return result, nil
	}

	result.Optimized = true
	result.OptimizedSQL = resp.Candidates[selected]
	result.Reason = "candidate passed semantic validation"
	return result, nil
}
