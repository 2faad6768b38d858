package rewriter

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/querylift/sql-rewriter/pkg/llm"
)

type scriptedProvider struct {
	candidates []string
	err        error
	prompts    []string
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, cfg llm.GenerationConfig) (*llm.Response, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Candidates: p.candidates, Success: true}, nil
}

func (*scriptedProvider) Name() string { return "scripted" }

func (*scriptedProvider) Available() bool { return true }

func newTestRewriter(provider llm.Provider, opts ...Option) *Rewriter {
	return New(llm.NewClient(provider), opts...)
}

func TestRewrite_FirstValidSelected(t *testing.T) {
	original := "SELECT id FROM orders WHERE status = 'open' AND total > 100"
	provider := &scriptedProvider{candidates: []string{
		"SELECT id FROM invoices",
		"SELECT id FROM orders WHERE total > 100 AND status = 'open'",
	}}

	result, err := newTestRewriter(provider).Rewrite(context.Background(), original, nil)
	require.NoError(t, err)

	require.True(t, result.Optimized)
	require.Equal(t, provider.candidates[1], result.OptimizedSQL)
	require.Equal(t, "candidate passed semantic validation", result.Reason)
	require.Equal(t, original, result.OriginalSQL)

	require.Len(t, result.Candidates, 2)
	require.False(t, result.Candidates[0].Validation.IsEquivalent)
	require.True(t, result.Candidates[1].Validation.IsEquivalent)

	require.Equal(t, 2, result.Stats.CandidatesGenerated)
	require.Equal(t, 1, result.Stats.CandidatesValidated)
}

func TestRewrite_NoCandidatePasses(t *testing.T) {
	provider := &scriptedProvider{candidates: []string{
		"SELECT id FROM invoices",
		"DELETE FROM orders",
	}}

	result, err := newTestRewriter(provider).Rewrite(context.Background(), "SELECT id FROM orders", nil)
	require.NoError(t, err)

	require.False(t, result.Optimized)
	require.Empty(t, result.OptimizedSQL)
	require.Equal(t, "no candidates passed validation", result.Reason)
	require.Equal(t, 0, result.Stats.CandidatesValidated)
	require.Len(t, result.Candidates, 2)
}

func TestRewrite_GenerationFailure(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("backend down")}

	result, err := newTestRewriter(provider).Rewrite(context.Background(), "SELECT 1", nil)
	require.Error(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "candidate generation failed")
}

func TestRewrite_BestConfidenceSelection(t *testing.T) {
	original := "SELECT a FROM t WHERE x = 1 AND y = 2"
	provider := &scriptedProvider{candidates: []string{
		// Passes at reduced confidence: the wildcard caps the projection rule.
		"SELECT * FROM t WHERE x = 1 AND y = 2",
		// Passes at full confidence after conjunct sorting.
		"SELECT a FROM t WHERE y = 2 AND x = 1",
	}}

	result, err := newTestRewriter(provider, WithSelectionMode(SelectionMode_BEST_CONFIDENCE)).
		Rewrite(context.Background(), original, nil)
	require.NoError(t, err)

	require.True(t, result.Optimized)
	require.Equal(t, provider.candidates[1], result.OptimizedSQL)
	require.Equal(t, 2, result.Stats.CandidatesValidated)
	require.Greater(t,
		result.Candidates[1].Validation.Confidence,
		result.Candidates[0].Validation.Confidence,
	)
}

func TestRewrite_PromptCarriesQueryAndSchema(t *testing.T) {
	provider := &scriptedProvider{candidates: []string{"SELECT 1"}}
	rw := newTestRewriter(provider)

	_, err := rw.Rewrite(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)
	require.Contains(t, provider.prompts[0], "```sql\nSELECT 1\n```")
	require.Contains(t, provider.prompts[0], "## Examples of Successful Optimizations")
}

func TestSelectionModeString(t *testing.T) {
	require.Equal(t, "FIRST_VALID", SelectionMode_FIRST_VALID.String())
	require.Equal(t, "BEST_CONFIDENCE", SelectionMode_BEST_CONFIDENCE.String())
	require.Equal(t, "UNKNOWN", SelectionMode(99).String())
}
