// Package llm dispatches rewrite prompts to a language model provider and
// caches responses.
//
// The package never surfaces transport failures as Go errors to the
// pipeline: a failed generation comes back as a Response with Success set
// to false and the error message attached, and the caller must check
// Success before using the candidates.
package llm

import (
	"context"
	"strings"
	"time"
)

// GenerationConfig controls one generation request.
type GenerationConfig struct {
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"max_tokens"`
	NumCandidates int     `json:"num_candidates"`
	UseFewShot    bool    `json:"use_few_shot"`
}

// DefaultGenerationConfig returns the default generation parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:         "gpt-4",
		Temperature:   0.3,
		MaxTokens:     2000,
		NumCandidates: 3,
		UseFewShot:    true,
	}
}

// Response is the outcome of one generation request.
type Response struct {
	// Candidates holds the extracted SQL candidates, code fences already
	// stripped.
	Candidates []string `json:"candidates"`

	// Raw is the raw provider response body.
	Raw string `json:"raw_response"`

	// Success is false when the provider call failed; ErrorMessage then
	// carries the reason and Candidates is empty.
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Latency is the wall-clock duration of the provider call, set by
	// the Client.
	Latency time.Duration `json:"latency"`
}

// Provider generates rewrite candidates for a prompt.
type Provider interface {
	// Generate performs one generation request. Implementations return
	// an error for transport or decoding failures; the Client converts
	// those into failed Responses.
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (*Response, error)

	// Name identifies the provider in logs.
	Name() string

	// Available reports whether the provider is configured well enough
	// to attempt a request.
	Available() bool
}

// ExtractSQL pulls the SQL statement out of a model reply. It prefers a
// ```sql fence, falls back to any ``` fence, and otherwise returns the
// trimmed text as-is.
func ExtractSQL(text string) string {
	if body, ok := fencedBlock(text, "```sql"); ok {
		return body
	}
	if body, ok := fencedBlock(text, "```"); ok {
		return body
	}
	return strings.TrimSpace(text)
}

func fencedBlock(text, opening string) (string, bool) {
	start := strings.Index(text, opening)
	if start < 0 {
		return "", false
	}
	start += len(opening)
	end := strings.Index(text[start:], "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[start : start+end]), true
}
