package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

const defaultLocalEndpoint = "http://localhost:8000/generate"

// LocalProvider talks to a locally hosted model over a simple HTTP
// generation endpoint.
type LocalProvider struct {
	endpoint string
	client   *http.Client
}

// NewLocalProvider creates a local provider. An empty endpoint falls back
// to the LOCAL_MODEL_ENDPOINT environment variable, then to
// localhost:8000.
func NewLocalProvider(endpoint string) *LocalProvider {
	if endpoint == "" {
		endpoint = os.Getenv("LOCAL_MODEL_ENDPOINT")
	}
	if endpoint == "" {
		endpoint = defaultLocalEndpoint
	}
	return &LocalProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider name.
func (*LocalProvider) Name() string {
	return "local"
}

// Available reports whether an endpoint is configured.
func (p *LocalProvider) Available() bool {
	return p.endpoint != ""
}

type localRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	N           int     `json:"n"`
}

type localResponse struct {
	Candidates []string `json:"candidates"`
}

// Generate posts the prompt to the local endpoint and returns its
// candidates as-is.
func (p *LocalProvider) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (*Response, error) {
	body, err := json.Marshal(localRequest{
		Prompt:      prompt,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		N:           cfg.NumCandidates,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded localResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	return &Response{
		Candidates: decoded.Candidates,
		Raw:        string(raw),
		Success:    true,
	}, nil
}
