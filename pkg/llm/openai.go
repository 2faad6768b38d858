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

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider talks to the OpenAI chat completions API (or any
// API-compatible endpoint).
type OpenAIProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// OpenAIOption is a functional option for configuring an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithEndpoint overrides the chat completions endpoint, for proxies and
// API-compatible servers.
func WithEndpoint(endpoint string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if endpoint != "" {
			p.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(p *OpenAIProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// NewOpenAIProvider creates an OpenAI provider. An empty apiKey falls back
// to the OPENAI_API_KEY environment variable.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	p := &OpenAIProvider{
		apiKey:   apiKey,
		endpoint: defaultOpenAIEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (*OpenAIProvider) Name() string {
	return "openai"
}

// Available reports whether an API key is configured.
func (p *OpenAIProvider) Available() bool {
	return p.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	N           int           `json:"n"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate requests cfg.NumCandidates completions and extracts the SQL
// code block from each.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (*Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
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
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
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

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	candidates := make([]string, 0, len(decoded.Choices))
	for _, choice := range decoded.Choices {
		candidates = append(candidates, ExtractSQL(choice.Message.Content))
	}

	return &Response{
		Candidates: candidates,
		Raw:        string(raw),
		Success:    true,
	}, nil
}
