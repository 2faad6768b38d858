// Package config loads the rewrite pipeline configuration.
package config

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/querylift/sql-rewriter/pkg/llm"
)

// GenerationConfig mirrors the LLM generation parameters in file form.
type GenerationConfig struct {
	Model         string  `yaml:"model" json:"model"`
	Temperature   float64 `yaml:"temperature" json:"temperature"`
	MaxTokens     int     `yaml:"max_tokens" json:"max_tokens"`
	NumCandidates int     `yaml:"num_candidates" json:"num_candidates"`
	UseFewShot    bool    `yaml:"use_few_shot" json:"use_few_shot"`
}

// DatabaseConfig holds benchmark database settings.
type DatabaseConfig struct {
	DSN  string `yaml:"dsn" json:"dsn"`
	Runs int    `yaml:"runs" json:"runs"`
}

// Config is the full pipeline configuration.
type Config struct {
	// Provider selects the LLM backend: "openai" or "local".
	Provider string `yaml:"provider" json:"provider"`

	// Endpoint optionally overrides the provider endpoint.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	Generation GenerationConfig `yaml:"generation" json:"generation"`

	// Hints are the optimization technique names rendered into prompts.
	Hints []string `yaml:"hints" json:"hints"`

	Database DatabaseConfig `yaml:"database" json:"database"`
}

// DefaultConfig returns the default pipeline configuration: OpenAI
// provider, gpt-4 with three candidates, the standard optimization hints.
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Generation: GenerationConfig{
			Model:         "gpt-4",
			Temperature:   0.3,
			MaxTokens:     2000,
			NumCandidates: 3,
			UseFewShot:    true,
		},
		Hints: []string{
			"subquery_unnesting",
			"predicate_pushdown",
			"join_reordering",
		},
		Database: DatabaseConfig{Runs: 3},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file. Unset fields
// fall back to the defaults.
func LoadFromFile(filename string) (*Config, error) {
	slog.Debug("loading config", "filename", filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", filename)
	}

	config := DefaultConfig()

	// YAML first, then JSON.
	if yamlErr := yaml.Unmarshal(data, config); yamlErr != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return nil, errors.Wrapf(yamlErr, "failed to parse config file %s", filename)
		}
	}

	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Provider == "" {
		c.Provider = defaults.Provider
	}
	if c.Generation.Model == "" {
		c.Generation.Model = defaults.Generation.Model
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = defaults.Generation.MaxTokens
	}
	if c.Generation.NumCandidates == 0 {
		c.Generation.NumCandidates = defaults.Generation.NumCandidates
	}
	if c.Database.Runs == 0 {
		c.Database.Runs = defaults.Database.Runs
	}
}

// GenerationConfig converts the file form into the llm package's config.
func (c *Config) GenerationConfig() llm.GenerationConfig {
	return llm.GenerationConfig{
		Model:         c.Generation.Model,
		Temperature:   c.Generation.Temperature,
		MaxTokens:     c.Generation.MaxTokens,
		NumCandidates: c.Generation.NumCandidates,
		UseFewShot:    c.Generation.UseFewShot,
	}
}
