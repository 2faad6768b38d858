package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/querylift/sql-rewriter/pkg/config"
	"github.com/querylift/sql-rewriter/pkg/llm"
	"github.com/querylift/sql-rewriter/pkg/prompt"
	"github.com/querylift/sql-rewriter/pkg/rewriter"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [flags] <sql-file>",
	Short: "Generate and validate rewrite candidates for a SQL query",
	Long: `Rewrite sends the query to a language model, asks for optimized
candidates, validates each candidate for likely semantic equivalence,
and prints the first one that passes.

OpenAI access requires OPENAI_API_KEY; a local model endpoint can be
selected with --provider local.`,
	Args: cobra.ExactArgs(1),
	RunE: runRewrite,
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().String("provider", "", "LLM provider (openai, local)")
	rewriteCmd.Flags().String("model", "", "model name")
	rewriteCmd.Flags().Int("candidates", 0, "number of candidates to generate")
	rewriteCmd.Flags().String("schema", "", "path to table schema file (JSON)")
	rewriteCmd.Flags().String("pipeline-config", "", "path to pipeline configuration file (YAML or JSON)")
	rewriteCmd.Flags().StringP("output", "o", "text", "output format (text, json)")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	initLogging()

	originalSQL, err := readSQLFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadPipelineConfig(cmd)
	if err != nil {
		return err
	}
	applyRewriteFlags(cmd, cfg)

	var schemas []prompt.TableSchema
	if schemaPath, _ := cmd.Flags().GetString("schema"); schemaPath != "" {
		schemas, err = loadTableSchemas(schemaPath)
		if err != nil {
			return err
		}
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	if !provider.Available() {
		return errors.Errorf("provider %s is not configured", provider.Name())
	}

	client := llm.NewClient(provider)
	rw := rewriter.New(client,
		rewriter.WithGenerationConfig(cfg.GenerationConfig()),
		rewriter.WithBuilder(prompt.NewBuilder(
			prompt.WithFewShotExamples(prompt.TPCDSExamples()),
			prompt.WithOptimizationHints(cfg.Hints),
		)),
	)

	result, err := rw.Rewrite(cmd.Context(), originalSQL, schemas)
	if err != nil {
		return err
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	return outputRewriteResult(result, outputFormat)
}

func loadPipelineConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("pipeline-config"); path != "" {
		return config.LoadFromFile(path)
	}
	if path := viper.GetString("pipeline-config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.DefaultConfig(), nil
}

func applyRewriteFlags(cmd *cobra.Command, cfg *config.Config) {
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.Provider = provider
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Generation.Model = model
	}
	if candidates, _ := cmd.Flags().GetInt("candidates"); candidates > 0 {
		cfg.Generation.NumCandidates = candidates
	}
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai":
		var opts []llm.OpenAIOption
		if cfg.Endpoint != "" {
			opts = append(opts, llm.WithEndpoint(cfg.Endpoint))
		}
		return llm.NewOpenAIProvider("", opts...), nil
	case "local":
		return llm.NewLocalProvider(cfg.Endpoint), nil
	default:
		return nil, errors.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func loadTableSchemas(path string) ([]prompt.TableSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema file: %s", path)
	}
	var schemas []prompt.TableSchema
	if err := json.Unmarshal(data, &schemas); err != nil {
		return nil, errors.Wrapf(err, "failed to parse schema file: %s", path)
	}
	return schemas, nil
}

func outputRewriteResult(result *rewriter.Result, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		if !result.Optimized {
			fmt.Printf("No rewrite accepted: %s\n", result.Reason)
		} else {
			fmt.Println("Optimized SQL:")
			fmt.Println(result.OptimizedSQL)
		}
		fmt.Printf("\nCandidates: %d generated, %d validated\n",
			result.Stats.CandidatesGenerated, result.Stats.CandidatesValidated)
		fmt.Printf("Generation: %s (LLM latency %s), validation: %s\n",
			result.Stats.GenerationTime.Round(time.Millisecond),
			result.Stats.LLMLatency.Round(time.Millisecond),
			result.Stats.ValidationTime.Round(time.Millisecond))
		for i, candidate := range result.Candidates {
			verdict := "rejected"
			if candidate.Validation.IsEquivalent {
				verdict = "validated"
			}
			fmt.Printf("  Candidate %d: %s (confidence %.2f)\n", i+1, verdict, candidate.Validation.Confidence)
			for _, diff := range candidate.Validation.Differences {
				fmt.Printf("    - %s\n", diff)
			}
		}
		return nil
	default:
		return errors.Errorf("unsupported output format: %s", format)
	}
}
