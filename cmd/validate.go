package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/querylift/sql-rewriter/pkg/logger"
	"github.com/querylift/sql-rewriter/pkg/types"
	"github.com/querylift/sql-rewriter/pkg/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] <original-sql-file> <candidate-sql-file>",
	Short: "Check two SQL statements for likely semantic equivalence",
	Long: `Validate compares two SQL statements with the heuristic structural
validator and reports a verdict, a confidence score, and the structural
differences it found.

The check never executes SQL. A non-equivalent verdict means the
candidate should not be accepted as a rewrite, not that the statements
are provably different.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("output", "o", "text", "output format (text, json, yaml)")
	validateCmd.Flags().Bool("fail-on-difference", false, "exit with non-zero code if the statements are not equivalent")
}

func runValidate(cmd *cobra.Command, args []string) error {
	initLogging()

	originalSQL, err := readSQLFile(args[0])
	if err != nil {
		return err
	}
	candidateSQL, err := readSQLFile(args[1])
	if err != nil {
		return err
	}

	v := validator.New()
	result := v.Validate(originalSQL, candidateSQL)
	slog.Debug("validation finished", "equivalent", result.IsEquivalent, "confidence", result.Confidence)

	outputFormat, _ := cmd.Flags().GetString("output")
	if err := outputValidationResult(result, outputFormat); err != nil {
		return err
	}

	failOnDifference, _ := cmd.Flags().GetBool("fail-on-difference")
	if failOnDifference && !result.IsEquivalent {
		os.Exit(1)
	}
	return nil
}

func initLogging() {
	logLevel := slog.LevelWarn
	if viper.GetBool("debug") {
		logLevel = slog.LevelDebug
	} else if viper.GetBool("verbose") {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(logger.NewWithLevel(logLevel).GetSlogLogger())
}

func readSQLFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read SQL file: %s", path)
	}
	return string(data), nil
}

func outputValidationResult(result *types.ValidationResult, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(result)
	case "text":
		verdict := "NOT EQUIVALENT"
		if result.IsEquivalent {
			verdict = "EQUIVALENT"
		}
		fmt.Printf("%s (confidence: %.2f)\n", verdict, result.Confidence)
		fmt.Printf("Reason: %s\n", result.Reason)
		if len(result.Differences) > 0 {
			fmt.Println("Differences:")
			for _, diff := range result.Differences {
				fmt.Printf("  - %s\n", diff)
			}
		}
		return nil
	default:
		return errors.Errorf("unsupported output format: %s", format)
	}
}
