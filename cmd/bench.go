package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/querylift/sql-rewriter/pkg/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags] <sql-file>",
	Short: "Benchmark a query, optionally against its rewrite",
	Long: `Bench executes the query against a live MySQL database and reports the
median wall-clock time over several runs. With --optimized it also runs
the rewritten query and reports the speedup.

This is the only command that executes SQL; the validator itself never
touches a database.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().String("dsn", "", "MySQL DSN, e.g. user:pass@tcp(localhost:3306)/tpcds")
	benchCmd.Flags().String("optimized", "", "path to the rewritten SQL file to compare against")
	benchCmd.Flags().Int("runs", 3, "number of runs per query (median is reported)")
	benchCmd.Flags().StringP("output", "o", "text", "output format (text, json)")

	_ = viper.BindPFlag("dsn", benchCmd.Flags().Lookup("dsn"))
}

func runBench(cmd *cobra.Command, args []string) error {
	initLogging()

	originalSQL, err := readSQLFile(args[0])
	if err != nil {
		return err
	}

	optimizedSQL := ""
	if optimizedPath, _ := cmd.Flags().GetString("optimized"); optimizedPath != "" {
		optimizedSQL, err = readSQLFile(optimizedPath)
		if err != nil {
			return err
		}
	}

	dsn := viper.GetString("dsn")
	if dsn == "" {
		return errors.New("a MySQL DSN is required (--dsn or DSN environment variable)")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	ctx := cmd.Context()
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}

	runs, _ := cmd.Flags().GetInt("runs")
	runner := bench.NewRunner(db, bench.WithRuns(runs))

	queryName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	result := runner.Compare(ctx, queryName, originalSQL, optimizedSQL)

	outputFormat, _ := cmd.Flags().GetString("output")
	return outputBenchResult(result, outputFormat)
}

func outputBenchResult(result *bench.Result, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		if !result.Success {
			fmt.Printf("Benchmark %s failed: %s\n", result.QueryName, result.Error)
			return nil
		}
		fmt.Printf("Query %s\n", result.QueryName)
		fmt.Printf("  Original:  %s\n", result.OriginalTime.Round(time.Millisecond))
		if result.OptimizedTime > 0 {
			fmt.Printf("  Optimized: %s\n", result.OptimizedTime.Round(time.Millisecond))
			fmt.Printf("  Speedup:   %.2fx\n", result.Speedup)
		}
		return nil
	default:
		return errors.Errorf("unsupported output format: %s", format)
	}
}
