// Package bench measures query wall-clock time against a live database to
// compare an original query with its rewrite.
//
// The runner takes an injected *sql.DB, so any driver works; the CLI opens
// MySQL connections. Timings include fetching the full result set.
package bench

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Result is the outcome of one original-vs-optimized comparison.
type Result struct {
	QueryName     string        `json:"query_name"`
	OriginalTime  time.Duration `json:"original_time"`
	OptimizedTime time.Duration `json:"optimized_time"`

	// Speedup is OriginalTime over OptimizedTime, 1.0 for a
	// baseline-only run.
	Speedup float64 `json:"speedup"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Runner times queries over an injected database handle.
type Runner struct {
	db    *sql.DB
	runs  int
	pause time.Duration
}

// Option is a functional option for configuring a Runner.
type Option func(*Runner)

// WithRuns sets how many times each query is executed. The reported time
// is the median run.
func WithRuns(runs int) Option {
	return func(r *Runner) {
		if runs > 0 {
			r.runs = runs
		}
	}
}

// WithPause sets the sleep between runs, used to dodge short-lived caches.
func WithPause(pause time.Duration) Option {
	return func(r *Runner) {
		r.pause = pause
	}
}

// NewRunner creates a Runner over db, defaulting to three runs with a one
// second pause between them.
func NewRunner(db *sql.DB, opts ...Option) *Runner {
	r := &Runner{
		db:    db,
		runs:  3,
		pause: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Measure executes the query r.runs times, draining the full result set
// each time, and returns the median duration.
func (r *Runner) Measure(ctx context.Context, query string) (time.Duration, error) {
	times := make([]time.Duration, 0, r.runs)
	for i := 0; i < r.runs; i++ {
		elapsed, err := r.runOnce(ctx, query)
		if err != nil {
			return 0, errors.Wrapf(err, "run %d failed", i+1)
		}
		times = append(times, elapsed)

		if i < r.runs-1 && r.pause > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(r.pause):
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times[len(times)/2], nil
}

func (r *Runner) runOnce(ctx context.Context, query string) (time.Duration, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// Compare benchmarks originalSQL against optimizedSQL. An empty
// optimizedSQL measures a baseline only, at speedup 1.0. Failures are
// reported in the Result rather than returned.
func (r *Runner) Compare(ctx context.Context, queryName, originalSQL, optimizedSQL string) *Result {
	result := &Result{QueryName: queryName}

	originalTime, err := r.Measure(ctx, originalSQL)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.OriginalTime = originalTime

	if optimizedSQL == "" {
		result.Speedup = 1.0
		result.Success = true
		return result
	}

	optimizedTime, err := r.Measure(ctx, optimizedSQL)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.OptimizedTime = optimizedTime
	if optimizedTime > 0 {
		result.Speedup = float64(originalTime) / float64(optimizedTime)
	}
	result.Success = true
	return result
}
