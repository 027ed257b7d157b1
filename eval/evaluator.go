package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coursesearch/core"
)

// Ranker produces the full, uncapped ranking for a query.
type Ranker interface {
	Rank(ctx context.Context, query string) ([]*core.ScoredResult, error)
}

// CaseResult is the outcome of one judgment. Err is set when the case could
// not be ranked or a metric is undefined. A case whose Err wraps
// ErrUndefinedMetric still carries its defined metrics; the undefined ones
// are NaN.
type CaseResult struct {
	Judgment core.RelevanceJudgment
	Metrics  Metrics
	Err      error
}

// Report summarizes a batch evaluation.
// Each value of Mean averages that metric over the cases where it is
// defined, and Counts holds how many cases that was, in MetricNames order.
// A metric no case defines has a zero mean and a zero count.
type Report struct {
	Cases        []CaseResult
	Mean         Metrics
	Counts       [8]int
	Contributing int // Cases with every metric defined
}

// Evaluator runs a test set against a ranker.
type Evaluator struct {
	ranker      Ranker
	concurrency int
	logger      *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithConcurrency sets how many cases are ranked at once.
// Default is 1.
func WithConcurrency(n int) Option {
	return func(e *Evaluator) error {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
		return nil
	}
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(ranker Ranker, opts ...Option) (*Evaluator, error) {
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	e := &Evaluator{
		ranker:      ranker,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// EvaluateCase ranks one judgment's query and scores the ranking.
func (e *Evaluator) EvaluateCase(ctx context.Context, judgment core.RelevanceJudgment) CaseResult {
	result := CaseResult{Judgment: judgment}
	ranked, err := e.ranker.Rank(ctx, judgment.Query)
	if err != nil {
		result.Err = err
		return result
	}
	codes := make([]string, len(ranked))
	for i, r := range ranked {
		codes[i] = r.Document.Code
	}
	result.Metrics, result.Err = Evaluate(codes, judgment.Codes)
	return result
}

// Run evaluates every judgment. A failing case is recorded in the report
// and does not stop the others. Only context cancellation aborts the run.
func (e *Evaluator) Run(ctx context.Context, judgments []core.RelevanceJudgment) (*Report, error) {
	pool, err := ants.NewPool(e.concurrency)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	cases := make([]CaseResult, len(judgments))
	var wg sync.WaitGroup
	for i, judgment := range judgments {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			cases[i] = e.EvaluateCase(ctx, judgment)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Cases: cases}
	var sums [8]float64
	for _, c := range cases {
		switch {
		case c.Err == nil:
			report.Contributing++
		case errors.Is(c.Err, ErrUndefinedMetric):
			e.logger.Warn("evaluation case partly undefined", "line", c.Judgment.Line, "query", c.Judgment.Query, "err", c.Err)
		default:
			e.logger.Warn("evaluation case failed", "line", c.Judgment.Line, "query", c.Judgment.Query, "err", c.Err)
			continue
		}
		for j, v := range c.Metrics.Tuple() {
			if math.IsNaN(v) {
				continue
			}
			sums[j] += v
			report.Counts[j]++
		}
	}
	var mean [8]float64
	for j, n := range report.Counts {
		if n > 0 {
			mean[j] = sums[j] / float64(n)
		}
	}
	report.Mean = metricsFromTuple(mean)
	e.logger.Info("evaluation finished", "cases", len(cases), "contributing", report.Contributing)
	return report, nil
}

func metricsFromTuple(t [8]float64) Metrics {
	return Metrics{
		P25:    t[0],
		P50:    t[1],
		P75:    t[2],
		P100:   t[3],
		PMean1: t[4],
		PMean2: t[5],
		PNorm:  t[6],
		RNorm:  t[7],
	}
}

// WriteTable prints the per-case rows and the averaged row.
func (r *Report) WriteTable(w io.Writer) error {
	header := "   **  P.25   P.50   P.75   P1.00   P_mean1   P_mean2   P_norm  R_norm\n" +
		"   ==  ====   ====   ====   =====   =======   =======   ======  ======\n"
	rule := "   ----------------------------------------------------------------\n"

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for i, c := range r.Cases {
		if c.Err != nil && !errors.Is(c.Err, ErrUndefinedMetric) {
			if _, err := fmt.Fprintf(w, "   %2d  %v\n", i, c.Err); err != nil {
				return err
			}
			continue
		}
		if err := writeRow(w, i, c.Metrics); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, rule+"                          Averaged Results\n"+rule+header); err != nil {
		return err
	}
	if err := writeRow(w, r.Contributing, r.Mean); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "   n   %-4d   %-4d   %-4d   %-5d   %-7d   %-7d   %-6d  %d\n",
		r.Counts[0], r.Counts[1], r.Counts[2], r.Counts[3], r.Counts[4], r.Counts[5], r.Counts[6], r.Counts[7])
	return err
}

func writeRow(w io.Writer, label int, m Metrics) error {
	_, err := fmt.Fprintf(w, "   %2d  %.2f   %.2f   %.2f   %.2f    %.4f    %.4f    %.3f   %.3f\n",
		label, m.P25, m.P50, m.P75, m.P100, m.PMean1, m.PMean2, m.PNorm, m.RNorm)
	return err
}
