package eval

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/poiesic/coursesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_WorkedExample(t *testing.T) {
	m, err := Evaluate([]string{"A", "X", "B", "Y", "C"}, []string{"A", "B", "C"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.P25, 1e-9)
	assert.InDelta(t, 0.5, m.P50, 1e-9)
	assert.InDelta(t, 2.0/3.0, m.P75, 1e-9)
	assert.InDelta(t, 0.6, m.P100, 1e-9)
	assert.InDelta(t, (1.0+0.5+2.0/3.0)/3, m.PMean1, 1e-9)
	// Samples prec[0] x4, prec[1] x3, prec[2] x3
	assert.InDelta(t, (4*1.0+3*0.5+3*2.0/3.0)/10, m.PMean2, 1e-9)
	assert.InDelta(t, 0.5, m.RNorm, 1e-9)

	wantPNorm := 1 - (math.Log(5)-math.Log(2))/(5*math.Log(5)-2*math.Log(2)-3*math.Log(3))
	assert.InDelta(t, wantPNorm, m.PNorm, 1e-9)
}

func TestEvaluate_PerfectRanking(t *testing.T) {
	m, err := Evaluate([]string{"A", "B", "X", "Y"}, []string{"B", "A"})
	require.NoError(t, err)
	for i, v := range m.Tuple() {
		assert.InDelta(t, 1.0, v, 1e-9, MetricNames[i])
	}
}

func TestEvaluate_SingleRelevant(t *testing.T) {
	m, err := Evaluate([]string{"X", "A", "Y"}, []string{"A"})
	require.NoError(t, err)
	assert.Zero(t, m.P25)
	assert.Zero(t, m.P75)
	assert.InDelta(t, 0.5, m.P100, 1e-9)
	assert.InDelta(t, 0.5, m.RNorm, 1e-9)
}

func TestEvaluate_Errors(t *testing.T) {
	t.Run("empty relevant set", func(t *testing.T) {
		_, err := Evaluate([]string{"A"}, nil)
		assert.ErrorIs(t, err, ErrEmptyRelevantSet)
	})

	t.Run("recall not reached", func(t *testing.T) {
		_, err := Evaluate([]string{"A", "X"}, []string{"A", "B"})
		assert.ErrorIs(t, err, ErrRecallNotReached)
	})

	t.Run("no irrelevant results", func(t *testing.T) {
		m, err := Evaluate([]string{"B", "A"}, []string{"A", "B"})
		assert.ErrorIs(t, err, ErrUndefinedMetric)
		assert.True(t, math.IsNaN(m.PNorm))
		assert.True(t, math.IsNaN(m.RNorm))
		assert.InDelta(t, 1.0, m.P100, 1e-9)
	})

	t.Run("duplicate relevant codes count once", func(t *testing.T) {
		m, err := Evaluate([]string{"A", "X"}, []string{"A", "A"})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, m.P100, 1e-9)
	})
}

func TestParseTestSet(t *testing.T) {
	input := "intro programming -> CS 101, CS 102\n" +
		"\n" +
		"  linear algebra->MATH 221  \n"

	judgments, err := ParseTestSet(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, judgments, 2)

	assert.Equal(t, core.RelevanceJudgment{Line: 1, Query: "intro programming", Codes: []string{"CS 101", "CS 102"}}, judgments[0])
	assert.Equal(t, core.RelevanceJudgment{Line: 3, Query: "linear algebra", Codes: []string{"MATH 221"}}, judgments[1])
}

func TestParseTestSet_MalformedLines(t *testing.T) {
	input := "no arrow here\n" +
		"good -> A\n" +
		"trailing -> A, \n" +
		" -> A\n" +
		"chained -> A -> B\n"

	judgments, err := ParseTestSet(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedLine)
	require.Len(t, judgments, 1)
	assert.Equal(t, "good", judgments[0].Query)

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Line)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "line 5")
}

func TestParseTestSet_Empty(t *testing.T) {
	judgments, err := ParseTestSet(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, judgments)
}

type stubRanker map[string][]string

func (s stubRanker) Rank(_ context.Context, query string) ([]*core.ScoredResult, error) {
	codes, ok := s[query]
	if !ok {
		return nil, errors.New("unknown query")
	}
	results := make([]*core.ScoredResult, len(codes))
	for i, code := range codes {
		results[i] = &core.ScoredResult{Document: &core.Document{Code: code}}
	}
	return results, nil
}

func TestEvaluator_Run(t *testing.T) {
	ranker := stubRanker{
		"perfect": {"A", "B", "X", "Y"},
		"worked":  {"A", "X", "B", "Y", "C"},
		"short":   {"A"},
		"tight":   {"B", "A"},
	}
	judgments := []core.RelevanceJudgment{
		{Line: 1, Query: "perfect", Codes: []string{"A", "B"}},
		{Line: 2, Query: "worked", Codes: []string{"A", "B", "C"}},
		{Line: 3, Query: "short", Codes: []string{"A", "B"}},
		{Line: 4, Query: "missing", Codes: []string{"A"}},
		{Line: 5, Query: "tight", Codes: []string{"A", "B"}},
	}

	for _, concurrency := range []int{1, 4} {
		evaluator, err := NewEvaluator(ranker, WithConcurrency(concurrency))
		require.NoError(t, err)

		report, err := evaluator.Run(context.Background(), judgments)
		require.NoError(t, err)
		require.Len(t, report.Cases, 5)
		assert.Equal(t, 2, report.Contributing)
		assert.NoError(t, report.Cases[0].Err)
		assert.NoError(t, report.Cases[1].Err)
		assert.ErrorIs(t, report.Cases[2].Err, ErrRecallNotReached)
		assert.Error(t, report.Cases[3].Err)

		assert.ErrorIs(t, report.Cases[4].Err, ErrUndefinedMetric)

		// The last case adds its precision values but not its normalized ones.
		assert.Equal(t, [8]int{3, 3, 3, 3, 3, 3, 2, 2}, report.Counts)
		assert.InDelta(t, (1.0+0.6+1.0)/3, report.Mean.P100, 1e-9)
		assert.InDelta(t, (1.0+0.5)/2, report.Mean.RNorm, 1e-9)
		assert.False(t, math.IsNaN(report.Mean.PNorm))
	}
}

func TestEvaluator_RunEmpty(t *testing.T) {
	evaluator, err := NewEvaluator(stubRanker{})
	require.NoError(t, err)
	report, err := evaluator.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.Contributing)
	assert.Equal(t, Metrics{}, report.Mean)
	assert.Equal(t, [8]int{}, report.Counts)
}

func TestEvaluator_ContextCanceled(t *testing.T) {
	evaluator, err := NewEvaluator(stubRanker{"q": {"A"}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = evaluator.Run(ctx, []core.RelevanceJudgment{{Query: "q", Codes: []string{"A"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEvaluator_RequiresRanker(t *testing.T) {
	_, err := NewEvaluator(nil)
	assert.Equal(t, ErrRankerRequired, err)
}

func TestReport_WriteTable(t *testing.T) {
	report := &Report{
		Cases: []CaseResult{
			{Judgment: core.RelevanceJudgment{Query: "q"}, Metrics: Metrics{P25: 1, P100: 0.6}},
			{Judgment: core.RelevanceJudgment{Query: "bad"}, Err: ErrRecallNotReached},
		},
		Mean:         Metrics{P25: 1, P100: 0.6},
		Contributing: 1,
	}
	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf))
	out := buf.String()
	assert.Contains(t, out, "Averaged Results")
	assert.Contains(t, out, "P_norm")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, ErrRecallNotReached.Error())
}
