package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/search"
)

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coursesearch",
			Name:      "searches_total",
			Help:      "Total number of searches",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coursesearch",
			Name:      "search_duration_seconds",
			Help:      "Search latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)

	QueryTerms = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coursesearch",
			Name:      "query_terms",
			Help:      "In-vocabulary terms per query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	TitleMatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coursesearch",
			Name:      "title_matches_total",
			Help:      "Documents boosted by a title match",
		},
	)

	EmptyResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coursesearch",
			Name:      "empty_results_total",
			Help:      "Searches whose best score was zero",
		},
	)
)

func init() {
	prometheus.MustRegister(SearchesTotal, SearchDuration, QueryTerms, TitleMatchesTotal, EmptyResultsTotal)
}

// SearchMonitor records searches in Prometheus.
type SearchMonitor struct{}

var _ search.SearchMonitor = (*SearchMonitor)(nil)

// NewSearchMonitor returns a monitor backed by the package metrics.
func NewSearchMonitor() *SearchMonitor {
	return &SearchMonitor{}
}

func (m *SearchMonitor) Start(_ string) {
	SearchesTotal.Inc()
}

func (m *SearchMonitor) AfterQueryVectorization(query core.Vector) {
	QueryTerms.Observe(float64(query.Len()))
}

func (m *SearchMonitor) TitleMatch(_ *core.Document) {
	TitleMatchesTotal.Inc()
}

func (m *SearchMonitor) Finish(results []*core.ScoredResult, elapsed time.Duration) {
	SearchDuration.Observe(elapsed.Seconds())
	if len(results) == 0 || results[0].Score == 0 {
		EmptyResultsTotal.Inc()
	}
}
