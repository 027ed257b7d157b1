package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/poiesic/coursesearch/core"
)

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/documents/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/documents/CS101", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/documents/{code}", "404"))
	if val < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestSearchMonitor(t *testing.T) {
	searches := testutil.ToFloat64(SearchesTotal)
	matches := testutil.ToFloat64(TitleMatchesTotal)
	empty := testutil.ToFloat64(EmptyResultsTotal)

	m := NewSearchMonitor()
	m.Start("cs")
	m.AfterQueryVectorization(core.Vector{Indices: []int{1, 2}, Weights: []float64{1, 1}})
	m.TitleMatch(&core.Document{Code: "CS 100"})
	m.Finish([]*core.ScoredResult{{Score: 1}}, 3*time.Millisecond)

	m.Start("xyz")
	m.AfterQueryVectorization(core.Vector{})
	m.Finish([]*core.ScoredResult{{Score: 0}}, time.Millisecond)

	if got := testutil.ToFloat64(SearchesTotal) - searches; got != 2 {
		t.Errorf("searches_total delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(TitleMatchesTotal) - matches; got != 1 {
		t.Errorf("title_matches_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EmptyResultsTotal) - empty; got != 1 {
		t.Errorf("empty_results_total delta = %v, want 1", got)
	}
	if testutil.CollectAndCount(SearchDuration) != 1 {
		t.Error("expected search_duration_seconds to be collected")
	}
}
