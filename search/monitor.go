package search

import (
	"time"

	"github.com/poiesic/coursesearch/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryVectorization(query core.Vector)
	TitleMatch(doc *core.Document)
	Finish(results []*core.ScoredResult, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                 {}
func (n *noopMonitor) AfterQueryVectorization(_ core.Vector)          {}
func (n *noopMonitor) TitleMatch(_ *core.Document)                    {}
func (n *noopMonitor) Finish(_ []*core.ScoredResult, _ time.Duration) {}
