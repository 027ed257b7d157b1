package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
	"github.com/poiesic/coursesearch/vocab"
)

// DefaultMaxHits is the number of results Search returns.
const DefaultMaxHits = 10

// Searcher ranks stored documents against queries using a frozen vocabulary.
type Searcher struct {
	docs       storage.DocumentRepository
	vectorizer *vocab.Vectorizer
	maxHits    int
	monitor    SearchMonitor
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMaxHits sets how many results Search returns.
// Default is DefaultMaxHits.
func WithMaxHits(maxHits int) Option {
	return func(s *Searcher) error {
		if maxHits < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxHits, maxHits)
		}
		s.maxHits = maxHits
		return nil
	}
}

// WithMonitor sets the monitor notified by every search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher over docs. Document vectors must have
// been built with vocabulary.
func NewSearcher(docs storage.DocumentRepository, vocabulary *core.Vocabulary, opts ...Option) (*Searcher, error) {
	if docs == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if vocabulary == nil {
		return nil, ErrVocabularyRequired
	}
	vectorizer, err := vocab.NewVectorizer(vocabulary)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		docs:       docs,
		vectorizer: vectorizer,
		maxHits:    DefaultMaxHits,
		monitor:    &noopMonitor{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Vocabulary returns the vocabulary queries are vectorized with.
func (s *Searcher) Vocabulary() *core.Vocabulary {
	return s.vectorizer.Vocabulary()
}

// Vectorizer returns the vectorizer backing the searcher.
func (s *Searcher) Vectorizer() *vocab.Vectorizer {
	return s.vectorizer
}

// QueryVector returns the raw term-count vector of a query.
func (s *Searcher) QueryVector(query string) core.Vector {
	return s.vectorizer.VectorizeQuery(query)
}

// Search ranks every stored document and returns the best MaxHits.
func (s *Searcher) Search(ctx context.Context, query string) ([]*core.ScoredResult, error) {
	return s.SearchWithMonitor(ctx, query, s.monitor)
}

// SearchWithMonitor is Search with a monitor for this call only.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]*core.ScoredResult, error) {
	candidates, err := s.docs.ListDocuments(ctx)
	if err != nil {
		s.logger.Error("error listing documents", "err", err)
		return nil, err
	}
	return s.rank(query, candidates, s.maxHits, monitor)
}

// SearchCandidates ranks a pre-filtered candidate set and returns the best
// MaxHits. Ties keep the order of candidates.
func (s *Searcher) SearchCandidates(query string, candidates []*core.Document) ([]*core.ScoredResult, error) {
	return s.rank(query, candidates, s.maxHits, s.monitor)
}

// Rank scores every stored document and returns them all, best first.
func (s *Searcher) Rank(ctx context.Context, query string) ([]*core.ScoredResult, error) {
	candidates, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return s.rank(query, candidates, len(candidates), s.monitor)
}

// Similarity returns the vector overlap between a query and one document,
// without any title boost.
func (s *Searcher) Similarity(query string, doc *core.Document) (float64, error) {
	return Overlap(s.QueryVector(query), doc)
}

func (s *Searcher) rank(query string, candidates []*core.Document, limit int, monitor SearchMonitor) ([]*core.ScoredResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	start := time.Now()
	monitor.Start(query)

	queryVector := s.QueryVector(query)
	monitor.AfterQueryVectorization(queryVector)

	results := make([]*core.ScoredResult, 0, len(candidates))
	for _, doc := range candidates {
		result, err := Score(query, queryVector, doc)
		if err != nil {
			s.logger.Error("error scoring document", "code", doc.Code, "err", err)
			return nil, err
		}
		if result.Boost > 0 {
			monitor.TitleMatch(doc)
		}
		results = append(results, result)
	}

	SortResults(results)
	results = TopK(results, limit)

	elapsed := time.Since(start)
	monitor.Finish(results, elapsed)
	s.logger.Debug("searched",
		"query", query,
		"terms", queryVector.Len(),
		"candidates", len(candidates),
		"results", len(results),
		"elapsed", elapsed)

	return results, nil
}
