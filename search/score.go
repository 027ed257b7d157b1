package search

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/poiesic/coursesearch/core"
)

// Overlap returns the unnormalized dot product of a query vector and a
// document vector. A document without a vector overlaps nothing. A vector
// built against another vocabulary is an error.
func Overlap(query core.Vector, doc *core.Document) (float64, error) {
	if doc.Vector.IsEmpty() {
		return 0, nil
	}
	if doc.Vector.Version != query.Version {
		return 0, fmt.Errorf("%w: document %q has version %d, vocabulary has %d",
			ErrVocabularyMismatch, doc.Code, doc.Vector.Version, query.Version)
	}
	return query.Dot(doc.Vector), nil
}

// Score computes a document's overlap with the query vector plus its title
// boost for the raw query text.
func Score(query string, queryVector core.Vector, doc *core.Document) (*core.ScoredResult, error) {
	overlap, err := Overlap(queryVector, doc)
	if err != nil {
		return nil, err
	}
	boost := MatchTitle(query, doc.Name)
	return &core.ScoredResult{
		Document: doc,
		Overlap:  overlap,
		Boost:    boost,
		Score:    overlap + boost,
	}, nil
}

// SortResults orders results by score, highest first. Equal scores keep
// their relative order.
func SortResults(results []*core.ScoredResult) {
	slices.SortStableFunc(results, func(a, b *core.ScoredResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

// TopK returns the first min(k, len(results)) results.
func TopK(results []*core.ScoredResult, k int) []*core.ScoredResult {
	if k < len(results) {
		return results[:k]
	}
	return results
}
