package vocab

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/text"
)

// Vectorizer transforms text into vectors over a frozen vocabulary.
// It is read-only after construction and safe for concurrent use.
type Vectorizer struct {
	vocabulary *core.Vocabulary
	index      map[string]int
}

// NewVectorizer creates a vectorizer for the vocabulary.
func NewVectorizer(vocabulary *core.Vocabulary) (*Vectorizer, error) {
	if vocabulary == nil {
		return nil, ErrVocabularyRequired
	}
	if vocabulary.TitleWeight < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTitleWeight, vocabulary.TitleWeight)
	}
	index := make(map[string]int, len(vocabulary.Terms))
	for i, term := range vocabulary.Terms {
		if i > 0 && vocabulary.Terms[i-1] >= term {
			return nil, fmt.Errorf("%w: %q at %d", ErrMalformedVocabulary, term, i)
		}
		index[term] = i
	}
	return &Vectorizer{vocabulary: vocabulary, index: index}, nil
}

// Vocabulary returns the vocabulary backing the vectorizer.
func (v *Vectorizer) Vocabulary() *core.Vocabulary {
	return v.vocabulary
}

// Counts returns the raw term counts of already normalized text.
// Terms absent from the vocabulary are dropped.
func (v *Vectorizer) Counts(normalized string) core.Vector {
	counts := make(map[int]float64)
	for _, term := range text.Terms(normalized) {
		if idx, ok := v.index[term]; ok {
			counts[idx]++
		}
	}

	vec := core.Vector{Version: v.vocabulary.Version}
	if len(counts) == 0 {
		return vec
	}
	vec.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	slices.Sort(vec.Indices)
	vec.Weights = make([]float64, len(vec.Indices))
	for i, idx := range vec.Indices {
		vec.Weights[i] = counts[idx]
	}
	return vec
}

// VectorizeDocument returns the term-frequency vector of a document:
// title-weighted counts divided by their total.
func (v *Vectorizer) VectorizeDocument(doc *core.Document) core.Vector {
	vec := v.Counts(Compose(doc.Name, doc.Description, v.vocabulary.TitleWeight))
	var total float64
	for _, w := range vec.Weights {
		total += w
	}
	if total > 0 {
		for i := range vec.Weights {
			vec.Weights[i] /= total
		}
	}
	return vec
}

// VectorizeQuery returns the raw term counts of a query. No title weighting
// is applied.
func (v *Vectorizer) VectorizeQuery(query string) core.Vector {
	return v.Counts(text.Normalize(strings.ToLower(query)))
}

// Terms maps a vector's indices back to vocabulary terms.
// Indices outside the vocabulary are skipped.
func (v *Vectorizer) Terms(vec core.Vector) []string {
	terms := make([]string, 0, len(vec.Indices))
	for _, idx := range vec.Indices {
		if idx >= 0 && idx < len(v.vocabulary.Terms) {
			terms = append(terms, v.vocabulary.Terms[idx])
		}
	}
	return terms
}
