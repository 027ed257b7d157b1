package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is a catalog entry that can be searched.
// The record itself is owned by a storage backend; the Vector is computed by
// the indexer and written back to the store.
type Document struct {
	Id          ID
	Code        string    // Unique business identifier (e.g. a course code)
	Name        string    // Display name, used for title weighting and title matching
	Description string    // Optional free text
	Vector      Vector    // Term-frequency vector (populated by the indexer)
	InsertedAt  time.Time // When the document was inserted into the store
	UpdatedAt   time.Time // When the document was last updated
}

// Vector is a sparse, non-negative term weight vector.
// Indices are vocabulary column indices in strictly increasing order and
// Weights[i] is the weight of Indices[i].
type Vector struct {
	Version uint64 // Version of the vocabulary the vector was built against
	Indices []int
	Weights []float64
}

// IsEmpty reports whether the vector has no non-zero entries.
func (v Vector) IsEmpty() bool {
	return len(v.Indices) == 0
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Dot returns the unnormalized dot product of two sparse vectors.
// Both vectors must have strictly increasing indices.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Weights[i] * other.Weights[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vocabulary is the frozen term-to-column mapping learned from a corpus.
// Terms are sorted; a term's column index is its position in Terms.
type Vocabulary struct {
	Version     uint64 // Content hash of the corpus the vocabulary was fit on
	TitleWeight int    // Title repetition factor used when the vocabulary was fit
	Terms       []string
	BuiltAt     time.Time
}

// Size returns the number of terms in the vocabulary.
func (v *Vocabulary) Size() int {
	return len(v.Terms)
}

// ScoredResult pairs a document with its score for a query.
type ScoredResult struct {
	Document *Document
	Overlap  float64 // Dot product of the query and document vectors
	Boost    float64 // Title or acronym match boost
	Score    float64 // Overlap + Boost
}

// RelevanceJudgment lists the document codes judged relevant for a query.
type RelevanceJudgment struct {
	Line  int // 1-based line in the source test set, 0 if not read from a file
	Query string
	Codes []string
}
