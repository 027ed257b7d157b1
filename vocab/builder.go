package vocab

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/text"
)

// DefaultTitleWeight is how many times a document's name is repeated in its
// pseudo-document.
const DefaultTitleWeight = 3

// Compose builds the pseudo-document used for term counting: the normalized
// name repeated titleWeight times followed by the normalized description.
func Compose(name, description string, titleWeight int) string {
	var b strings.Builder
	if name != "" {
		stemmedName := text.Normalize(name)
		for i := 0; i < titleWeight; i++ {
			b.WriteByte(' ')
			b.WriteString(stemmedName)
		}
		b.WriteByte(' ')
	}
	if description != "" {
		b.WriteString(text.Normalize(description))
	}
	return b.String()
}

// Fit learns a vocabulary from the whole corpus.
// The documents' order does not affect the terms, but it is part of the
// version hash along with every code and pseudo-document.
func Fit(docs []*core.Document, titleWeight int) (*core.Vocabulary, error) {
	if titleWeight < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTitleWeight, titleWeight)
	}

	seen := make(map[string]struct{})
	var content strings.Builder
	content.WriteString(strconv.Itoa(titleWeight))
	for _, doc := range docs {
		composite := Compose(doc.Name, doc.Description, titleWeight)
		content.WriteByte(0)
		content.WriteString(doc.Code)
		content.WriteByte(0)
		content.WriteString(composite)
		for _, term := range text.Terms(composite) {
			seen[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	return &core.Vocabulary{
		Version:     uint64(core.IDFromContent(content.String())),
		TitleWeight: titleWeight,
		Terms:       terms,
		BuiltAt:     time.Now().UTC(),
	}, nil
}

// FitTransform learns a vocabulary and returns every document's vector in it,
// in the same order as docs.
func FitTransform(docs []*core.Document, titleWeight int) (*core.Vocabulary, []core.Vector, error) {
	vocabulary, err := Fit(docs, titleWeight)
	if err != nil {
		return nil, nil, err
	}
	vectorizer, err := NewVectorizer(vocabulary)
	if err != nil {
		return nil, nil, err
	}
	vectors := make([]core.Vector, len(docs))
	for i, doc := range docs {
		vectors[i] = vectorizer.VectorizeDocument(doc)
	}
	return vocabulary, vectors, nil
}
