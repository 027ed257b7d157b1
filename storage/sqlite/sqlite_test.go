package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.DocumentRepository, storage.VocabularyRepository) {
	t.Helper()
	docs, vocab, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return docs, vocab
}

func TestDocuments_AddAndGet(t *testing.T) {
	docs, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := docs.AddDocuments(ctx,
		&core.Document{Code: "CS 101", Name: "Introduction to Programming", Description: "Loops."},
		&core.Document{Code: "CS 102", Name: "Data Structures"},
	)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.NotZero(t, added[0].Id)
	assert.Greater(t, added[1].Id, added[0].Id)

	doc, err := docs.GetDocument(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "CS 101", doc.Code)
	assert.Equal(t, "Loops.", doc.Description)
	assert.True(t, doc.Vector.IsEmpty())

	byCode, err := docs.GetDocumentByCode(ctx, "CS 102")
	require.NoError(t, err)
	assert.Equal(t, added[1].Id, byCode.Id)

	_, err = docs.GetDocumentByCode(ctx, "CS 999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocuments_DuplicateCodeRollsBack(t *testing.T) {
	docs, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := docs.AddDocuments(ctx,
		&core.Document{Code: "CS 101", Name: "A"},
		&core.Document{Code: "CS 101", Name: "B"},
	)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocuments_ListAndScan(t *testing.T) {
	docs, _ := newTestRepos(t)
	ctx := context.Background()

	codes := []string{"Z 9", "A 1", "M 5"}
	for _, code := range codes {
		_, err := docs.AddDocuments(ctx, &core.Document{Code: code, Name: code})
		require.NoError(t, err)
	}

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, doc := range all {
		assert.Equal(t, codes[i], doc.Code)
	}

	var page []string
	last, err := docs.ScanDocuments(ctx, all[0].Id, 1, func(doc *core.Document) error {
		page = append(page, doc.Code)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A 1"}, page)
	assert.Equal(t, all[1].Id, last)
}

func TestDocuments_UpdateAndDelete(t *testing.T) {
	docs, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := docs.AddDocuments(ctx, &core.Document{Code: "CS 101", Name: "Old"})
	require.NoError(t, err)

	doc := added[0]
	doc.Name = "New"
	_, err = docs.UpdateDocuments(ctx, doc)
	require.NoError(t, err)

	got, err := docs.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)

	_, err = docs.UpdateDocuments(ctx, &core.Document{Id: 404, Code: "X", Name: "X"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, docs.DeleteDocuments(ctx, doc.Id))
	assert.ErrorIs(t, docs.DeleteDocuments(ctx, doc.Id), storage.ErrNotFound)
}

func TestDocuments_UpdateVectors(t *testing.T) {
	docs, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := docs.AddDocuments(ctx, &core.Document{Code: "CS 101", Name: "Programming"})
	require.NoError(t, err)

	vec := core.Vector{Version: 3, Indices: []int{1, 4}, Weights: []float64{0.5, 0.5}}
	require.NoError(t, docs.UpdateVectors(ctx, map[core.ID]core.Vector{added[0].Id: vec}))

	got, err := docs.GetDocument(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, vec, got.Vector)

	err = docs.UpdateVectors(ctx, map[core.ID]core.Vector{core.ID(77): vec})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVocabulary_SaveLoad(t *testing.T) {
	_, vocab := newTestRepos(t)
	ctx := context.Background()

	_, err := vocab.LoadVocabulary(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, vocab.SaveVocabulary(ctx, &core.Vocabulary{Version: 1, TitleWeight: 3, Terms: []string{"a"}}))
	require.NoError(t, vocab.SaveVocabulary(ctx, &core.Vocabulary{Version: 2, TitleWeight: 3, Terms: []string{"b", "c"}}))

	loaded, err := vocab.LoadVocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), loaded.Version)
	assert.Equal(t, []string{"b", "c"}, loaded.Terms)
}

func TestNewRepositories_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "catalog.db")
	ctx := context.Background()

	docs, _, backend, err := NewRepositories(path)
	require.NoError(t, err)
	_, err = docs.AddDocuments(ctx, &core.Document{Code: "CS 101", Name: "Programming"})
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	docs, _, backend, err = NewRepositories(path)
	require.NoError(t, err)
	defer backend.Close()

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
