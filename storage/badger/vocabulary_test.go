package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyRepository(t *testing.T) {
	docRepo, vocabRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		vocabRepo.Close()
		docRepo.Close()
		backend.Close()
	}()
	ctx := context.Background()

	_, err = vocabRepo.LoadVocabulary(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	first := &core.Vocabulary{
		Version:     1,
		TitleWeight: 3,
		Terms:       []string{"algorithm", "data"},
		BuiltAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, vocabRepo.SaveVocabulary(ctx, first))

	loaded, err := vocabRepo.LoadVocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Version, loaded.Version)
	assert.Equal(t, first.TitleWeight, loaded.TitleWeight)
	assert.Equal(t, first.Terms, loaded.Terms)
	assert.True(t, first.BuiltAt.Equal(loaded.BuiltAt))

	second := &core.Vocabulary{Version: 2, TitleWeight: 3, Terms: []string{"calculus"}}
	require.NoError(t, vocabRepo.SaveVocabulary(ctx, second))

	loaded, err = vocabRepo.LoadVocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), loaded.Version)
	assert.Equal(t, []string{"calculus"}, loaded.Terms)
}
