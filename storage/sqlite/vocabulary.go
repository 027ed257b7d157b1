package sqlite

import (
	"context"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
)

// VocabularyRepository implements storage.VocabularyRepository for SQLite.
type VocabularyRepository struct {
	backend *Backend
}

var _ storage.VocabularyRepository = (*VocabularyRepository)(nil)

// NewVocabularyRepository creates a new VocabularyRepository.
func NewVocabularyRepository(backend *Backend) *VocabularyRepository {
	return &VocabularyRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *VocabularyRepository) Close() error {
	return nil
}

// SaveVocabulary replaces the stored vocabulary.
func (r *VocabularyRepository) SaveVocabulary(ctx context.Context, vocabulary *core.Vocabulary) error {
	_, err := r.backend.db.ExecContext(ctx,
		`INSERT INTO vocabulary(id, data) VALUES(1, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		storage.MarshalVocabulary(vocabulary))
	return translateError(err)
}

// LoadVocabulary returns the stored vocabulary.
func (r *VocabularyRepository) LoadVocabulary(ctx context.Context) (*core.Vocabulary, error) {
	var data []byte
	if err := r.backend.db.QueryRowContext(ctx, `SELECT data FROM vocabulary WHERE id = 1`).Scan(&data); err != nil {
		return nil, translateError(err)
	}
	return storage.UnmarshalVocabulary(data)
}
