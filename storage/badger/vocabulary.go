// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
)

// VocabularyRepository implements storage.VocabularyRepository for BadgerDB.
type VocabularyRepository struct {
	backend *Backend
}

var _ storage.VocabularyRepository = (*VocabularyRepository)(nil)

// NewVocabularyRepository creates a new VocabularyRepository.
func NewVocabularyRepository(backend *Backend) *VocabularyRepository {
	return &VocabularyRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *VocabularyRepository) Close() error {
	return nil
}

// SaveVocabulary replaces the stored vocabulary.
func (r *VocabularyRepository) SaveVocabulary(ctx context.Context, vocabulary *core.Vocabulary) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(vocabularyKey), storage.MarshalVocabulary(vocabulary)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadVocabulary returns the stored vocabulary.
func (r *VocabularyRepository) LoadVocabulary(ctx context.Context) (*core.Vocabulary, error) {
	var vocabulary *core.Vocabulary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(vocabularyKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vocabulary, unmarshalErr = storage.UnmarshalVocabulary(val)
			return unmarshalErr
		})
	}, false)

	return vocabulary, err
}
