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

package coursesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/coursesearch/config"
	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/eval"
	"github.com/poiesic/coursesearch/index"
	"github.com/poiesic/coursesearch/search"
	"github.com/poiesic/coursesearch/storage"
	"github.com/poiesic/coursesearch/storage/badger"
	"github.com/poiesic/coursesearch/storage/sqlite"
	"github.com/poiesic/coursesearch/vocab"
)

// Database bundles a document store and its vocabulary.
type Database struct {
	backend io.Closer
	docs    storage.DocumentRepository
	vocabs  storage.VocabularyRepository
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	driver   string
	inMemory bool
	logger   *slog.Logger
}

// WithDriver selects the storage driver, config.DriverBadger or
// config.DriverSQLite. Default is badger.
func WithDriver(driver string) DatabaseOption {
	return func(o *databaseOptions) {
		o.driver = driver
	}
}

// InMemory keeps the whole store in memory. The path is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens or creates the store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		driver: config.DriverBadger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var (
		docs    storage.DocumentRepository
		vocabs  storage.VocabularyRepository
		backend io.Closer
		err     error
	)
	switch options.driver {
	case config.DriverBadger:
		var b *badger.Backend
		if options.inMemory {
			docs, vocabs, b, err = badger.NewMemoryRepositories()
		} else {
			docs, vocabs, b, err = badger.NewRepositories(filePath)
		}
		backend = b
	case config.DriverSQLite:
		var b *sqlite.Backend
		if options.inMemory {
			docs, vocabs, b, err = sqlite.NewMemoryRepositories()
		} else {
			docs, vocabs, b, err = sqlite.NewRepositories(filePath)
		}
		backend = b
	default:
		return nil, fmt.Errorf("unknown storage driver %q", options.driver)
	}
	if err != nil {
		return nil, err
	}

	return &Database{
		backend: backend,
		docs:    docs,
		vocabs:  vocabs,
		logger:  options.logger,
	}, nil
}

// OpenConfigured opens the store described by cfg.
func OpenConfigured(cfg config.Config, opts ...DatabaseOption) (*Database, error) {
	return NewDatabase(cfg.Storage.Path, append([]DatabaseOption{WithDriver(cfg.Storage.Driver)}, opts...)...)
}

func (db *Database) Close() error {
	if err := db.vocabs.Close(); err != nil {
		db.logger.Error("error closing vocabulary repository", "err", err)
		return err
	}
	if err := db.docs.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docs
}

func (db *Database) VocabularyRepository() storage.VocabularyRepository {
	return db.vocabs
}

// ImportResult counts what Import did.
type ImportResult struct {
	Added     int
	Updated   int
	Unchanged int
	Skipped   int // Invalid documents, only with skipInvalid
}

// Import upserts documents by code. Changed documents keep their stale
// vector until the next index run. Invalid documents fail the import, or
// are skipped when skipInvalid is set. Every validation failure is
// reported in the returned error.
func (db *Database) Import(ctx context.Context, docs []*core.Document, skipInvalid bool) (*ImportResult, error) {
	result := &ImportResult{}

	var valid []*core.Document
	var invalid []error
	for i, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			invalid = append(invalid, fmt.Errorf("document %d: %w", i+1, err))
			continue
		}
		valid = append(valid, doc)
	}
	if len(invalid) > 0 {
		if !skipInvalid {
			return result, errors.Join(invalid...)
		}
		for _, err := range invalid {
			db.logger.Warn("skipping invalid document", "err", err)
		}
		result.Skipped = len(invalid)
	}

	var added, updated []*core.Document
	for _, doc := range valid {
		existing, err := db.docs.GetDocumentByCode(ctx, doc.Code)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			added = append(added, doc)
		case err != nil:
			return result, err
		case existing.Name == doc.Name && existing.Description == doc.Description:
			result.Unchanged++
		default:
			existing.Name = doc.Name
			existing.Description = doc.Description
			updated = append(updated, existing)
		}
	}

	if len(added) > 0 {
		if _, err := db.docs.AddDocuments(ctx, added...); err != nil {
			return result, fmt.Errorf("failed to add documents: %w", err)
		}
		result.Added = len(added)
	}
	if len(updated) > 0 {
		if _, err := db.docs.UpdateDocuments(ctx, updated...); err != nil {
			return result, fmt.Errorf("failed to update documents: %w", err)
		}
		result.Updated = len(updated)
	}

	db.logger.Info("imported documents",
		"added", result.Added,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped)
	return result, nil
}

func (db *Database) NewIndexer(opts ...index.Option) (*index.Indexer, error) {
	return index.NewIndexer(db.docs, db.vocabs, append([]index.Option{index.WithLogger(db.logger)}, opts...)...)
}

// Index rebuilds the vocabulary and every document vector.
func (db *Database) Index(ctx context.Context, opts ...index.Option) (*index.Result, error) {
	indexer, err := db.NewIndexer(opts...)
	if err != nil {
		return nil, err
	}
	return indexer.Run(ctx)
}

// Vocabulary loads the stored vocabulary. It returns
// storage.ErrArtifactNotFound if the store has never been indexed and
// storage.ErrCorruptArtifact if the stored vocabulary cannot be decoded.
func (db *Database) Vocabulary(ctx context.Context) (*core.Vocabulary, error) {
	vocabulary, err := db.vocabs.LoadVocabulary(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%w: build the index first", storage.ErrArtifactNotFound)
	case errors.Is(err, storage.ErrSerializationFailed):
		return nil, fmt.Errorf("%w: stored vocabulary: %w", storage.ErrCorruptArtifact, err)
	case err != nil:
		return nil, err
	}
	return vocabulary, nil
}

// NewSearcher creates a searcher over the stored vocabulary.
func (db *Database) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	vocabulary, err := db.Vocabulary(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(db.docs, vocabulary, append([]search.Option{search.WithLogger(db.logger)}, opts...)...)
}

// NewSearcherFromFile creates a searcher over a vocabulary artifact file.
func (db *Database) NewSearcherFromFile(path string, opts ...search.Option) (*search.Searcher, error) {
	vocabulary, err := vocab.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(db.docs, vocabulary, append([]search.Option{search.WithLogger(db.logger)}, opts...)...)
}

// Evaluate ranks every judgment's query over the whole store and scores it.
func (db *Database) Evaluate(ctx context.Context, judgments []core.RelevanceJudgment, opts ...eval.Option) (*eval.Report, error) {
	searcher, err := db.NewSearcher(ctx)
	if err != nil {
		return nil, err
	}
	evaluator, err := eval.NewEvaluator(searcher, append([]eval.Option{eval.WithLogger(db.logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return evaluator.Run(ctx, judgments)
}
