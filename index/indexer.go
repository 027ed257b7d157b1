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

package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
	"github.com/poiesic/coursesearch/vocab"
)

// Result summarizes an indexing run.
type Result struct {
	Documents int    // Documents indexed
	Skipped   int    // Invalid documents left out of the corpus
	Terms     int    // Vocabulary size
	Version   uint64 // Vocabulary version
	Elapsed   time.Duration
}

// Indexer orchestrates rebuilding the vocabulary and every document vector.
type Indexer struct {
	docs     storage.DocumentRepository
	vocabs   storage.VocabularyRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithConfig replaces the default configuration. The config is copied;
// options applied after it adjust the copy.
func WithConfig(config *Config) Option {
	return func(ix *Indexer) error {
		if config == nil {
			config = DefaultConfig()
		}
		c := *config
		ix.config = &c
		return nil
	}
}

// WithPoolSize sets the number of vectorization workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		ix.config.PoolSize = size
		return nil
	}
}

// WithSkipInvalid excludes invalid documents from the corpus instead of
// aborting the run.
func WithSkipInvalid(skip bool) Option {
	return func(ix *Indexer) error {
		ix.config.SkipInvalid = skip
		return nil
	}
}

// WithProgress sets where progress output is written.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		if w == nil {
			w = io.Discard
		}
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates a new indexer.
func NewIndexer(docs storage.DocumentRepository, vocabs storage.VocabularyRepository, opts ...Option) (*Indexer, error) {
	if docs == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if vocabs == nil {
		return nil, ErrVocabularyRepositoryRequired
	}

	ix := &Indexer{
		docs:     docs,
		vocabs:   vocabs,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	if ix.config.TitleWeight < 1 {
		return nil, fmt.Errorf("%w: %d", vocab.ErrInvalidTitleWeight, ix.config.TitleWeight)
	}
	return ix, nil
}

// Run rebuilds the index from every stored document.
// Vectors are written before the vocabulary; until the vocabulary is saved
// the stored vectors carry a version no saved vocabulary matches.
func (ix *Indexer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	iterator := NewDocumentIterator(ix.docs, ix.config.BatchSize)

	var corpus, skipped []*core.Document
	err := iterator.ForEach(ctx, func(batch []*core.Document) error {
		for _, doc := range batch {
			if err := validate(doc); err != nil {
				if !ix.config.SkipInvalid {
					return err
				}
				ix.logger.Warn("skipping invalid document", "id", doc.Id, "code", doc.Code, "error", err)
				skipped = append(skipped, doc)
				continue
			}
			corpus = append(corpus, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	vocabulary, err := vocab.Fit(corpus, ix.config.TitleWeight)
	if err != nil {
		return nil, err
	}
	vectorizer, err := vocab.NewVectorizer(vocabulary)
	if err != nil {
		return nil, err
	}
	ix.logger.Info("fitted vocabulary",
		"documents", len(corpus),
		"terms", vocabulary.Size(),
		"version", vocabulary.Version)

	fmt.Fprintf(ix.progress, "Indexing %d documents (%d terms, batch size: %d)\n",
		len(corpus), vocabulary.Size(), ix.config.BatchSize)

	pool, err := ants.NewPool(max(ix.config.PoolSize, 1))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	tracker := NewProgressTracker(ix.progress, len(corpus), ix.config.ReportInterval)
	tracker.Start()

	for i := 0; i < len(corpus); i += ix.config.batchSize() {
		end := min(i+ix.config.batchSize(), len(corpus))
		batch := corpus[i:end]

		vectors, err := vectorizeBatch(ctx, pool, vectorizer, batch)
		if err != nil {
			return nil, err
		}
		if err := ix.writeVectors(ctx, batch, vectors); err != nil {
			return nil, err
		}
		tracker.Increment(len(batch))
	}

	// Skipped documents keep no stale vector from a previous index.
	if len(skipped) > 0 {
		if err := ix.writeVectors(ctx, skipped, make([]core.Vector, len(skipped))); err != nil {
			return nil, err
		}
	}

	if err := ix.vocabs.SaveVocabulary(ctx, vocabulary); err != nil {
		return nil, fmt.Errorf("failed to save vocabulary: %w", err)
	}
	if ix.config.ArtifactPath != "" {
		if err := vocab.WriteFile(ix.config.ArtifactPath, vocabulary); err != nil {
			return nil, fmt.Errorf("failed to write vocabulary artifact: %w", err)
		}
	}

	tracker.Finish()
	result := &Result{
		Documents: len(corpus),
		Skipped:   len(skipped),
		Terms:     vocabulary.Size(),
		Version:   vocabulary.Version,
		Elapsed:   time.Since(start),
	}
	ix.logger.Info("index rebuilt",
		"documents", result.Documents,
		"skipped", result.Skipped,
		"elapsed", result.Elapsed)
	return result, nil
}

// writeVectors stores one batch of vectors, retrying transaction conflicts.
func (ix *Indexer) writeVectors(ctx context.Context, docs []*core.Document, vectors []core.Vector) error {
	update := make(map[core.ID]core.Vector, len(docs))
	for i, doc := range docs {
		update[doc.Id] = vectors[i]
	}
	err := RetryWithBackoff(ctx, func() error {
		return ix.docs.UpdateVectors(ctx, update)
	}, isRetryable, max(ix.config.MaxRetries, 1), ix.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to update vectors: %w", err)
	}
	for i, doc := range docs {
		doc.Vector = vectors[i]
	}
	return nil
}

// vectorizeBatch computes document vectors on the pool. Each task writes only
// its own slot, so the result order matches docs.
func vectorizeBatch(ctx context.Context, pool *ants.Pool, vectorizer *vocab.Vectorizer, docs []*core.Document) ([]core.Vector, error) {
	vectors := make([]core.Vector, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			vectors[i] = vectorizer.VectorizeDocument(doc)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()
	return vectors, nil
}

// validate checks the fields indexing depends on. Stored vectors are
// replaced, so they are not inspected.
func validate(doc *core.Document) error {
	if doc == nil {
		return core.ValidateDocument(nil)
	}
	fields := *doc
	fields.Vector = core.Vector{}
	return core.ValidateDocument(&fields)
}

func isRetryable(err error) bool {
	return errors.Is(err, storage.ErrTransactionFailed)
}

func (c *Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}
