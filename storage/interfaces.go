package storage

import (
	"context"

	"github.com/poiesic/coursesearch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// DocumentRepository provides operations for managing catalog documents.
type DocumentRepository interface {
	Repository
	// AddDocuments adds one or more documents to storage.
	// Generates new IDs from a sequence so IDs follow insertion order.
	// Sets InsertedAt and UpdatedAt.
	// Returns ErrDuplicateKey if a code is already stored or repeated in the call.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments replaces existing documents, matched by ID.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocumentByCode retrieves a single document by its code.
	// Returns ErrNotFound if no document has the code.
	GetDocumentByCode(ctx context.Context, code string) (*core.Document, error)

	// ListDocuments returns every document in insertion order.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// ScanDocuments calls fn for every document in insertion order, starting
	// after the given ID (0 starts at the beginning), stopping after limit
	// documents when limit > 0. Returns the ID of the last document visited.
	ScanDocuments(ctx context.Context, after core.ID, limit int, fn func(*core.Document) error) (core.ID, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// UpdateVectors replaces the vectors of the given documents.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateVectors(ctx context.Context, vectors map[core.ID]core.Vector) error
}

// VocabularyRepository stores the vocabulary of the current index.
type VocabularyRepository interface {
	Repository
	// SaveVocabulary replaces the stored vocabulary.
	SaveVocabulary(ctx context.Context, vocabulary *core.Vocabulary) error

	// LoadVocabulary returns the stored vocabulary.
	// Returns ErrNotFound if no vocabulary has been saved.
	LoadVocabulary(ctx context.Context) (*core.Vocabulary, error)
}
