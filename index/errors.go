package index

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a nil document repository is supplied.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrVocabularyRepositoryRequired is returned when a nil vocabulary repository is supplied.
	ErrVocabularyRepositoryRequired = errors.New("vocabulary repository is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
