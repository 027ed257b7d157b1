package vocab

import "errors"

var (
	// ErrVocabularyRequired is returned when a nil vocabulary is supplied.
	ErrVocabularyRequired = errors.New("vocabulary required")

	// ErrInvalidTitleWeight is returned when the title weight is below 1.
	ErrInvalidTitleWeight = errors.New("title weight must be at least 1")

	// ErrMalformedVocabulary is returned when vocabulary terms are not sorted and unique.
	ErrMalformedVocabulary = errors.New("vocabulary terms must be sorted and unique")
)
