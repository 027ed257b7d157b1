package index

import (
	"runtime"
	"time"

	"github.com/poiesic/coursesearch/vocab"
)

// Config holds configuration for an indexing run.
type Config struct {
	// BatchSize is the number of documents read and written per batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// PoolSize is the number of vectorization workers
	PoolSize int

	// TitleWeight is how many times a document's name is repeated before counting terms
	TitleWeight int

	// SkipInvalid excludes invalid documents from the corpus instead of aborting
	SkipInvalid bool

	// ArtifactPath, when set, also writes the vocabulary to this file
	ArtifactPath string

	// MaxRetries is the maximum number of attempts for a failed vector write
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		PoolSize:       poolSize,
		TitleWeight:    vocab.DefaultTitleWeight,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}
