// Package sqlite implements the storage repositories on SQLite.
//
// Documents live in a single table whose AUTOINCREMENT primary key preserves
// insertion order. Vectors and the vocabulary are stored as the same binary
// encodings the BadgerDB backend uses.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/poiesic/coursesearch/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents(
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		code        TEXT UNIQUE NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		vector      BLOB,
		inserted_at INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS vocabulary(
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL
	);
`

// Backend wraps a SQLite database handle.
type Backend struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenBackend opens (creating if needed) a SQLite database file.
// An empty path opens a private in-memory database.
func OpenBackend(path string) (*Backend, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger := slog.Default().With("component", "sqlite")
	logger.Debug("opened database", "path", dsn)
	return &Backend{db: db, logger: logger}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// NewRepositories opens a SQLite database at path and returns its document
// and vocabulary repositories.
func NewRepositories(path string) (storage.DocumentRepository, storage.VocabularyRepository, *Backend, error) {
	backend, err := OpenBackend(path)
	if err != nil {
		return nil, nil, nil, err
	}
	return NewDocumentRepository(backend), NewVocabularyRepository(backend), backend, nil
}

// NewMemoryRepositories creates in-memory repositories for testing.
func NewMemoryRepositories() (storage.DocumentRepository, storage.VocabularyRepository, *Backend, error) {
	return NewRepositories("")
}

// translateError maps driver errors onto storage errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if errors.Is(err, sql.ErrConnDone) {
		return storage.ErrStorageClosed
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %w", storage.ErrDuplicateKey, err)
		case sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked:
			return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
		}
	}
	return err
}
