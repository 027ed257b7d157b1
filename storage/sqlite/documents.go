package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
)

const documentColumns = `id, code, name, description, vector, inserted_at, updated_at`

// DocumentRepository implements storage.DocumentRepository for SQLite.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *DocumentRepository) Close() error {
	return nil
}

// withTx runs fn in a transaction, committing if it returns nil.
func (r *DocumentRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return translateError(err)
	}
	return translateError(tx.Commit())
}

// AddDocuments adds one or more documents to storage.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, doc := range docs {
			doc.InsertedAt = time.Now().UTC()
			doc.UpdatedAt = doc.InsertedAt
			res, err := tx.ExecContext(ctx,
				`INSERT INTO documents(code, name, description, vector, inserted_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)`,
				doc.Code, doc.Name, doc.Description, storage.MarshalVector(doc.Vector),
				doc.InsertedAt.UnixMicro(), doc.UpdatedAt.UnixMicro())
			if err != nil {
				return fmt.Errorf("insert %q: %w", doc.Code, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			doc.Id = core.ID(id)
		}
		return nil
	})
	return docs, err
}

// UpdateDocuments replaces existing documents.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, doc := range docs {
			updatedAt := time.Now().UTC()
			res, err := tx.ExecContext(ctx,
				`UPDATE documents SET code = ?, name = ?, description = ?, vector = ?, updated_at = ? WHERE id = ?`,
				doc.Code, doc.Name, doc.Description, storage.MarshalVector(doc.Vector),
				updatedAt.UnixMicro(), int64(doc.Id))
			if err != nil {
				return err
			}
			if err := requireRow(res); err != nil {
				return err
			}
			doc.UpdatedAt = updatedAt
		}
		return nil
	})
	return docs, err
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, int64(id))
			if err != nil {
				return err
			}
			if err := requireRow(res); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	row := r.backend.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, int64(id))
	doc, err := scanDocument(row)
	return doc, translateError(err)
}

// GetDocumentByCode retrieves a single document by its code.
func (r *DocumentRepository) GetDocumentByCode(ctx context.Context, code string) (*core.Document, error) {
	row := r.backend.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE code = ?`, code)
	doc, err := scanDocument(row)
	return doc, translateError(err)
}

// ListDocuments returns every document in insertion order.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	return r.query(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY id`)
}

// ScanDocuments visits documents in insertion order after the given ID.
// Rows are read before fn runs so fn may call back into the repository.
func (r *DocumentRepository) ScanDocuments(ctx context.Context, after core.ID, limit int, fn func(*core.Document) error) (core.ID, error) {
	if limit <= 0 {
		limit = -1
	}
	docs, err := r.query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id > ? ORDER BY id LIMIT ?`, int64(after), limit)
	if err != nil {
		return after, err
	}
	last := after
	for _, doc := range docs {
		if err := fn(doc); err != nil {
			return last, err
		}
		last = doc.Id
	}
	return last, nil
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := r.backend.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, translateError(err)
}

// UpdateVectors replaces the vectors of the given documents.
func (r *DocumentRepository) UpdateVectors(ctx context.Context, vectors map[core.ID]core.Vector) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE documents SET vector = ? WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for id, vec := range vectors {
			res, err := stmt.ExecContext(ctx, storage.MarshalVector(vec), int64(id))
			if err != nil {
				return err
			}
			if err := requireRow(res); err != nil {
				return fmt.Errorf("document %d: %w", id, err)
			}
		}
		return nil
	})
}

func (r *DocumentRepository) query(ctx context.Context, query string, args ...any) ([]*core.Document, error) {
	rows, err := r.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var docs []*core.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, translateError(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*core.Document, error) {
	var (
		doc                   core.Document
		id                    int64
		vector                []byte
		insertedAt, updatedAt int64
	)
	if err := row.Scan(&id, &doc.Code, &doc.Name, &doc.Description, &vector, &insertedAt, &updatedAt); err != nil {
		return nil, err
	}
	doc.Id = core.ID(id)
	doc.InsertedAt = time.UnixMicro(insertedAt).UTC()
	doc.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	if len(vector) > 0 {
		vec, err := storage.UnmarshalVector(vector)
		if err != nil {
			return nil, err
		}
		doc.Vector = vec
	}
	return &doc, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
