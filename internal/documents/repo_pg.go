package documents

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, owner_id, stored_name, original_name, kind, size_bytes, ocr_text, summary, shared_with, created_at`

// Create inserts a fully processed document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, owner_id, stored_name, original_name, kind, size_bytes, ocr_text, summary, shared_with, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var sharedWith sql.NullString
	if doc.SharedWith != "" {
		sharedWith = sql.NullString{String: doc.SharedWith, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.OwnerID,
		doc.StoredName,
		doc.OriginalName,
		string(doc.Kind),
		doc.SizeBytes,
		doc.OCRText,
		doc.Summary,
		sharedWith,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by id.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
}

// GetByStoredName fetches a document by its stored-file reference.
func (r *PGRepo) GetByStoredName(ctx context.Context, storedName string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE stored_name = $1
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, storedName))
}

// ListByOwner lists a user's documents, newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE owner_id = $1
ORDER BY created_at DESC`
	return r.listDocuments(ctx, query, ownerID)
}

// ListSharedWith lists documents currently shared with a doctor, newest first.
func (r *PGRepo) ListSharedWith(ctx context.Context, doctorID string) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE shared_with = $1
ORDER BY created_at DESC`
	return r.listDocuments(ctx, query, doctorID)
}

// SetSharedWith grants the doctor access in a single owner-checked update.
func (r *PGRepo) SetSharedWith(ctx context.Context, documentID, ownerID, doctorID string) error {
	const query = `
UPDATE documents
SET shared_with = $1
WHERE id = $2 AND owner_id = $3`
	res, err := r.DB.ExecContext(ctx, query, doctorID, documentID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.explainMiss(ctx, documentID, ErrNotOwner)
	}
	return nil
}

// AppendSummary appends the note in a single recipient-checked update.
func (r *PGRepo) AppendSummary(ctx context.Context, documentID, doctorID, note string) error {
	const query = `
UPDATE documents
SET summary = summary || $1
WHERE id = $2 AND shared_with = $3`
	res, err := r.DB.ExecContext(ctx, query, note, documentID, doctorID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.explainMiss(ctx, documentID, ErrForbidden)
	}
	return nil
}

// explainMiss tells a zero-row update apart: the document is either absent or
// the permission predicate failed.
func (r *PGRepo) explainMiss(ctx context.Context, documentID string, denied error) error {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = $1`, documentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return denied
}

func (r *PGRepo) listDocuments(ctx context.Context, query string, arg string) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var kind string
	var sharedWith sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.StoredName,
		&doc.OriginalName,
		&kind,
		&doc.SizeBytes,
		&doc.OCRText,
		&doc.Summary,
		&sharedWith,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.Kind = object.Kind(kind)
	if sharedWith.Valid {
		doc.SharedWith = sharedWith.String
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
