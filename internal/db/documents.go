package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a document does not exist or belongs to
// another owner.
var ErrNotFound = errors.New("document not found")

const documentColumns = `id, owner_id, name, style, format, content_type, page_count, size_bytes, record, violations, created_at`

// SaveDocument stores a rendered document and returns its metadata.
func (db *DB) SaveDocument(ctx context.Context, input *DocumentInput) (*Document, error) {
	record, err := json.Marshal(input.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var violations []byte
	if input.Violations != nil {
		violations, err = json.Marshal(input.Violations)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal violations: %w", err)
		}
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO documents (id, owner_id, name, style, format, content_type, page_count, size_bytes, content, record, violations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+documentColumns,
		uuid.New(), ownerParam(input.OwnerID), input.Name, input.Style, input.Format, input.ContentType,
		input.PageCount, len(input.Content), input.Content, record, violations,
	)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

// GetDocument retrieves document metadata by ID, scoped to owner.
func (db *DB) GetDocument(ctx context.Context, id, owner uuid.UUID) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 AND owner_id IS NOT DISTINCT FROM $2`,
		id, ownerParam(owner),
	)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// GetDocumentContent returns the stored bytes and content type of a document.
func (db *DB) GetDocumentContent(ctx context.Context, id, owner uuid.UUID) ([]byte, string, error) {
	var content []byte
	var contentType string
	err := db.pool.QueryRow(ctx,
		`SELECT content, content_type FROM documents WHERE id = $1 AND owner_id IS NOT DISTINCT FROM $2`,
		id, ownerParam(owner),
	).Scan(&content, &contentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get document content: %w", err)
	}
	return content, contentType, nil
}

// ListDocuments retrieves document metadata, newest first, with optional
// filters. It also returns the total count before paging.
func (db *DB) ListDocuments(ctx context.Context, filters DocumentFilters) ([]Document, int, error) {
	where, args := filters.where()

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	limit, offset := filters.page()
	query := fmt.Sprintf(`SELECT %s FROM documents%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		documentColumns, where, len(args)+1, len(args)+2)
	rows, err := db.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, total, nil
}

// DeleteDocument removes a document, scoped to owner.
func (db *DB) DeleteDocument(ctx context.Context, id, owner uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND owner_id IS NOT DISTINCT FROM $2`,
		id, ownerParam(owner),
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// where builds the WHERE clause and its arguments. The owner filter always
// applies; uuid.Nil selects documents stored without an owner.
func (f DocumentFilters) where() (string, []any) {
	clauses := []string{"owner_id IS NOT DISTINCT FROM $1"}
	args := []any{ownerParam(f.OwnerID)}

	if f.Format != "" {
		args = append(args, f.Format)
		clauses = append(clauses, fmt.Sprintf("format = $%d", len(args)))
	}
	if f.Style != "" {
		args = append(args, f.Style)
		clauses = append(clauses, fmt.Sprintf("style = $%d", len(args)))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// page clamps the limit and offset.
func (f DocumentFilters) page() (int, int) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ownerParam stores anonymous documents with a NULL owner.
func ownerParam(owner uuid.UUID) *uuid.UUID {
	if owner == uuid.Nil {
		return nil
	}
	return &owner
}

func scanDocument(row pgx.Row) (*Document, error) {
	var doc Document
	var record, violations []byte
	if err := row.Scan(&doc.ID, &doc.OwnerID, &doc.Name, &doc.Style, &doc.Format, &doc.ContentType,
		&doc.PageCount, &doc.SizeBytes, &record, &violations, &doc.CreatedAt); err != nil {
		return nil, err
	}
	doc.Record = record
	if len(violations) > 0 {
		doc.Violations = violations
	}
	return &doc, nil
}
