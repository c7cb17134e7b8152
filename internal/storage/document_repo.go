package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines persistence operations for the document registry.
type DocumentStore interface {
	// Upsert inserts or replaces the registry entry for a document.
	Upsert(ctx context.Context, doc *DocumentRecord) error

	// Delete removes the registry entry for a document.
	// Returns ErrNotFound if no entry exists.
	Delete(ctx context.Context, tenantID, filename string) error

	// ListFilenames returns all filenames registered for a tenant, sorted.
	ListFilenames(ctx context.Context, tenantID string) ([]string, error)

	// ListByTenant returns all registry entries for a tenant, sorted by filename.
	ListByTenant(ctx context.Context, tenantID string) ([]*DocumentRecord, error)
}

// DocumentRepo implements DocumentStore using SQLite.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert inserts or replaces the registry entry for a document.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	query := `
		INSERT INTO documents (tenant_id, filename, language, chunk_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, filename) DO UPDATE SET
			language = excluded.language,
			chunk_count = excluded.chunk_count,
			uploaded_at = excluded.uploaded_at
	`
	_, err := r.db.ExecContext(ctx, query,
		doc.TenantID, doc.Filename, doc.Language, doc.ChunkCount, doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Delete removes the registry entry for a document.
func (r *DocumentRepo) Delete(ctx context.Context, tenantID, filename string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE tenant_id = ? AND filename = ?`, tenantID, filename)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilenames returns all filenames registered for a tenant, sorted.
func (r *DocumentRepo) ListFilenames(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT filename FROM documents WHERE tenant_id = ? ORDER BY filename`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list filenames: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var filenames []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("failed to scan filename: %w", err)
		}
		filenames = append(filenames, filename)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate filenames: %w", err)
	}
	return filenames, nil
}

// ListByTenant returns all registry entries for a tenant, sorted by filename.
func (r *DocumentRepo) ListByTenant(ctx context.Context, tenantID string) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tenant_id, filename, language, chunk_count, uploaded_at
		FROM documents WHERE tenant_id = ? ORDER BY filename`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		doc := &DocumentRecord{}
		if err := rows.Scan(&doc.TenantID, &doc.Filename, &doc.Language, &doc.ChunkCount, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}
