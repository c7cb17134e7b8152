package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DocumentRecord is the registry entry for one indexed document. Chunk text
// itself lives in the vector store; this registry exists so per-tenant
// filename lists (needed by file-filter extraction) don't require a vector
// store scan.
type DocumentRecord struct {
	TenantID   string
	Filename   string
	Language   string
	ChunkCount int
	UploadedAt int64 // epoch milliseconds
}
