package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks paperbase/internal/vectorstore Store

import "context"

// Payload field names for stored chunks. These are fixed for compatibility
// with already-indexed data and must not be renamed.
const (
	FieldContent     = "content"
	FieldTenantID    = "tenant_id"
	FieldFilename    = "filename"
	FieldLanguage    = "language"
	FieldChunkIndex  = "chunk_index"
	FieldChapter     = "chapter"
	FieldElementType = "element_type"
	FieldUploadedAt  = "uploaded_at"
)

// Chunk is the atomic stored and retrieved unit: one piece of document text
// with its fixed metadata fields. Chunks are immutable once stored; updates
// are modeled as delete-then-reinsert.
type Chunk struct {
	ID          string
	Content     string
	TenantID    string
	Filename    string
	Language    string // 2-letter uppercase ISO 639-1 code
	Chapter     string // last-seen heading at indexing time
	ElementType string // heading or body
	ChunkIndex  int
	UploadedAt  int64 // epoch milliseconds
}

// Filter scopes store operations. TenantID is mandatory on every operation;
// no retrieval may be issued without a tenant scope. When IncludeFiles is
// non-empty it takes precedence and ExcludeFiles is ignored.
type Filter struct {
	TenantID     string
	IncludeFiles []string
	ExcludeFiles []string
}

// Store defines the vector store collaborator contract.
type Store interface {
	// Add stores chunks with their embedding vectors and returns the number
	// of chunks stored.
	Add(ctx context.Context, chunks []Chunk, vectors [][]float32) (int, error)

	// Get returns up to limit chunks matching the filter, without scoring.
	Get(ctx context.Context, filter Filter, limit int) ([]Chunk, error)

	// Delete removes all chunks matching the filter.
	Delete(ctx context.Context, filter Filter) error

	// Search performs a similarity search scoped by the filter and returns
	// the k nearest chunks in descending similarity order.
	Search(ctx context.Context, vector []float32, filter Filter, k int) ([]Chunk, error)
}
