package indexer

import "io"

// IndexRequest describes one document upload to be indexed.
type IndexRequest struct {
	TenantID string
	Filename string
	// Language is an optional uppercase ISO 639-1 code supplied by the
	// caller. When empty the pipeline detects it from chunk content.
	Language string
	Data     io.Reader
}

// IndexResult reports the outcome of indexing one document. On partial
// failure ChunksIndexed reflects how many chunks were durably stored before
// the error.
type IndexResult struct {
	Filename      string      `json:"filename"`
	Policy        ChunkPolicy `json:"policy"`
	Language      string      `json:"language"`
	ChunksIndexed int         `json:"chunks_indexed"`
}
