package rag

import (
	"paperbase/internal/llm"
	"paperbase/internal/query"
	"paperbase/internal/vectorstore"
)

// AskRequest is one question against a tenant's knowledge base.
type AskRequest struct {
	TenantID string
	Question string
	// History holds prior conversation turns, oldest first.
	History []llm.Message
	// Language optionally forces the answer language (ISO 639-1). When empty
	// the answer follows the question's detected language. Retrieval-time
	// translation always follows the detected question language.
	Language string
	// TopN overrides how many passages feed answer generation; 0 uses the
	// configured default.
	TopN int
}

// AskResponse is the generated answer with its provenance.
type AskResponse struct {
	Answer   string         `json:"answer"`
	Sources  []string       `json:"sources"`
	Language string         `json:"language"`
	Category query.Category `json:"category"`
}

// RankedPassage is one retrieved chunk with its rerank score.
type RankedPassage struct {
	Chunk vectorstore.Chunk
	Score float64
}

// Document is the per-file aggregate view derived from stored chunks.
type Document struct {
	Filename   string `json:"filename"`
	Language   string `json:"language"`
	ChunkCount int    `json:"chunk_count"`
	UploadedAt int64  `json:"uploaded_at"`
}
