package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"paperbase/internal/vectorstore"
)

// catalogScanLimit bounds how many chunks one listing reads from the store.
const catalogScanLimit = 100000

// ListDocuments derives the per-file document view for a tenant by grouping
// its stored chunks. The vector store is the source of truth; the SQL registry
// is only a filename cache for query understanding.
func ListDocuments(ctx context.Context, store vectorstore.Store, tenantID string) ([]Document, error) {
	if tenantID == "" {
		return nil, errors.New("tenant id is required")
	}

	chunks, err := store.Get(ctx, vectorstore.Filter{TenantID: tenantID}, catalogScanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	byFile := make(map[string]*Document)
	for _, chunk := range chunks {
		doc, ok := byFile[chunk.Filename]
		if !ok {
			doc = &Document{
				Filename:   chunk.Filename,
				Language:   chunk.Language,
				UploadedAt: chunk.UploadedAt,
			}
			byFile[chunk.Filename] = doc
		}
		doc.ChunkCount++
		if chunk.UploadedAt < doc.UploadedAt {
			doc.UploadedAt = chunk.UploadedAt
		}
	}

	docs := make([]Document, 0, len(byFile))
	for _, doc := range byFile {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(a, b int) bool {
		return docs[a].Filename < docs[b].Filename
	})
	return docs, nil
}
