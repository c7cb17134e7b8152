package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"paperbase/internal/contextutil"
	"paperbase/internal/vectorstore"
)

const (
	// defaultPoolK is how many chunks each query variant contributes before
	// dedup and reranking.
	defaultPoolK = 30

	// maxConcurrentSearches bounds parallel variant searches.
	maxConcurrentSearches = 4
)

// Embedder produces embedding vectors for a batch of texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever runs multi-query retrieval: each variant is embedded and searched
// concurrently, then the pools are merged with duplicate chunks removed.
type Retriever struct {
	store    vectorstore.Store
	embedder Embedder
	k        int
}

// NewRetriever creates a retriever. k <= 0 selects the default pool size.
func NewRetriever(store vectorstore.Store, embedder Embedder, k int) *Retriever {
	if k <= 0 {
		k = defaultPoolK
	}
	return &Retriever{store: store, embedder: embedder, k: k}
}

// Retrieve searches all variants and returns the merged pool in first-seen
// order (variant order, then rank within each variant). A single variant
// failing is logged and skipped; the pool just gets smaller.
func (r *Retriever) Retrieve(ctx context.Context, variants []string, filter vectorstore.Filter) ([]vectorstore.Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if filter.TenantID == "" {
		return nil, errors.New("tenant id is required for retrieval")
	}
	if len(variants) == 0 {
		return nil, errors.New("no query variants to search")
	}

	// Results land in variant-indexed slots so merge order is deterministic
	// regardless of goroutine scheduling.
	results := make([][]vectorstore.Chunk, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSearches)
	for i, variant := range variants {
		g.Go(func() error {
			vectors, err := r.embedder.EmbedTexts(gctx, []string{variant})
			if err != nil {
				logger.WarnContext(gctx, "variant embedding failed, skipping", "variant", variant, "error", err)
				return nil
			}
			if len(vectors) == 0 {
				return nil
			}
			chunks, err := r.store.Search(gctx, vectors[0], filter, r.k)
			if err != nil {
				logger.WarnContext(gctx, "variant search failed, skipping", "variant", variant, "error", err)
				return nil
			}
			results[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var pool []vectorstore.Chunk
	for _, chunks := range results {
		for _, chunk := range chunks {
			if chunk.TenantID != filter.TenantID {
				logger.ErrorContext(ctx, "dropping chunk from another tenant",
					"expected", filter.TenantID, "got", chunk.TenantID, "chunk_id", chunk.ID)
				continue
			}
			fp := fingerprint(chunk)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			pool = append(pool, chunk)
		}
	}

	logger.InfoContext(ctx, "retrieval pool assembled",
		"variants", len(variants), "pool_size", len(pool))
	return pool, nil
}

// fingerprint identifies a chunk by its content plus sorted metadata, so the
// same text indexed under different files or positions is not collapsed.
func fingerprint(c vectorstore.Chunk) string {
	pairs := []string{
		fmt.Sprintf("%s=%s", vectorstore.FieldTenantID, c.TenantID),
		fmt.Sprintf("%s=%s", vectorstore.FieldFilename, c.Filename),
		fmt.Sprintf("%s=%s", vectorstore.FieldLanguage, c.Language),
		fmt.Sprintf("%s=%s", vectorstore.FieldChapter, c.Chapter),
		fmt.Sprintf("%s=%s", vectorstore.FieldElementType, c.ElementType),
		fmt.Sprintf("%s=%d", vectorstore.FieldChunkIndex, c.ChunkIndex),
		fmt.Sprintf("%s=%d", vectorstore.FieldUploadedAt, c.UploadedAt),
	}
	sort.Strings(pairs)

	h := sha256.New()
	h.Write([]byte(c.Content))
	for _, p := range pairs {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
