// Package indexer ingests uploaded documents: it stages the upload, parses it
// into elements, picks a chunking policy, splits and enriches the chunks, and
// stores them with their embeddings. The registry keeps a per-tenant document
// catalog so filename lists never require a vector store scan.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"paperbase/internal/contextutil"
	"paperbase/internal/parser"
	"paperbase/internal/storage"
	"paperbase/internal/vectorstore"
)

const (
	// previewElements and previewMaxChars cap the content sample handed to the
	// chunking policy classifier.
	previewElements = 15
	previewMaxChars = 5000

	// minDetectChars is the minimum chunk length considered reliable for
	// language detection.
	minDetectChars = 50
)

// Input-validation errors the HTTP layer maps to 400 responses.
var (
	ErrEmptyUpload = errors.New("uploaded file is empty")
	ErrNoContent   = errors.New("document contains no extractable text")
)

// Embedder produces embedding vectors for a batch of texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LanguageDetector detects the language of a text snippet.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Config holds the indexing tunables.
type Config struct {
	StructuralChunkSize int
	StructuralOverlap   int
	FixedChunkSize      int
	FixedOverlap        int
	BatchSize           int
	DensityThreshold    float64
}

// DefaultConfig returns the standard indexing settings.
func DefaultConfig() Config {
	return Config{
		StructuralChunkSize: 1024,
		StructuralOverlap:   100,
		FixedChunkSize:      512,
		FixedOverlap:        50,
		BatchSize:           500,
		DensityThreshold:    DefaultDensityThreshold,
	}
}

// Pipeline indexes uploaded documents into the vector store and registry.
type Pipeline struct {
	store    vectorstore.Store
	embedder Embedder
	registry storage.DocumentStore
	detector LanguageDetector
	cfg      Config
}

// NewPipeline creates an indexing pipeline.
func NewPipeline(store vectorstore.Store, embedder Embedder, registry storage.DocumentStore, detector LanguageDetector, cfg Config) *Pipeline {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Pipeline{
		store:    store,
		embedder: embedder,
		registry: registry,
		detector: detector,
		cfg:      cfg,
	}
}

// IndexDocument runs the full ingestion for one upload. Re-uploading a
// filename replaces the previous version. On embedding or storage failure the
// returned result still reports how many chunks were stored before the error.
func (p *Pipeline) IndexDocument(ctx context.Context, req IndexRequest) (IndexResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	result := IndexResult{Filename: req.Filename}

	if req.TenantID == "" {
		return result, errors.New("tenant id is required")
	}
	if req.Filename == "" {
		return result, errors.New("filename is required")
	}

	// The format check runs before staging so unsupported uploads fail fast.
	docParser, err := parser.ForFilename(req.Filename)
	if err != nil {
		return result, err
	}

	staged, size, err := stageUpload(req.Data, req.Filename)
	if err != nil {
		return result, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(staged); removeErr != nil {
			logger.WarnContext(ctx, "failed to remove staged upload", "path", staged, "error", removeErr)
		}
	}()

	if size == 0 {
		return result, ErrEmptyUpload
	}

	elements, err := docParser.Parse(staged)
	if err != nil {
		return result, fmt.Errorf("failed to parse %s: %w", req.Filename, err)
	}
	if len(elements) == 0 {
		return result, ErrNoContent
	}

	policy := ClassifyDocument(req.Filename, buildPreview(elements), p.cfg.DensityThreshold)
	result.Policy = policy

	splitter := p.splitterFor(policy)
	chunks := buildChunks(elements, splitter)
	if len(chunks) == 0 {
		return result, errors.New("document produced no chunks")
	}

	lang := p.resolveLanguage(req.Language, chunks)
	result.Language = lang

	uploadedAt := time.Now().UnixMilli()
	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].TenantID = req.TenantID
		chunks[i].Filename = req.Filename
		chunks[i].Language = lang
		chunks[i].UploadedAt = uploadedAt
	}

	// Replace any previous version of the document. A delete failure is
	// logged but does not abort: the worst case is stale chunks from the
	// previous version alongside the new ones.
	deleteFilter := vectorstore.Filter{TenantID: req.TenantID, IncludeFiles: []string{req.Filename}}
	if err := p.store.Delete(ctx, deleteFilter); err != nil {
		logger.WarnContext(ctx, "failed to delete previous document version",
			"tenant_id", req.TenantID, "filename", req.Filename, "error", err)
	}

	logger.InfoContext(ctx, "indexing document",
		"tenant_id", req.TenantID,
		"filename", req.Filename,
		"policy", policy,
		"language", lang,
		"chunks", len(chunks))

	for start := 0; start < len(chunks); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("failed to embed batch at chunk %d: %w", start, err)
		}

		stored, err := p.store.Add(ctx, batch, vectors)
		result.ChunksIndexed += stored
		if err != nil {
			return result, fmt.Errorf("failed to store batch at chunk %d: %w", start, err)
		}
	}

	record := &storage.DocumentRecord{
		TenantID:   req.TenantID,
		Filename:   req.Filename,
		Language:   lang,
		ChunkCount: result.ChunksIndexed,
		UploadedAt: uploadedAt,
	}
	if err := p.registry.Upsert(ctx, record); err != nil {
		// Chunks are already durable; the registry is a catalog that the next
		// successful upsert repairs.
		logger.WarnContext(ctx, "failed to update document registry",
			"tenant_id", req.TenantID, "filename", req.Filename, "error", err)
	}

	return result, nil
}

// DeleteDocument removes a document's chunks and its registry entry.
func (p *Pipeline) DeleteDocument(ctx context.Context, tenantID, filename string) error {
	if tenantID == "" {
		return errors.New("tenant id is required")
	}

	filter := vectorstore.Filter{TenantID: tenantID, IncludeFiles: []string{filename}}
	if err := p.store.Delete(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	if err := p.registry.Delete(ctx, tenantID, filename); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) splitterFor(policy ChunkPolicy) Splitter {
	if policy == PolicyStructural {
		return NewSplitter(p.cfg.StructuralChunkSize, p.cfg.StructuralOverlap)
	}
	return NewSplitter(p.cfg.FixedChunkSize, p.cfg.FixedOverlap)
}

// resolveLanguage prefers the caller-supplied code, then detection on the
// first chunk long enough to classify, then the default.
func (p *Pipeline) resolveLanguage(requested string, chunks []vectorstore.Chunk) string {
	if requested != "" {
		return strings.ToUpper(requested)
	}
	for _, c := range chunks {
		if len([]rune(c.Content)) < minDetectChars {
			continue
		}
		if code, ok := p.detector.Detect(c.Content); ok {
			return code
		}
		break
	}
	return "EN"
}

// buildChunks splits elements and stamps running-chapter and element-type
// metadata. The chapter is the most recent heading seen, applied to the
// heading's own chunks and everything after it until the next heading.
func buildChunks(elements []parser.Element, splitter Splitter) []vectorstore.Chunk {
	var chunks []vectorstore.Chunk
	var chapter string
	index := 0

	for _, el := range elements {
		if el.Type == parser.ElementHeading {
			chapter = strings.TrimSpace(el.Content)
		}
		for _, piece := range splitter.Split(el.Content) {
			chunks = append(chunks, vectorstore.Chunk{
				Content:     piece,
				Chapter:     chapter,
				ElementType: string(el.Type),
				ChunkIndex:  index,
			})
			index++
		}
	}
	return chunks
}

// buildPreview samples the leading elements for the policy classifier.
func buildPreview(elements []parser.Element) string {
	var b strings.Builder
	for i, el := range elements {
		if i >= previewElements || b.Len() >= previewMaxChars {
			break
		}
		b.WriteString(el.Content)
		b.WriteString("\n")
	}
	preview := b.String()
	if len(preview) > previewMaxChars {
		preview = preview[:previewMaxChars]
	}
	return preview
}

// stageUpload copies the upload to a temp file so parsers can seek, returning
// the staged path and byte count. The caller removes the file.
func stageUpload(data io.Reader, filename string) (string, int64, error) {
	f, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(f, data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, err
	}
	return f.Name(), size, nil
}
