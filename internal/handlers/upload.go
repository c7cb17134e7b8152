package handlers

import (
	"context"
	"errors"
	"net/http"

	"paperbase/internal/contextutil"
	"paperbase/internal/indexer"
	"paperbase/internal/parser"
)

const multipartMemoryLimit = 32 << 20 // 32 MiB in memory, rest spills to disk

// Indexer ingests one uploaded document.
type Indexer interface {
	IndexDocument(ctx context.Context, req indexer.IndexRequest) (indexer.IndexResult, error)
}

// UploadHandler handles document uploads.
type UploadHandler struct {
	pipeline       Indexer
	maxUploadBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(pipeline Indexer, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, maxUploadBytes: maxUploadBytes}
}

// UploadResponse reports the indexing outcome. ChunksIndexed is also present
// on partial failures so callers can see how far ingestion got.
type UploadResponse struct {
	Filename      string `json:"filename"`
	Policy        string `json:"policy"`
	Language      string `json:"language"`
	ChunksIndexed int    `json:"chunks_indexed"`
	Error         string `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/v1/documents (multipart: "file" required,
// "language" optional).
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "File field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	result, err := h.pipeline.IndexDocument(ctx, indexer.IndexRequest{
		TenantID: tenantID,
		Filename: header.Filename,
		Language: r.FormValue("language"),
		Data:     file,
	})
	if err != nil {
		var unsupported *parser.ErrUnsupportedFormat
		switch {
		case errors.As(err, &unsupported),
			errors.Is(err, indexer.ErrEmptyUpload),
			errors.Is(err, indexer.ErrNoContent):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			logger.ErrorContext(ctx, "document indexing failed",
				"filename", header.Filename, "chunks_indexed", result.ChunksIndexed, "error", err)
			writeJSON(w, r, http.StatusInternalServerError, UploadResponse{
				Filename:      result.Filename,
				Policy:        string(result.Policy),
				Language:      result.Language,
				ChunksIndexed: result.ChunksIndexed,
				Error:         "Failed to index document",
			})
		}
		return
	}

	writeJSON(w, r, http.StatusCreated, UploadResponse{
		Filename:      result.Filename,
		Policy:        string(result.Policy),
		Language:      result.Language,
		ChunksIndexed: result.ChunksIndexed,
	})
}
