package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paperbase/internal/contextutil"
	"paperbase/internal/rag"
	"paperbase/internal/storage"
	"paperbase/internal/vectorstore"
)

// DocumentDeleter removes one document from the knowledge base.
type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, tenantID, filename string) error
}

// DocumentsHandler lists and deletes a tenant's documents.
type DocumentsHandler struct {
	store   vectorstore.Store
	deleter DocumentDeleter
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(store vectorstore.Store, deleter DocumentDeleter) *DocumentsHandler {
	return &DocumentsHandler{store: store, deleter: deleter}
}

// ListResponse is the HTTP payload for a document listing.
type ListResponse struct {
	Documents []rag.Document `json:"documents"`
}

// List handles GET /api/v1/documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	docs, err := rag.ListDocuments(ctx, h.store, tenantID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []rag.Document{}
	}

	writeJSON(w, r, http.StatusOK, ListResponse{Documents: docs})
}

// Delete handles DELETE /api/v1/documents/{filename}.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	filename := chi.URLParam(r, "filename")
	if filename == "" {
		writeError(w, r, http.StatusBadRequest, "Filename is required")
		return
	}

	if err := h.deleter.DeleteDocument(ctx, tenantID, filename); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to delete document", "filename", filename, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
