// Package http assembles the API router: middleware stack, tenant scoping,
// and route registration.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"paperbase/internal/handlers"
	"paperbase/internal/rag"
	"paperbase/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RAGEngine      rag.Engine
	Indexer        handlers.Indexer
	Deleter        handlers.DocumentDeleter
	VectorStore    vectorstore.Store
	HealthChecker  handlers.HealthChecker
	MaxUploadBytes int64
}

// NewRouter creates the API router. Everything under /api/v1 is tenant-scoped
// via the X-Tenant-ID header; the health endpoint is not.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.RAGEngine)
	uploadHandler := handlers.NewUploadHandler(deps.Indexer, deps.MaxUploadBytes)
	documentsHandler := handlers.NewDocumentsHandler(deps.VectorStore, deps.Deleter)
	healthHandler := handlers.NewHealthHandler(deps.HealthChecker)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TenantMiddleware)

		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/documents", uploadHandler)
		r.Get("/documents", documentsHandler.List)
		r.Delete("/documents/{filename}", documentsHandler.Delete)
	})

	r.Method(http.MethodGet, "/healthz", healthHandler)

	return r
}
