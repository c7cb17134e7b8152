package handlers

import (
	"context"
	"net/http"
	"time"

	"paperbase/internal/contextutil"
)

// HealthChecker verifies one dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports service health.
type HealthHandler struct {
	vectorStore HealthChecker
	timeout     time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore HealthChecker) *HealthHandler {
	return &HealthHandler{
		vectorStore: vectorStore,
		timeout:     5 * time.Second,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// ServeHTTP handles GET /healthz. The vector store is the one hard
// dependency; LLM checks are skipped to keep the endpoint fast.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	checks := map[string]string{"vector_store": "ok"}
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.vectorStore.HealthCheck(checkCtx); err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		checks["vector_store"] = "error"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, r, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
