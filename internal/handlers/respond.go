// Package handlers implements the HTTP API surface. Handlers translate
// between wire payloads and the domain packages; tenant scoping is injected
// by middleware before any handler runs.
package handlers

import (
	"encoding/json"
	"net/http"

	"paperbase/internal/contextutil"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger := contextutil.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, r, statusCode, ErrorResponse{Error: message})
}

// requireTenant returns the tenant id from context or writes a 400. The
// tenant middleware normally rejects these requests before they get here.
func requireTenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID := contextutil.TenantFromContext(r.Context())
	if tenantID == "" {
		writeError(w, r, http.StatusBadRequest, "Tenant ID is required")
		return "", false
	}
	return tenantID, true
}
