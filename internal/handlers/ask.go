package handlers

import (
	"encoding/json"
	"net/http"

	"paperbase/internal/contextutil"
	"paperbase/internal/llm"
	"paperbase/internal/rag"
)

// AskHandler handles question answering requests.
type AskHandler struct {
	ragEngine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(ragEngine rag.Engine) *AskHandler {
	return &AskHandler{ragEngine: ragEngine}
}

// ChatMessage is one conversation turn in the request payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AskRequest is the HTTP payload for question answering.
type AskRequest struct {
	Question string        `json:"question"`
	History  []ChatMessage `json:"history,omitempty"`
	Language string        `json:"language,omitempty"`
	TopN     int           `json:"top_n,omitempty"`
}

// AskResponse is the HTTP payload for a generated answer.
type AskResponse struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Language string   `json:"language"`
	Category string   `json:"category"`
}

// ServeHTTP handles POST /api/v1/ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, r, http.StatusBadRequest, "Question is required")
		return
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, msg := range req.History {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	resp, err := h.ragEngine.Ask(ctx, rag.AskRequest{
		TenantID: tenantID,
		Question: req.Question,
		History:  history,
		Language: req.Language,
		TopN:     req.TopN,
	})
	if err != nil {
		logger.ErrorContext(ctx, "ask failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	writeJSON(w, r, http.StatusOK, AskResponse{
		Answer:   resp.Answer,
		Sources:  resp.Sources,
		Language: resp.Language,
		Category: string(resp.Category),
	})
}
