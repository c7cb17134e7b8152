// Package query implements query understanding: file-filter extraction,
// follow-up reformulation, intent classification, and multi-query expansion.
// Every component degrades to a safe default when the LLM misbehaves; a
// malformed completion never fails the request.
package query

import (
	"context"
	"math"
	"strings"
)

// Completer is the LLM completion surface the query components need.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder produces embedding vectors for a batch of texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// extractJSON tolerates the fenced or chatty completions smaller models
// produce: it strips markdown fences and cuts to the outermost JSON object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
