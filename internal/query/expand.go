package query

import (
	"context"
	"fmt"
	"strings"

	"paperbase/internal/contextutil"
)

const (
	// maxExpansions caps how many alternative phrasings are kept.
	maxExpansions = 3
	// minExpansionRunes drops degenerate lines like "ok" or stray bullets.
	minExpansionRunes = 5
)

// Expander generates alternative phrasings of a question for multi-query
// retrieval.
type Expander struct {
	llm Completer
}

// NewExpander creates a query expander.
func NewExpander(llm Completer) *Expander {
	return &Expander{llm: llm}
}

const expandPromptTemplate = `Generate up to 3 alternative phrasings of the question for document search. Keep the meaning and the language. One phrasing per line, no numbering, no commentary.

Question: %s`

// Expand returns up to three alternative phrasings. On failure it returns
// nothing; retrieval proceeds with the original question alone.
func (e *Expander) Expand(ctx context.Context, question string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := e.llm.Complete(ctx, fmt.Sprintf(expandPromptTemplate, question))
	if err != nil {
		logger.WarnContext(ctx, "query expansion failed, searching original only", "error", err)
		return nil
	}

	var variants []string
	for _, line := range strings.Split(raw, "\n") {
		line = stripListMarker(line)
		if len([]rune(line)) <= minExpansionRunes {
			continue
		}
		variants = append(variants, line)
		if len(variants) == maxExpansions {
			break
		}
	}
	return variants
}

// stripListMarker removes leading bullets and "1." / "1)" numbering the model
// adds despite instructions.
func stripListMarker(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• \t")
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 {
		if isDigits(line[:i]) {
			line = line[i+1:]
		}
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
