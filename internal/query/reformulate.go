package query

import (
	"context"
	"fmt"
	"strings"

	"paperbase/internal/contextutil"
	"paperbase/internal/llm"
)

const (
	// shortQueryRunes is the length under which a query is presumed to be a
	// follow-up that needs conversational context.
	shortQueryRunes = 30

	// reformulatedMinRunes/MaxRunes bound an acceptable reformulation; results
	// outside the bounds are discarded in favor of the original question.
	reformulatedMinRunes = 10
	reformulatedMaxRunes = 300

	// historyWindow is how many trailing history messages feed the prompt.
	historyWindow = 6
)

// connectorPhrases signal a follow-up leaning on earlier turns, across the
// languages the knowledge base serves.
var connectorPhrases = []string{
	"what about", "how about", "and for", "and the", "same for",
	"e per", "e invece", "e riguardo", "anche per",
	"und was ist mit", "und für",
	"et pour", "qu'en est-il",
	"y para", "qué hay de",
}

// Reformulator rewrites context-dependent follow-up questions into
// self-contained ones using recent conversation history.
type Reformulator struct {
	llm Completer
}

// NewReformulator creates a follow-up reformulator.
func NewReformulator(llm Completer) *Reformulator {
	return &Reformulator{llm: llm}
}

const reformulatePromptTemplate = `Rewrite the user's last question so it is fully self-contained, using the conversation for context. Keep the user's language. Respond with only the rewritten question.

Conversation:
%s

Last question: %s`

// Reformulate returns a self-contained version of the question, or the
// original when it is already self-contained, there is no history to lean on,
// or the rewrite fails validation.
func (r *Reformulator) Reformulate(ctx context.Context, question string, history []llm.Message) string {
	logger := contextutil.LoggerFromContext(ctx)

	if len(history) == 0 || !NeedsReformulation(question) {
		return question
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var transcript strings.Builder
	for _, msg := range history {
		transcript.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}

	raw, err := r.llm.Complete(ctx, fmt.Sprintf(reformulatePromptTemplate, transcript.String(), question))
	if err != nil {
		logger.WarnContext(ctx, "reformulation failed, keeping original question", "error", err)
		return question
	}

	rewritten := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if n := len([]rune(rewritten)); n < reformulatedMinRunes || n > reformulatedMaxRunes {
		logger.WarnContext(ctx, "reformulation out of bounds, keeping original question",
			"length", n)
		return question
	}

	logger.DebugContext(ctx, "question reformulated", "original", question, "rewritten", rewritten)
	return rewritten
}

// NeedsReformulation reports whether a question looks context-dependent:
// either very short or opening with a connector phrase.
func NeedsReformulation(question string) bool {
	if len([]rune(strings.TrimSpace(question))) < shortQueryRunes {
		return true
	}
	lower := strings.ToLower(question)
	for _, phrase := range connectorPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
