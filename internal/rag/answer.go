package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"paperbase/internal/contextutil"
	"paperbase/internal/language"
	"paperbase/internal/llm"
)

// Chatter is the multi-turn LLM surface answer generation needs.
type Chatter interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// AnswerGenerator turns ranked passages into a grounded answer in the user's
// language. It never returns an error to the caller: LLM failures become a
// localized apology so the conversation can continue.
type AnswerGenerator struct {
	chatter    Chatter
	translator *Translator
	detector   *language.Detector
}

// NewAnswerGenerator creates an answer generator.
func NewAnswerGenerator(chatter Chatter, translator *Translator, detector *language.Detector) *AnswerGenerator {
	return &AnswerGenerator{chatter: chatter, translator: translator, detector: detector}
}

const answerSystemPromptTemplate = "You are a knowledge base assistant. Answer the question using only the " +
	"information from the provided document context. If the context does not contain enough " +
	"information, say so. Answer in %s. Do not list sources; they are appended separately."

// Generate produces the answer and its source filenames. An empty passage
// pool yields a localized cannot-answer message; a generation failure yields
// a localized generic error. Both are terminal outcomes, not errors.
func (g *AnswerGenerator) Generate(ctx context.Context, question, lang string, passages []RankedPassage, history []llm.Message) (string, []string) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(passages) == 0 {
		logger.InfoContext(ctx, "empty retrieval pool, answering cannot-answer", "language", lang)
		return cannotAnswerMessage(lang), []string{}
	}

	var contextBuilder strings.Builder
	contextBuilder.WriteString("--- Document context ---\n\n")
	for _, p := range passages {
		if p.Chunk.Chapter != "" {
			contextBuilder.WriteString(fmt.Sprintf("File: %s | Chapter: %s\n", p.Chunk.Filename, p.Chunk.Chapter))
		} else {
			contextBuilder.WriteString(fmt.Sprintf("File: %s\n", p.Chunk.Filename))
		}
		contextBuilder.WriteString(fmt.Sprintf("Content: %s\n\n", p.Chunk.Content))
	}
	contextBuilder.WriteString("--- End context ---")

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(answerSystemPromptTemplate, languageName(lang)),
	})
	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: stripSourcesBlock(msg.Content),
		})
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("%s\n\n%s", question, contextBuilder.String()),
	})

	answer, err := g.chatter.ChatWithMessages(ctx, messages, llm.ChatParams{Temperature: 0.7})
	if err != nil {
		logger.ErrorContext(ctx, "answer generation failed", "error", err)
		return genericErrorMessage(lang), []string{}
	}
	answer = strings.TrimSpace(answer)

	// The model sometimes answers in English despite the instruction. Only a
	// raw answer detected as English gets translated back, so an answer
	// already in the target language is never round-tripped.
	if lang != language.DefaultCode {
		if detected, ok := g.detector.Detect(answer); ok && detected == language.DefaultCode {
			answer = g.translator.FromEnglish(ctx, answer, lang)
		}
	}

	sources := sourceFilenames(passages)
	answer += formatSourcesBlock(sources, lang)
	return answer, sources
}

// sourceFilenames returns the distinct source filenames, sorted.
func sourceFilenames(passages []RankedPassage) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range passages {
		if p.Chunk.Filename == "" || seen[p.Chunk.Filename] {
			continue
		}
		seen[p.Chunk.Filename] = true
		names = append(names, p.Chunk.Filename)
	}
	sort.Strings(names)
	return names
}

func formatSourcesBlock(sources []string, lang string) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n\n%s:\n", sourcesLabel(lang)))
	for _, s := range sources {
		b.WriteString(fmt.Sprintf("- %s\n", s))
	}
	return strings.TrimRight(b.String(), "\n")
}

// stripSourcesBlock removes a trailing source list from a prior answer so
// history fed back to the model stays clean. All localized labels are tried.
func stripSourcesBlock(content string) string {
	for _, label := range sourcesLabels {
		if idx := strings.LastIndex(content, "\n\n"+label+":\n"); idx >= 0 {
			return strings.TrimSpace(content[:idx])
		}
	}
	return content
}
