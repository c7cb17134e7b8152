package rag

import (
	"context"
	"fmt"
	"strings"

	"paperbase/internal/contextutil"
)

// Completer is the LLM completion surface translation needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Translator bridges the language gap between user questions and the
// English-dominant document corpus. Every failure degrades to the input text.
type Translator struct {
	llm Completer
}

// NewTranslator creates a translator.
func NewTranslator(llm Completer) *Translator {
	return &Translator{llm: llm}
}

const translatePromptTemplate = `Translate the following text from %s to %s. Preserve technical terms and filenames as-is. Respond with only the translation.

Text: %s`

// ToEnglish translates text for retrieval. Returns the input unchanged when
// the source is already English or the translation fails.
func (t *Translator) ToEnglish(ctx context.Context, text, sourceLang string) string {
	return t.translate(ctx, text, sourceLang, "EN")
}

// FromEnglish translates a generated answer back into the user's language.
func (t *Translator) FromEnglish(ctx context.Context, text, targetLang string) string {
	return t.translate(ctx, text, "EN", targetLang)
}

func (t *Translator) translate(ctx context.Context, text, from, to string) string {
	if from == to || strings.TrimSpace(text) == "" {
		return text
	}
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := t.llm.Complete(ctx, fmt.Sprintf(translatePromptTemplate, from, to, text))
	if err != nil {
		logger.WarnContext(ctx, "translation failed, keeping original text",
			"from", from, "to", to, "error", err)
		return text
	}
	translated := strings.TrimSpace(raw)
	if translated == "" {
		return text
	}
	return translated
}
