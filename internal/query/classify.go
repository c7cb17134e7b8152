package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"paperbase/internal/contextutil"
)

// Category is the coarse intent of a question. The set is closed; anything
// else maps to CategoryGeneralSearch.
type Category string

const (
	CategoryGeneralSearch   Category = "GENERAL_SEARCH"
	CategoryTroubleshooting Category = "TROUBLESHOOTING"
	CategoryPolicyCheck     Category = "POLICY_CHECK"
	CategoryTechnicalSpec   Category = "TECHNICAL_SPEC"
)

var validCategories = map[Category]bool{
	CategoryGeneralSearch:   true,
	CategoryTroubleshooting: true,
	CategoryPolicyCheck:     true,
	CategoryTechnicalSpec:   true,
}

// Classifier assigns a question to one of the fixed categories.
type Classifier struct {
	llm Completer
}

// NewClassifier creates a question classifier.
func NewClassifier(llm Completer) *Classifier {
	return &Classifier{llm: llm}
}

const classifyPromptTemplate = `Classify the question into exactly one category:
GENERAL_SEARCH, TROUBLESHOOTING, POLICY_CHECK, TECHNICAL_SPEC

Question: %s

Respond with only a JSON object like {"category": "GENERAL_SEARCH"}.`

// Classify returns the question's category. Models sometimes answer with an
// "intent" key instead of "category"; both are accepted. Any failure or
// unknown label degrades to CategoryGeneralSearch.
func (c *Classifier) Classify(ctx context.Context, question string) Category {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := c.llm.Complete(ctx, fmt.Sprintf(classifyPromptTemplate, question))
	if err != nil {
		logger.WarnContext(ctx, "classification failed, defaulting", "error", err)
		return CategoryGeneralSearch
	}

	var parsed struct {
		Category string `json:"category"`
		Intent   string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		logger.WarnContext(ctx, "unparseable classification, defaulting", "error", err)
		return CategoryGeneralSearch
	}

	label := parsed.Category
	if label == "" {
		label = parsed.Intent
	}
	category := Category(strings.ToUpper(strings.TrimSpace(label)))
	if !validCategories[category] {
		return CategoryGeneralSearch
	}
	return category
}
