package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"paperbase/internal/contextutil"
)

// DefaultFuzzyThreshold is the minimum embedding cosine similarity for a
// mentioned filename to be mapped onto an indexed one.
const DefaultFuzzyThreshold = 0.7

// FilterExtraction is the outcome of file-filter extraction. Filenames are
// always drawn from the tenant's indexed set; mentions that match nothing are
// dropped silently. When a filename lands in both lists, include wins.
type FilterExtraction struct {
	IncludeFiles []string
	ExcludeFiles []string
	CleanedQuery string
}

// Extractor pulls file scoping intent ("only in the HR manual", "ignore the
// old contract") out of a question and maps the mentions onto indexed
// filenames.
type Extractor struct {
	llm       Completer
	embedder  Embedder
	threshold float64
}

// NewExtractor creates a filter extractor. threshold <= 0 selects the default.
func NewExtractor(llm Completer, embedder Embedder, threshold float64) *Extractor {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Extractor{llm: llm, embedder: embedder, threshold: threshold}
}

const filterPromptTemplate = `You extract document filters from a user question.

The user's knowledge base contains these files:
%s

Question: %s

Respond with only a JSON object:
{"include_files": [...], "exclude_files": [...], "cleaned_query": "..."}

include_files: files the user wants to restrict the search to.
exclude_files: files the user wants left out.
cleaned_query: the question with the file references removed.
Use empty arrays when the question does not mention files.`

// Extract derives file filters from the question against the tenant's indexed
// filenames. LLM or parse failures yield no filters and the original question.
func (e *Extractor) Extract(ctx context.Context, question string, available []string) FilterExtraction {
	logger := contextutil.LoggerFromContext(ctx)
	out := FilterExtraction{CleanedQuery: question}

	if len(available) == 0 {
		return out
	}

	prompt := fmt.Sprintf(filterPromptTemplate, "- "+strings.Join(available, "\n- "), question)
	raw, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		logger.WarnContext(ctx, "filter extraction failed, continuing unfiltered", "error", err)
		return out
	}

	var parsed struct {
		IncludeFiles []string `json:"include_files"`
		ExcludeFiles []string `json:"exclude_files"`
		CleanedQuery string   `json:"cleaned_query"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		logger.WarnContext(ctx, "unparseable filter extraction, continuing unfiltered", "error", err)
		return out
	}

	include := e.matchFilenames(ctx, parsed.IncludeFiles, available)
	exclude := e.matchFilenames(ctx, parsed.ExcludeFiles, available)

	// Contradictory mentions resolve in favor of inclusion.
	if len(include) > 0 {
		exclude = subtract(exclude, include)
	}

	out.IncludeFiles = include
	out.ExcludeFiles = exclude
	if cleaned := strings.TrimSpace(parsed.CleanedQuery); cleaned != "" {
		out.CleanedQuery = cleaned
	}
	return out
}

/// matchFilenames maps mentioned names onto indexed ones: exact
// case-insensitive first, then embedding similarity for the leftovers. All
// leftover mentions and candidates are embedded in a single call.
func (e *Extractor) matchFilenames(ctx context.Context, mentioned, available []string) []string {
	if len(mentioned) == 0 {
		return nil
	}

	byLower := make(map[string]string, len(available))
	for _, name := range available {
		byLower[strings.ToLower(name)] = name
	}

	var matched, unmatched []string
	for _, m := range mentioned {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if name, ok := byLower[strings.ToLower(m)]; ok {
			matched = append(matched, name)
		} else {
			unmatched = append(unmatched, m)
		}
	}

	if len(unmatched) > 0 && e.embedder != nil {
		matched = append(matched, e.fuzzyMatch(ctx, unmatched, available)...)
	}
	return dedupe(matched)
}

func (e *Extractor) fuzzyMatch(ctx context.Context, mentions, available []string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	vectors, err := e.embedder.EmbedTexts(ctx, append(append([]string{}, mentions...), available...))
	if err != nil {
		logger.WarnContext(ctx, "fuzzy filename matching failed, dropping mentions",
			"mentions", mentions, "error", err)
		return nil
	}
	if len(vectors) != len(mentions)+len(available) {
		return nil
	}

	var matched []string
	for i, mention := range mentions {
		bestIdx, bestScore := -1, 0.0
		for j := range available {
			score := cosineSimilarity(vectors[i], vectors[len(mentions)+j])
			if score > bestScore {
				bestIdx, bestScore = j, score
			}
		}
		if bestIdx >= 0 && bestScore >= e.threshold {
			matched = append(matched, available[bestIdx])
		} else {
			logger.DebugContext(ctx, "dropping unresolvable filename mention",
				"mention", mention, "best_score", bestScore)
		}
	}
	return matched
}

func subtract(from, remove []string) []string {
	removeSet := make(map[string]bool, len(remove))
	for _, r := range remove {
		removeSet[r] = true
	}
	var kept []string
	for _, f := range from {
		if !removeSet[f] {
			kept = append(kept, f)
		}
	}
	return kept
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
