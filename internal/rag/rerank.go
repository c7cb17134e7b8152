package rag

import (
	"sort"
	"strings"
	"unicode"

	"paperbase/internal/vectorstore"
)

const (
	// DefaultVectorWeight and DefaultKeywordWeight blend positional vector
	// rank with keyword density.
	DefaultVectorWeight  = 0.6
	DefaultKeywordWeight = 0.4

	// minKeywordRunes filters stopword-sized tokens from the keyword set.
	minKeywordRunes = 4
)

// Rerank orders the retrieval pool by a hybrid score: the chunk's position in
// the pool stands in for vector similarity (earlier is better), blended with
// the density of query keywords in the chunk text. Ties keep pool order. The
// result has min(topN, len(pool)) passages.
func Rerank(pool []vectorstore.Chunk, variants []string, topN int, vectorWeight, keywordWeight float64) []RankedPassage {
	if len(pool) == 0 || topN <= 0 {
		return nil
	}

	keywords := keywordSet(variants)

	ranked := make([]RankedPassage, len(pool))
	total := float64(len(pool))
	for i, chunk := range pool {
		positional := 1.0 - float64(i)/total
		ranked[i] = RankedPassage{
			Chunk: chunk,
			Score: vectorWeight*positional + keywordWeight*keywordDensity(chunk.Content, keywords),
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}
	return ranked[:topN]
}

// keywordSet collects the distinct meaningful keywords across all variants:
// lowercased, whitespace-split, surrounding punctuation stripped.
func keywordSet(variants []string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, v := range variants {
		for _, token := range strings.Fields(strings.ToLower(v)) {
			token = strings.TrimFunc(token, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsNumber(r)
			})
			if len([]rune(token)) < minKeywordRunes || seen[token] {
				continue
			}
			seen[token] = true
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// keywordDensity is the fraction of query keywords that appear in the chunk
// text. Substring match, case-insensitive, so "alpha" also counts inside
// "alphabet" and the score does not dilute with passage length.
func keywordDensity(content string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	hits := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
