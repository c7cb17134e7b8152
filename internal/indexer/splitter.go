package indexer

import "strings"

// defaultSeparators are tried in order, from coarsest (paragraph break) to
// finest (single space). Includes CJK sentence terminators so mixed-language
// documents split on sentence boundaries too.
var defaultSeparators = []string{"\n\n", "\n", ". ", "。", "! ", "? ", " "}

// Splitter breaks text into chunks of at most ChunkSize runes, carrying
// Overlap runes of trailing context into the next chunk. Splitting is
// recursive: it prefers the coarsest separator that produces pieces small
// enough, and only falls back to finer ones (or a hard rune window) when a
// piece is still too large.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

// NewSplitter returns a Splitter with the given rune limits. Overlap is
// clamped below ChunkSize so progress is always made.
func NewSplitter(chunkSize, overlap int) Splitter {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

// Split chunks text. Whitespace-only input yields no chunks. Every returned
// chunk is trimmed and non-empty, and no chunk exceeds ChunkSize runes.
func (s Splitter) Split(text string) []string {
	var chunks []string
	for _, chunk := range s.split(text, defaultSeparators) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func (s Splitter) split(text string, separators []string) []string {
	if len([]rune(text)) <= s.ChunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}
	if len(separators) == 0 {
		return s.hardSplit(text)
	}

	sep := separators[0]
	if !strings.Contains(text, sep) {
		return s.split(text, separators[1:])
	}

	var chunks []string
	var current string
	fresh := false // current holds content beyond the carried overlap

	flush := func() {
		if fresh && strings.TrimSpace(current) != "" {
			chunks = append(chunks, current)
		}
		current = tailRunes(current, s.Overlap)
		fresh = false
	}

	for _, part := range strings.SplitAfter(text, sep) {
		partLen := len([]rune(part))
		if partLen > s.ChunkSize {
			// Part alone is too big: flush what we have and recurse with
			// finer separators, then carry overlap from the last sub-chunk.
			flush()
			sub := s.split(part, separators[1:])
			chunks = append(chunks, sub...)
			if len(sub) > 0 {
				current = tailRunes(sub[len(sub)-1], s.Overlap)
			}
			fresh = false
			continue
		}
		if len([]rune(current))+partLen > s.ChunkSize {
			flush()
			// Drop the carried overlap if it alone would push us over.
			if len([]rune(current))+partLen > s.ChunkSize {
				current = ""
			}
		}
		current += part
		fresh = true
	}
	if fresh && strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// hardSplit windows text by runes when no separator applies, stepping by
// ChunkSize-Overlap so consecutive windows share Overlap runes.
func (s Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.ChunkSize - s.Overlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func tailRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
