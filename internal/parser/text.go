package parser

import (
	"fmt"
	"os"
	"strings"
)

// TextParser parses plain-text files. Paragraphs separated by blank lines
// become body elements; plain text carries no heading structure.
type TextParser struct{}

// NewTextParser creates a new plain-text parser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse reads the text file at path and returns one body element per paragraph.
func (p *TextParser) Parse(path string) ([]Element, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")

	var elements []Element
	for _, paragraph := range strings.Split(normalized, "\n\n") {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		elements = append(elements, Element{Content: trimmed, Type: ElementBody})
	}

	return elements, nil
}
