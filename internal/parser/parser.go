// Package parser turns uploaded document files into ordered element
// sequences. Each element carries its text content and a coarse type tag
// (heading vs body) that downstream chunk enrichment relies on.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ElementType tags the structural role of a parsed element.
type ElementType string

const (
	ElementHeading ElementType = "heading"
	ElementBody    ElementType = "body"
)

// Element is one unit of parsed document content, in document order.
type Element struct {
	Content string
	Type    ElementType
}

// Parser parses a staged document file into an ordered element sequence.
type Parser interface {
	Parse(path string) ([]Element, error)
}

// ErrUnsupportedFormat is returned for file extensions no parser handles.
// It is an input-validation error and is surfaced verbatim to the caller.
type ErrUnsupportedFormat struct {
	Extension string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported document format %q", e.Extension)
}

// ForFilename selects a parser based on the file extension.
func ForFilename(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return NewPDFParser(), nil
	case ".md", ".markdown":
		return NewMarkdownParser(), nil
	case ".txt":
		return NewTextParser(), nil
	default:
		return nil, &ErrUnsupportedFormat{Extension: filepath.Ext(filename)}
	}
}
