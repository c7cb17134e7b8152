package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser parses markdown files into elements using goldmark AST
// parsing. Headings become heading elements; every other top-level block
// becomes a body element.
type MarkdownParser struct {
	parser goldmark.Markdown
}

// NewMarkdownParser creates a new markdown parser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Parse reads the markdown file at path and returns its elements in document order.
func (p *MarkdownParser) Parse(path string) ([]Element, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file: %w", err)
	}

	reader := text.NewReader(content)
	doc := p.parser.Parser().Parse(reader)

	var elements []Element
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractNodeText(n, content)
			if headingText != "" {
				elements = append(elements, Element{Content: headingText, Type: ElementHeading})
			}
		default:
			blockText := extractNodeText(node, content)
			if blockText != "" {
				elements = append(elements, Element{Content: blockText, Type: ElementBody})
			}
		}
	}

	return elements, nil
}

// extractNodeText extracts plain text from a node and its children,
// joining block-level line breaks with newlines.
func extractNodeText(n ast.Node, content []byte) string {
	var builder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			builder.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				builder.WriteString("\n")
			}
		case *ast.String:
			builder.Write(v.Value)
		case *ast.CodeBlock:
			writeCodeLines(&builder, v.Lines(), content)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeCodeLines(&builder, v.Lines(), content)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

func writeCodeLines(builder *strings.Builder, lines *text.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(content))
	}
}
