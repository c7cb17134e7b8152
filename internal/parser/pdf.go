package parser

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// headingFontRatio marks a line as a heading when its font size exceeds the
// document's median body font size by this factor.
const headingFontRatio = 1.15

// maxHeadingRunes keeps long large-print paragraphs (cover pages, quotes)
// from being misread as headings.
const maxHeadingRunes = 120

// PDFParser extracts text from PDF files and tags lines as heading or body
// using a font-size heuristic: lines noticeably larger than the document's
// median font size are headings.
type PDFParser struct{}

// NewPDFParser creates a new PDF parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

type pdfLine struct {
	text     string
	fontSize float64
}

// Parse reads the PDF at path and returns its elements in page order.
func (p *PDFParser) Parse(path string) (elements []Element, err error) {
	// The upstream reader panics on some malformed xref tables and encodings;
	// convert that into a parse error so indexing can abort cleanly.
	defer func() {
		if r := recover(); r != nil {
			elements = nil
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var lines []pdfLine
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, extractLines(page.Content().Text)...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no extractable text in pdf")
	}

	median := medianFontSize(lines)

	// Consecutive body lines are merged into one element; headings flush the
	// running paragraph so chapter tracking sees them in order.
	var paragraph strings.Builder
	flush := func() {
		text := strings.TrimSpace(paragraph.String())
		if text != "" {
			elements = append(elements, Element{Content: text, Type: ElementBody})
		}
		paragraph.Reset()
	}

	for _, line := range lines {
		if isHeadingLine(line, median) {
			flush()
			elements = append(elements, Element{Content: line.text, Type: ElementHeading})
			continue
		}
		if paragraph.Len() > 0 {
			paragraph.WriteString(" ")
		}
		paragraph.WriteString(line.text)
	}
	flush()

	return elements, nil
}

// extractLines groups positioned text runs into lines by their Y coordinate.
func extractLines(texts []pdf.Text) []pdfLine {
	if len(texts) == 0 {
		return nil
	}

	// Stable ordering: top of the page first, then left to right.
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > 2 {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []pdfLine
	var builder strings.Builder
	currentY := sorted[0].Y
	var maxFont float64

	flush := func() {
		text := strings.TrimSpace(builder.String())
		if text != "" {
			lines = append(lines, pdfLine{text: text, fontSize: maxFont})
		}
		builder.Reset()
		maxFont = 0
	}

	for _, t := range sorted {
		if math.Abs(t.Y-currentY) > 2 {
			flush()
			currentY = t.Y
		}
		builder.WriteString(t.S)
		if t.FontSize > maxFont {
			maxFont = t.FontSize
		}
	}
	flush()

	return lines
}

func medianFontSize(lines []pdfLine) float64 {
	sizes := make([]float64, 0, len(lines))
	for _, line := range lines {
		if line.fontSize > 0 {
			sizes = append(sizes, line.fontSize)
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}

func isHeadingLine(line pdfLine, median float64) bool {
	if median <= 0 {
		return false
	}
	if len([]rune(line.text)) > maxHeadingRunes {
		return false
	}
	return line.fontSize > median*headingFontRatio
}
