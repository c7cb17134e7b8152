package indexer

import (
	"regexp"
	"strings"
)

// ChunkPolicy selects the splitting strategy for a document.
type ChunkPolicy string

const (
	// PolicyStructural targets documents with formal/legal/governance
	// character: larger chunks that keep clauses and numbered sections intact.
	PolicyStructural ChunkPolicy = "structural"
	// PolicyFixed is the default fixed-size policy.
	PolicyFixed ChunkPolicy = "fixed"
)

// DefaultDensityThreshold is the structural-density value (matches per 1000
// characters) above which an unstructured classification is upgraded to
// structural. Empirically chosen; overridable via configuration.
const DefaultDensityThreshold = 5.0

// structuralKeywords mark formal/legal/governance documents. Matched
// case-insensitively against filename and content preview. The list is
// multilingual because indexed corpora are.
var structuralKeywords = []string{
	"policy", "policies", "politica",
	"protocol", "protocollo",
	"regulation", "regolamento", "verordnung",
	"directive", "direttiva",
	"contract", "contratto", "vertrag", "contrat",
	"agreement", "accordo",
	"statute", "statuto",
	"decree", "decreto",
	"procedure", "procedura",
	"compliance", "normativa",
	"governance", "charter", "bylaw",
	"legal", "legge",
	"terms of service", "condizioni",
}

var (
	numberedHeadingRe = regexp.MustCompile(`\d+(\.\d+)+`)
	letteredSectionRe = regexp.MustCompile(`[A-Z]\.`)
	markdownHeaderRe  = regexp.MustCompile(`(?m)^#+`)
)

// ClassifyDocument decides the chunking policy for a document from its
// filename and a short content preview (callers cap the preview at ~5000
// chars). Pure function: keyword gate first, then the structural-density
// fallback with the given threshold.
func ClassifyDocument(filename, preview string, densityThreshold float64) ChunkPolicy {
	haystack := strings.ToLower(filename + " " + preview)
	for _, keyword := range structuralKeywords {
		if strings.Contains(haystack, keyword) {
			return PolicyStructural
		}
	}

	if StructuralDensity(preview) > densityThreshold {
		return PolicyStructural
	}

	return PolicyFixed
}

// StructuralDensity counts heading-like patterns (multi-level numbered
// headings, lettered section markers, markdown headers) per 1000 characters
// of text. Returns 0 for empty text.
func StructuralDensity(text string) float64 {
	if len(text) == 0 {
		return 0
	}

	matches := len(numberedHeadingRe.FindAllString(text, -1)) +
		len(letteredSectionRe.FindAllString(text, -1)) +
		len(markdownHeaderRe.FindAllString(text, -1))

	return float64(matches) / (float64(len(text)) / 1000.0)
}
