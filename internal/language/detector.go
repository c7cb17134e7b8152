// Package language wraps lingua-go language detection behind the small
// surface the pipeline needs: 2-letter uppercase ISO 639-1 codes.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultCode is used whenever detection fails or the text is too short to
// classify reliably.
const DefaultCode = "EN"

// Detector detects the language of a text snippet.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector creates a detector restricted to the languages the knowledge
// base actually serves. A narrow set keeps detection reliable on short
// strings like queries.
func NewDetector() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Italian,
		lingua.German,
		lingua.French,
		lingua.Spanish,
		lingua.Portuguese,
		lingua.Dutch,
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the ISO 639-1 code (uppercase, e.g. "EN", "IT") of the given
// text and whether detection succeeded. Texts shorter than a handful of runes
// are not classified.
func (d *Detector) Detect(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 5 {
		return DefaultCode, false
	}
	lang, ok := d.detector.DetectLanguageOf(trimmed)
	if !ok {
		return DefaultCode, false
	}
	return lang.IsoCode639_1().String(), true
}

// DetectOrDefault returns the detected code or DefaultCode when detection fails.
func (d *Detector) DetectOrDefault(text string) string {
	code, _ := d.Detect(text)
	return code
}
