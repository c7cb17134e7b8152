package indexer

import (
	"strings"
	"testing"
)

func TestClassifyDocument(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		preview  string
		want     ChunkPolicy
	}{
		{
			name:     "italian protocol filename",
			filename: "protocollo_sicurezza.pdf",
			preview:  "Questo protocollo definisce le misure di sicurezza aziendali.",
			want:     PolicyStructural,
		},
		{
			name:     "english policy in content",
			filename: "hr_handbook.pdf",
			preview:  "This document describes the vacation policy for all employees.",
			want:     PolicyStructural,
		},
		{
			name:     "meeting notes stay fixed",
			filename: "meeting_notes.pdf",
			preview:  "Appunti della riunione di lunedì: abbiamo discusso il budget e i prossimi passi del progetto.",
			want:     PolicyFixed,
		},
		{
			name:     "keyword match is case insensitive",
			filename: "CONTRATTO_fornitura.pdf",
			preview:  "",
			want:     PolicyStructural,
		},
		{
			name:     "dense numbered sections upgrade to structural",
			filename: "specs.pdf",
			preview: strings.Repeat(
				"1.2.3 requisito del sistema\n2.4.1 vincolo di rete\n", 20),
			want: PolicyStructural,
		},
		{
			name:     "plain prose stays fixed",
			filename: "diary.txt",
			preview:  "oggi ho camminato lungo il fiume e ho visto molte anatre nuotare controcorrente senza fretta",
			want:     PolicyFixed,
		},
		{
			name:     "empty input defaults to fixed",
			filename: "",
			preview:  "",
			want:     PolicyFixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDocument(tt.filename, tt.preview, DefaultDensityThreshold)
			if got != tt.want {
				t.Errorf("ClassifyDocument(%q, ...) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestStructuralDensity(t *testing.T) {
	if got := StructuralDensity(""); got != 0 {
		t.Errorf("StructuralDensity(\"\") = %v, want 0", got)
	}

	// Markdown headers count toward density.
	md := strings.Repeat("# Title\nsome text\n", 10)
	if got := StructuralDensity(md); got <= DefaultDensityThreshold {
		t.Errorf("StructuralDensity(markdown) = %v, want > %v", got, DefaultDensityThreshold)
	}

	prose := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 30)
	if got := StructuralDensity(prose); got > DefaultDensityThreshold {
		t.Errorf("StructuralDensity(prose) = %v, want <= %v", got, DefaultDensityThreshold)
	}

	// A capital followed by a dot counts even inside a run of capitals.
	if got := StructuralDensity("ABC."); got == 0 {
		t.Errorf("StructuralDensity(\"ABC.\") = 0, want a lettered-marker match")
	}

	lettered := strings.Repeat("A. prima sezione\nB. seconda sezione\n", 20)
	if got := StructuralDensity(lettered); got <= DefaultDensityThreshold {
		t.Errorf("StructuralDensity(lettered sections) = %v, want > %v", got, DefaultDensityThreshold)
	}
}
