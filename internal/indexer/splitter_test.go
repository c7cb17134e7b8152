package indexer

import (
	"strings"
	"testing"
)

func TestSplitterShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(512, 50)

	chunks := s.Split("a short paragraph that fits in one chunk")
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "a short paragraph that fits in one chunk" {
		t.Errorf("Split() = %q, want input unchanged", chunks[0])
	}
}

func TestSplitterEmptyText(t *testing.T) {
	s := NewSplitter(512, 50)

	if chunks := s.Split(""); len(chunks) != 0 {
		t.Errorf("Split(\"\") = %v, want no chunks", chunks)
	}
	if chunks := s.Split("   \n\n  "); len(chunks) != 0 {
		t.Errorf("Split(whitespace) = %v, want no chunks", chunks)
	}
}

func TestSplitterRespectsChunkSize(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		text      string
	}{
		{
			name:      "structural settings on sectioned text",
			chunkSize: 1024,
			overlap:   100,
			text:      strings.Repeat("1.1 Una sezione del regolamento con testo descrittivo.\n\n", 100),
		},
		{
			name:      "fixed settings on prose",
			chunkSize: 512,
			overlap:   50,
			text:      strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200),
		},
		{
			name:      "no separators forces hard split",
			chunkSize: 100,
			overlap:   10,
			text:      strings.Repeat("x", 1000),
		},
		{
			name:      "multibyte runes counted as runes",
			chunkSize: 50,
			overlap:   5,
			text:      strings.Repeat("università città è già così ", 40),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter(tt.chunkSize, tt.overlap)
			chunks := s.Split(tt.text)
			if len(chunks) == 0 {
				t.Fatal("Split() returned no chunks")
			}
			for i, chunk := range chunks {
				if n := len([]rune(chunk)); n > tt.chunkSize {
					t.Errorf("chunk %d has %d runes, want <= %d", i, n, tt.chunkSize)
				}
				if strings.TrimSpace(chunk) == "" {
					t.Errorf("chunk %d is blank", i)
				}
			}
		})
	}
}

func TestSplitterPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("word ", 60) // ~300 runes
	text := para + "\n\n" + para + "\n\n" + para

	s := NewSplitter(512, 50)
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("Split() returned %d chunks, want at least 2", len(chunks))
	}
	for i, chunk := range chunks {
		if strings.Contains(chunk, "\n\n") {
			t.Errorf("chunk %d spans a paragraph break: %q", i, chunk[:40])
		}
	}
}

func TestSplitterOverlapCarriesContext(t *testing.T) {
	sentence := "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod. "
	text := strings.Repeat(sentence, 30)

	s := NewSplitter(200, 40)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split() returned %d chunks, want at least 2", len(chunks))
	}

	// Each following chunk repeats the tail of the previous one.
	for i := 1; i < len(chunks); i++ {
		prevTail := strings.TrimSpace(tailRunes(chunks[i-1], 20))
		if !strings.Contains(chunks[i], prevTail) {
			t.Errorf("chunk %d does not carry overlap from chunk %d (%q)", i, i-1, prevTail)
		}
	}
}

func TestNewSplitterClampsOverlap(t *testing.T) {
	s := NewSplitter(100, 100)
	if s.Overlap >= s.ChunkSize {
		t.Errorf("NewSplitter did not clamp overlap: %+v", s)
	}

	s = NewSplitter(0, -5)
	if s.ChunkSize < 1 || s.Overlap < 0 {
		t.Errorf("NewSplitter did not sanitize limits: %+v", s)
	}
}
