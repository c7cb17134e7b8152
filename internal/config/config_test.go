package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setRequiredEnv sets the minimum environment required for Load to succeed
// and points DB_PATH into a temp dir so Load's MkdirAll stays sandboxed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QDRANT_VECTOR_SIZE", "1024")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "paperbase.db"))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.QdrantVectorSize != 1024 {
		t.Errorf("QdrantVectorSize = %d, want 1024", cfg.QdrantVectorSize)
	}
	if cfg.QdrantCollection != "documents" {
		t.Errorf("QdrantCollection = %q, want %q", cfg.QdrantCollection, "documents")
	}
	if cfg.RetrievalPoolSize != 30 {
		t.Errorf("RetrievalPoolSize = %d, want 30", cfg.RetrievalPoolSize)
	}
	if cfg.AnswerTopN != 7 {
		t.Errorf("AnswerTopN = %d, want 7", cfg.AnswerTopN)
	}
	if cfg.RerankVectorWeight != 0.6 || cfg.RerankKeywordWeight != 0.4 {
		t.Errorf("rerank weights = %v/%v, want 0.6/0.4", cfg.RerankVectorWeight, cfg.RerankKeywordWeight)
	}
	if cfg.FuzzyMatchThreshold != 0.7 {
		t.Errorf("FuzzyMatchThreshold = %v, want 0.7", cfg.FuzzyMatchThreshold)
	}
	if cfg.StructuralDensity != 5.0 {
		t.Errorf("StructuralDensity = %v, want 5.0", cfg.StructuralDensity)
	}
	if cfg.StructuralChunkSize != 1024 || cfg.StructuralOverlap != 100 {
		t.Errorf("structural chunking = %d/%d, want 1024/100", cfg.StructuralChunkSize, cfg.StructuralOverlap)
	}
	if cfg.FixedChunkSize != 512 || cfg.FixedOverlap != 50 {
		t.Errorf("fixed chunking = %d/%d, want 512/50", cfg.FixedChunkSize, cfg.FixedOverlap)
	}
	if cfg.IndexBatchSize != 500 {
		t.Errorf("IndexBatchSize = %d, want 500", cfg.IndexBatchSize)
	}
}

func TestLoadMissingVectorSize(t *testing.T) {
	t.Setenv("QDRANT_VECTOR_SIZE", "")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "paperbase.db"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when QDRANT_VECTOR_SIZE is unset")
	}
}

func TestLoadInvalidVectorSize(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"non-numeric", "abc"},
		{"zero", "0"},
		{"negative", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("QDRANT_VECTOR_SIZE", tt.value)
			t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "paperbase.db"))

			if _, err := Load(); err == nil {
				t.Fatalf("Load() expected error for QDRANT_VECTOR_SIZE=%q", tt.value)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETRIEVAL_POOL_SIZE", "50")
	t.Setenv("RERANK_VECTOR_WEIGHT", "0.8")
	t.Setenv("RERANK_KEYWORD_WEIGHT", "0.2")
	t.Setenv("STRUCTURAL_DENSITY_THRESHOLD", "8.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RetrievalPoolSize != 50 {
		t.Errorf("RetrievalPoolSize = %d, want 50", cfg.RetrievalPoolSize)
	}
	if cfg.RerankVectorWeight != 0.8 || cfg.RerankKeywordWeight != 0.2 {
		t.Errorf("rerank weights = %v/%v, want 0.8/0.2", cfg.RerankVectorWeight, cfg.RerankKeywordWeight)
	}
	if cfg.StructuralDensity != 8.5 {
		t.Errorf("StructuralDensity = %v, want 8.5", cfg.StructuralDensity)
	}
}

func TestLoadCreatesDataDir(t *testing.T) {
	t.Setenv("QDRANT_VECTOR_SIZE", "768")
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "paperbase.db")
	t.Setenv("DB_PATH", dbPath)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}
