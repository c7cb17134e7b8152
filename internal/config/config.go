package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	DBPath             string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string

	// Retrieval tuning. These are empirically chosen constants carried over
	// from the original retrieval pipeline; they are configuration, not
	// invariants.
	RetrievalPoolSize    int     // per-variant candidate pool (k)
	AnswerTopN           int     // passages handed to the answer prompt
	RerankVectorWeight   float64 // weight of the pool-position component
	RerankKeywordWeight  float64 // weight of the keyword-density component
	FuzzyMatchThreshold  float64 // cosine floor for fuzzy filename matching
	StructuralDensity    float64 // matches per 1000 chars that upgrade to structural chunking
	StructuralChunkSize  int
	StructuralOverlap    int
	FixedChunkSize       int
	FixedOverlap         int
	IndexBatchSize       int
	MaxUploadBytes       int64
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		DBPath:             getEnv("DB_PATH", "./data/paperbase.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	// QDRANT_VECTOR_SIZE must match the output vector size of the embeddings
	// model. If it changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	cfg.RetrievalPoolSize, err = getEnvInt("RETRIEVAL_POOL_SIZE", 30)
	if err != nil {
		return nil, err
	}
	cfg.AnswerTopN, err = getEnvInt("ANSWER_TOP_N", 7)
	if err != nil {
		return nil, err
	}
	cfg.RerankVectorWeight, err = getEnvFloat("RERANK_VECTOR_WEIGHT", 0.6)
	if err != nil {
		return nil, err
	}
	cfg.RerankKeywordWeight, err = getEnvFloat("RERANK_KEYWORD_WEIGHT", 0.4)
	if err != nil {
		return nil, err
	}
	cfg.FuzzyMatchThreshold, err = getEnvFloat("FUZZY_MATCH_THRESHOLD", 0.7)
	if err != nil {
		return nil, err
	}
	cfg.StructuralDensity, err = getEnvFloat("STRUCTURAL_DENSITY_THRESHOLD", 5.0)
	if err != nil {
		return nil, err
	}
	cfg.StructuralChunkSize, err = getEnvInt("STRUCTURAL_CHUNK_SIZE", 1024)
	if err != nil {
		return nil, err
	}
	cfg.StructuralOverlap, err = getEnvInt("STRUCTURAL_CHUNK_OVERLAP", 100)
	if err != nil {
		return nil, err
	}
	cfg.FixedChunkSize, err = getEnvInt("FIXED_CHUNK_SIZE", 512)
	if err != nil {
		return nil, err
	}
	cfg.FixedOverlap, err = getEnvInt("FIXED_CHUNK_OVERLAP", 50)
	if err != nil {
		return nil, err
	}
	cfg.IndexBatchSize, err = getEnvInt("INDEX_BATCH_SIZE", 500)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", 64)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload) << 20

	// Create ./data directory if it doesn't exist (for the registry DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}
