package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"paperbase/internal/config"
	"paperbase/internal/http"
	"paperbase/internal/indexer"
	"paperbase/internal/language"
	"paperbase/internal/llm"
	"paperbase/internal/query"
	"paperbase/internal/rag"
	"paperbase/internal/storage"
	"paperbase/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the document registry database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	registry := storage.NewDocumentRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	detector := language.NewDetector()

	// Create indexing pipeline
	pipeline := indexer.NewPipeline(vectorStore, embedder, registry, detector, indexer.Config{
		StructuralChunkSize: cfg.StructuralChunkSize,
		StructuralOverlap:   cfg.StructuralOverlap,
		FixedChunkSize:      cfg.FixedChunkSize,
		FixedOverlap:        cfg.FixedOverlap,
		BatchSize:           cfg.IndexBatchSize,
		DensityThreshold:    cfg.StructuralDensity,
	})

	// Create RAG engine
	translator := rag.NewTranslator(llmClient)
	ragEngine := rag.NewEngine(
		query.NewExtractor(llmClient, embedder, cfg.FuzzyMatchThreshold),
		query.NewReformulator(llmClient),
		query.NewClassifier(llmClient),
		query.NewExpander(llmClient),
		rag.NewRetriever(vectorStore, embedder, cfg.RetrievalPoolSize),
		translator,
		rag.NewAnswerGenerator(llmClient, translator, detector),
		registry,
		detector,
		rag.Options{
			TopN:          cfg.AnswerTopN,
			VectorWeight:  cfg.RerankVectorWeight,
			KeywordWeight: cfg.RerankKeywordWeight,
		},
	)
	slog.Info("RAG engine initialized")

	// Create router with dependencies
	router := http.NewRouter(&http.Deps{
		RAGEngine:      ragEngine,
		Indexer:        pipeline,
		Deleter:        pipeline,
		VectorStore:    vectorStore,
		HealthChecker:  vectorStore,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
