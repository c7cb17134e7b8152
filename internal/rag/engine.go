// Package rag answers questions against a tenant's document collection:
// query understanding, multi-query retrieval, hybrid reranking, and grounded
// answer generation with cross-language handling.
package rag

import (
	"context"
	"errors"
	"strings"

	"paperbase/internal/contextutil"
	"paperbase/internal/language"
	"paperbase/internal/query"
	"paperbase/internal/storage"
	"paperbase/internal/vectorstore"
)

// Engine answers questions using retrieval-augmented generation.
type Engine interface {
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// Options tunes the engine. Zero values select the defaults.
type Options struct {
	TopN          int
	VectorWeight  float64
	KeywordWeight float64
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = 7
	}
	if o.VectorWeight == 0 && o.KeywordWeight == 0 {
		o.VectorWeight = DefaultVectorWeight
		o.KeywordWeight = DefaultKeywordWeight
	}
	return o
}

type ragEngine struct {
	extractor    *query.Extractor
	reformulator *query.Reformulator
	classifier   *query.Classifier
	expander     *query.Expander
	retriever    *Retriever
	translator   *Translator
	answerer     *AnswerGenerator
	registry     storage.DocumentStore
	detector     *language.Detector
	opts         Options
}

// NewEngine assembles the question-answering pipeline.
func NewEngine(
	extractor *query.Extractor,
	reformulator *query.Reformulator,
	classifier *query.Classifier,
	expander *query.Expander,
	retriever *Retriever,
	translator *Translator,
	answerer *AnswerGenerator,
	registry storage.DocumentStore,
	detector *language.Detector,
	opts Options,
) Engine {
	return &ragEngine{
		extractor:    extractor,
		reformulator: reformulator,
		classifier:   classifier,
		expander:     expander,
		retriever:    retriever,
		translator:   translator,
		answerer:     answerer,
		registry:     registry,
		detector:     detector,
		opts:         opts.withDefaults(),
	}
}

// Ask runs the full pipeline for one question. Collaborator failures degrade
// step by step; only invalid input or total retrieval failure yields an error.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.TenantID == "" {
		return AskResponse{}, errors.New("tenant id is required")
	}
	if req.Question == "" {
		return AskResponse{}, errors.New("question is required")
	}

	logger.InfoContext(ctx, "question received",
		"tenant_id", req.TenantID,
		"question_length", len(req.Question),
		"history_turns", len(req.History))

	// Query language drives retrieval-time translation; the target language
	// only controls the answer. A caller-supplied target never suppresses
	// detection of the question itself.
	queryLang := e.detector.DetectOrDefault(req.Question)
	targetLang := strings.ToUpper(strings.TrimSpace(req.Language))
	if targetLang == "" {
		targetLang = queryLang
	}

	filenames, err := e.registry.ListFilenames(ctx, req.TenantID)
	if err != nil {
		logger.WarnContext(ctx, "failed to list tenant filenames, skipping file filters", "error", err)
		filenames = nil
	}

	extraction := e.extractor.Extract(ctx, req.Question, filenames)
	question := e.reformulator.Reformulate(ctx, extraction.CleanedQuery, req.History)
	category := e.classifier.Classify(ctx, question)

	searchQuery := question
	if queryLang != language.DefaultCode {
		searchQuery = e.translator.ToEnglish(ctx, question, queryLang)
	}

	variants := append([]string{searchQuery}, e.expander.Expand(ctx, searchQuery)...)

	logger.InfoContext(ctx, "query understood",
		"query_language", queryLang,
		"target_language", targetLang,
		"category", category,
		"variants", len(variants),
		"include_files", extraction.IncludeFiles,
		"exclude_files", extraction.ExcludeFiles)

	filter := vectorstore.Filter{
		TenantID:     req.TenantID,
		IncludeFiles: extraction.IncludeFiles,
		ExcludeFiles: extraction.ExcludeFiles,
	}
	pool, err := e.retriever.Retrieve(ctx, variants, filter)
	if err != nil {
		return AskResponse{}, err
	}

	topN := req.TopN
	if topN <= 0 {
		topN = e.opts.TopN
	}
	ranked := Rerank(pool, variants, topN, e.opts.VectorWeight, e.opts.KeywordWeight)

	answer, sources := e.answerer.Generate(ctx, searchQuery, targetLang, ranked, req.History)

	logger.InfoContext(ctx, "question answered",
		"tenant_id", req.TenantID,
		"pool_size", len(pool),
		"passages_used", len(ranked),
		"sources", len(sources),
		"answer_length", len(answer))

	return AskResponse{
		Answer:   answer,
		Sources:  sources,
		Language: targetLang,
		Category: category,
	}, nil
}
