package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"paperbase/internal/contextutil"
)

// QdrantStore implements Store using Qdrant.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a new Qdrant vector store client bound to a collection.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr, collection string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

// Add stores chunks with their embedding vectors.
func (s *QdrantStore) Add(ctx context.Context, chunks []Chunk, vectors [][]float32) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return 0, nil
	}
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("chunk/vector count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		if chunk.TenantID == "" {
			return 0, fmt.Errorf("chunk %d has no tenant id", i)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(chunkPayload(chunk)),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", s.collection, "count", len(points), "error", err)
		return 0, fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.DebugContext(ctx, "upserted points", "collection", s.collection, "count", len(points))
	return len(chunks), nil
}

// Get returns up to limit chunks matching the filter, without scoring.
func (s *QdrantStore) Get(ctx context.Context, filter Filter, limit int) ([]Chunk, error) {
	qf, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}

	scrollLimit := uint32(limit)
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter:         qf,
		Limit:          &scrollLimit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scroll points: %w", err)
	}

	chunks := make([]Chunk, 0, len(points))
	for _, point := range points {
		chunk := chunkFromPayload(point.Payload)
		if point.Id != nil {
			chunk.ID = point.Id.GetUuid()
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Delete removes all chunks matching the filter.
func (s *QdrantStore) Delete(ctx context.Context, filter Filter) error {
	logger := contextutil.LoggerFromContext(ctx)

	qf, err := buildFilter(filter)
	if err != nil {
		return err
	}

	_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(qf),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "collection", s.collection, "error", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}

	logger.InfoContext(ctx, "deleted points", "collection", s.collection, "tenant_id", filter.TenantID, "include_files", filter.IncludeFiles)
	return nil
}

// Search performs a similarity search scoped by the filter.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, filter Filter, k int) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	qf, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}

	limit := uint64(k)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         qf,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", s.collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	chunks := make([]Chunk, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		chunk := chunkFromPayload(point.Payload)
		if point.Id != nil {
			chunk.ID = point.Id.GetUuid()
		}
		chunks = append(chunks, chunk)
	}

	logger.DebugContext(ctx, "search completed", "collection", s.collection, "k", k, "results", len(chunks))
	return chunks, nil
}

// EnsureCollection ensures the bound collection exists with the specified
// vector size, validating the size when the collection already exists.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", s.collection, "vector_size", vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.Config
	if config == nil || config.Params == nil {
		return fmt.Errorf("collection config is invalid")
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}
	if int(params.Size) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, params.Size)
	}

	logger.InfoContext(ctx, "collection validated", "collection", s.collection, "vector_size", vectorSize)
	return nil
}

// HealthCheck verifies the bound collection is reachable.
func (s *QdrantStore) HealthCheck(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("collection %q does not exist", s.collection)
	}
	return nil
}

// buildFilter converts a Filter into Qdrant filter conditions. The tenant
// condition is always present; include wins over exclude.
func buildFilter(filter Filter) (*qdrant.Filter, error) {
	if filter.TenantID == "" {
		return nil, fmt.Errorf("filter has no tenant id")
	}

	qf := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(FieldTenantID, filter.TenantID),
		},
	}

	switch {
	case len(filter.IncludeFiles) > 0:
		qf.Must = append(qf.Must, qdrant.NewMatchKeywords(FieldFilename, filter.IncludeFiles...))
	case len(filter.ExcludeFiles) > 0:
		qf.MustNot = append(qf.MustNot, qdrant.NewMatchKeywords(FieldFilename, filter.ExcludeFiles...))
	}

	return qf, nil
}

func chunkPayload(chunk Chunk) map[string]any {
	return map[string]any{
		FieldContent:     chunk.Content,
		FieldTenantID:    chunk.TenantID,
		FieldFilename:    chunk.Filename,
		FieldLanguage:    chunk.Language,
		FieldChunkIndex:  chunk.ChunkIndex,
		FieldChapter:     chunk.Chapter,
		FieldElementType: chunk.ElementType,
		FieldUploadedAt:  chunk.UploadedAt,
	}
}

func chunkFromPayload(payload map[string]*qdrant.Value) Chunk {
	chunk := Chunk{}
	if payload == nil {
		return chunk
	}
	chunk.Content = payloadString(payload, FieldContent)
	chunk.TenantID = payloadString(payload, FieldTenantID)
	chunk.Filename = payloadString(payload, FieldFilename)
	chunk.Language = payloadString(payload, FieldLanguage)
	chunk.Chapter = payloadString(payload, FieldChapter)
	chunk.ElementType = payloadString(payload, FieldElementType)
	chunk.ChunkIndex = int(payloadInt(payload, FieldChunkIndex))
	chunk.UploadedAt = payloadInt(payload, FieldUploadedAt)
	return chunk
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok && v != nil {
		return v.GetStringValue()
	}
	return ""
}

func payloadInt(payload map[string]*qdrant.Value, key string) int64 {
	if v, ok := payload[key]; ok && v != nil {
		return v.GetIntegerValue()
	}
	return 0
}
