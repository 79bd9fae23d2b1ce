package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// ContextChunk is one retrieved job-description fragment with its similarity
// score.
type ContextChunk struct {
	Text  string
	Score float32
}

// ContextRetriever indexes each run's job description and retrieves the
// fragments most relevant to a resume, so the semantic-analysis prompt can be
// grounded in the parts of the posting that actually matter for the
// candidate. All failures here are soft: the pipeline runs without context.
type ContextRetriever interface {
	IndexJobDescription(ctx context.Context, runID, jobDescription string) error
	Retrieve(ctx context.Context, runID, query string, limit int) ([]ContextChunk, error)
}

const (
	retrievalVectorSize = 768
	retrievalChunkSize  = 1000
	retrievalOverlap    = 100
)

// newChunkPointID assigns every chunk a full UUID point id. Truncating to a
// numeric id risks collisions across runs in the shared collection.
func newChunkPointID() *qdrant.PointId {
	return qdrant.NewID(uuid.New().String())
}

type qdrantRetriever struct {
	client         *qdrant.Client
	embedder       EmbeddingGenerator
	collectionName string
}

func NewQdrantRetriever(urlStr, apiKey, collectionName string, embedder EmbeddingGenerator) (ContextRetriever, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port unless the URL says otherwise
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	r := &qdrantRetriever{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
	}

	if err := r.initCollection(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *qdrantRetriever) initCollection() error {
	ctx := context.Background()

	exists, err := r.client.CollectionExists(ctx, r.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     retrievalVectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// IndexJobDescription implements ContextRetriever. The description is
// chunked, embedded, and upserted under the run id so retrieval never mixes
// runs.
func (r *qdrantRetriever) IndexJobDescription(ctx context.Context, runID, jobDescription string) error {
	chunks := ChunkText(jobDescription, retrievalChunkSize, retrievalOverlap)

	var points []*qdrant.PointStruct
	for _, chunk := range chunks {
		embedding, err := r.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed job description chunk: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      newChunkPointID(),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"run_id": runID,
				"text":   chunk,
			}),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert job description chunks: %w", err)
	}

	return nil
}

// Retrieve implements ContextRetriever.
func (r *qdrantRetriever) Retrieve(ctx context.Context, runID, query string, limit int) ([]ContextChunk, error) {
	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("run_id", runID),
		},
	}

	searchResult, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var chunks []ContextChunk
	for _, point := range searchResult {
		chunk := ContextChunk{Score: point.Score}
		if text, ok := point.Payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				chunk.Text = val.StringValue
			}
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
