package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/thrust-io/briefd/pkg/component/milvus"
)

// DefaultCollection is the Milvus collection holding brief embeddings.
const DefaultCollection = "brief_embeddings"

// Match is one vector search hit.
type Match struct {
	BriefID string
	Score   float32
}

// VectorStore indexes brief embeddings and retrieves nearest neighbors
// scoped to a project or a user.
type VectorStore interface {
	EnsureCollection(ctx context.Context, dimension int) error
	// Upsert replaces the embedding stored for a brief.
	Upsert(ctx context.Context, briefID, projectID, userID string, embedding []float32) error
	Delete(ctx context.Context, briefID string) error
	SearchByProject(ctx context.Context, embedding []float32, projectID string, topK int) ([]Match, error)
	SearchByUser(ctx context.Context, embedding []float32, userID string, topK int) ([]Match, error)
	Close(ctx context.Context) error
}

// MilvusStore implements VectorStore on Milvus.
type MilvusStore struct {
	client     *milvus.Client
	collection string
}

// NewMilvusStore creates a Milvus-backed vector store.
func NewMilvusStore(client *milvus.Client, collection string) *MilvusStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MilvusStore{client: client, collection: collection}
}

// EnsureCollection creates the embeddings collection if it does not exist.
func (s *MilvusStore) EnsureCollection(ctx context.Context, dimension int) error {
	schema := &milvus.CollectionSchema{
		Name:        s.collection,
		Description: "Brief summary embeddings",
		Dimension:   dimension,
		MetaFields: []milvus.MetaField{
			{Name: "brief_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "project_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "user_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Upsert replaces the embedding for a brief. Milvus auto-ID collections have
// no native upsert, so stale rows are removed by expression first.
func (s *MilvusStore) Upsert(ctx context.Context, briefID, projectID, userID string, embedding []float32) error {
	if briefID == "" {
		return fmt.Errorf("brief id is required")
	}

	if err := s.Delete(ctx, briefID); err != nil {
		return err
	}

	data := &milvus.InsertData{
		Embeddings: [][]float32{embedding},
		Metadata: map[string][]any{
			"brief_id":   {briefID},
			"project_id": {projectID},
			"user_id":    {userID},
		},
	}

	if _, err := s.client.Insert(ctx, s.collection, data); err != nil {
		return fmt.Errorf("failed to index brief %s: %w", briefID, err)
	}
	return nil
}

// Delete removes all vectors stored for a brief.
func (s *MilvusStore) Delete(ctx context.Context, briefID string) error {
	expr := fmt.Sprintf("brief_id == %q", escapeExprValue(briefID))
	if err := s.client.DeleteByExpr(ctx, s.collection, expr); err != nil {
		return fmt.Errorf("failed to delete vectors for brief %s: %w", briefID, err)
	}
	return nil
}

// SearchByProject returns the nearest briefs within a project.
func (s *MilvusStore) SearchByProject(ctx context.Context, embedding []float32, projectID string, topK int) ([]Match, error) {
	expr := fmt.Sprintf("project_id == %q", escapeExprValue(projectID))
	return s.search(ctx, embedding, expr, topK)
}

// SearchByUser returns the nearest briefs across all of a user's projects.
func (s *MilvusStore) SearchByUser(ctx context.Context, embedding []float32, userID string, topK int) ([]Match, error) {
	expr := fmt.Sprintf("user_id == %q", escapeExprValue(userID))
	return s.search(ctx, embedding, expr, topK)
}

func (s *MilvusStore) search(ctx context.Context, embedding []float32, expr string, topK int) ([]Match, error) {
	results, err := s.client.Search(ctx, s.collection, embedding, topK, expr, []string{"brief_id"})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		briefID, _ := r.Metadata["brief_id"].(string)
		if briefID == "" {
			continue
		}
		matches = append(matches, Match{BriefID: briefID, Score: r.Score})
	}
	return matches, nil
}

// Close closes the underlying Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func escapeExprValue(v string) string {
	return strings.ReplaceAll(v, `"`, ``)
}

var _ VectorStore = (*MilvusStore)(nil)
