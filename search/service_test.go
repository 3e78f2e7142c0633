package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spider-mind/spider-mind-api/ai"
	"github.com/spider-mind/spider-mind-api/models"
	"github.com/spider-mind/spider-mind-api/store"
)

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return nil, errors.New("no vector for text")
}

func (s stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := s.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type stubSuggester struct {
	enhanceErr error
}

func (s stubSuggester) GenerateSuggestions(ctx context.Context, action, contextText string) ([]ai.Suggestion, error) {
	return []ai.Suggestion{{Type: "question", Title: "Q", Content: "why?"}}, nil
}

func (s stubSuggester) EnhanceQuery(ctx context.Context, query string) (string, error) {
	if s.enhanceErr != nil {
		return "", s.enhanceErr
	}
	return "enhanced " + query, nil
}

func seededRepo(t *testing.T) store.MindMapRepository {
	t.Helper()
	repo := store.NewMemoryRepository()

	near, err := repo.Create(models.CreateMindMapInput{Title: "near", UserID: "u1"}, true)
	require.NoError(t, err)
	require.NoError(t, repo.SetMindMapEmbedding(near.MindMap.ID, []float32{1, 0}))

	far, err := repo.Create(models.CreateMindMapInput{Title: "far", UserID: "u1"}, true)
	require.NoError(t, err)
	require.NoError(t, repo.SetMindMapEmbedding(far.MindMap.ID, []float32{0, 1}))
	require.NoError(t, repo.SetNodeEmbedding(far.MindMap.ID, far.Nodes[0].ID, []float32{0.9, 0.1}))

	return repo
}

func TestSearch_RanksMindMapsAndNodes(t *testing.T) {
	repo := seededRepo(t)
	svc := &Service{
		Repo:      repo,
		Embedder:  stubEmbedder{vectors: map[string][]float32{"enhanced plans": {1, 0}}},
		Suggester: stubSuggester{},
	}

	results, err := svc.Search(context.Background(), "plans", "all", 5)
	require.NoError(t, err)

	assert.Equal(t, "plans", results.Query)
	assert.Equal(t, "enhanced plans", results.EnhancedQuery)

	require.Len(t, results.MindMaps, 2)
	assert.Equal(t, "near", results.MindMaps[0].MindMap.Title)

	require.Len(t, results.Nodes, 1)
	require.Len(t, results.Suggestions, 1)
}

func TestSearch_EnhancementFailureFallsBackToRawQuery(t *testing.T) {
	repo := seededRepo(t)
	svc := &Service{
		Repo:      repo,
		Embedder:  stubEmbedder{vectors: map[string][]float32{"plans": {1, 0}}},
		Suggester: stubSuggester{enhanceErr: errors.New("model down")},
	}

	results, err := svc.Search(context.Background(), "plans", "mindmaps", 5)
	require.NoError(t, err)
	assert.Equal(t, "plans", results.EnhancedQuery)
	assert.NotEmpty(t, results.MindMaps)
	assert.Empty(t, results.Nodes)
}

func TestSearch_EmbeddingFailureIsFatal(t *testing.T) {
	svc := &Service{
		Repo:     store.NewMemoryRepository(),
		Embedder: stubEmbedder{},
	}

	_, err := svc.Search(context.Background(), "plans", "all", 5)
	assert.Error(t, err)
}
