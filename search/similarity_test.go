package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spider-mind/spider-mind-api/models"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	sim := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
	assert.InDelta(t, 1.0, float64(sim), 0.0001)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	sim := CosineSimilarity([]float32{1, 0, 0}, []float32{0, 1, 0})
	assert.InDelta(t, 0.0, float64(sim), 0.0001)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	sim := CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	assert.InDelta(t, -1.0, float64(sim), 0.0001)
}

func TestCosineSimilarity_ZeroNorm(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{0, 0, 0}, []float32{1, 0, 0}))
}

func TestCosineSimilarity_MismatchedLength(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
}

func TestCosineSimilarity_Empty(t *testing.T) {
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestRankMindMaps_DescendingOrderAndLimit(t *testing.T) {
	target := []float32{1, 0, 0}
	candidates := []models.MindMapInfo{
		{ID: "far", Embedding: []float32{0, 1, 0}},
		{ID: "near", Embedding: []float32{1, 0.1, 0}},
		{ID: "exact", Embedding: []float32{1, 0, 0}},
		{ID: "unembedded"},
	}

	results := RankMindMaps(target, candidates, 2)

	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].MindMap.ID)
	assert.Equal(t, "near", results[1].MindMap.ID)
	assert.True(t, float64(results[0].Similarity) >= float64(results[1].Similarity))
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 0.0001)
}

func TestRankMindMaps_SkipsUnembedded(t *testing.T) {
	results := RankMindMaps([]float32{1, 0}, []models.MindMapInfo{{ID: "m"}}, 10)
	assert.Empty(t, results)
}

func TestRankNodes_DescendingOrder(t *testing.T) {
	target := []float32{0, 1}
	candidates := []models.MindMapNodeData{
		{ID: "n1", Embedding: []float32{1, 0}},
		{ID: "n2", Embedding: []float32{0, 2}},
	}

	results := RankNodes(target, candidates, 0)

	require.Len(t, results, 2)
	assert.Equal(t, "n2", results[0].Node.ID)
	assert.False(t, math.IsNaN(float64(results[0].Similarity)))
}
