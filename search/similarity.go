// Package search ranks mind maps and nodes against a query embedding.
package search

import (
	"math"
	"sort"

	"github.com/spider-mind/spider-mind-api/models"
)

// MindMapResult is a mind map with its similarity score to the query.
type MindMapResult struct {
	MindMap    models.MindMapInfo `json:"mindmap"`
	Similarity float32            `json:"similarity"`
}

// NodeResult is a node with its similarity score to the query.
type NodeResult struct {
	Node       models.MindMapNodeData `json:"node"`
	Similarity float32                `json:"similarity"`
}

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 0.0 for zero-norm vectors or mismatched lengths.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	na := float32(math.Sqrt(float64(normA)))
	nb := float32(math.Sqrt(float64(normB)))

	if na == 0 || nb == 0 {
		return 0.0
	}

	return dot / (na * nb)
}

// RankMindMaps scores candidates against the target embedding and returns
// the top limit results in descending similarity order. Candidates with no
// stored embedding are skipped.
func RankMindMaps(target []float32, candidates []models.MindMapInfo, limit int) []MindMapResult {
	results := make([]MindMapResult, 0, len(candidates))
	for i := range candidates {
		if len(candidates[i].Embedding) == 0 {
			continue
		}
		results = append(results, MindMapResult{
			MindMap:    candidates[i],
			Similarity: CosineSimilarity(target, candidates[i].Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// RankNodes is RankMindMaps for node rows.
func RankNodes(target []float32, candidates []models.MindMapNodeData, limit int) []NodeResult {
	results := make([]NodeResult, 0, len(candidates))
	for i := range candidates {
		if len(candidates[i].Embedding) == 0 {
			continue
		}
		results = append(results, NodeResult{
			Node:       candidates[i],
			Similarity: CosineSimilarity(target, candidates[i].Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
