package search

import (
	"context"
	"fmt"
	"log"

	"github.com/spider-mind/spider-mind-api/ai"
	"github.com/spider-mind/spider-mind-api/store"
)

// Results is the full search response payload.
type Results struct {
	Query         string          `json:"query"`
	EnhancedQuery string          `json:"enhanced_query"`
	MindMaps      []MindMapResult `json:"mindmaps,omitempty"`
	Nodes         []NodeResult    `json:"nodes,omitempty"`
	Suggestions   []ai.Suggestion `json:"suggestions,omitempty"`
}

// Service embeds the query and ranks stored mind maps and nodes against it.
type Service struct {
	Repo      store.MindMapRepository
	Embedder  ai.EmbeddingService
	Suggester ai.SuggestionService
}

const DefaultLimit = 10

// Search runs a semantic search of the given type ("mindmaps", "nodes" or
// "all"). Query enhancement and suggestions are best-effort: if the chat
// model fails, the raw query is still searched.
func (s *Service) Search(ctx context.Context, query, searchType string, limit int) (*Results, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	enhanced := query
	if s.Suggester != nil {
		if rewritten, err := s.Suggester.EnhanceQuery(ctx, query); err != nil {
			log.Printf("search: query enhancement failed: %v", err)
		} else {
			enhanced = rewritten
		}
	}

	target, err := s.Embedder.EmbedText(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results := &Results{
		Query:         query,
		EnhancedQuery: enhanced,
	}

	if searchType == "mindmaps" || searchType == "all" {
		mindMaps, err := s.Repo.ListAll()
		if err != nil {
			return nil, err
		}
		results.MindMaps = RankMindMaps(target, mindMaps, limit)
	}

	if searchType == "nodes" || searchType == "all" {
		nodes, err := s.Repo.ListAllNodes()
		if err != nil {
			return nil, err
		}
		results.Nodes = RankNodes(target, nodes, limit)
	}

	if s.Suggester != nil {
		if suggestions, err := s.Suggester.GenerateSuggestions(ctx, "question", enhanced); err != nil {
			log.Printf("search: suggestion generation failed: %v", err)
		} else {
			results.Suggestions = suggestions
		}
	}

	return results, nil
}
