// Package store provides the mind-map repository: a durable GORM-backed
// implementation for production and an in-memory implementation for tests
// and demos.
package store

import (
	"errors"

	"github.com/spider-mind/spider-mind-api/models"
)

var (
	// ErrNotFound is returned when a referenced mind map does not exist.
	ErrNotFound = errors.New("mind map not found")
	// ErrNodeNotFound is returned when a referenced node does not exist.
	ErrNodeNotFound = errors.New("node not found")
)

// BatchDeleteResult reports the outcome of a user-scoped batch delete.
type BatchDeleteResult struct {
	Deleted   int `json:"deleted"`
	Remaining int `json:"remaining"`
}

// MindMapRepository is the storage contract used by every route handler.
// Implementations enforce the forest invariant at the write boundary and
// guarantee cascade deletes are atomic: node rows and the mind-map row go
// together, or neither goes.
type MindMapRepository interface {
	ListByUser(userID string, includePrivate bool) ([]models.MindMapInfo, error)
	ListAll() ([]models.MindMapInfo, error)
	Create(input models.CreateMindMapInput, seedDefaultNode bool) (*models.MindMapWithNodes, error)
	Get(id string) (*models.MindMapInfo, error)
	GetWithNodes(id string) (*models.MindMapWithNodes, error)
	Update(id string, input models.UpdateMindMapInput) (*models.MindMapInfo, error)
	Delete(id string) error
	DeleteByUser(userID string) (BatchDeleteResult, error)

	ListNodes(mindMapID string) ([]models.MindMapNodeData, error)
	ListAllNodes() ([]models.MindMapNodeData, error)
	CreateNode(mindMapID string, input models.CreateNodeInput) (*models.MindMapNodeData, error)
	UpdateNode(mindMapID, nodeID string, input models.UpdateNodeInput) (*models.MindMapNodeData, error)
	DeleteNode(mindMapID, nodeID string) error
	SyncNodes(mindMapID string, nodes []models.MindMapNodeData) error

	SetMindMapEmbedding(id string, embedding []float32) error
	SetNodeEmbedding(mindMapID, nodeID string, embedding []float32) error
}

// DefaultRootContent seeds the single root node of a newly created mind map.
const DefaultRootContent = "Central Idea"

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// nextSortOrder keeps sort orders unique within a sibling group on
// incremental writes. It returns the requested order unless a sibling
// already holds it, in which case the node is placed after the group's
// current maximum.
func nextSortOrder(siblings []models.MindMapNodeData, parent *string, requested int) int {
	taken := false
	max := requested
	for _, n := range siblings {
		if !sameParent(n.ParentNodeID, parent) {
			continue
		}
		if n.SortOrder == requested {
			taken = true
		}
		if n.SortOrder > max {
			max = n.SortOrder
		}
	}
	if !taken {
		return requested
	}
	return max + 1
}
