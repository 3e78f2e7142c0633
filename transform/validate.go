package transform

import (
	"errors"
	"fmt"

	"github.com/spider-mind/spider-mind-api/models"
)

var (
	// ErrUnknownParent is returned when a node's parent is not part of
	// the same mind map.
	ErrUnknownParent = errors.New("parent node not found in mind map")
	// ErrCycle is returned when the parent relation loops.
	ErrCycle = errors.New("parent relation forms a cycle")
	// ErrDuplicateSortOrder is returned when two siblings claim the same
	// sort order.
	ErrDuplicateSortOrder = errors.New("sort order already used by a sibling")
)

// ValidateForest checks the forest invariant over a mind map's nodes:
// every non-null parent must reference another node in the same map, and
// no node may be its own ancestor. Called at the write boundary so bad
// graphs are rejected before they reach storage.
func ValidateForest(nodes []models.MindMapNodeData) error {
	parents := make(map[string]*string, len(nodes))
	for _, n := range nodes {
		parents[n.ID] = n.ParentNodeID
	}

	for _, n := range nodes {
		if n.ParentNodeID == nil {
			continue
		}
		if _, ok := parents[*n.ParentNodeID]; !ok {
			return fmt.Errorf("%w: node %s -> parent %s", ErrUnknownParent, n.ID, *n.ParentNodeID)
		}
	}

	// Walk each node's ancestor chain; a chain longer than the node
	// count means a loop.
	for _, n := range nodes {
		steps := 0
		current := n.ParentNodeID
		for current != nil {
			if *current == n.ID {
				return fmt.Errorf("%w: node %s", ErrCycle, n.ID)
			}
			steps++
			if steps > len(nodes) {
				return fmt.Errorf("%w: node %s", ErrCycle, n.ID)
			}
			current = parents[*current]
		}
	}

	return nil
}

// ValidateSiblingOrder checks that sort orders are unique within each
// sibling group. Root nodes count as siblings of each other.
func ValidateSiblingOrder(nodes []models.MindMapNodeData) error {
	seen := make(map[string]map[int]string)
	for _, n := range nodes {
		group := ""
		if n.ParentNodeID != nil {
			group = *n.ParentNodeID
		}
		if seen[group] == nil {
			seen[group] = make(map[int]string)
		}
		if other, ok := seen[group][n.SortOrder]; ok {
			return fmt.Errorf("%w: nodes %s and %s both use order %d", ErrDuplicateSortOrder, other, n.ID, n.SortOrder)
		}
		seen[group][n.SortOrder] = n.ID
	}
	return nil
}
