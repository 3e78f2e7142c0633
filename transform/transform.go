// Package transform converts between the standard node shape stored in the
// database and the node-list + edge-list shape the graph editor renders.
package transform

import (
	"errors"
	"fmt"

	"github.com/spider-mind/spider-mind-api/models"
)

var (
	// ErrMultipleParents is returned when a display graph gives a node
	// more than one incoming edge.
	ErrMultipleParents = errors.New("node has multiple incoming edges")
	// ErrUnknownNode is returned when an edge references a node that is
	// not present in the display node list.
	ErrUnknownNode = errors.New("edge references unknown node")
)

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DisplayNodeData is the payload carried by each display node.
type DisplayNodeData struct {
	Content   string            `json:"content"`
	IsEditing bool              `json:"isEditing"`
	Style     map[string]string `json:"style,omitempty"`
}

// DisplayNode is one node in the graph editor's format.
type DisplayNode struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position Position        `json:"position"`
	Data     DisplayNodeData `json:"data"`
}

// DisplayEdge is one parent-child edge in the graph editor's format.
type DisplayEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// DisplayGraph is the full editor payload.
type DisplayGraph struct {
	Nodes []DisplayNode `json:"nodes"`
	Edges []DisplayEdge `json:"edges"`
}

// FromDatabase packages a mind-map row and its node rows into the nested
// standard shape. It is a lossless renaming step; the node list itself is
// not reshaped.
func FromDatabase(mindmap models.MindMapInfo, nodes []models.MindMapNodeData) models.MindMapWithNodes {
	if nodes == nil {
		nodes = []models.MindMapNodeData{}
	}
	return models.MindMapWithNodes{
		MindMap: mindmap,
		Nodes:   nodes,
	}
}

// ToDisplay maps node rows to the editor format. Every node starts at
// (0,0); layout is computed client-side. One edge is emitted per node with
// a non-null parent, identified as "{parent}-{child}". Dangling parent
// references still produce an edge; the write boundary is where the forest
// invariant is enforced.
func ToDisplay(nodes []models.MindMapNodeData) DisplayGraph {
	graph := DisplayGraph{
		Nodes: make([]DisplayNode, 0, len(nodes)),
		Edges: make([]DisplayEdge, 0, len(nodes)),
	}

	for _, node := range nodes {
		nodeType := node.NodeType
		if nodeType == "" {
			nodeType = "standard"
		}
		graph.Nodes = append(graph.Nodes, DisplayNode{
			ID:       node.ID,
			Type:     nodeType,
			Position: Position{X: 0, Y: 0},
			Data: DisplayNodeData{
				Content:   node.Content,
				IsEditing: false,
				Style:     node.Style,
			},
		})

		if node.ParentNodeID != nil {
			parent := *node.ParentNodeID
			graph.Edges = append(graph.Edges, DisplayEdge{
				ID:     parent + "-" + node.ID,
				Source: parent,
				Target: node.ID,
				Type:   "default",
			})
		}
	}

	return graph
}

// FromDisplay reconstructs node rows from an editor payload. Each node's
// parent is recovered from its incoming edge; a node with more than one
// incoming edge is malformed input and rejected. Sibling order follows
// array position within each parent group.
func FromDisplay(mindMapID string, graph DisplayGraph) ([]models.MindMapNodeData, error) {
	known := make(map[string]bool, len(graph.Nodes))
	for _, node := range graph.Nodes {
		known[node.ID] = true
	}

	parents := make(map[string]string, len(graph.Edges))
	for _, edge := range graph.Edges {
		if !known[edge.Source] || !known[edge.Target] {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownNode, edge.Source, edge.Target)
		}
		if _, seen := parents[edge.Target]; seen {
			return nil, fmt.Errorf("%w: %s", ErrMultipleParents, edge.Target)
		}
		parents[edge.Target] = edge.Source
	}

	siblingCount := make(map[string]int, len(graph.Nodes))
	nodes := make([]models.MindMapNodeData, 0, len(graph.Nodes))
	for _, display := range graph.Nodes {
		var parentID *string
		orderKey := "" // roots share one sibling group
		if parent, ok := parents[display.ID]; ok {
			p := parent
			parentID = &p
			orderKey = parent
		}

		nodeType := display.Type
		if nodeType == "" {
			nodeType = "standard"
		}

		nodes = append(nodes, models.MindMapNodeData{
			ID:           display.ID,
			MindMapID:    mindMapID,
			Content:      display.Data.Content,
			ParentNodeID: parentID,
			SortOrder:    siblingCount[orderKey],
			NodeType:     nodeType,
			Style:        display.Data.Style,
		})
		siblingCount[orderKey]++
	}

	return nodes, nil
}
