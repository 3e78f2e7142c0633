package models

import "time"

// Standard data model: the storage-agnostic contract between the
// persistence layer and any front end. These shapes carry public IDs only.

// MindMapInfo is the canonical mind-map shape.
type MindMapInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	IsPublic  bool      `json:"is_public"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MindMapNodeData is the canonical node shape.
type MindMapNodeData struct {
	ID           string            `json:"id"`
	MindMapID    string            `json:"mind_map_id"`
	Content      string            `json:"content"`
	ParentNodeID *string           `json:"parent_node_id"`
	SortOrder    int               `json:"sort_order"`
	NodeType     string            `json:"node_type"`
	Style        map[string]string `json:"style"`
	Embedding    []float32         `json:"embedding,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// MindMapWithNodes is the nested form returned by the /full endpoint.
type MindMapWithNodes struct {
	MindMap MindMapInfo       `json:"mindmap"`
	Nodes   []MindMapNodeData `json:"nodes"`
}

// CreateMindMapInput is the input shape for creating a mind map.
type CreateMindMapInput struct {
	Title    string `json:"title"`
	UserID   string `json:"userId"`
	IsPublic bool   `json:"is_public"`
}

// UpdateMindMapInput carries the updatable mind-map fields. Nil means
// leave the field unchanged.
type UpdateMindMapInput struct {
	Title    *string `json:"title"`
	IsPublic *bool   `json:"is_public"`
}

// CreateNodeInput is the input shape for creating a node.
type CreateNodeInput struct {
	Content      string            `json:"content"`
	ParentNodeID *string           `json:"parent_node_id"`
	SortOrder    int               `json:"sort_order"`
	NodeType     string            `json:"node_type"`
	Style        map[string]string `json:"style"`
}

// UpdateNodeInput carries the updatable node fields. Nil means leave the
// field unchanged. SetParent distinguishes "clear the parent" from "leave
// the parent alone", since both would otherwise be a nil pointer.
type UpdateNodeInput struct {
	Content      *string           `json:"content"`
	ParentNodeID *string           `json:"parent_node_id"`
	SetParent    bool              `json:"set_parent"`
	SortOrder    *int              `json:"sort_order"`
	NodeType     *string           `json:"node_type"`
	Style        map[string]string `json:"style"`
}

// APIResponse is the uniform envelope returned by every route.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
