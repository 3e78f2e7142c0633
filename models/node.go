package models

import "gorm.io/gorm"

// MindMapNode represents a single node belonging to a mind map. The parent
// relation is stored by public ID so the editor-facing shapes never see the
// internal row keys. A null ParentNodeID marks a root node; a mind map may
// have more than one root.
type MindMapNode struct {
	gorm.Model
	PublicID  string  `gorm:"size:100;uniqueIndex" json:"id"`
	MindMapID uint    `gorm:"not null;index" json:"-"`
	Content   string  `gorm:"size:2000" json:"content"`
	ParentID  *string `gorm:"size:100;index" json:"parent_node_id"` // References MindMapNode.PublicID
	SortOrder int     `gorm:"default:0" json:"sort_order"`
	NodeType  string  `gorm:"size:50;default:standard" json:"node_type"`

	Style     map[string]string `gorm:"serializer:json" json:"style"`
	Embedding []float32         `gorm:"serializer:json" json:"-"`
}

// ToData converts the row into the standard data model shape. The owning
// mind map's public ID is passed in because the row only carries the
// internal key.
func (n *MindMapNode) ToData(mindMapID string) MindMapNodeData {
	return MindMapNodeData{
		ID:           n.PublicID,
		MindMapID:    mindMapID,
		Content:      n.Content,
		ParentNodeID: n.ParentID,
		SortOrder:    n.SortOrder,
		NodeType:     n.NodeType,
		Style:        n.Style,
		Embedding:    n.Embedding,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}
