package models

import "gorm.io/gorm"

// MindMap represents a single mind map document owned by a user
type MindMap struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex" json:"id"`
	Title    string `gorm:"not null;size:200" json:"title"`
	UserID   string `gorm:"not null;size:100;index" json:"user_id"` // References User.Auth0ID
	IsPublic bool   `gorm:"default:false" json:"is_public"`

	// Semantic embedding of the title, refreshed on title change
	Embedding []float32 `gorm:"serializer:json" json:"-"`

	Nodes []MindMapNode `gorm:"foreignKey:MindMapID" json:"-"`
}

// ToInfo converts the row into the standard data model shape.
func (m *MindMap) ToInfo() MindMapInfo {
	return MindMapInfo{
		ID:        m.PublicID,
		Title:     m.Title,
		UserID:    m.UserID,
		IsPublic:  m.IsPublic,
		Embedding: m.Embedding,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
