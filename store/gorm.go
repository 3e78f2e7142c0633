package store

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/spider-mind/spider-mind-api/models"
	"github.com/spider-mind/spider-mind-api/transform"
)

// GormRepository is the production MindMapRepository backed by a relational
// database through GORM.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) findMindMap(id string) (*models.MindMap, error) {
	var mindMap models.MindMap
	if err := r.DB.Where("public_id = ?", id).First(&mindMap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mindMap, nil
}

func (r *GormRepository) nodeRows(mindMap *models.MindMap) ([]models.MindMapNodeData, error) {
	var rows []models.MindMapNode
	if err := r.DB.Where("mind_map_id = ?", mindMap.ID).
		Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	nodes := make([]models.MindMapNodeData, 0, len(rows))
	for i := range rows {
		nodes = append(nodes, rows[i].ToData(mindMap.PublicID))
	}
	return nodes, nil
}

func (r *GormRepository) ListByUser(userID string, includePrivate bool) ([]models.MindMapInfo, error) {
	query := r.DB.Where("user_id = ?", userID)
	if !includePrivate {
		query = query.Where("is_public = ?", true)
	}

	var mindMaps []models.MindMap
	if err := query.Order("updated_at DESC").Find(&mindMaps).Error; err != nil {
		return nil, err
	}

	infos := make([]models.MindMapInfo, 0, len(mindMaps))
	for i := range mindMaps {
		infos = append(infos, mindMaps[i].ToInfo())
	}
	return infos, nil
}

func (r *GormRepository) ListAll() ([]models.MindMapInfo, error) {
	var mindMaps []models.MindMap
	if err := r.DB.Find(&mindMaps).Error; err != nil {
		return nil, err
	}
	infos := make([]models.MindMapInfo, 0, len(mindMaps))
	for i := range mindMaps {
		infos = append(infos, mindMaps[i].ToInfo())
	}
	return infos, nil
}

func (r *GormRepository) Create(input models.CreateMindMapInput, seedDefaultNode bool) (*models.MindMapWithNodes, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	mindMap := models.MindMap{
		PublicID: publicID,
		Title:    input.Title,
		UserID:   input.UserID,
		IsPublic: input.IsPublic,
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(&mindMap).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var nodes []models.MindMapNodeData
	if seedDefaultNode {
		nodeID, err := gonanoid.New()
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to generate ID: %w", err)
		}
		root := models.MindMapNode{
			PublicID:  nodeID,
			MindMapID: mindMap.ID,
			Content:   DefaultRootContent,
			NodeType:  "standard",
			SortOrder: 0,
		}
		if err := tx.Create(&root).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		nodes = append(nodes, root.ToData(mindMap.PublicID))
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	result := transform.FromDatabase(mindMap.ToInfo(), nodes)
	return &result, nil
}

func (r *GormRepository) Get(id string) (*models.MindMapInfo, error) {
	mindMap, err := r.findMindMap(id)
	if err != nil {
		return nil, err
	}
	info := mindMap.ToInfo()
	return &info, nil
}

func (r *GormRepository) GetWithNodes(id string) (*models.MindMapWithNodes, error) {
	mindMap, err := r.findMindMap(id)
	if err != nil {
		return nil, err
	}
	nodes, err := r.nodeRows(mindMap)
	if err != nil {
		return nil, err
	}
	result := transform.FromDatabase(mindMap.ToInfo(), nodes)
	return &result, nil
}

func (r *GormRepository) Update(id string, input models.UpdateMindMapInput) (*models.MindMapInfo, error) {
	mindMap, err := r.findMindMap(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		mindMap.Title = *input.Title
	}
	if input.IsPublic != nil {
		mindMap.IsPublic = *input.IsPublic
	}

	if err := r.DB.Save(mindMap).Error; err != nil {
		return nil, err
	}

	info := mindMap.ToInfo()
	return &info, nil
}

// Delete removes the mind map and all its node rows in one transaction:
// both go, or neither goes.
func (r *GormRepository) Delete(id string) error {
	mindMap, err := r.findMindMap(id)
	if err != nil {
		return err
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	// Node rows are hard deleted: their public IDs can be reused by a
	// later sync, and the unique index would reject a soft-deleted twin.
	if err := tx.Unscoped().Where("mind_map_id = ?", mindMap.ID).
		Delete(&models.MindMapNode{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(mindMap).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *GormRepository) DeleteByUser(userID string) (BatchDeleteResult, error) {
	var result BatchDeleteResult

	var mindMaps []models.MindMap
	if err := r.DB.Where("user_id = ?", userID).Find(&mindMaps).Error; err != nil {
		return result, err
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return result, tx.Error
	}

	for i := range mindMaps {
		if err := tx.Unscoped().Where("mind_map_id = ?", mindMaps[i].ID).
			Delete(&models.MindMapNode{}).Error; err != nil {
			tx.Rollback()
			return result, err
		}
		if err := tx.Delete(&mindMaps[i]).Error; err != nil {
			tx.Rollback()
			return result, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return result, err
	}

	var remaining int64
	if err := r.DB.Model(&models.MindMap{}).Count(&remaining).Error; err != nil {
		return result, err
	}

	result.Deleted = len(mindMaps)
	result.Remaining = int(remaining)
	return result, nil
}

func (r *GormRepository) ListNodes(mindMapID string) ([]models.MindMapNodeData, error) {
	mindMap, err := r.findMindMap(mindMapID)
	if err != nil {
		return nil, err
	}
	return r.nodeRows(mindMap)
}

func (r *GormRepository) ListAllNodes() ([]models.MindMapNodeData, error) {
	var mindMaps []models.MindMap
	if err := r.DB.Find(&mindMaps).Error; err != nil {
		return nil, err
	}

	var all []models.MindMapNodeData
	for i := range mindMaps {
		nodes, err := r.nodeRows(&mindMaps[i])
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

func (r *GormRepository) CreateNode(mindMapID string, input models.CreateNodeInput) (*models.MindMapNodeData, error) {
	mindMap, err := r.findMindMap(mindMapID)
	if err != nil {
		return nil, err
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	nodeType := input.NodeType
	if nodeType == "" {
		nodeType = "standard"
	}

	existing, err := r.nodeRows(mindMap)
	if err != nil {
		return nil, err
	}

	node := models.MindMapNode{
		PublicID:  publicID,
		MindMapID: mindMap.ID,
		Content:   input.Content,
		ParentID:  input.ParentNodeID,
		SortOrder: nextSortOrder(existing, input.ParentNodeID, input.SortOrder),
		NodeType:  nodeType,
		Style:     input.Style,
	}

	if err := transform.ValidateForest(append(existing, node.ToData(mindMap.PublicID))); err != nil {
		return nil, err
	}

	if err := r.DB.Create(&node).Error; err != nil {
		return nil, err
	}

	data := node.ToData(mindMap.PublicID)
	return &data, nil
}

func (r *GormRepository) UpdateNode(mindMapID, nodeID string, input models.UpdateNodeInput) (*models.MindMapNodeData, error) {
	mindMap, err := r.findMindMap(mindMapID)
	if err != nil {
		return nil, err
	}

	var node models.MindMapNode
	if err := r.DB.Where("public_id = ? AND mind_map_id = ?", nodeID, mindMap.ID).
		First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}

	if input.Content != nil {
		node.Content = *input.Content
	}
	if input.SetParent {
		node.ParentID = input.ParentNodeID
	}
	if input.SortOrder != nil {
		node.SortOrder = *input.SortOrder
	}
	if input.NodeType != nil {
		node.NodeType = *input.NodeType
	}
	if input.Style != nil {
		node.Style = input.Style
	}

	if input.SetParent || input.SortOrder != nil {
		existing, err := r.nodeRows(mindMap)
		if err != nil {
			return nil, err
		}
		siblings := make([]models.MindMapNodeData, 0, len(existing))
		for i := range existing {
			if existing[i].ID == node.PublicID {
				existing[i].ParentNodeID = node.ParentID
				continue
			}
			siblings = append(siblings, existing[i])
		}
		if err := transform.ValidateForest(existing); err != nil {
			return nil, err
		}
		node.SortOrder = nextSortOrder(siblings, node.ParentID, node.SortOrder)
	}

	if err := r.DB.Save(&node).Error; err != nil {
		return nil, err
	}

	data := node.ToData(mindMap.PublicID)
	return &data, nil
}

// DeleteNode removes a node and detaches its children: child rows survive
// with a null parent rather than being cascaded away.
func (r *GormRepository) DeleteNode(mindMapID, nodeID string) error {
	mindMap, err := r.findMindMap(mindMapID)
	if err != nil {
		return err
	}

	var node models.MindMapNode
	if err := r.DB.Where("public_id = ? AND mind_map_id = ?", nodeID, mindMap.ID).
		First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNodeNotFound
		}
		return err
	}

	existing, err := r.nodeRows(mindMap)
	if err != nil {
		return err
	}

	// Detached children join the root sibling group, so they are renumbered
	// past whatever orders the surviving roots already hold.
	next := 0
	for _, row := range existing {
		if row.ParentNodeID == nil && row.ID != node.PublicID && row.SortOrder >= next {
			next = row.SortOrder + 1
		}
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	for _, row := range existing {
		if row.ParentNodeID == nil || *row.ParentNodeID != node.PublicID {
			continue
		}
		if err := tx.Model(&models.MindMapNode{}).
			Where("mind_map_id = ? AND public_id = ?", mindMap.ID, row.ID).
			Updates(map[string]any{"parent_id": nil, "sort_order": next}).Error; err != nil {
			tx.Rollback()
			return err
		}
		next++
	}
	if err := tx.Unscoped().Delete(&node).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// SyncNodes replaces the mind map's node rows with the given set, the same
// delete-then-recreate sequence the editor's save path has always used.
func (r *GormRepository) SyncNodes(mindMapID string, nodes []models.MindMapNodeData) error {
	mindMap, err := r.findMindMap(mindMapID)
	if err != nil {
		return err
	}

	if err := transform.ValidateForest(nodes); err != nil {
		return err
	}
	if err := transform.ValidateSiblingOrder(nodes); err != nil {
		return err
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Unscoped().Where("mind_map_id = ?", mindMap.ID).
		Delete(&models.MindMapNode{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range nodes {
		publicID := nodes[i].ID
		if publicID == "" {
			publicID, err = gonanoid.New()
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to generate ID: %w", err)
			}
		}
		nodeType := nodes[i].NodeType
		if nodeType == "" {
			nodeType = "standard"
		}
		row := models.MindMapNode{
			PublicID:  publicID,
			MindMapID: mindMap.ID,
			Content:   nodes[i].Content,
			ParentID:  nodes[i].ParentNodeID,
			SortOrder: nodes[i].SortOrder,
			NodeType:  nodeType,
			Style:     nodes[i].Style,
			Embedding: nodes[i].Embedding,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

func (r *GormRepository) SetMindMapEmbedding(id string, embedding []float32) error {
	mindMap, err := r.findMindMap(id)
	if err != nil {
		return err
	}
	mindMap.Embedding = embedding
	return r.DB.Save(mindMap).Error
}

func (r *GormRepository) SetNodeEmbedding(mindMapID, nodeID string, embedding []float32) error {
	mindMap, err := r.findMindMap(mindMapID)
	if err != nil {
		return err
	}

	var node models.MindMapNode
	if err := r.DB.Where("public_id = ? AND mind_map_id = ?", nodeID, mindMap.ID).
		First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNodeNotFound
		}
		return err
	}

	node.Embedding = embedding
	return r.DB.Save(&node).Error
}
