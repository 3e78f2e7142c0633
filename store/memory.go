package store

import (
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/spider-mind/spider-mind-api/models"
	"github.com/spider-mind/spider-mind-api/transform"
)

// MemoryRepository is an in-memory MindMapRepository used by tests and
// demos. It is mutex-guarded, so it is safe under concurrent requests, but
// nothing survives a restart. Never wire it into production.
type MemoryRepository struct {
	mu   sync.RWMutex
	maps map[string]*memoryEntry
}

type memoryEntry struct {
	info  models.MindMapInfo
	nodes []models.MindMapNodeData
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		maps: make(map[string]*memoryEntry),
	}
}

func (r *MemoryRepository) ListByUser(userID string, includePrivate bool) ([]models.MindMapInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]models.MindMapInfo, 0)
	for _, entry := range r.maps {
		if entry.info.UserID != userID {
			continue
		}
		if !includePrivate && !entry.info.IsPublic {
			continue
		}
		infos = append(infos, entry.info)
	}
	return infos, nil
}

func (r *MemoryRepository) ListAll() ([]models.MindMapInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]models.MindMapInfo, 0, len(r.maps))
	for _, entry := range r.maps {
		infos = append(infos, entry.info)
	}
	return infos, nil
}

func (r *MemoryRepository) Create(input models.CreateMindMapInput, seedDefaultNode bool) (*models.MindMapWithNodes, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	now := time.Now()
	entry := &memoryEntry{
		info: models.MindMapInfo{
			ID:        publicID,
			Title:     input.Title,
			UserID:    input.UserID,
			IsPublic:  input.IsPublic,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if seedDefaultNode {
		nodeID, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ID: %w", err)
		}
		entry.nodes = append(entry.nodes, models.MindMapNodeData{
			ID:        nodeID,
			MindMapID: publicID,
			Content:   DefaultRootContent,
			NodeType:  "standard",
			SortOrder: 0,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	r.mu.Lock()
	r.maps[publicID] = entry
	r.mu.Unlock()

	result := transform.FromDatabase(entry.info, append([]models.MindMapNodeData(nil), entry.nodes...))
	return &result, nil
}

func (r *MemoryRepository) Get(id string) (*models.MindMapInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.maps[id]
	if !ok {
		return nil, ErrNotFound
	}
	info := entry.info
	return &info, nil
}

func (r *MemoryRepository) GetWithNodes(id string) (*models.MindMapWithNodes, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.maps[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := transform.FromDatabase(entry.info, append([]models.MindMapNodeData(nil), entry.nodes...))
	return &result, nil
}

func (r *MemoryRepository) Update(id string, input models.UpdateMindMapInput) (*models.MindMapInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[id]
	if !ok {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		entry.info.Title = *input.Title
	}
	if input.IsPublic != nil {
		entry.info.IsPublic = *input.IsPublic
	}
	entry.info.UpdatedAt = time.Now()

	info := entry.info
	return &info, nil
}

func (r *MemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.maps[id]; !ok {
		return ErrNotFound
	}
	delete(r.maps, id)
	return nil
}

func (r *MemoryRepository) DeleteByUser(userID string) (BatchDeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result BatchDeleteResult
	for id, entry := range r.maps {
		if entry.info.UserID == userID {
			delete(r.maps, id)
			result.Deleted++
		}
	}
	result.Remaining = len(r.maps)
	return result, nil
}

func (r *MemoryRepository) ListNodes(mindMapID string) ([]models.MindMapNodeData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.maps[mindMapID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]models.MindMapNodeData(nil), entry.nodes...), nil
}

func (r *MemoryRepository) ListAllNodes() ([]models.MindMapNodeData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.MindMapNodeData
	for _, entry := range r.maps {
		all = append(all, entry.nodes...)
	}
	return all, nil
}

func (r *MemoryRepository) CreateNode(mindMapID string, input models.CreateNodeInput) (*models.MindMapNodeData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[mindMapID]
	if !ok {
		return nil, ErrNotFound
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	nodeType := input.NodeType
	if nodeType == "" {
		nodeType = "standard"
	}

	now := time.Now()
	node := models.MindMapNodeData{
		ID:           publicID,
		MindMapID:    mindMapID,
		Content:      input.Content,
		ParentNodeID: input.ParentNodeID,
		SortOrder:    nextSortOrder(entry.nodes, input.ParentNodeID, input.SortOrder),
		NodeType:     nodeType,
		Style:        input.Style,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := transform.ValidateForest(append(append([]models.MindMapNodeData(nil), entry.nodes...), node)); err != nil {
		return nil, err
	}

	entry.nodes = append(entry.nodes, node)
	return &node, nil
}

func (r *MemoryRepository) UpdateNode(mindMapID, nodeID string, input models.UpdateNodeInput) (*models.MindMapNodeData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[mindMapID]
	if !ok {
		return nil, ErrNotFound
	}

	index := -1
	for i := range entry.nodes {
		if entry.nodes[i].ID == nodeID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrNodeNotFound
	}

	updated := entry.nodes[index]
	if input.Content != nil {
		updated.Content = *input.Content
	}
	if input.SetParent {
		updated.ParentNodeID = input.ParentNodeID
	}
	if input.SortOrder != nil {
		updated.SortOrder = *input.SortOrder
	}
	if input.NodeType != nil {
		updated.NodeType = *input.NodeType
	}
	if input.Style != nil {
		updated.Style = input.Style
	}
	updated.UpdatedAt = time.Now()

	if input.SetParent || input.SortOrder != nil {
		candidate := append([]models.MindMapNodeData(nil), entry.nodes...)
		candidate[index] = updated
		if err := transform.ValidateForest(candidate); err != nil {
			return nil, err
		}
		siblings := append(candidate[:index:index], candidate[index+1:]...)
		updated.SortOrder = nextSortOrder(siblings, updated.ParentNodeID, updated.SortOrder)
	}

	entry.nodes[index] = updated
	return &updated, nil
}

func (r *MemoryRepository) DeleteNode(mindMapID, nodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[mindMapID]
	if !ok {
		return ErrNotFound
	}

	index := -1
	for i := range entry.nodes {
		if entry.nodes[i].ID == nodeID {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrNodeNotFound
	}

	// Detach children before removing the node itself. They join the root
	// sibling group, so their orders restart past the surviving roots.
	next := 0
	for i := range entry.nodes {
		if i != index && entry.nodes[i].ParentNodeID == nil && entry.nodes[i].SortOrder >= next {
			next = entry.nodes[i].SortOrder + 1
		}
	}
	for i := range entry.nodes {
		if entry.nodes[i].ParentNodeID != nil && *entry.nodes[i].ParentNodeID == nodeID {
			entry.nodes[i].ParentNodeID = nil
			entry.nodes[i].SortOrder = next
			next++
		}
	}
	entry.nodes = append(entry.nodes[:index], entry.nodes[index+1:]...)
	return nil
}

func (r *MemoryRepository) SyncNodes(mindMapID string, nodes []models.MindMapNodeData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[mindMapID]
	if !ok {
		return ErrNotFound
	}

	if err := transform.ValidateForest(nodes); err != nil {
		return err
	}
	if err := transform.ValidateSiblingOrder(nodes); err != nil {
		return err
	}

	now := time.Now()
	replacement := make([]models.MindMapNodeData, 0, len(nodes))
	for _, node := range nodes {
		if node.ID == "" {
			publicID, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate ID: %w", err)
			}
			node.ID = publicID
		}
		if node.NodeType == "" {
			node.NodeType = "standard"
		}
		node.MindMapID = mindMapID
		node.CreatedAt = now
		node.UpdatedAt = now
		replacement = append(replacement, node)
	}

	entry.nodes = replacement
	entry.info.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) SetMindMapEmbedding(id string, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[id]
	if !ok {
		return ErrNotFound
	}
	entry.info.Embedding = embedding
	return nil
}

func (r *MemoryRepository) SetNodeEmbedding(mindMapID, nodeID string, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.maps[mindMapID]
	if !ok {
		return ErrNotFound
	}
	for i := range entry.nodes {
		if entry.nodes[i].ID == nodeID {
			entry.nodes[i].Embedding = embedding
			return nil
		}
	}
	return ErrNodeNotFound
}
