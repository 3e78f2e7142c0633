package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spider-mind/spider-mind-api/models"
	"github.com/spider-mind/spider-mind-api/transform"
)

func TestMemoryCreate_SeedsDefaultRootNode(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Plans", UserID: "u1"}, true)
	require.NoError(t, err)

	require.Len(t, created.Nodes, 1)
	assert.Equal(t, DefaultRootContent, created.Nodes[0].Content)
	assert.Nil(t, created.Nodes[0].ParentNodeID)
	assert.Equal(t, "standard", created.Nodes[0].NodeType)
}

func TestMemoryDeleteByUser_ScopedToOwner(t *testing.T) {
	repo := NewMemoryRepository()

	mapA, err := repo.Create(models.CreateMindMapInput{Title: "A's map", UserID: "userA"}, true)
	require.NoError(t, err)
	mapB, err := repo.Create(models.CreateMindMapInput{Title: "B's map", UserID: "userB"}, true)
	require.NoError(t, err)

	result, err := repo.DeleteByUser("userA")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Remaining)

	_, err = repo.Get(mapA.MindMap.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	survivor, err := repo.Get(mapB.MindMap.ID)
	require.NoError(t, err)
	assert.Equal(t, "userB", survivor.UserID)
}

func TestMemoryDeleteNode_DetachesChildren(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Plans", UserID: "u1"}, true)
	require.NoError(t, err)
	mapID := created.MindMap.ID
	rootID := created.Nodes[0].ID

	child, err := repo.CreateNode(mapID, models.CreateNodeInput{Content: "child", ParentNodeID: &rootID})
	require.NoError(t, err)
	grandchild, err := repo.CreateNode(mapID, models.CreateNodeInput{Content: "grandchild", ParentNodeID: &child.ID})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteNode(mapID, child.ID))

	nodes, err := repo.ListNodes(mapID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, node := range nodes {
		if node.ID == grandchild.ID {
			assert.Nil(t, node.ParentNodeID, "orphaned child should be detached")
		}
	}
}

func TestMemoryCreateNode_RejectsUnknownParent(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Plans", UserID: "u1"}, true)
	require.NoError(t, err)

	ghost := "ghost"
	_, err = repo.CreateNode(created.MindMap.ID, models.CreateNodeInput{Content: "x", ParentNodeID: &ghost})
	assert.ErrorIs(t, err, transform.ErrUnknownParent)
}

func TestMemoryUpdateNode_RejectsCycle(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Plans", UserID: "u1"}, true)
	require.NoError(t, err)
	mapID := created.MindMap.ID
	rootID := created.Nodes[0].ID

	child, err := repo.CreateNode(mapID, models.CreateNodeInput{Content: "child", ParentNodeID: &rootID})
	require.NoError(t, err)

	// Re-parenting the root under its own child would loop
	_, err = repo.UpdateNode(mapID, rootID, models.UpdateNodeInput{
		SetParent:    true,
		ParentNodeID: &child.ID,
	})
	assert.ErrorIs(t, err, transform.ErrCycle)
}

func TestMemorySyncNodes_ReplacesNodeSet(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Plans", UserID: "u1"}, true)
	require.NoError(t, err)
	mapID := created.MindMap.ID

	parent := "p"
	err = repo.SyncNodes(mapID, []models.MindMapNodeData{
		{ID: "p", Content: "parent"},
		{ID: "c", Content: "child", ParentNodeID: &parent, SortOrder: 0},
	})
	require.NoError(t, err)

	nodes, err := repo.ListNodes(mapID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "p", nodes[0].ID)
	assert.Equal(t, mapID, nodes[0].MindMapID)
}

func TestMemoryUpdate_PartialFields(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Before", UserID: "u1", IsPublic: false}, true)
	require.NoError(t, err)

	title := "After"
	updated, err := repo.Update(created.MindMap.ID, models.UpdateMindMapInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Title)
	assert.False(t, updated.IsPublic, "untouched field must keep its value")
}

func TestMemoryListByUser_HidesPrivateFromNonOwners(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Create(models.CreateMindMapInput{Title: "public", UserID: "u1", IsPublic: true}, true)
	require.NoError(t, err)
	_, err = repo.Create(models.CreateMindMapInput{Title: "private", UserID: "u1", IsPublic: false}, true)
	require.NoError(t, err)

	visible, err := repo.ListByUser("u1", false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := repo.ListByUser("u1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemorySortOrder_UniqueAmongSiblings(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(models.CreateMindMapInput{Title: "Plans", UserID: "u1"}, true)
	require.NoError(t, err)
	mapID := created.MindMap.ID
	rootID := created.Nodes[0].ID

	first, err := repo.CreateNode(mapID, models.CreateNodeInput{Content: "a", ParentNodeID: &rootID})
	require.NoError(t, err)
	second, err := repo.CreateNode(mapID, models.CreateNodeInput{Content: "b", ParentNodeID: &rootID})
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)

	// Reordering onto a sibling's slot lands past the group maximum
	zero := 0
	moved, err := repo.UpdateNode(mapID, second.ID, models.UpdateNodeInput{SortOrder: &zero})
	require.NoError(t, err)
	assert.Equal(t, 1, moved.SortOrder)

	err = repo.SyncNodes(mapID, []models.MindMapNodeData{
		{ID: "r1", Content: "one", SortOrder: 3},
		{ID: "r2", Content: "two", SortOrder: 3},
	})
	assert.ErrorIs(t, err, transform.ErrDuplicateSortOrder)
}
