package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/spider-mind/spider-mind-api/models"
	"github.com/spider-mind/spider-mind-api/transform"
	"github.com/spider-mind/spider-mind-api/utils"
)

// GET /api/mindmaps?userId=<id>
func (h *APIHandler) GetMindMapsForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	// Private maps are only listed for their owner
	auth0ID, ok := utils.GetAuth0ID(r)
	includePrivate := ok && auth0ID == userID

	mindMaps, err := h.Repo.ListByUser(userID, includePrivate)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeData(w, http.StatusOK, mindMaps)
}

type createMindMapRequest struct {
	Title    string                  `json:"title"`
	UserID   string                  `json:"userId"`
	IsPublic bool                    `json:"is_public"`
	Content  *transform.DisplayGraph `json:"content"`
}

// POST /api/mindmaps
func (h *APIHandler) CreateMindMap(w http.ResponseWriter, r *http.Request) {
	var requestData createMindMapRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := requestData.UserID
	if auth0ID, ok := utils.GetAuth0ID(r); ok {
		userID = auth0ID
	}
	if requestData.Title == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "Title and userId are required")
		return
	}

	input := models.CreateMindMapInput{
		Title:    requestData.Title,
		UserID:   userID,
		IsPublic: requestData.IsPublic,
	}

	// A supplied graph is transformed and validated before anything is
	// written, so a rejected graph leaves no half-created map behind.
	var contentNodes []models.MindMapNodeData
	if requestData.Content != nil {
		var err error
		contentNodes, err = transform.FromDisplay("", *requestData.Content)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if err := transform.ValidateForest(contentNodes); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	// Without content the map starts with a single default root node
	created, err := h.Repo.Create(input, requestData.Content == nil)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if requestData.Content != nil {
		if err := h.Repo.SyncNodes(created.MindMap.ID, contentNodes); err != nil {
			writeStoreError(w, err)
			return
		}
		created, err = h.Repo.GetWithNodes(created.MindMap.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
	}

	h.refreshMindMapEmbedding(r, created.MindMap.ID, created.MindMap.Title)

	writeMessage(w, http.StatusCreated, created, "Mind map created")
}

// canViewMindMap reports whether the requester may read the mind map:
// public maps are open, private maps are owner-only.
func canViewMindMap(r *http.Request, info models.MindMapInfo) bool {
	if info.IsPublic {
		return true
	}
	auth0ID, ok := utils.GetAuth0ID(r)
	return ok && auth0ID == info.UserID
}

// GET /api/mindmaps/{id}
func (h *APIHandler) GetMindMapByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID is required")
		return
	}

	result, err := h.Repo.GetWithNodes(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !canViewMindMap(r, result.MindMap) {
		writeError(w, http.StatusForbidden, "Unauthorized to view this mind map")
		return
	}

	graph := transform.ToDisplay(result.Nodes)
	writeData(w, http.StatusOK, map[string]any{
		"mindmap": result.MindMap,
		"nodes":   graph.Nodes,
		"edges":   graph.Edges,
	})
}

// GET /api/mindmaps/{id}/full
func (h *APIHandler) GetMindMapFull(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID is required")
		return
	}

	result, err := h.Repo.GetWithNodes(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !canViewMindMap(r, result.MindMap) {
		writeError(w, http.StatusForbidden, "Unauthorized to view this mind map")
		return
	}

	writeData(w, http.StatusOK, result)
}

type updateMindMapRequest struct {
	Title    *string                 `json:"title"`
	IsPublic *bool                   `json:"is_public"`
	Content  *transform.DisplayGraph `json:"content"`
}

// PUT /api/mindmaps/{id}
func (h *APIHandler) UpdateMindMapByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID is required")
		return
	}

	var requestData updateMindMapRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Repo.Update(id, models.UpdateMindMapInput{
		Title:    requestData.Title,
		IsPublic: requestData.IsPublic,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if requestData.Content != nil {
		nodes, err := transform.FromDisplay(id, *requestData.Content)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if err := h.Repo.SyncNodes(id, nodes); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	if requestData.Title != nil {
		h.refreshMindMapEmbedding(r, id, *requestData.Title)
	}

	writeMessage(w, http.StatusOK, updated, "Mind map updated")
}

// DELETE /api/mindmaps/{id}
func (h *APIHandler) DeleteMindMapByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID is required")
		return
	}

	if err := h.Repo.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, nil, "Mind map deleted")
}

// DELETE /api/mindmaps/batch?userId=<id>
func (h *APIHandler) BatchDeleteMindMaps(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.Repo.DeleteByUser(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, result, "Mind maps deleted")
}

// refreshMindMapEmbedding re-embeds the title after a write. Best-effort:
// the write already succeeded, so an embedding failure is only logged.
func (h *APIHandler) refreshMindMapEmbedding(r *http.Request, id, title string) {
	if h.Embedder == nil || title == "" {
		return
	}
	vector, err := h.Embedder.EmbedText(r.Context(), title)
	if err != nil {
		log.Printf("embedding refresh failed for mind map %s: %v", id, err)
		return
	}
	if err := h.Repo.SetMindMapEmbedding(id, vector); err != nil {
		log.Printf("failed to store embedding for mind map %s: %v", id, err)
	}
}
