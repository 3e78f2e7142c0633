package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/spider-mind/spider-mind-api/models"
)

// GET /api/mindmaps/{id}/nodes
func (h *APIHandler) GetNodesForMindMap(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID is required")
		return
	}

	info, err := h.Repo.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !canViewMindMap(r, *info) {
		writeError(w, http.StatusForbidden, "Unauthorized to view this mind map")
		return
	}

	nodes, err := h.Repo.ListNodes(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeData(w, http.StatusOK, nodes)
}

// POST /api/mindmaps/{id}/nodes
func (h *APIHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID is required")
		return
	}

	var input models.CreateNodeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	node, err := h.Repo.CreateNode(id, input)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.refreshNodeEmbedding(r, id, node.ID, node.Content)

	writeMessage(w, http.StatusCreated, node, "Node created")
}

// PUT /api/mindmaps/{id}/nodes/{nodeID}
func (h *APIHandler) UpdateNodeByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	nodeID := r.PathValue("nodeID")
	if id == "" || nodeID == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID and node ID are required")
		return
	}

	// The raw body is inspected so "parent_node_id": null (detach) can be
	// told apart from the field being absent (leave unchanged).
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var input models.UpdateNodeInput
	if content, ok := raw["content"]; ok {
		if err := json.Unmarshal(content, &input.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if parent, ok := raw["parent_node_id"]; ok {
		input.SetParent = true
		if err := json.Unmarshal(parent, &input.ParentNodeID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if order, ok := raw["sort_order"]; ok {
		if err := json.Unmarshal(order, &input.SortOrder); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if nodeType, ok := raw["node_type"]; ok {
		if err := json.Unmarshal(nodeType, &input.NodeType); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if style, ok := raw["style"]; ok {
		if err := json.Unmarshal(style, &input.Style); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	node, err := h.Repo.UpdateNode(id, nodeID, input)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if input.Content != nil {
		h.refreshNodeEmbedding(r, id, node.ID, node.Content)
	}

	writeMessage(w, http.StatusOK, node, "Node updated")
}

// DELETE /api/mindmaps/{id}/nodes/{nodeID}
func (h *APIHandler) DeleteNodeByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	nodeID := r.PathValue("nodeID")
	if id == "" || nodeID == "" {
		writeError(w, http.StatusBadRequest, "Mind map ID and node ID are required")
		return
	}

	if err := h.Repo.DeleteNode(id, nodeID); err != nil {
		writeStoreError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, nil, "Node deleted")
}

func (h *APIHandler) refreshNodeEmbedding(r *http.Request, mindMapID, nodeID, content string) {
	if h.Embedder == nil || content == "" {
		return
	}
	vector, err := h.Embedder.EmbedText(r.Context(), content)
	if err != nil {
		log.Printf("embedding refresh failed for node %s: %v", nodeID, err)
		return
	}
	if err := h.Repo.SetNodeEmbedding(mindMapID, nodeID, vector); err != nil {
		log.Printf("failed to store embedding for node %s: %v", nodeID, err)
	}
}
