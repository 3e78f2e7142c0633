package handlers

import (
	"encoding/json"
	"net/http"
)

type searchRequest struct {
	Query string `json:"query"`
	Type  string `json:"type"`
	Limit int    `json:"limit"`
}

// POST /api/search
func (h *APIHandler) SearchMindMaps(w http.ResponseWriter, r *http.Request) {
	if h.Search == nil {
		writeError(w, http.StatusInternalServerError, "AI service not configured")
		return
	}

	var requestData searchRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if requestData.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	searchType := requestData.Type
	switch searchType {
	case "":
		searchType = "all"
	case "mindmaps", "nodes", "all":
	default:
		writeError(w, http.StatusBadRequest, "type must be mindmaps, nodes or all")
		return
	}

	results, err := h.Search.Search(r.Context(), requestData.Query, searchType, requestData.Limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeData(w, http.StatusOK, results)
}
