package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spider-mind/spider-mind-api/ai"
)

type embeddingsRequest struct {
	Texts  []string `json:"texts"`
	Single bool     `json:"single"`
}

// POST /api/ai/embeddings
//
// Accepts a batch of texts; with "single": true exactly one text is
// expected and one vector is returned instead of a list.
func (h *APIHandler) GenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	if h.Embedder == nil {
		writeError(w, http.StatusInternalServerError, "AI service not configured")
		return
	}

	var requestData embeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(requestData.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts is required")
		return
	}
	if requestData.Single && len(requestData.Texts) != 1 {
		writeError(w, http.StatusBadRequest, "single requires exactly one text")
		return
	}

	vectors, err := h.Embedder.EmbedTexts(r.Context(), requestData.Texts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if requestData.Single {
		writeData(w, http.StatusOK, map[string]any{"embedding": vectors[0]})
		return
	}
	writeData(w, http.StatusOK, map[string]any{"embeddings": vectors})
}

type suggestionsRequest struct {
	Action  string `json:"action"`
	Context string `json:"context"`
}

// POST /api/ai/mindmap
func (h *APIHandler) GenerateMindMapSuggestions(w http.ResponseWriter, r *http.Request) {
	if h.Suggester == nil {
		writeError(w, http.StatusInternalServerError, "AI service not configured")
		return
	}

	var requestData suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if requestData.Action == "" || requestData.Context == "" {
		writeError(w, http.StatusBadRequest, "action and context are required")
		return
	}
	if !ai.KnownAction(requestData.Action) {
		writeError(w, http.StatusBadRequest, "unknown action: "+requestData.Action)
		return
	}

	suggestions, err := h.Suggester.GenerateSuggestions(r.Context(), requestData.Action, requestData.Context)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeData(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
