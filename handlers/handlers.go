package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spider-mind/spider-mind-api/ai"
	"github.com/spider-mind/spider-mind-api/models"
	"github.com/spider-mind/spider-mind-api/search"
	"github.com/spider-mind/spider-mind-api/store"
	"github.com/spider-mind/spider-mind-api/transform"
)

// APIHandler carries the collaborators every route needs. The repository
// is injected so tests can swap the database for the in-memory store.
type APIHandler struct {
	Repo      store.MindMapRepository
	Embedder  ai.EmbeddingService
	Suggester ai.SuggestionService
	Search    *search.Service
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeMessage(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{
		Success: false,
		Error:   message,
		Message: message,
	})
}

// writeStoreError maps repository and validation failures onto the status
// taxonomy: malformed graphs are client errors, missing rows are 404s,
// anything else is a 500 with the underlying message surfaced.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Mind map not found")
	case errors.Is(err, store.ErrNodeNotFound):
		writeError(w, http.StatusNotFound, "Node not found")
	case errors.Is(err, transform.ErrMultipleParents),
		errors.Is(err, transform.ErrUnknownNode),
		errors.Is(err, transform.ErrUnknownParent),
		errors.Is(err, transform.ErrCycle),
		errors.Is(err, transform.ErrDuplicateSortOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
