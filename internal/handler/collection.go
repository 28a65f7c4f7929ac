package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/service"
)

// CollectionHandler serves the /collections resource.
type CollectionHandler struct {
	collections *service.CollectionService
	logger      *slog.Logger
}

func NewCollectionHandler(collections *service.CollectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, logger: logger}
}

// HandleList: GET /collections
func (h *CollectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	collections, err := h.collections.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CollectionList{Collections: collections, Total: len(collections)})
}

// HandleCreate: POST /collections {"name": "...", "description": "..."}
func (h *CollectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.CollectionCreate
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	c, err := h.collections.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *CollectionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.collections.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// HandleDelete removes the collection. Its prompts survive with
// collection_id cleared.
//
// HTTP: DELETE /collections/{id} → 204 No Content
func (h *CollectionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.collections.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
