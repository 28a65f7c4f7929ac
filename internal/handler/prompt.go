package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/service"
)

// PromptHandler serves the /prompts resource.
//
// Handlers only speak HTTP: decode the body, pull path and query values,
// call the service, and translate the result. Validation and reference
// checks live in the service.
type PromptHandler struct {
	prompts *service.PromptService
	logger  *slog.Logger
}

func NewPromptHandler(prompts *service.PromptService, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{prompts: prompts, logger: logger}
}

// HandleList returns prompts, newest first.
//
// HTTP: GET /prompts?collection_id=...&search=...
//
// Both query parameters are optional. The collection filter runs before the
// search.
func (h *PromptHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prompts, err := h.prompts.List(r.Context(), service.ListFilter{
		CollectionID: q.Get("collection_id"),
		Search:       q.Get("search"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.PromptList{Prompts: prompts, Total: len(prompts)})
}

// HandleCreate creates a prompt.
//
// HTTP: POST /prompts
// REQUEST BODY: {"title": "...", "content": "...", "description": "...", "collection_id": "..."}
func (h *PromptHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.PromptCreate
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	p, err := h.prompts.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// HandleGet: GET /prompts/{id}
func (h *PromptHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.prompts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate replaces a prompt's editable fields. Omitted description or
// collection_id are cleared.
//
// HTTP: PUT /prompts/{id}
func (h *PromptHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.PromptUpdate
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	p, err := h.prompts.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandlePatch changes only the fields present in the body.
//
// HTTP: PATCH /prompts/{id}
func (h *PromptHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var in model.PromptPatch
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	p, err := h.prompts.Patch(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleDelete: DELETE /prompts/{id} → 204 No Content
func (h *PromptHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.prompts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleVariables lists the {{placeholders}} in a prompt's content.
//
// HTTP: GET /prompts/{id}/variables
func (h *PromptHandler) HandleVariables(w http.ResponseWriter, r *http.Request) {
	vars, err := h.prompts.Variables(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, vars)
}
