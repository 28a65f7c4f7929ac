package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/service"
)

type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, logger: logger}
}

// HandleAdd attaches tags to a prompt and returns the updated prompt.
//
// HTTP: POST /prompts/{id}/tags
// REQUEST BODY: {"tags": ["AI", "writing"]}
func (h *TagHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var in model.TagsInput
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	p, err := h.tags.Add(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleList: GET /prompts/{id}/tags → [] for an untagged prompt, 404 for a
// missing one.
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

// HandleRemove: DELETE /prompts/{id}/tags/{tag_name}
func (h *TagHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	p, err := h.tags.Remove(r.Context(), r.PathValue("id"), tagName(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleSearch: GET /tags/{tag_name}/prompts
func (h *TagHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.tags.SearchByTag(r.Context(), tagName(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, prompts)
}

// tagName returns the decoded {tag_name} path value. The router matches on
// the raw path when the URL carries escapes such as %2F, so the value may
// still be percent-encoded.
func tagName(r *http.Request) string {
	name := r.PathValue("tag_name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
