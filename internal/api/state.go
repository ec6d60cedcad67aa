package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/packapp/internal/templates"
)

// ListTemplates handles GET /api/templates.
//
//	@Summary		List seed templates
//	@Tags			state
//	@Produce		json
//	@Success		200	{object}	TemplatesResponse
//	@Router			/templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TemplatesResponse{Templates: templates.List()})
}

// CreateState handles POST /api/list. Nothing is saved; the response carries
// the encoded location of the new document.
//
//	@Summary		Start a new document in URL state
//	@Tags			state
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateListRequest	true	"Name or template"
//	@Success		201		{object}	StateView
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/list [post]
func (h *Handler) CreateState(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, "create state")
		return
	}
	v, err := h.svc.NewState(r.Context(), req)
	if err != nil {
		writeError(w, err, "create state")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// GetState handles GET /api/list/{state}. An undecodable state is answered
// with the default document and a warning, never with an error.
//
//	@Summary		Decode and view a URL-state document
//	@Tags			state
//	@Produce		json
//	@Param			state	path		string	true	"Encoded document"
//	@Success		200		{object}	StateView
//	@Router			/list/{state} [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.OpenState(r.Context(), stateParam(r)))
}

// ApplyState handles POST /api/list/{state}/ops.
//
//	@Summary		Apply a mutation to a URL-state document
//	@Tags			state
//	@Accept			json
//	@Produce		json
//	@Param			state	path		string				true	"Encoded document"
//	@Param			body	body		OperationRequest	true	"Operation"
//	@Success		200		{object}	StateOperationResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/list/{state}/ops [post]
func (h *Handler) ApplyState(w http.ResponseWriter, r *http.Request) {
	state, ok := strings.CutSuffix(stateParam(r), "/ops")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var op OperationRequest
	if err := decodeBody(w, r, &op); err != nil {
		writeError(w, err, "apply state operation")
		return
	}
	v, out, err := h.svc.ApplyState(r.Context(), state, op)
	if err != nil {
		writeError(w, err, "apply state operation")
		return
	}
	writeJSON(w, http.StatusOK, StateOperationResponse{StateView: v, NodeID: out.NodeID, Packed: out.Packed})
}

// stateParam returns the path tail after /list/. chi hands back the escaped
// form when the request path has escapes, so "%2F" is undone here.
func stateParam(r *http.Request) string {
	tail := chi.URLParam(r, "*")
	if s, err := url.PathUnescape(tail); err == nil {
		return s
	}
	return tail
}
