package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/packapp/internal/checksum"
	"github.com/starford/packapp/internal/codec"
	"github.com/starford/packapp/internal/shelf"
)

// Handler holds API route handlers.
type Handler struct {
	svc *shelf.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *shelf.Service) *Handler {
	return &Handler{svc: svc}
}

func writeList(w http.ResponseWriter, status int, d *ListDetail) {
	w.Header().Set("ETag", checksum.ETag(d.Checksum))
	writeJSON(w, status, d)
}

// ListLists handles GET /api/lists.
//
//	@Summary		List saved packing lists
//	@Tags			lists
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			sort	query		string	false	"Sort field"	Enums(updated_at, name, progress)
//	@Success		200		{object}	ListsResponse
//	@Security		BearerAuth
//	@Router			/lists [get]
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	lists, total, err := h.svc.List(r.Context(), limit, offset, q.Get("sort"))
	if err != nil {
		writeError(w, err, "list lists")
		return
	}
	writeJSON(w, http.StatusOK, ListsResponse{Lists: lists, Total: total})
}

// CreateList handles POST /api/lists.
//
//	@Summary		Save a new packing list
//	@Tags			lists
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateListRequest	true	"Name, template or state"
//	@Success		201		{object}	ListDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lists [post]
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, "create list")
		return
	}
	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, "create list")
		return
	}
	writeList(w, http.StatusCreated, d)
}

// GetList handles GET /api/lists/{slug}.
//
//	@Summary		Get a saved list
//	@Tags			lists
//	@Produce		json
//	@Param			slug	path		string	true	"List slug"
//	@Success		200		{object}	ListDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lists/{slug} [get]
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err, "get list")
		return
	}
	writeList(w, http.StatusOK, d)
}

// ReplaceList handles PUT /api/lists/{slug}. The body is the document JSON.
//
//	@Summary		Replace a saved list with optimistic concurrency
//	@Tags			lists
//	@Accept			json
//	@Produce		json
//	@Param			slug		path	string	true	"List slug"
//	@Param			If-Match	header	string	false	"Checksum from a previous ETag"
//	@Success		200		{object}	ListDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lists/{slug} [put]
func (h *Handler) ReplaceList(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	doc, err := codec.Unmarshal(body)
	if err != nil {
		writeError(w, err, "replace list")
		return
	}
	d, err := h.svc.Replace(r.Context(), chi.URLParam(r, "slug"), doc, r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, err, "replace list")
		return
	}
	writeList(w, http.StatusOK, d)
}

// DeleteList handles DELETE /api/lists/{slug}.
//
//	@Summary		Delete a saved list
//	@Tags			lists
//	@Param			slug	path	string	true	"List slug"
//	@Success		204		"List deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lists/{slug} [delete]
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, err, "delete list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyList handles POST /api/lists/{slug}/ops.
//
//	@Summary		Apply a mutation to a saved list
//	@Tags			lists
//	@Accept			json
//	@Produce		json
//	@Param			slug		path	string				true	"List slug"
//	@Param			If-Match	header	string				false	"Checksum from a previous ETag"
//	@Param			body		body	OperationRequest	true	"Operation"
//	@Success		200		{object}	ListOperationResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lists/{slug}/ops [post]
func (h *Handler) ApplyList(w http.ResponseWriter, r *http.Request) {
	var op OperationRequest
	if err := decodeBody(w, r, &op); err != nil {
		writeError(w, err, "apply operation")
		return
	}
	d, out, err := h.svc.Apply(r.Context(), chi.URLParam(r, "slug"), op, r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, err, "apply operation")
		return
	}
	w.Header().Set("ETag", checksum.ETag(d.Checksum))
	writeJSON(w, http.StatusOK, ListOperationResponse{List: d, NodeID: out.NodeID, Packed: out.Packed})
}

// MoveList handles POST /api/lists/{slug}/move.
func (h *Handler) MoveList(w http.ResponseWriter, r *http.Request) {
	var req MoveListRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, "move list")
		return
	}
	d, err := h.svc.Move(r.Context(), chi.URLParam(r, "slug"), req.Slug)
	if err != nil {
		writeError(w, err, "move list")
		return
	}
	writeList(w, http.StatusOK, d)
}

// ShareList handles GET /api/lists/{slug}/share.
func (h *Handler) ShareList(w http.ResponseWriter, r *http.Request) {
	loc, err := h.svc.Share(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err, "share list")
		return
	}
	writeJSON(w, http.StatusOK, ShareResponse{Location: loc})
}

// Search handles GET /api/search.
//
//	@Summary		Search saved lists by list or node name
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, "search")
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
