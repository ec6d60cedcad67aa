package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListItems handles GET /api/items.
//
//	@Summary		Get the flat item list
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Items(r.Context())
	if err != nil {
		writeError(w, err, "list items")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AddItem handles POST /api/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, "add item")
		return
	}
	it, err := h.svc.AddItem(r.Context(), req.Name)
	if err != nil {
		writeError(w, err, "add item")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// ToggleItem handles POST /api/items/{id}/toggle.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.ToggleItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "toggle item")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// DeleteItem handles DELETE /api/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
