package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/packapp/internal/shelf"
)

// NewRouter creates a chi router with all API routes mounted.
// URL-state routes and templates are public; they touch no stored data.
// authEnabled controls whether Bearer token auth is enforced on the rest.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *shelf.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Templates and URL state.
	r.Get("/templates", h.ListTemplates)
	r.Post("/list", h.CreateState)
	// Standard base64 states may contain "/", so the state is the whole tail.
	r.Get("/list/*", h.GetState)
	r.Post("/list/*", h.ApplyState)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		// Saved lists.
		r.Get("/lists", h.ListLists)
		r.Post("/lists", h.CreateList)
		r.Get("/lists/{slug}", h.GetList)
		r.Put("/lists/{slug}", h.ReplaceList)
		r.Delete("/lists/{slug}", h.DeleteList)
		r.Post("/lists/{slug}/ops", h.ApplyList)
		r.Post("/lists/{slug}/move", h.MoveList)
		r.Get("/lists/{slug}/share", h.ShareList)

		// Search.
		r.Get("/search", h.Search)

		// Flat list.
		r.Get("/items", h.ListItems)
		r.Post("/items", h.AddItem)
		r.Post("/items/{id}/toggle", h.ToggleItem)
		r.Delete("/items/{id}", h.DeleteItem)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
