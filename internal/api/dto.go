package api

import (
	"github.com/starford/packapp/internal/codec"
	"github.com/starford/packapp/internal/models"
	"github.com/starford/packapp/internal/packing"
	"github.com/starford/packapp/internal/shelf"
	"github.com/starford/packapp/internal/templates"
)

// CreateListRequest is the request body for creating a document, either as a
// URL state (POST /list) or on the shelf (POST /lists).
type CreateListRequest = shelf.CreateInput

// OperationRequest is a single mutation (aliased from the domain layer).
type OperationRequest = packing.Operation

// StateView is a decoded URL-state document.
type StateView = shelf.StateView

// ListDetail is the full saved-list response type.
type ListDetail = shelf.ListDetail

// StateOperationResponse is returned after applying an operation to a URL state.
type StateOperationResponse struct {
	StateView
	NodeID string `json:"node_id,omitempty" example:"3f1c..."`
	Packed *bool  `json:"packed,omitempty"`
}

// ListOperationResponse is returned after applying an operation to a saved list.
type ListOperationResponse struct {
	List   *ListDetail `json:"list" validate:"required"`
	NodeID string      `json:"node_id,omitempty" example:"3f1c..."`
	Packed *bool       `json:"packed,omitempty"`
}

// ListSummary is a lightweight item in a list response.
type ListSummary = models.ListSummary

// ListsResponse wraps paginated saved-list listings.
type ListsResponse struct {
	Lists []ListSummary `json:"lists" validate:"required"`
	Total int           `json:"total" example:"3" validate:"required"`
}

// MoveListRequest renames a saved list.
type MoveListRequest struct {
	Slug string `json:"slug" example:"beach-2026" validate:"required"`
}

// ShareResponse carries the encoded location of a saved list.
type ShareResponse struct {
	Location string `json:"location" example:"/list/eyJuYW1lIjoi..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []models.SearchHit `json:"results" validate:"required"`
}

// TemplatesResponse lists the seed templates.
type TemplatesResponse struct {
	Templates []templates.Template `json:"templates" validate:"required"`
}

// AddItemRequest is the request body for adding a flat item.
type AddItemRequest struct {
	Name string `json:"name" example:"Sunscreen" validate:"required"`
}

// ItemListResponse is the flat list with progress.
type ItemListResponse = shelf.ItemList

// FlatItem is a single flat list entry.
type FlatItem = codec.FlatItem
