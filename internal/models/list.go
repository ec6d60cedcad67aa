// Package models defines the domain types shared by storage, index and service.
package models

import "time"

// ListMeta describes a saved list file on the shelf.
type ListMeta struct {
	Slug      string    `json:"slug"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListSummary is a lightweight representation returned by list operations.
type ListSummary struct {
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Checksum     string    `json:"checksum"`
	ItemCount    int       `json:"item_count"`
	CheckedCount int       `json:"checked_count"`
	Progress     float64   `json:"progress"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SearchHit is one node (or list title) matching a search query.
type SearchHit struct {
	Slug     string `json:"slug"`
	ListName string `json:"list_name"`
	NodeID   string `json:"node_id"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Snippet  string `json:"snippet"`
}
