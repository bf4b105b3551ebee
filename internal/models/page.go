package models

import (
	"bytes"
	"encoding/json"
)

// Pagination is the metadata the backend attaches to paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasMore reports whether pages after the current one exist.
func (p *Pagination) HasMore() bool {
	if p == nil {
		return false
	}
	return p.Page > 0 && p.Page < p.TotalPages
}

// Page is a listing result. Pagination is nil when the backend returned a
// bare array.
type Page[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// UnmarshalJSON accepts either a bare JSON array or a {"data": [...],
// "pagination": {...}} envelope.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.Data = items
		p.Pagination = nil
		return nil
	}

	var env struct {
		Data       []T         `json:"data"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	p.Data = env.Data
	p.Pagination = env.Pagination
	return nil
}
