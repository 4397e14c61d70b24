package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// listKeys are the envelope keys that may carry the collection, in priority order
var listKeys = []string{"orders", "menuItems", "users"}

// Pagination describes the page a list response covers
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// UnmarshalJSON accepts both totalItems/totalPages and the older total/pages spelling
func (p *Pagination) UnmarshalJSON(b []byte) error {
	var raw struct {
		Page       int  `json:"page"`
		Limit      int  `json:"limit"`
		TotalItems *int `json:"totalItems"`
		TotalPages *int `json:"totalPages"`
		Total      *int `json:"total"`
		Pages      *int `json:"pages"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Pagination{Page: raw.Page, Limit: raw.Limit}
	switch {
	case raw.TotalItems != nil:
		p.TotalItems = *raw.TotalItems
	case raw.Total != nil:
		p.TotalItems = *raw.Total
	}
	switch {
	case raw.TotalPages != nil:
		p.TotalPages = *raw.TotalPages
	case raw.Pages != nil:
		p.TotalPages = *raw.Pages
	}
	return nil
}

// Page is a normalized list response. Pagination is nil when the
// upstream envelope carried none.
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

// Normalize extracts the collection and pagination from an API envelope.
// The collection is looked up as data.orders, data.menuItems, data.users,
// a bare data list, data.data, then the same keys at the top level.
// Envelopes without any of them yield an empty list.
func Normalize[T any](raw []byte) (Page[T], error) {
	page := Page[T]{Items: []T{}}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return page, fmt.Errorf("failed to decode envelope: %w", err)
	}

	data := top["data"]
	var nested map[string]json.RawMessage
	if isObject(data) {
		if err := json.Unmarshal(data, &nested); err != nil {
			return page, fmt.Errorf("failed to decode envelope data: %w", err)
		}
	}

	candidates := make([]json.RawMessage, 0, 2*len(listKeys)+2)
	for _, key := range listKeys {
		candidates = append(candidates, nested[key])
	}
	candidates = append(candidates, data, nested["data"])
	for _, key := range listKeys {
		candidates = append(candidates, top[key])
	}

	for _, c := range candidates {
		if !isArray(c) {
			continue
		}
		if err := json.Unmarshal(c, &page.Items); err != nil {
			return page, fmt.Errorf("failed to decode items: %w", err)
		}
		break
	}

	for _, p := range []json.RawMessage{top["pagination"], nested["pagination"]} {
		if !isObject(p) {
			continue
		}
		var pg Pagination
		if err := json.Unmarshal(p, &pg); err != nil {
			return page, fmt.Errorf("failed to decode pagination: %w", err)
		}
		page.Pagination = &pg
		break
	}

	return page, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
