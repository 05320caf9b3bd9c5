package envelope

import (
	"bytes"
	"encoding/json"
)

// Page is a normalized list payload. The backend sends a bare array,
// {items, total}, {items, count} or {results, count}; all decode here.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Page[T]{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		if err := json.Unmarshal(b, &p.Items); err != nil {
			return err
		}
		p.Total = len(p.Items)
		return nil
	}

	var w struct {
		Items    []T  `json:"items"`
		Results  []T  `json:"results"`
		Total    *int `json:"total"`
		Count    *int `json:"count"`
		Page     int  `json:"page"`
		PageSize int  `json:"page_size"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	p.Items = w.Items
	if p.Items == nil {
		p.Items = w.Results
	}
	switch {
	case w.Total != nil:
		p.Total = *w.Total
	case w.Count != nil:
		p.Total = *w.Count
	default:
		p.Total = len(p.Items)
	}
	p.Page = w.Page
	p.PageSize = w.PageSize
	return nil
}

// Len is the number of rows on this page.
func (p Page[T]) Len() int { return len(p.Items) }
