package ports

import "math"

// ListFilter carries the query parameters shared by every list view.
// TenantID is always set; OwnerID is enforced by the service layer (RBAC).
type ListFilter struct {
	TenantID string
	OwnerID  string // empty = every owner (admin); non-empty = scoped to one seller
	Search   string // optional: case-insensitive partial match
	Sort     string // field name; repositories fall back to created_at when unknown
	Desc     bool
	Page     int // 1-based
	Limit    int // max rows per page (capped at 100 by services)
}

// Skip returns the number of rows before the requested page. Pages too far
// out to count saturate at math.MaxInt, which reads as an empty page.
func (f ListFilter) Skip() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// Page is one page of a list view.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPage builds a Page computing the number of pages from total and limit.
func NewPage[T any](items []T, total int64, page, limit int) *Page[T] {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
