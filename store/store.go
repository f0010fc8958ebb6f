package store

import (
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Offset int
	Limit  int
}

func DefaultPagination() Pagination {
	return Pagination{
		Offset: 0,
		Limit:  DefaultLimit,
	}
}

// PageToPagination converts 1-based page numbers to an offset. Non-positive values fall back to the defaults,
// limits are capped at MaxLimit and pages beyond the addressable range are clamped.
func PageToPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt/limit + 1
	}
	return Pagination{
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
}

func (p Pagination) Page() int {
	if p.Limit < 1 {
		return DefaultPage
	}
	return p.Offset/p.Limit + 1
}

// PageInfo is the pagination block returned alongside paged results
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPageInfo(pagination Pagination, total int64) PageInfo {
	totalPages := 0
	if pagination.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pagination.Limit)))
	}
	return PageInfo{
		Page:       pagination.Page(),
		Limit:      pagination.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
