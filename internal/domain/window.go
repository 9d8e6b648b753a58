package domain

import (
	"math"
	"time"
)

// Window is a time filter. A zero From or To leaves that side open.
type Window struct {
	From time.Time
	To   time.Time
}

func Since(t time.Time) Window { return Window{From: t} }

func Between(from, to time.Time) Window { return Window{From: from, To: to} }

func (w Window) IsZero() bool { return w.From.IsZero() && w.To.IsZero() }

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Offset saturates at math.MaxInt instead of wrapping negative.
func (p Page) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit), 0 for an empty result.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(total int64, p Page) Pagination {
	pages := TotalPages(total, p.Limit)
	return Pagination{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: p.Page,
		Limit:       p.Limit,
		HasNextPage: p.Page < pages,
		HasPrevPage: p.Page > 1,
	}
}
