// internal/app/system/paging/paging.go
package paging

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps Skip within int64 at any limit.
	MaxPage = math.MaxInt64 / MaxLimit
)

// Params is a 1-based page request.
type Params struct {
	Page  int64
	Limit int64
}

// New clamps page to 1..MaxPage and limit to 1..MaxLimit.
func New(page, limit int64) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// FromRequest reads ?page and ?limit. Missing or malformed values fall back
// to page 1 and defaultLimit.
func FromRequest(r *http.Request, defaultLimit int64) Params {
	page := parseInt(query.Get(r, "page"), 1)
	limit := parseInt(query.Get(r, "limit"), defaultLimit)
	return New(page, limit)
}

// Skip is the number of documents before this page.
func (p Params) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned next to a page of data.
type Meta struct {
	CurrentPage int64 `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	Total       int64 `json:"total"`
	Limit       int64 `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewMeta describes page p of a result set with total matching documents.
func NewMeta(p Params, total int64) Meta {
	pages := int64(0)
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		CurrentPage: p.Page,
		TotalPages:  pages,
		Total:       total,
		Limit:       p.Limit,
		HasNext:     p.Page < pages,
		HasPrev:     p.Page > 1,
	}
}

func parseInt(s string, def int64) int64 {
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return n
}
