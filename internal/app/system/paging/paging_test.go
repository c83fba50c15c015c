package paging

import (
	"math"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int64
		wantLimit int64
	}{
		{"defaults", "/x", 1, 10},
		{"explicit", "/x?page=3&limit=25", 3, 25},
		{"page below one", "/x?page=0", 1, 10},
		{"negative page", "/x?page=-4", 1, 10},
		{"limit above max", "/x?limit=1000", 1, MaxLimit},
		{"limit zero", "/x?limit=0", 1, 10},
		{"garbage", "/x?page=abc&limit=xyz", 1, 10},
		{"huge page", "/x?limit=100&page=" + strconv.FormatInt(math.MaxInt64, 10), MaxPage, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := FromRequest(r, DefaultLimit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("FromRequest(%q) = %+v, want page %d limit %d", tt.url, p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := New(3, 20).Skip(); got != 40 {
		t.Errorf("Skip() = %d, want 40", got)
	}
	if got := New(1, 20).Skip(); got != 0 {
		t.Errorf("Skip() = %d, want 0", got)
	}

	for _, page := range []int64{math.MaxInt64 / 50, math.MaxInt64 / 100, math.MaxInt64} {
		for _, limit := range []int64{1, 50, MaxLimit} {
			if got := New(page, limit).Skip(); got < 0 {
				t.Errorf("New(%d, %d).Skip() = %d, want non-negative", page, limit, got)
			}
		}
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name  string
		page  int64
		limit int64
		total int64
		want  Meta
	}{
		{"empty", 1, 10, 0, Meta{CurrentPage: 1, TotalPages: 0, Total: 0, Limit: 10}},
		{"single page", 1, 10, 7, Meta{CurrentPage: 1, TotalPages: 1, Total: 7, Limit: 10}},
		{"first of three", 1, 10, 25, Meta{CurrentPage: 1, TotalPages: 3, Total: 25, Limit: 10, HasNext: true}},
		{"middle", 2, 10, 25, Meta{CurrentPage: 2, TotalPages: 3, Total: 25, Limit: 10, HasNext: true, HasPrev: true}},
		{"last", 3, 10, 25, Meta{CurrentPage: 3, TotalPages: 3, Total: 25, Limit: 10, HasPrev: true}},
		{"exact multiple", 2, 10, 20, Meta{CurrentPage: 2, TotalPages: 2, Total: 20, Limit: 10, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMeta(New(tt.page, tt.limit), tt.total)
			if got != tt.want {
				t.Errorf("NewMeta() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
