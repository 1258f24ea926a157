// Package pagination implements the list contract shared by every resource table:
// a page/limit request, a canonical page response, and the navigation rules applied
// to the descriptor between requests.
package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultMinLimit is the smallest page size sent to the backend.
	DefaultMinLimit = 1
	// DefaultMaxLimit is the largest page size sent to the backend.
	DefaultMaxLimit = 50
	// DefaultLimit is the page size used before the user picks one.
	DefaultLimit = 10
)

// Bounds constrains the page size.
type Bounds struct {
	Min     int
	Max     int
	Default int
}

// DefaultBounds returns [1,50] with a default of 10.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinLimit, Max: DefaultMaxLimit, Default: DefaultLimit}
}

// Sanitize repairs inverted or empty bounds.
func (b Bounds) Sanitize() Bounds {
	if b.Min < 1 {
		b.Min = DefaultMinLimit
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	b.Default = b.Clamp(b.Default)
	return b
}

// Clamp bounds n to [Min, Max].
func (b Bounds) Clamp(n int) int {
	if n < b.Min {
		return b.Min
	}
	if n > b.Max {
		return b.Max
	}
	return n
}

// Descriptor is the pagination state of one list view.
// It is replaced wholesale by each successful response, never merged.
type Descriptor struct {
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
}

// New returns the descriptor of a list that has not been fetched yet.
func New(b Bounds) Descriptor {
	return Descriptor{CurrentPage: 1, Limit: b.Sanitize().Default}
}

// LastPage is TotalPages, or 1 for an empty result.
func (d Descriptor) LastPage() int {
	return max(d.TotalPages, 1)
}

// HasPrev reports whether a previous page exists.
func (d Descriptor) HasPrev() bool { return d.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (d Descriptor) HasNext() bool { return d.CurrentPage < d.TotalPages }

// Next moves to min(current+1, totalPages). It is a no-op on the last page.
func (d Descriptor) Next() Descriptor {
	d.CurrentPage = min(d.CurrentPage+1, d.LastPage())
	return d
}

// Prev moves to max(current-1, 1). It is a no-op on the first page.
func (d Descriptor) Prev() Descriptor {
	d.CurrentPage = max(d.CurrentPage-1, 1)
	return d
}

// GoTo jumps to page, clamped to [1, LastPage].
func (d Descriptor) GoTo(page int) Descriptor {
	d.CurrentPage = min(max(page, 1), d.LastPage())
	return d
}

// Window returns the direct page links to render: the neighbours of the current
// page that exist. It never includes the current page itself.
func (d Descriptor) Window() []int {
	var pages []int
	if d.CurrentPage-1 >= 1 {
		pages = append(pages, d.CurrentPage-1)
	}
	if d.CurrentPage+1 <= d.TotalPages {
		pages = append(pages, d.CurrentPage+1)
	}
	return pages
}

// WithLimit applies a page-size input. Unparseable input keeps the previous limit;
// parsed values are clamped to b. The page always resets to 1.
func (d Descriptor) WithLimit(input string, b Bounds) Descriptor {
	b = b.Sanitize()
	limit := d.Limit
	if limit == 0 {
		limit = b.Default
	}
	if n, err := strconv.Atoi(strings.TrimSpace(input)); err == nil {
		limit = n
	}
	d.Limit = b.Clamp(limit)
	d.CurrentPage = 1
	return d
}

// Offset is the zero-based index of the first row on the current page.
func (d Descriptor) Offset() int {
	return max(d.CurrentPage-1, 0) * d.Limit
}

// Range returns the 1-based inclusive row span shown for rows rendered rows.
func (d Descriptor) Range(rows int) (start, end int) {
	if rows <= 0 {
		return 0, 0
	}
	start = d.Offset() + 1
	return start, start + rows - 1
}
