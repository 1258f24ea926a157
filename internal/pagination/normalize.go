package pagination

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Shape holds the JMESPath expressions that locate pagination fields in a raw
// response envelope. Backends disagree on names (totalPages vs total_pages), so
// each endpoint gets its own Shape; empty fields fall back to DefaultShape.
type Shape struct {
	CurrentPage string
	TotalPages  string
	Total       string
	Limit       string
}

// DefaultShape accepts the camelCase and snake_case spellings seen across endpoints.
var DefaultShape = Shape{
	CurrentPage: "pagination.currentPage || pagination.current_page || pagination.page",
	TotalPages:  "pagination.totalPages || pagination.total_pages || pagination.pages",
	Total:       "pagination.total || pagination.totalRecords || pagination.total_records || pagination.totalItems",
	Limit:       "pagination.limit || pagination.pageSize || pagination.page_size",
}

// Normalizer maps a raw envelope onto a Descriptor.
type Normalizer struct {
	currentPage field
	totalPages  field
	total       field
	limit       field
}

// field is one compiled pagination expression.
type field struct {
	expr  string
	query jmespath.JMESPath
}

// NewNormalizer compiles the expressions in shape.
func NewNormalizer(shape Shape) (*Normalizer, error) {
	if shape.CurrentPage == "" {
		shape.CurrentPage = DefaultShape.CurrentPage
	}
	if shape.TotalPages == "" {
		shape.TotalPages = DefaultShape.TotalPages
	}
	if shape.Total == "" {
		shape.Total = DefaultShape.Total
	}
	if shape.Limit == "" {
		shape.Limit = DefaultShape.Limit
	}

	n := &Normalizer{}
	for _, f := range []struct {
		dst  *field
		expr string
	}{
		{&n.currentPage, shape.CurrentPage},
		{&n.totalPages, shape.TotalPages},
		{&n.total, shape.Total},
		{&n.limit, shape.Limit},
	} {
		q, err := jmespath.Compile(f.expr)
		if err != nil {
			return nil, fmt.Errorf("compile pagination expression %q: %w", f.expr, err)
		}
		*f.dst = field{expr: f.expr, query: q}
	}
	return n, nil
}

// MustNormalizer is NewNormalizer for package-level shapes known to compile.
func MustNormalizer(shape Shape) *Normalizer {
	n, err := NewNormalizer(shape)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize reads the descriptor out of envelope, a JSON document decoded into any.
// Missing fields are filled from the request: the page and limit asked for, and
// totalPages derived from total and limit. rows is the number of items returned and
// is used when the backend omits pagination entirely. Total stays zero when the
// backend reports totalPages without a row total.
func (n *Normalizer) Normalize(envelope any, req Query, rows int) (Descriptor, error) {
	d := Descriptor{}
	var err error
	if d.CurrentPage, err = n.currentPage.lookup(envelope); err != nil {
		return Descriptor{}, err
	}
	if d.TotalPages, err = n.totalPages.lookup(envelope); err != nil {
		return Descriptor{}, err
	}
	if d.Total, err = n.total.lookup(envelope); err != nil {
		return Descriptor{}, err
	}
	if d.Limit, err = n.limit.lookup(envelope); err != nil {
		return Descriptor{}, err
	}

	if d.CurrentPage <= 0 {
		d.CurrentPage = max(req.Page, 1)
	}
	if d.Limit <= 0 {
		d.Limit = req.Limit
	}
	if d.Total <= 0 && d.TotalPages <= 0 && rows > 0 {
		d.Total = d.Offset() + rows
	}
	if d.TotalPages <= 0 && d.Limit > 0 && d.Total > 0 {
		d.TotalPages = int(math.Ceil(float64(d.Total) / float64(d.Limit)))
	}
	if d.TotalPages > 0 && d.CurrentPage > d.TotalPages {
		d.CurrentPage = d.TotalPages
	}
	return d, nil
}

func (f field) lookup(envelope any) (int, error) {
	v, err := f.query.Search(envelope)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", f.expr, err)
	}
	return toInt(v), nil
}

func toInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return 0
}
