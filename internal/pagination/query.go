package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is the request side of the list contract.
type Query struct {
	Page    int
	Limit   int
	Filters url.Values
}

// Values serializes the query as backend query parameters.
// Empty filter values are dropped.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	for key, vals := range q.Filters {
		for _, val := range vals {
			if strings.TrimSpace(val) != "" {
				v.Add(key, val)
			}
		}
	}
	return v
}

// Descriptor returns the descriptor the query asks for, before any response.
func (q Query) Descriptor() Descriptor {
	return Descriptor{CurrentPage: max(q.Page, 1), Limit: q.Limit}
}

// Set returns a copy of q with filter key set to value (removed when empty).
func (q Query) Set(key, value string) Query {
	filters := url.Values{}
	for k, vals := range q.Filters {
		filters[k] = append([]string(nil), vals...)
	}
	if strings.TrimSpace(value) == "" {
		filters.Del(key)
	} else {
		filters.Set(key, value)
	}
	q.Filters = filters
	return q
}

// ParseQuery reads a list request from UI query parameters.
//
// Page links carry "page" and "limit". The page-size selector also posts
// "prev_limit", the limit the page was rendered with: a changed limit resets the
// page to 1 and unparseable input falls back to prev_limit. Only filterKeys are
// copied into Filters.
func ParseQuery(values url.Values, b Bounds, filterKeys ...string) Query {
	b = b.Sanitize()
	d := Descriptor{CurrentPage: 1, Limit: b.Default}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		d.CurrentPage = page
	}

	if values.Has("prev_limit") {
		if prev, err := strconv.Atoi(values.Get("prev_limit")); err == nil {
			d.Limit = b.Clamp(prev)
		}
		if next := d.WithLimit(values.Get("limit"), b); next.Limit != d.Limit {
			d = next
		}
	} else if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		d.Limit = b.Clamp(limit)
	}

	filters := url.Values{}
	for _, key := range filterKeys {
		if val := strings.TrimSpace(values.Get(key)); val != "" {
			filters.Set(key, val)
		}
	}
	return Query{Page: d.CurrentPage, Limit: d.Limit, Filters: filters}
}
