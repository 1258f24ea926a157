package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_NextPrev(t *testing.T) {
	d := Descriptor{CurrentPage: 1, Limit: 10, TotalPages: 3, Total: 25}

	assert.Equal(t, 1, d.Prev().CurrentPage, "prev at first page is a no-op")
	assert.Equal(t, 2, d.Next().CurrentPage)
	assert.Equal(t, 3, d.Next().Next().CurrentPage)
	assert.Equal(t, 3, d.Next().Next().Next().Next().CurrentPage, "next at last page is idempotent")
	assert.Equal(t, 2, d.GoTo(3).Prev().CurrentPage)

	empty := Descriptor{CurrentPage: 1, Limit: 10}
	assert.Equal(t, 1, empty.Next().CurrentPage, "empty result stays on page 1")
}

func TestDescriptor_NextPrevProperty(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for cur := 1; cur <= total; cur++ {
			d := Descriptor{CurrentPage: cur, TotalPages: total, Limit: 10}
			assert.Equal(t, min(cur+1, total), d.Next().CurrentPage)
			assert.Equal(t, max(cur-1, 1), d.Prev().CurrentPage)
			assert.Equal(t, cur > 1, d.HasPrev())
			assert.Equal(t, cur < total, d.HasNext())
		}
	}
}

func TestDescriptor_Window(t *testing.T) {
	tests := []struct {
		cur, total int
		want       []int
	}{
		{1, 1, nil},
		{1, 5, []int{2}},
		{2, 5, []int{1, 3}},
		{5, 5, []int{4}},
		{1, 0, nil},
	}
	for _, tt := range tests {
		d := Descriptor{CurrentPage: tt.cur, TotalPages: tt.total}
		assert.Equal(t, tt.want, d.Window(), "cur=%d total=%d", tt.cur, tt.total)
	}
}

func TestDescriptor_WithLimit(t *testing.T) {
	b := DefaultBounds()
	d := Descriptor{CurrentPage: 4, Limit: 20, TotalPages: 9}

	tests := []struct {
		input string
		want  int
	}{
		{"25", 25},
		{" 5 ", 5},
		{"0", 1},
		{"-3", 1},
		{"500", 50},
		{"abc", 20},
		{"", 20},
		{"12.5", 20},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			next := d.WithLimit(tt.input, b)
			assert.Equal(t, tt.want, next.Limit)
			assert.Equal(t, 1, next.CurrentPage, "limit change restarts from page 1")
		})
	}
}

func TestDescriptor_WithLimitProperty(t *testing.T) {
	b := DefaultBounds()
	for v := 1; v <= 50; v++ {
		d := Descriptor{CurrentPage: 3, Limit: 10}.WithLimit(strconv.Itoa(v), b)
		require.Equal(t, v, d.Limit)
		require.Equal(t, 1, d.CurrentPage)
	}
}

func TestDescriptor_Range(t *testing.T) {
	d := Descriptor{CurrentPage: 2, Limit: 10}
	start, end := d.Range(3)
	assert.Equal(t, 11, start)
	assert.Equal(t, 13, end)

	start, end = d.Range(0)
	assert.Zero(t, start)
	assert.Zero(t, end)
}

func TestBounds_Sanitize(t *testing.T) {
	b := Bounds{Min: 0, Max: -1, Default: 99}.Sanitize()
	assert.Equal(t, Bounds{Min: 1, Max: 1, Default: 1}, b)
	assert.Equal(t, 10, New(Bounds{Min: 1, Max: 50, Default: 10}).Limit)
}

func TestQuery_Values(t *testing.T) {
	q := Query{Page: 2, Limit: 10, Filters: url.Values{"role": {"caregiver"}, "active": {""}}}
	v := q.Values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "caregiver", v.Get("role"))
	assert.False(t, v.Has("active"), "empty filters are not sent")

	q2 := q.Set("active", "true").Set("role", "")
	assert.Equal(t, "true", q2.Filters.Get("active"))
	assert.False(t, q2.Filters.Has("role"))
	assert.Equal(t, "caregiver", q.Filters.Get("role"), "Set must not mutate the receiver")
}

func TestParseQuery(t *testing.T) {
	b := DefaultBounds()
	tests := []struct {
		name      string
		raw       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"page link", "page=3&limit=20", 3, 20},
		{"clamped link", "page=2&limit=500", 2, 50},
		{"bad page", "page=-4", 1, 10},
		{"limit changed", "page=3&limit=25&prev_limit=10", 1, 25},
		{"limit unchanged", "page=3&limit=10&prev_limit=10", 3, 10},
		{"limit NaN keeps previous", "page=3&limit=abc&prev_limit=20", 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			q := ParseQuery(values, b)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}

	values, _ := url.ParseQuery("role=caregiver&active=true&evil=1")
	q := ParseQuery(values, b, "role", "active")
	assert.Equal(t, url.Values{"role": {"caregiver"}, "active": {"true"}}, q.Filters)
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestNormalizer(t *testing.T) {
	n := MustNormalizer(Shape{})
	req := Query{Page: 2, Limit: 10}

	tests := []struct {
		name string
		body string
		rows int
		want Descriptor
	}{
		{
			name: "camelCase",
			body: `{"success":true,"pagination":{"currentPage":2,"totalPages":5,"total":42,"limit":10}}`,
			want: Descriptor{CurrentPage: 2, TotalPages: 5, Total: 42, Limit: 10},
		},
		{
			name: "snake_case",
			body: `{"pagination":{"current_page":"3","total_pages":4,"total_records":31,"page_size":8}}`,
			want: Descriptor{CurrentPage: 3, TotalPages: 4, Total: 31, Limit: 8},
		},
		{
			name: "derived total pages",
			body: `{"pagination":{"page":1,"total":21,"limit":10}}`,
			want: Descriptor{CurrentPage: 1, TotalPages: 3, Total: 21, Limit: 10},
		},
		{
			name: "missing pagination falls back to request",
			body: `{"success":true,"data":[]}`,
			rows: 4,
			want: Descriptor{CurrentPage: 2, TotalPages: 2, Total: 14, Limit: 10},
		},
		{
			name: "page counts without a row total",
			body: `{"pagination":{"currentPage":2,"totalPages":5,"limit":10}}`,
			rows: 3,
			want: Descriptor{CurrentPage: 2, TotalPages: 5, Limit: 10},
		},
		{
			name: "current page beyond total is clamped",
			body: `{"pagination":{"currentPage":9,"totalPages":2,"limit":10}}`,
			want: Descriptor{CurrentPage: 2, TotalPages: 2, Limit: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(decode(t, tt.body), req, tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_PageCountsWithoutTotalKeepNavigation(t *testing.T) {
	n := MustNormalizer(Shape{})
	got, err := n.Normalize(decode(t, `{"pagination":{"currentPage":2,"totalPages":5,"limit":10}}`), Query{Page: 2, Limit: 10}, 3)
	require.NoError(t, err)
	assert.Zero(t, got.Total)
	assert.True(t, got.HasPrev())
	assert.True(t, got.HasNext())
	assert.Equal(t, []int{1, 3}, got.Window())
}

func TestNormalizer_CustomShape(t *testing.T) {
	n, err := NewNormalizer(Shape{TotalPages: "meta.pages"})
	require.NoError(t, err)
	assert.Equal(t, "meta.pages", n.totalPages.expr)
	assert.NotNil(t, n.totalPages.query)
	assert.Equal(t, DefaultShape.Total, n.total.expr)
	got, err := n.Normalize(decode(t, `{"meta":{"pages":7},"pagination":{"currentPage":1}}`), Query{Page: 1, Limit: 10}, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalPages)

	_, err = NewNormalizer(Shape{Total: "pagination.["})
	require.Error(t, err)
}

func TestView_Apply(t *testing.T) {
	v := NewView[string](DefaultBounds())
	v.Apply(Page[string]{
		Items:      []string{"a", "b", "c"},
		Descriptor: Descriptor{CurrentPage: 2, TotalPages: 5, Total: 42, Limit: 10},
	}, nil)
	require.Len(t, v.Items, 3)
	assert.True(t, v.Descriptor.HasPrev())
	assert.True(t, v.Descriptor.HasNext())

	v.Apply(Page[string]{}, errors.New("success=false"))
	assert.Equal(t, []string{"a", "b", "c"}, v.Items, "failure keeps previous rows")
	assert.Equal(t, 2, v.Descriptor.CurrentPage)
	assert.Error(t, v.Err)

	v.Apply(Page[string]{Items: []string{"z"}, Descriptor: Descriptor{CurrentPage: 1, TotalPages: 1}}, nil)
	assert.Equal(t, Descriptor{CurrentPage: 1, TotalPages: 1}, v.Descriptor, "descriptor replaced wholesale")
	assert.NoError(t, v.Err)
}

func TestGuard_SupersedesPrevious(t *testing.T) {
	g := NewGuard()
	ctx1, t1 := g.Begin(context.Background(), "sess:users")
	ctx2, t2 := g.Begin(context.Background(), "sess:users")

	assert.Greater(t, t2.ID(), t1.ID())
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "older request is canceled")
	assert.NoError(t, ctx2.Err())
	assert.False(t, g.Current(t1))
	assert.True(t, g.Current(t2))

	assert.False(t, g.Finish(t1), "stale response is discarded")
	assert.True(t, g.Finish(t2))
	assert.ErrorIs(t, ctx2.Err(), context.Canceled, "finish releases the context")
	assert.Zero(t, g.Len())
}

func TestGuard_IndependentKeys(t *testing.T) {
	g := NewGuard()
	ctxA, ta := g.Begin(context.Background(), "a")
	_, tb := g.Begin(context.Background(), "b")
	assert.NoError(t, ctxA.Err())
	assert.True(t, g.Finish(ta))
	assert.True(t, g.Finish(tb))
}

func TestGuard_Concurrent(t *testing.T) {
	g := NewGuard()
	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, tk := g.Begin(context.Background(), "k")
			if g.Finish(tk) {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, applied, 1)
	assert.Zero(t, g.Len())
}
