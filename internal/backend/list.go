package backend

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// Filter keys sent as list query parameters.
const (
	FilterRole   = "role"
	FilterActive = "active"
	FilterType   = "type"
)

var defaultNormalizer = pagination.MustNormalizer(pagination.Shape{})

// listPage fetches one page of a collection and normalizes it into the canonical shape.
func listPage[T any](
	ctx context.Context,
	c *Client,
	path string,
	q pagination.Query,
	norm *pagination.Normalizer,
) (pagination.Page[T], error) {
	if norm == nil {
		norm = defaultNormalizer
	}
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q.Values()})
	if err != nil {
		return pagination.Page[T]{}, err
	}

	var items []T
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &items); err != nil {
			return pagination.Page[T]{}, apperrors.Wrapf(err, apperrors.ErrCodeDecode, "decode %s list", path)
		}
	}

	desc, err := norm.Normalize(resp.Document, q, len(items))
	if err != nil {
		return pagination.Page[T]{}, apperrors.Wrapf(err, apperrors.ErrCodeDecode, "normalize %s pagination", path)
	}
	return pagination.Page[T]{Items: items, Descriptor: desc}, nil
}
