package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ParseFieldMapping parses a field:type pair.
func ParseFieldMapping(s string) (FieldMapping, error) {
	field, typ, ok := strings.Cut(s, ":")
	field, typ = strings.TrimSpace(field), strings.TrimSpace(typ)
	if !ok || field == "" || typ == "" {
		return FieldMapping{}, fmt.Errorf("%w: %q", ErrInvalidMapping, s)
	}
	return FieldMapping{Field: field, Type: typ}, nil
}

// ListIndices lists indices matching req.Pattern (all indices when empty).
// Hidden indices, whose names start with a dot, are dropped unless req.All is set.
func (c *client) ListIndices(ctx context.Context, req ListIndicesRequest) ([]IndexEntry, error) {
	pattern := req.Pattern
	if pattern == "" {
		pattern = "*"
	}

	query := url.Values{}
	query.Set("format", catIndicesFormat)
	query.Set("bytes", catIndicesByteUnit)
	query.Set("expand_wildcards", expandWildcards(req))

	var entries []IndexEntry
	if _, err := c.execute(ctx, call{
		op:         OperationListIndices,
		method:     http.MethodGet,
		path:       EndpointCatIndices + "/{pattern}",
		pathParams: map[string]string{"pattern": pattern},
		query:      query,
		result:     &entries,
	}); err != nil {
		return nil, err
	}

	if req.All {
		return entries, nil
	}

	visible := entries[:0]
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name, hiddenIndexPrefix) {
			continue
		}
		visible = append(visible, entry)
	}
	return visible, nil
}

func expandWildcards(req ListIndicesRequest) string {
	if req.All {
		return expandAll
	}
	switch {
	case req.Open && !req.Closed:
		return expandOpen
	case req.Closed && !req.Open:
		return expandClosed
	default:
		return expandOpen + "," + expandClosed
	}
}

// CreateIndex creates index with the given field mappings. A non-success
// status is reported as a *ServiceError.
func (c *client) CreateIndex(ctx context.Context, index string, mappings []FieldMapping) (*CreatedResponse, error) {
	if index == "" {
		return nil, ErrEmptyIndex
	}

	properties := make(map[string]any, len(mappings))
	for _, m := range mappings {
		properties[m.Field] = map[string]string{"type": m.Type}
	}
	body := map[string]any{
		"mappings": map[string]any{
			"properties": properties,
		},
	}

	var result CreatedResponse
	if _, err := c.execute(ctx, call{
		op:         OperationCreateIndex,
		method:     http.MethodPut,
		path:       EndpointIndex,
		pathParams: map[string]string{"index": index},
		body:       body,
		result:     &result,
	}); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteIndex deletes index.
func (c *client) DeleteIndex(ctx context.Context, index string) (*DeletedResponse, error) {
	if index == "" {
		return nil, ErrEmptyIndex
	}

	var result DeletedResponse
	if _, err := c.execute(ctx, call{
		op:         OperationDeleteIndex,
		method:     http.MethodDelete,
		path:       EndpointIndex,
		pathParams: map[string]string{"index": index},
		result:     &result,
	}); err != nil {
		return nil, err
	}

	return &result, nil
}
