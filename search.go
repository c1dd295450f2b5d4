package client

import (
	"context"
	"net/http"
	"net/url"
)

// Search runs req against its index. A query string is sent as a query-string
// query; without one every document matches.
func (c *client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Index == "" {
		return nil, ErrEmptyIndex
	}

	query := url.Values{}
	body := map[string]any{}

	if req.Query != "" {
		query.Set("q", req.Query)
	} else {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	}
	if req.Sort != "" {
		query.Set("sort", req.Sort)
	}
	if req.Limit > 0 {
		body["size"] = req.Limit
	}

	var result SearchResponse
	if _, err := c.execute(ctx, call{
		op:         OperationSearch,
		method:     http.MethodPost,
		path:       EndpointSearch,
		pathParams: map[string]string{"index": req.Index},
		query:      query,
		body:       body,
		result:     &result,
	}); err != nil {
		return nil, err
	}

	return &result, nil
}
