package client

import (
	"context"
	"net/http"
)

// Info retrieves the name, cluster and version details of the service.
func (c *client) Info(ctx context.Context) (*InfoResponse, error) {
	var result InfoResponse
	if _, err := c.execute(ctx, call{
		op:     OperationInfo,
		method: http.MethodGet,
		path:   EndpointRoot,
		result: &result,
	}); err != nil {
		return nil, err
	}

	return &result, nil
}
