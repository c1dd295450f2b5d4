package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// call describes one request/response round trip.
type call struct {
	op          Operation
	method      string
	path        string
	pathParams  map[string]string
	query       url.Values
	body        any
	contentType string
	// result receives the decoded body of a successful response.
	result any
	// rawStatus skips status classification; the caller inspects the response.
	rawStatus bool
}

// execute sends the call and classifies the outcome: failures to complete the
// request or decode a body become *TransportError, non-2xx statuses become
// *ServiceError.
func (c *client) execute(ctx context.Context, cl call) (*resty.Response, error) {
	requestID := c.requestID()

	req := c.restyClient.R().
		SetContext(ctx).
		SetHeader(OpaqueIDHeader, requestID)

	if len(cl.pathParams) > 0 {
		req.SetPathParams(cl.pathParams)
	}
	if len(cl.query) > 0 {
		req.SetQueryParamsFromValues(cl.query)
	}
	if cl.body != nil {
		contentType := cl.contentType
		if contentType == "" {
			contentType = jsonContentType
		}
		req.SetHeader("Content-Type", contentType).SetBody(cl.body)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "request failed",
			slog.String("op", string(cl.op)),
			slog.String("method", cl.method),
			slog.String("path", cl.path),
			slog.String("request-id", requestID),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
		return nil, &TransportError{Op: cl.op, RequestID: requestID, Err: err}
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "request completed",
		slog.String("op", string(cl.op)),
		slog.String("method", cl.method),
		slog.String("url", resp.Request.URL),
		slog.Int("status", resp.StatusCode()),
		slog.String("request-id", requestID),
		slog.Duration("elapsed", elapsed),
	)

	if cl.rawStatus {
		return resp, nil
	}

	if !resp.IsSuccess() {
		return nil, errStatus(cl.op, requestID, resp)
	}

	if cl.result != nil {
		if err := json.Unmarshal(resp.Body(), cl.result); err != nil {
			return nil, &TransportError{
				Op:        cl.op,
				RequestID: requestID,
				Err:       fmt.Errorf("decode response: %w", err),
			}
		}
	}

	return resp, nil
}

// errStatus converts a non-success response into a *ServiceError, or into a
// *TransportError when the error body itself cannot be decoded.
func errStatus(op Operation, requestID string, resp *resty.Response) error {
	var envelope ErrorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return &TransportError{
			Op:        op,
			RequestID: requestID,
			Err:       fmt.Errorf("decode error response with status %d: %w", resp.StatusCode(), err),
		}
	}

	if envelope.Error == nil {
		return &TransportError{
			Op:        op,
			RequestID: requestID,
			Err:       fmt.Errorf("error response with status %d has no error detail", resp.StatusCode()),
		}
	}

	return &ServiceError{
		Op:         op,
		StatusCode: resp.StatusCode(),
		Type:       envelope.Error.Type,
		Reason:     envelope.Error.DisplayReason(),
		RequestID:  requestID,
	}
}
