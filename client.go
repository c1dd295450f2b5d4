package client

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type client struct {
	restyClient *resty.Client
	endpoint    Endpoint
	timeout     time.Duration
	logger      *slog.Logger
	requestID   func() string
}

var _ Client = (*client)(nil)

type Option func(*client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRestyClient allows callers to provide a preconfigured HTTP client.
// Base URL and credentials from the endpoint are applied on top of it.
func WithRestyClient(restyClient *resty.Client) Option {
	return func(c *client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDFunc overrides how X-Opaque-Id values are generated.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// NewClient returns a client bound to endpoint. Requests are never retried.
func NewClient(endpoint Endpoint, opts ...Option) Client {
	c := &client{
		restyClient: newDefaultAPIClient(),
		endpoint:    endpoint,
		timeout:     DefaultTimeout,
		logger:      slog.New(slog.DiscardHandler),
		requestID:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.restyClient.
		SetBaseURL(strings.TrimSuffix(endpoint.URL(), "/")).
		SetTimeout(c.timeout).
		SetLogger(restyLogger{logger: c.logger})

	if cred := endpoint.Credential(); cred != nil {
		cred.apply(c.restyClient)
	}

	return c
}

// Name returns the service name.
func (c *client) Name() string {
	return ServiceName
}

// URL returns the base url of the service.
func (c *client) URL() string {
	return c.endpoint.URL()
}

func newDefaultAPIClient() *resty.Client {
	return resty.New().
		SetHeader("Accept", jsonContentType).
		SetRetryCount(0)
}

// restyLogger sends resty's own messages to the client logger.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(restyMessage(format, v))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(restyMessage(format, v))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(restyMessage(format, v))
}

func restyMessage(format string, v []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, v...))
}
