package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyIndex      = errors.New("index name cannot be empty")
	ErrNoSourceFiles   = errors.New("at least one source file is required")
	ErrInvalidMapping  = errors.New("field mapping must have the form field:type")
	ErrNilCredential   = errors.New("credential cannot be nil")
	ErrInvalidEndpoint = errors.New("endpoint url must be an absolute http or https url")
)

// ConfigurationError reports that no configuration source produced a usable
// endpoint.
type ConfigurationError struct {
	Sources []string
}

func (e *ConfigurationError) Error() string {
	msg := "no usable configuration found in environment variables or start-local .env file"
	if len(e.Sources) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (tried: %s)", msg, strings.Join(e.Sources, ", "))
}

// TransportError reports a request that could not be completed, or a response
// whose body could not be decoded.
type TransportError struct {
	Op        Operation
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError reports a request that completed with a non-success status.
type ServiceError struct {
	Op         Operation
	StatusCode int
	Type       string
	Reason     string
	RequestID  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Reason)
}

// MalformedRowError reports a source row with more fields than its header.
// Row is the 1-based data row number; the header row is not counted.
type MalformedRowError struct {
	File   string
	Row    int
	Fields int
	Header int
}

func (e *MalformedRowError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: missing header row", e.File)
	}
	return fmt.Sprintf("%s: row %d has %d fields, header has %d", e.File, e.Row, e.Fields, e.Header)
}

// Describe renders any error for display to a user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

// ErrorEnvelope is the error body returned by the service on failure.
type ErrorEnvelope struct {
	Error  *ErrorCause `json:"error"`
	Status int         `json:"status"`
}

// ErrorCause is a node of the (possibly nested) service error structure.
type ErrorCause struct {
	Type      string       `json:"type"`
	Reason    string       `json:"reason,omitempty"`
	RootCause []ErrorCause `json:"root_cause,omitempty"`
}

// UnmarshalJSON accepts both the structured form and the bare string form
// that older service versions send.
func (c *ErrorCause) UnmarshalJSON(data []byte) error {
	var reason string
	if err := json.Unmarshal(data, &reason); err == nil {
		*c = ErrorCause{Reason: reason}
		return nil
	}

	type plain ErrorCause
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ErrorCause(p)
	return nil
}

// DisplayReason resolves the reason shown to users. The first root cause is
// authoritative when present; otherwise the top-level reason, then the type.
func (c ErrorCause) DisplayReason() string {
	if len(c.RootCause) > 0 {
		return c.RootCause[0].DisplayReason()
	}
	if c.Reason != "" {
		return c.Reason
	}
	if c.Type != "" {
		return c.Type
	}
	return "unknown error"
}
