package completion

import (
	"context"
)

// Request is a single completion call. The service returns free text; no
// schema is enforced at this layer even when JSONOnly is set — callers must
// treat the response as untrusted.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	JSONOnly     bool // hint the model toward a JSON object response
}

// Service is the external language-model completion endpoint.
type Service interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientError represents an error from the completion client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeRateLimited
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "completion request timed out"}
	ErrRateLimited = &ClientError{Type: ErrTypeRateLimited, Message: "completion service rate limited the request"}
)
