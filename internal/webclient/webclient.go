package webclient

import (
	"context"
	"errors"
)

// ErrMethodNotSupported is returned by backends that cannot issue the
// requested HTTP method (the browser backend only navigates).
var ErrMethodNotSupported = errors.New("method not supported")

// WebClient issues a single request and returns the fully received response.
// Implementations never retry.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
