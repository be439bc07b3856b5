package driven

import (
	"context"
	"time"
)

// HeadResponse is the metadata returned by an existence request.
type HeadResponse struct {
	// StatusCode is the HTTP status of the final response after redirects.
	StatusCode int

	// ContentType is the Content-Type header of the final response.
	ContentType string

	// FinalURL is the address that answered after following redirects.
	FinalURL string
}

// Transport performs metadata-only existence requests.
type Transport interface {
	// Head issues a HEAD request against url, following redirects, bounded by timeout.
	// Network-level failures are returned as *domain.TransportError.
	// A completed response with any status is not an error.
	Head(ctx context.Context, url string, timeout time.Duration) (*HeadResponse, error)
}
