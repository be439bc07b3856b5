package transport

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// classify wraps a client error in a TransportError with its failure class.
func classify(err error) *domain.TransportError {
	return &domain.TransportError{Class: failureClass(err), Err: unwrapURLError(err)}
}

func failureClass(err error) domain.FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FailureTimeout
	}

	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return domain.FailureConnection
	}

	return domain.FailureRequest
}

// unwrapURLError drops the "Head <url>:" prefix net/http adds.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
