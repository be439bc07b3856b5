// Package transport provides the HTTP implementation of driven.Transport.
//
// Each probe is a HEAD request bounded by its own timeout. Redirects are
// followed and the final response is reported. Network failures come back
// as *domain.TransportError so the prober can decide whether to retry.
package transport
