package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// Ensure Prober implements the interface.
var _ driving.ExistenceProber = (*Prober)(nil)

// Diagnostics reported by the prober.
const (
	diagConfirmed = "PDF exists"
	diagWrongType = "URL exists but not a PDF"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// verdict is the state an attempt transitions to.
type verdict int

const (
	// verdictTerminal means the remote answered definitively.
	verdictTerminal verdict = iota

	// verdictRetryable means the attempt failed at the network level.
	verdictRetryable
)

// attemptResult is the outcome of a single attempt.
type attemptResult struct {
	verdict verdict
	outcome domain.ProbeOutcome
	err     error
}

// Prober checks whether a PDF exists at a resource address.
// Each attempt is a metadata-only request; network failures are retried
// with a fixed delay up to the policy's attempt budget.
type Prober struct {
	transport driven.Transport
	sleep     SleepFunc
}

// NewProber creates a prober using transport for requests.
func NewProber(transport driven.Transport) *Prober {
	return &Prober{
		transport: transport,
		sleep:     sleepContext,
	}
}

// WithSleep replaces the function used to wait between attempts.
func (p *Prober) WithSleep(fn SleepFunc) *Prober {
	if fn != nil {
		p.sleep = fn
	}
	return p
}

// Probe checks address under policy and returns exactly one outcome.
// It never panics to the caller: any fault is folded into a transport failure.
func (p *Prober) Probe(
	ctx context.Context,
	address domain.ResourceAddress,
	policy domain.ProbePolicy,
) (outcome domain.ProbeOutcome) {
	policy = policy.Normalised()

	attempts := 0
	defer func() {
		if r := recover(); r != nil {
			outcome = exhausted(address, attempts, domain.FailureRequest, fmt.Errorf("panic: %v", r))
		}
	}()

	for {
		attempts++
		res := p.attempt(ctx, address, policy.Timeout)

		if res.verdict == verdictTerminal {
			res.outcome.Attempts = attempts
			return res.outcome
		}

		class := domain.ClassifyTransportError(res.err)

		if ctx.Err() != nil {
			return cancelled(address, attempts, ctx.Err())
		}
		if attempts >= policy.MaxAttempts {
			logger.Debug("Giving up on %s after %d attempts: %v", address, attempts, res.err)
			return exhausted(address, attempts, class, res.err)
		}

		logger.Warn("%s on %s (attempt %d/%d), retrying in %s",
			describeClass(class), address, attempts, policy.MaxAttempts, policy.RetryDelay)
		if policy.OnRetry != nil {
			policy.OnRetry(domain.RetryAttempt{
				Address:     address,
				Attempt:     attempts,
				MaxAttempts: policy.MaxAttempts,
				Class:       class,
				Delay:       policy.RetryDelay,
				Err:         res.err,
			})
		}

		if err := p.sleep(ctx, policy.RetryDelay); err != nil {
			return cancelled(address, attempts, err)
		}
	}
}

// attempt issues one request and classifies the response.
func (p *Prober) attempt(ctx context.Context, address domain.ResourceAddress, timeout time.Duration) attemptResult {
	resp, err := p.transport.Head(ctx, address.String(), timeout)
	if err != nil {
		return attemptResult{verdict: verdictRetryable, err: err}
	}
	if resp == nil {
		return attemptResult{verdict: verdictRetryable, err: &domain.TransportError{
			Class: domain.FailureRequest,
			Err:   errors.New("empty response"),
		}}
	}

	outcome := domain.ProbeOutcome{
		Address:     address,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
	}

	switch {
	case !isSuccess(resp.StatusCode):
		outcome.Kind = domain.OutcomeNotFound
		outcome.Diagnostic = fmt.Sprintf("HTTP Status: %d", resp.StatusCode)
	case isPDF(resp.ContentType):
		outcome.Kind = domain.OutcomeConfirmed
		outcome.Diagnostic = diagConfirmed
	default:
		outcome.Kind = domain.OutcomeWrongType
		outcome.Diagnostic = diagWrongType
	}

	return attemptResult{verdict: verdictTerminal, outcome: outcome}
}

// exhausted builds the outcome for a probe that ran out of attempts.
func exhausted(address domain.ResourceAddress, attempts int, class domain.FailureClass, err error) domain.ProbeOutcome {
	var diag string
	switch class {
	case domain.FailureTimeout:
		diag = fmt.Sprintf("Connection timeout (failed after %d attempts)", attempts)
	case domain.FailureConnection:
		diag = fmt.Sprintf("Connection error (failed after %d attempts)", attempts)
	default:
		diag = fmt.Sprintf("Request error: %s (failed after %d attempts)", errorDetail(err), attempts)
	}

	return domain.ProbeOutcome{
		Kind:       domain.OutcomeTransportFailure,
		Address:    address,
		Diagnostic: diag,
		Attempts:   attempts,
		Failure:    class,
	}
}

// cancelled builds the outcome for a probe stopped by its context.
func cancelled(address domain.ResourceAddress, attempts int, err error) domain.ProbeOutcome {
	return domain.ProbeOutcome{
		Kind:       domain.OutcomeTransportFailure,
		Address:    address,
		Diagnostic: fmt.Sprintf("Cancelled after %d attempts: %v", attempts, err),
		Attempts:   attempts,
		Failure:    domain.FailureRequest,
	}
}

func describeClass(class domain.FailureClass) string {
	switch class {
	case domain.FailureTimeout:
		return "Timeout"
	case domain.FailureConnection:
		return "Connection error"
	default:
		return "Request error"
	}
}

// errorDetail returns the innermost message of a transport error.
func errorDetail(err error) string {
	if err == nil {
		return "unknown error"
	}
	var te *domain.TransportError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err.Error()
	}
	return err.Error()
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func isPDF(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
