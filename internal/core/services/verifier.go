package services

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// Ensure BatchVerifier implements the interface.
var _ driving.BatchVerifier = (*BatchVerifier)(nil)

// BatchVerifier derives and probes a sequence of identities.
// Identities are probed one at a time unless the request asks for workers,
// in which case results are reassembled in input order.
type BatchVerifier struct {
	prober driving.ExistenceProber
}

// NewBatchVerifier creates a verifier that probes through prober.
func NewBatchVerifier(prober driving.ExistenceProber) *BatchVerifier {
	return &BatchVerifier{prober: prober}
}

// entry is one input position after validation.
type entry struct {
	position int
	raw      string
	identity domain.Identity
	valid    bool
}

// partition validates raw input entries, keeping their positions.
func partition(raw []string) []entry {
	entries := make([]entry, len(raw))
	for i, r := range raw {
		id, ok := domain.ParseIdentity(r)
		entries[i] = entry{position: i, raw: r, identity: id, valid: ok}
	}
	return entries
}

// Verify probes every valid identity of req in input order.
// The verifier never fails per identity. On cancellation it stops between
// identities and returns the records produced so far with the context error.
func (v *BatchVerifier) Verify(
	ctx context.Context,
	req driving.VerifyRequest,
	observer driving.BatchObserver,
) (*domain.BatchResult, error) {
	if observer == nil {
		observer = driving.NopObserver{}
	}

	entries := partition(req.Identities)
	emit := newOrderedEmitter(observer)

	logger.Section("Verify " + req.Group.String())
	logger.Info("Verifying %d entries for group %s (workers=%d)", len(entries), req.Group, max(req.Workers, 1))

	var err error
	if req.Workers > 1 {
		err = v.verifyParallel(ctx, req, entries, emit)
	} else {
		err = v.verifySequential(ctx, req, entries, emit)
	}

	records, skipped := emit.drain()
	result := &domain.BatchResult{
		Group:   req.Group,
		Records: records,
		Skipped: skipped,
		Summary: domain.Summarise(records),
	}

	logger.Info("Verified %d identities: %d found, %d missing, %d skipped",
		result.Summary.Total, result.Summary.Found, result.Summary.Missing, len(skipped))

	return result, err
}

func (v *BatchVerifier) verifySequential(
	ctx context.Context,
	req driving.VerifyRequest,
	entries []entry,
	emit *orderedEmitter,
) error {
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			logger.Debug("Batch cancelled before position %d", e.position)
			return err
		}

		if !e.valid {
			emit.skip(e)
			continue
		}

		rec := v.probeOne(ctx, req, e, emit)
		if err := ctx.Err(); err != nil {
			// The probe may have been cut short; its outcome is not a real answer.
			return err
		}
		emit.record(rec)
	}
	return nil
}

func (v *BatchVerifier) verifyParallel(
	ctx context.Context,
	req driving.VerifyRequest,
	entries []entry,
	emit *orderedEmitter,
) error {
	var g errgroup.Group
	g.SetLimit(req.Workers)

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}

		if !e.valid {
			emit.skip(e)
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec := v.probeOne(ctx, req, e, emit)
			if ctx.Err() != nil {
				return nil
			}
			emit.record(rec)
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
	return ctx.Err()
}

// probeOne derives the address of e and probes it.
func (v *BatchVerifier) probeOne(
	ctx context.Context,
	req driving.VerifyRequest,
	e entry,
	emit *orderedEmitter,
) domain.OutcomeRecord {
	address := domain.DeriveAddress(req.BaseURL, e.identity, req.Group)
	logger.Debug("Probing %s -> %s", e.identity, address)

	policy := req.Policy
	callerRetry := policy.OnRetry
	policy.OnRetry = func(a domain.RetryAttempt) {
		if callerRetry != nil {
			callerRetry(a)
		}
		emit.retry(e.identity, a)
	}

	outcome := v.prober.Probe(ctx, address, policy)
	return domain.OutcomeRecord{
		Position: e.position,
		Identity: e.identity,
		Outcome:  outcome,
	}
}

// emission is a finished input position waiting to be delivered.
type emission struct {
	skipped *domain.SkippedEntry
	record  *domain.OutcomeRecord
}

// orderedEmitter delivers finished positions to the observer in input order.
// Positions may finish in any order; each is held until all earlier
// positions have been delivered.
type orderedEmitter struct {
	mu       sync.Mutex
	observer driving.BatchObserver
	next     int
	pending  map[int]emission
	records  []domain.OutcomeRecord
	skipped  []domain.SkippedEntry
}

func newOrderedEmitter(observer driving.BatchObserver) *orderedEmitter {
	return &orderedEmitter{
		observer: observer,
		pending:  make(map[int]emission),
	}
}

func (o *orderedEmitter) skip(e entry) {
	logger.Warn("Skipping invalid identity at position %d: %q", e.position, e.raw)
	o.put(e.position, emission{skipped: &domain.SkippedEntry{Position: e.position, Raw: e.raw}})
}

func (o *orderedEmitter) record(rec domain.OutcomeRecord) {
	o.put(rec.Position, emission{record: &rec})
}

func (o *orderedEmitter) retry(id domain.Identity, a domain.RetryAttempt) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observer.OnRetry(id, a)
}

// put stores a finished position and flushes the ready prefix (caller must not hold lock).
func (o *orderedEmitter) put(position int, em emission) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending[position] = em
	for {
		ready, ok := o.pending[o.next]
		if !ok {
			return
		}
		delete(o.pending, o.next)
		o.deliver(ready)
		o.next++
	}
}

// drain delivers any positions left behind a gap and returns everything delivered.
// Gaps only exist when a batch was cancelled.
func (o *orderedEmitter) drain() ([]domain.OutcomeRecord, []domain.SkippedEntry) {
	o.mu.Lock()
	defer o.mu.Unlock()

	positions := make([]int, 0, len(o.pending))
	for pos := range o.pending {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	for _, pos := range positions {
		o.deliver(o.pending[pos])
		delete(o.pending, pos)
	}

	return o.records, o.skipped
}

// deliver hands one emission to the observer (caller must hold lock).
func (o *orderedEmitter) deliver(em emission) {
	switch {
	case em.record != nil:
		o.records = append(o.records, *em.record)
		o.observer.OnRecord(*em.record)
	case em.skipped != nil:
		o.skipped = append(o.skipped, *em.skipped)
		o.observer.OnSkipped(*em.skipped)
	}
}
