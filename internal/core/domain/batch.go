package domain

import "time"

// Default probe policy values.
const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 5 * time.Second
	DefaultTimeout     = 10 * time.Second
)

// ProbePolicy bounds how a single address is probed.
type ProbePolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// RetryDelay is the fixed sleep between attempts.
	RetryDelay time.Duration

	// Timeout bounds each individual attempt.
	Timeout time.Duration

	// OnRetry, when set, is called before each inter-attempt sleep.
	OnRetry func(RetryAttempt)
}

// DefaultProbePolicy returns the default probe policy.
func DefaultProbePolicy() ProbePolicy {
	return ProbePolicy{
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
		Timeout:     DefaultTimeout,
	}
}

// Normalised returns a copy with unset or invalid values replaced by defaults.
func (p ProbePolicy) Normalised() ProbePolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.RetryDelay < 0 {
		p.RetryDelay = 0
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	return p
}

// RetryAttempt describes a failed attempt that is about to be retried.
type RetryAttempt struct {
	Address     ResourceAddress
	Attempt     int
	MaxAttempts int
	Class       FailureClass
	Delay       time.Duration
	Err         error
}

// OutcomeRecord pairs a processed identity with its probe outcome.
// Records are created once per valid identity and never modified.
type OutcomeRecord struct {
	// Position is the zero-based index of the identity in the input sequence.
	Position int

	// Identity is the trimmed identity that was probed.
	Identity Identity

	// Outcome is the probe result.
	Outcome ProbeOutcome
}

// Filename returns the derived document file name.
func (r OutcomeRecord) Filename() string {
	return r.Identity.Filename()
}

// SkippedEntry is an input entry excluded before probing.
type SkippedEntry struct {
	// Position is the zero-based index of the entry in the input sequence.
	Position int

	// Raw is the entry as read.
	Raw string
}

// BatchSummary aggregates a sequence of outcome records.
type BatchSummary struct {
	Total   int
	Found   int
	Missing int
}

// Summarise folds records into a BatchSummary.
func Summarise(records []OutcomeRecord) BatchSummary {
	var s BatchSummary
	for i := range records {
		s.Total++
		if records[i].Outcome.Found() {
			s.Found++
		}
	}
	s.Missing = s.Total - s.Found
	return s
}

// BatchResult is the output of verifying one batch.
type BatchResult struct {
	// Group is the resource group the batch ran against.
	Group ResourceGroup

	// Records holds one record per valid identity, in input order.
	Records []OutcomeRecord

	// Skipped holds the invalid entries, in input order.
	Skipped []SkippedEntry

	// Summary aggregates Records.
	Summary BatchSummary
}

// Unresolved returns the records that were not confirmed.
func (b *BatchResult) Unresolved() []OutcomeRecord {
	var out []OutcomeRecord
	for i := range b.Records {
		if !b.Records[i].Outcome.Found() {
			out = append(out, b.Records[i])
		}
	}
	return out
}
