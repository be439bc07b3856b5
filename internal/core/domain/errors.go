package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSettings indicates a settings value is out of range.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnknownSetting indicates a settings key is not recognised.
	ErrUnknownSetting = errors.New("unknown setting")

	// Input Errors.

	// ErrInputUnavailable indicates the identity sequence for a group
	// could not be obtained at all. The batch is aborted with no records.
	ErrInputUnavailable = errors.New("input unavailable")

	// ErrNoIdentities indicates the input was readable but held no identities.
	ErrNoIdentities = errors.New("no identities found")

	// ErrNoEmailColumn indicates a header row was found without an email column.
	ErrNoEmailColumn = errors.New("no email column in header")
)
