package core

import "errors"

// Error kinds returned by entry points, per the protocol's error taxonomy.
// Every precondition in this package is an explicit check against one of
// these sentinels — never a panic — and every failure leaves state
// untouched.
var (
	// Shape
	ErrAddressMismatch  = errors.New("address mismatch")
	ErrWrongClass       = errors.New("wrong record class")
	ErrMissingSigner    = errors.New("missing required signer")
	ErrBadSerialization = errors.New("bad serialization")

	// Existence
	ErrNotFound     = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrNoTreasury   = errors.New("treasury not initialized")

	// Value
	ErrBadAmount    = errors.New("amount must be positive")
	ErrMemoTooLong  = errors.New("memo exceeds 256 bytes")
	ErrExpiryInPast = errors.New("expiry must be in the future")
	ErrInsufficient = errors.New("insufficient balance")

	// State
	ErrNotPending      = errors.New("invoice not pending")
	ErrExpired         = errors.New("invoice expired")
	ErrAlreadyTerminal = errors.New("record already in a terminal state")
	ErrInvoiceNotPaid  = errors.New("invoice not paid")
	ErrWrongRecipient  = errors.New("wrong recipient")
	ErrSumMismatch     = errors.New("claimed total does not match sum of invoice amounts")
	ErrAlreadySettled  = errors.New("invoice already settled in a prior batch")

	// Auth / role
	ErrNotParty           = errors.New("signer is not a party to this record")
	ErrNotArbiter         = errors.New("signer is not the arbiter")
	ErrProviderInactive   = errors.New("provider is not active")
	ErrUnknownCapability  = errors.New("capability not offered by provider")
	ErrPriceBelowMinimum  = errors.New("amount is below the provider's base price")

	// Batch / size
	ErrEmptyBatch             = errors.New("batch must contain at least one invoice")
	ErrBatchTooLarge          = errors.New("batch exceeds MAX_BATCH")
	ErrCapabilityListTooLarge = errors.New("capability list exceeds limit")

	// Dispute
	ErrWindowExpired  = errors.New("dispute window has elapsed")
	ErrAlreadyDisputed = errors.New("request already disputed")
	ErrNotDisputed    = errors.New("request has no open dispute")
)
