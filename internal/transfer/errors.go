package transfer

import "errors"

// ==============================================
// DOMAIN ERRORS
// ==============================================

var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrPayerInstrument       = errors.New("exactly one payer instrument is required")
	ErrPayeeInstrument       = errors.New("exactly one payee instrument is required")
	ErrUnknownMethod         = errors.New("unknown payment method")
	ErrInstrumentUnavailable = errors.New("instrument is not selectable")
	ErrInvalidPin            = errors.New("invalid PIN, try again")
	ErrInstrumentLocked      = errors.New("payment method deactivated after repeated PIN failures")
	ErrSubmissionInFlight    = errors.New("a submission is already in flight")
	ErrSessionClosed         = errors.New("transfer session is closed")
	ErrSessionNotFound       = errors.New("transfer session not found")
)
