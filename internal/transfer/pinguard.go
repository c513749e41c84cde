package transfer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// PIN GUARD
// ==============================================

// PinState is the guard's position in the verification state machine
type PinState int

const (
	StateIdle PinState = iota
	StateVerifying
	StateVerified
	StateLocked
)

func (s PinState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateVerifying:
		return "VERIFYING"
	case StateVerified:
		return "VERIFIED"
	case StateLocked:
		return "LOCKED"
	}
	return "UNKNOWN"
}

// DefaultMaxAttempts deactivates an instrument on the third consecutive
// failure; the first two fall back to IDLE with the counter preserved.
const DefaultMaxAttempts = 3

// PinGuard verifies an entered PIN against an instrument and tracks
// consecutive failures. Reaching the threshold fires exactly one
// deactivation call and locks the instrument for the session.
type PinGuard struct {
	verifier     PinVerifier
	deactivator  Deactivator
	store        AttemptStore
	maxAttempts  int
	log          *zap.SugaredLogger
	onDeactivate func(instrumentID, message string)

	mu    sync.Mutex
	state PinState
}

func NewPinGuard(verifier PinVerifier, deactivator Deactivator, store AttemptStore, maxAttempts int, log *zap.SugaredLogger) *PinGuard {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &PinGuard{
		verifier:    verifier,
		deactivator: deactivator,
		store:       store,
		maxAttempts: maxAttempts,
		log:         log,
		state:       StateIdle,
	}
}

// OnDeactivate registers the selector's hook so a locked instrument also
// disappears from the selectable set
func (g *PinGuard) OnDeactivate(fn func(instrumentID, message string)) {
	g.onDeactivate = fn
}

// State returns the guard's current state
func (g *PinGuard) State() PinState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Attempts returns the failure count recorded for the instrument
func (g *PinGuard) Attempts(ctx context.Context, instrumentID string) (int, error) {
	return g.store.Attempts(ctx, instrumentID)
}

// Verify runs one verification attempt. Failures below the threshold
// return a retryable field error with the counter preserved; the
// threshold failure deactivates the instrument upstream and locks it
// terminally for this guard.
func (g *PinGuard) Verify(ctx context.Context, method models.PaymentMethod, instrumentID, pin string) error {
	locked, err := g.store.Locked(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("lockout check: %w", err)
	}
	if locked {
		g.setState(StateLocked)
		return models.NewFieldError("payerPin", "Payment method deactivated after repeated PIN failures", ErrInstrumentLocked)
	}

	g.setState(StateVerifying)

	ok, err := g.verifier.VerifyPin(ctx, method, instrumentID, pin)
	if err != nil {
		g.setState(StateIdle)
		return fmt.Errorf("verify pin: %w", err)
	}

	if ok {
		g.setState(StateVerified)
		if err := g.store.Reset(ctx, instrumentID); err != nil {
			g.log.Warnw("attempt counter reset failed", "instrument", instrumentID, "error", err)
		}
		return nil
	}

	attempts, err := g.store.RecordFailure(ctx, instrumentID)
	if err != nil {
		g.setState(StateIdle)
		return fmt.Errorf("record pin failure: %w", err)
	}

	if attempts >= g.maxAttempts {
		return g.lock(ctx, method, instrumentID, attempts)
	}

	g.setState(StateIdle)
	g.log.Infow("pin verification failed", "instrument", instrumentID, "attempts", attempts)
	return models.NewFieldError("payerPin", "Invalid PIN, try again", ErrInvalidPin)
}

func (g *PinGuard) lock(ctx context.Context, method models.PaymentMethod, instrumentID string, attempts int) error {
	const message = "Payment method deactivated after repeated PIN failures"

	if err := g.deactivator.DeactivatePaymentMethod(ctx, method, instrumentID); err != nil {
		// The lockout still stands locally; the instrument stays unusable
		// for this session even if the upstream call has to be repeated.
		g.log.Errorw("deactivation call failed", "instrument", instrumentID, "error", err)
	}
	if err := g.store.Lock(ctx, instrumentID); err != nil {
		g.log.Errorw("lockout persist failed", "instrument", instrumentID, "error", err)
	}

	g.setState(StateLocked)
	if g.onDeactivate != nil {
		g.onDeactivate(instrumentID, message)
	}

	g.log.Warnw("instrument locked", "method", method, "instrument", instrumentID, "attempts", attempts)
	return models.NewFieldError("payerPin", message, ErrInstrumentLocked)
}

func (g *PinGuard) setState(s PinState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}
