package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LockoutRepository is the durable PIN-attempt store, keyed by instrument
// identifier so the counter and lockout survive individual dialog
// sessions (PIN_LOCKOUT_SCOPE=durable).
//
// Schema:
//
//	CREATE TABLE pin_lockouts (
//	    instrument_id TEXT PRIMARY KEY,
//	    attempts      INT NOT NULL DEFAULT 0,
//	    locked        BOOLEAN NOT NULL DEFAULT FALSE,
//	    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type LockoutRepository struct {
	db *pgxpool.Pool
}

func NewLockoutRepository(db *pgxpool.Pool) *LockoutRepository {
	return &LockoutRepository{db: db}
}

// Attempts returns the failure count recorded for the instrument
func (r *LockoutRepository) Attempts(ctx context.Context, instrumentID string) (int, error) {
	query := `SELECT attempts FROM pin_lockouts WHERE instrument_id = $1`

	var attempts int
	err := r.db.QueryRow(ctx, query, instrumentID).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return attempts, nil
}

// RecordFailure increments the failure counter and returns the new count
func (r *LockoutRepository) RecordFailure(ctx context.Context, instrumentID string) (int, error) {
	query := `
		INSERT INTO pin_lockouts (instrument_id, attempts, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (instrument_id)
		DO UPDATE SET attempts = pin_lockouts.attempts + 1, updated_at = now()
		RETURNING attempts`

	var attempts int
	if err := r.db.QueryRow(ctx, query, instrumentID).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("failed to record failure: %w", err)
	}
	return attempts, nil
}

// Reset clears the counter after a successful verification
func (r *LockoutRepository) Reset(ctx context.Context, instrumentID string) error {
	query := `
		UPDATE pin_lockouts SET attempts = 0, updated_at = now()
		WHERE instrument_id = $1 AND locked = FALSE`

	if _, err := r.db.Exec(ctx, query, instrumentID); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

// Locked reports whether the instrument is locked out
func (r *LockoutRepository) Locked(ctx context.Context, instrumentID string) (bool, error) {
	query := `SELECT locked FROM pin_lockouts WHERE instrument_id = $1`

	var locked bool
	err := r.db.QueryRow(ctx, query, instrumentID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get lockout: %w", err)
	}
	return locked, nil
}

// Lock marks the instrument locked out. Clearing the flag is a
// back-office operation, not part of this service.
func (r *LockoutRepository) Lock(ctx context.Context, instrumentID string) error {
	query := `
		INSERT INTO pin_lockouts (instrument_id, attempts, locked, updated_at)
		VALUES ($1, 0, TRUE, now())
		ON CONFLICT (instrument_id)
		DO UPDATE SET locked = TRUE, updated_at = now()`

	if _, err := r.db.Exec(ctx, query, instrumentID); err != nil {
		return fmt.Errorf("failed to lock instrument: %w", err)
	}
	return nil
}
