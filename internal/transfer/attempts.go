package transfer

import (
	"context"
	"sync"
)

// ==============================================
// PIN ATTEMPT TRACKING
// ==============================================

// AttemptStore tracks consecutive PIN failures and lockouts keyed by
// instrument identifier. The session-scoped implementation below matches
// the original behavior where the counter dies with the dialog; the
// repository package provides a durable Postgres-backed one.
type AttemptStore interface {
	Attempts(ctx context.Context, instrumentID string) (int, error)
	RecordFailure(ctx context.Context, instrumentID string) (int, error)
	Reset(ctx context.Context, instrumentID string) error
	Locked(ctx context.Context, instrumentID string) (bool, error)
	Lock(ctx context.Context, instrumentID string) error
}

type sessionAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]int
	locked   map[string]bool
}

// NewSessionAttemptStore creates an in-memory store whose state is
// discarded with the owning session
func NewSessionAttemptStore() AttemptStore {
	return &sessionAttemptStore{
		attempts: make(map[string]int),
		locked:   make(map[string]bool),
	}
}

func (s *sessionAttemptStore) Attempts(_ context.Context, instrumentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[instrumentID], nil
}

func (s *sessionAttemptStore) RecordFailure(_ context.Context, instrumentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[instrumentID]++
	return s.attempts[instrumentID], nil
}

func (s *sessionAttemptStore) Reset(_ context.Context, instrumentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, instrumentID)
	return nil
}

func (s *sessionAttemptStore) Locked(_ context.Context, instrumentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked[instrumentID], nil
}

func (s *sessionAttemptStore) Lock(_ context.Context, instrumentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked[instrumentID] = true
	return nil
}
