package transfer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/cache"
	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// SERVICE
// ==============================================

// Service owns the open transfer sessions and the shared transfer-list
// cache. When durableStore is nil each session gets its own attempt
// store, reproducing the original behavior where reopening the dialog
// resets the counter; a durable store makes lockout survive the session.
type Service struct {
	api          BankAPI
	verifier     PinVerifier
	deactivator  Deactivator
	durableStore AttemptStore
	maxAttempts  int
	sessionTTL   time.Duration
	sharedCache  *cache.Cache
	log          *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(api BankAPI, verifier PinVerifier, deactivator Deactivator, durableStore AttemptStore, maxAttempts int, sessionTTL time.Duration, log *zap.SugaredLogger) *Service {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &Service{
		api:          api,
		verifier:     verifier,
		deactivator:  deactivator,
		durableStore: durableStore,
		maxAttempts:  maxAttempts,
		sessionTTL:   sessionTTL,
		sharedCache:  cache.New(),
		log:          log,
		sessions:     make(map[string]*Session),
	}
}

// OpenSession starts a new transfer dialog for the user
func (s *Service) OpenSession(_ context.Context, userID int64) (*Session, error) {
	sessionCache := cache.New()
	selector := NewInstrumentSelector(s.api, sessionCache, userID, s.log)
	resolver := NewBeneficiaryResolver(s.api, sessionCache, userID, s.log)

	store := s.durableStore
	if store == nil {
		store = NewSessionAttemptStore()
	}
	guard := NewPinGuard(s.verifier, s.deactivator, store, s.maxAttempts, s.log)
	guard.OnDeactivate(selector.MarkDeactivated)

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		selector:  selector,
		resolver:  resolver,
		guard:     guard,
		submitter: NewSubmitter(s.api, s.sharedCache, userID, s.log),
		log:       s.log,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Infow("transfer session opened", "session", sess.ID, "user", userID)
	return sess, nil
}

// Session looks up an open session, expiring it lazily past its TTL
func (s *Service) Session(id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if time.Since(sess.CreatedAt) > s.sessionTTL {
		s.CloseSession(id)
		return nil, ErrSessionNotFound
	}
	if sess.Closed() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CloseSession discards the session and everything it held
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.Close()
	return nil
}

// ListTransfers returns the user's transfers sorted descending by start
// time, served from the shared cache until a submission invalidates it
func (s *Service) ListTransfers(ctx context.Context, userID int64) ([]models.Transfer, error) {
	key := TransfersKey(userID)
	if v, ok := s.sharedCache.Get(key); ok {
		return v.([]models.Transfer), nil
	}

	transfers, err := s.api.FetchTransfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transfers: %w", err)
	}

	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].StartedAt > transfers[j].StartedAt
	})

	s.sharedCache.Set(key, transfers)
	return transfers, nil
}
