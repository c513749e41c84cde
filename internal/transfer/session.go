package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// TRANSFER SESSION
// ==============================================

// Session is one open transfer dialog. It owns the draft, the per-session
// query cache behind the selector and resolver, and the PIN guard. The
// draft is discarded on close or successful submission.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time

	selector  *InstrumentSelector
	resolver  *BeneficiaryResolver
	guard     *PinGuard
	submitter *Submitter
	log       *zap.SugaredLogger

	mu              sync.Mutex
	draft           models.TransferDraft
	selectedAccount string
	pending         bool
	closed          bool
}

// Draft returns a copy of the working draft
func (s *Session) Draft() models.TransferDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SelectedAccount is the account whose UPI and card lists are offered.
// Tracked apart from the draft so the payload union stays singular.
func (s *Session) SelectedAccount() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedAccount
}

// PinState exposes the guard state for the dialog UI
func (s *Session) PinState() PinState {
	return s.guard.State()
}

// Accounts lists selectable payer accounts
func (s *Session) Accounts(ctx context.Context) ([]models.BankAccount, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	return s.selector.Accounts(ctx)
}

// UPIs lists selectable payer UPI handles for the selected account
func (s *Session) UPIs(ctx context.Context) ([]models.UPI, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	accNo := s.SelectedAccount()
	if accNo == "" {
		return nil, nil
	}
	return s.selector.UPIs(ctx, accNo)
}

// Cards lists selectable payer cards for the selected account
func (s *Session) Cards(ctx context.Context) ([]models.Card, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	accNo := s.SelectedAccount()
	if accNo == "" {
		return nil, nil
	}
	return s.selector.Cards(ctx, accNo)
}

// Beneficiaries lists the user's saved beneficiaries
func (s *Session) Beneficiaries(ctx context.Context) ([]models.Beneficiary, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	return s.resolver.Beneficiaries(ctx)
}

// SetMethod records the payment-method choice for one side, clearing any
// other method's value on that side
func (s *Session) SetMethod(side Side, method models.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.selector.ApplyMethod(&s.draft, side, method)
}

// SetPayerInstrument chooses the payer instrument. Choosing an account
// also makes it the selected account for dependent UPI/card lists.
func (s *Session) SetPayerInstrument(ctx context.Context, method models.PaymentMethod, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	draft := s.draft
	selected := s.selectedAccount
	s.mu.Unlock()

	if err := s.selector.SetPayerInstrument(ctx, &draft, selected, method, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.draft.Payer = draft.Payer
	if method == models.MethodAccount {
		s.selectedAccount = value
	}
	return nil
}

// SetPayeeManual stores a manually entered payee identifier
func (s *Session) SetPayeeManual(method models.PaymentMethod, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.selector.SetPayeeManual(&s.draft, method, value)
}

// ChooseBeneficiary resolves a saved beneficiary into the payee fields
func (s *Session) ChooseBeneficiary(ctx context.Context, beneficiaryID int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	draft := s.draft
	s.mu.Unlock()

	if err := s.resolver.Resolve(ctx, &draft, beneficiaryID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.draft.Payee = draft.Payee
	s.draft.BeneficiaryID = draft.BeneficiaryID
	return nil
}

// SetDetails updates amount, description and PIN; nil leaves a field as is
func (s *Session) SetDetails(amount *decimal.Decimal, description, pin *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if amount != nil {
		s.draft.Amount = *amount
	}
	if description != nil {
		s.draft.Description = *description
	}
	if pin != nil {
		s.draft.PayerPin = *pin
	}
	return nil
}

// Submit validates the draft, gates it through the PIN guard and posts
// the transfer. At most one submission is in flight per session; a second
// call while pending is refused rather than queued. On success the
// session closes and the draft is discarded; on failure the draft is
// retained for correction.
func (s *Session) Submit(ctx context.Context) (*models.Transfer, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.pending {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.pending = true
	draft := s.draft
	s.mu.Unlock()

	transfer, err := s.submit(ctx, &draft)

	s.mu.Lock()
	s.pending = false
	if err == nil {
		s.closed = true
		s.draft = models.TransferDraft{}
	}
	s.mu.Unlock()

	return transfer, err
}

func (s *Session) submit(ctx context.Context, draft *models.TransferDraft) (*models.Transfer, error) {
	// Schema failures block before any network call is made
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	method := draft.Payer.Method()
	instrumentID := draft.Payer.Identifier()
	if err := s.guard.Verify(ctx, method, instrumentID, draft.PayerPin); err != nil {
		return nil, err
	}

	return s.submitter.Submit(ctx, draft)
}

// Close discards the draft and all per-session state, including the
// session-scoped attempt counter
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.draft = models.TransferDraft{}
	s.log.Infow("transfer session closed", "session", s.ID)
}

// Closed reports whether the session has ended
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}
