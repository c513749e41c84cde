package transfer

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/cache"
	"github.com/netbank/transfer-service/internal/models"
)

// Side distinguishes the payer and payee halves of a draft
type Side string

const (
	SidePayer Side = "payer"
	SidePayee Side = "payee"
)

// ==============================================
// INSTRUMENT SELECTOR
// ==============================================

// InstrumentSelector resolves which instruments are selectable for the
// session's user and keeps the draft's union discriminant honest: choosing
// a method for a side clears every other method's value on that side.
type InstrumentSelector struct {
	api    BankAPI
	cache  *cache.Cache
	userID int64
	log    *zap.SugaredLogger

	mu          sync.Mutex
	unavailable map[string]string // instrument id -> terminal message
}

func NewInstrumentSelector(api BankAPI, c *cache.Cache, userID int64, log *zap.SugaredLogger) *InstrumentSelector {
	return &InstrumentSelector{
		api:         api,
		cache:       c,
		userID:      userID,
		log:         log,
		unavailable: make(map[string]string),
	}
}

// Accounts lists the user's bank accounts, fetched once per session
func (s *InstrumentSelector) Accounts(ctx context.Context) ([]models.BankAccount, error) {
	key := cache.Key{Resource: "accounts", ID: strconv.FormatInt(s.userID, 10)}
	if v, ok := s.cache.Get(key); ok {
		return s.filterAccounts(v.([]models.BankAccount)), nil
	}

	accounts, err := s.api.FetchAccounts(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	s.cache.Set(key, accounts)
	return s.filterAccounts(accounts), nil
}

// UPIs lists the UPI handles for the selected account. The cache entry is
// keyed by account number, so changing the selected account refetches.
func (s *InstrumentSelector) UPIs(ctx context.Context, accNo string) ([]models.UPI, error) {
	key := cache.Key{Resource: "upis", ID: accNo}
	if v, ok := s.cache.Get(key); ok {
		return s.filterUPIs(v.([]models.UPI)), nil
	}

	upis, err := s.api.FetchUPIs(ctx, accNo)
	if err != nil {
		return nil, fmt.Errorf("fetch upis: %w", err)
	}
	s.cache.Set(key, upis)
	return s.filterUPIs(upis), nil
}

// Cards lists the cards for the selected account, keyed like UPIs
func (s *InstrumentSelector) Cards(ctx context.Context, accNo string) ([]models.Card, error) {
	key := cache.Key{Resource: "cards", ID: accNo}
	if v, ok := s.cache.Get(key); ok {
		return s.filterCards(v.([]models.Card)), nil
	}

	cards, err := s.api.FetchCards(ctx, accNo)
	if err != nil {
		return nil, fmt.Errorf("fetch cards: %w", err)
	}
	s.cache.Set(key, cards)
	return s.filterCards(cards), nil
}

// ApplyMethod records a method choice for one side of the draft, clearing
// any previously chosen value of a different method so a stale identifier
// cannot leak into the payload.
func (s *InstrumentSelector) ApplyMethod(draft *models.TransferDraft, side Side, method models.PaymentMethod) error {
	if !method.IsValid() {
		return ErrUnknownMethod
	}
	switch side {
	case SidePayer:
		draft.Payer.ClearExcept(method)
	case SidePayee:
		// Cards are not a payee target, same as SetPayeeManual
		if method == models.MethodCard {
			return ErrUnknownMethod
		}
		draft.Payee.ClearExcept(method)
	default:
		return fmt.Errorf("unknown side %q", side)
	}
	return nil
}

// SetPayerInstrument validates the chosen payer instrument against the
// selectable set and stores it, clearing other methods' values. UPI and
// card candidates are resolved against selectedAccount, which the session
// tracks separately from the draft so the payload union stays singular.
func (s *InstrumentSelector) SetPayerInstrument(ctx context.Context, draft *models.TransferDraft, selectedAccount string, method models.PaymentMethod, value string) error {
	if !method.IsValid() {
		return ErrUnknownMethod
	}
	if msg, locked := s.Unavailable(value); locked {
		return fmt.Errorf("%w: %s", ErrInstrumentUnavailable, msg)
	}

	ok, err := s.payerSelectable(ctx, selectedAccount, method, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrInstrumentUnavailable, method, value)
	}

	draft.Payer.ClearExcept(method)
	switch method {
	case models.MethodAccount:
		draft.Payer.AccNo = value
	case models.MethodUPI:
		draft.Payer.UpiID = value
	case models.MethodCard:
		draft.Payer.CardNo = value
	}

	s.log.Infow("payer instrument selected", "method", method, "instrument", value)
	return nil
}

// SetPayeeManual stores a manually entered payee identifier. Card numbers
// are not a valid payee target; transfers land on accounts or UPI handles.
func (s *InstrumentSelector) SetPayeeManual(draft *models.TransferDraft, method models.PaymentMethod, value string) error {
	switch method {
	case models.MethodAccount:
		draft.Payee.ClearExcept(method)
		draft.Payee.AccNo = value
	case models.MethodUPI:
		draft.Payee.ClearExcept(method)
		draft.Payee.UpiID = value
	default:
		return ErrUnknownMethod
	}
	return nil
}

// MarkDeactivated removes an instrument from the selectable set for the
// rest of the session and records the terminal message shown to the user
func (s *InstrumentSelector) MarkDeactivated(instrumentID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable[instrumentID] = message
	s.log.Warnw("instrument deactivated for session", "instrument", instrumentID)
}

// Unavailable reports whether the instrument was deactivated this session
// and the terminal message recorded for it
func (s *InstrumentSelector) Unavailable(instrumentID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.unavailable[instrumentID]
	return msg, ok
}

// ==============================================
// HELPERS
// ==============================================

func (s *InstrumentSelector) payerSelectable(ctx context.Context, selectedAccount string, method models.PaymentMethod, value string) (bool, error) {
	switch method {
	case models.MethodAccount:
		accounts, err := s.Accounts(ctx)
		if err != nil {
			return false, err
		}
		for _, a := range accounts {
			if a.AccNo == value {
				return true, nil
			}
		}
	case models.MethodUPI:
		if selectedAccount == "" {
			return false, nil
		}
		upis, err := s.UPIs(ctx, selectedAccount)
		if err != nil {
			return false, err
		}
		for _, u := range upis {
			if u.UpiID == value {
				return true, nil
			}
		}
	case models.MethodCard:
		if selectedAccount == "" {
			return false, nil
		}
		cards, err := s.Cards(ctx, selectedAccount)
		if err != nil {
			return false, err
		}
		for _, c := range cards {
			if c.CardNo == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *InstrumentSelector) filterAccounts(in []models.BankAccount) []models.BankAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BankAccount, 0, len(in))
	for _, a := range in {
		if _, gone := s.unavailable[a.AccNo]; !gone {
			out = append(out, a)
		}
	}
	return out
}

func (s *InstrumentSelector) filterUPIs(in []models.UPI) []models.UPI {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UPI, 0, len(in))
	for _, u := range in {
		if _, gone := s.unavailable[u.UpiID]; !gone {
			out = append(out, u)
		}
	}
	return out
}

func (s *InstrumentSelector) filterCards(in []models.Card) []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Card, 0, len(in))
	for _, c := range in {
		if _, gone := s.unavailable[c.CardNo]; !gone {
			out = append(out, c)
		}
	}
	return out
}
