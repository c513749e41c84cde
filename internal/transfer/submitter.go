package transfer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/cache"
	"github.com/netbank/transfer-service/internal/corebank"
	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// TRANSFER SUBMITTER
// ==============================================

// Submitter assembles the validated payload, issues the create request
// and maps upstream failures back onto draft fields
type Submitter struct {
	api    BankAPI
	cache  *cache.Cache // service-level cache holding the transfer list
	userID int64
	log    *zap.SugaredLogger
}

func NewSubmitter(api BankAPI, c *cache.Cache, userID int64, log *zap.SugaredLogger) *Submitter {
	return &Submitter{api: api, cache: c, userID: userID, log: log}
}

// TransfersKey is the cache key for a user's transfer list
func TransfersKey(userID int64) cache.Key {
	return cache.Key{Resource: "transfers", ID: strconv.FormatInt(userID, 10)}
}

// Submit validates the draft, strips the beneficiary id and posts the
// transfer. On success the user's cached transfer list is invalidated
// exactly once. On failure the caller keeps the draft so the user can
// correct and resubmit.
func (s *Submitter) Submit(ctx context.Context, draft *models.TransferDraft) (*models.Transfer, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	req := models.CreateTransferRequest{
		PayerTransaction: draft.Payer,
		PayeeTransaction: draft.Payee,
		Amount:           draft.Amount,
		Description:      draft.Description,
		ReferenceID:      uuid.NewString(),
	}

	s.log.Infow("submitting transfer",
		"reference", req.ReferenceID,
		"method", draft.Payer.Method(),
		"amount", draft.Amount)

	transfer, err := s.api.CreateTransfer(ctx, req)
	if err != nil {
		s.log.Warnw("transfer rejected", "reference", req.ReferenceID, "error", err)
		return nil, s.translateFailure(err)
	}

	s.cache.Invalidate(TransfersKey(s.userID))
	s.log.Infow("transfer created", "reference", transfer.ReferenceID, "status", transfer.TransferStatus)
	return transfer, nil
}

// ValidateDraft enforces the draft schema before any network call:
// positive amount, exactly one payer instrument, exactly one payee
// instrument (accounts and UPI handles only on the payee side).
func ValidateDraft(draft *models.TransferDraft) error {
	if !draft.Amount.IsPositive() {
		return models.NewFieldError("amount", "Amount must be positive", ErrInvalidAmount)
	}
	if draft.Payer.Populated() != 1 {
		return models.NewFieldError("payerTransaction", "Select exactly one payer instrument", ErrPayerInstrument)
	}
	if draft.Payee.Populated() != 1 || draft.Payee.CardNo != "" {
		return models.NewFieldError("payeeTransaction", "Enter exactly one payee account or UPI id", ErrPayeeInstrument)
	}
	return nil
}

// translateFailure turns an upstream rejection into something the form
// can surface: invalid-PIN messages land on the PIN field, everything
// else becomes a generic destructive notification with the reason pulled
// out of the prose.
func (s *Submitter) translateFailure(err error) error {
	var apiErr *corebank.APIError
	if !errors.As(err, &apiErr) {
		return models.NewAppError("TRANSFER_FAILED", "Failed to create transfer", err)
	}

	if InvalidPinMessage(apiErr.Message) {
		return models.NewFieldError("payerPin", "Invalid pin", fmt.Errorf("%w: %s", ErrInvalidPin, apiErr.Message))
	}

	return models.NewAppError("TRANSFER_REJECTED", ReasonFromMessage(apiErr.Message), err)
}
