package transfer

import (
	"context"

	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// COLLABORATOR INTERFACES (for testing)
// ==============================================

// BankAPI is the subset of the core-banking client the transfer flow
// reads and writes through. *corebank.Client satisfies it.
type BankAPI interface {
	FetchAccounts(ctx context.Context, userID int64) ([]models.BankAccount, error)
	FetchUPIs(ctx context.Context, accNo string) ([]models.UPI, error)
	FetchCards(ctx context.Context, accNo string) ([]models.Card, error)
	FetchBeneficiaries(ctx context.Context, userID int64) ([]models.Beneficiary, error)
	FetchTransfers(ctx context.Context) ([]models.Transfer, error)
	CreateTransfer(ctx context.Context, req models.CreateTransferRequest) (*models.Transfer, error)
}

// PinVerifier checks an entered PIN against an instrument. A false return
// with nil error is a mismatch, not a transport failure.
type PinVerifier interface {
	VerifyPin(ctx context.Context, method models.PaymentMethod, instrumentID, pin string) (bool, error)
}

// Deactivator disables a payment method after repeated PIN failures
type Deactivator interface {
	DeactivatePaymentMethod(ctx context.Context, method models.PaymentMethod, instrumentID string) error
}
