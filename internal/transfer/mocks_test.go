package transfer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// MOCK COLLABORATORS
// ==============================================

type MockBankAPI struct {
	FetchAccountsFunc      func(ctx context.Context, userID int64) ([]models.BankAccount, error)
	FetchUPIsFunc          func(ctx context.Context, accNo string) ([]models.UPI, error)
	FetchCardsFunc         func(ctx context.Context, accNo string) ([]models.Card, error)
	FetchBeneficiariesFunc func(ctx context.Context, userID int64) ([]models.Beneficiary, error)
	FetchTransfersFunc     func(ctx context.Context) ([]models.Transfer, error)
	CreateTransferFunc     func(ctx context.Context, req models.CreateTransferRequest) (*models.Transfer, error)
}

func (m *MockBankAPI) FetchAccounts(ctx context.Context, userID int64) ([]models.BankAccount, error) {
	if m.FetchAccountsFunc != nil {
		return m.FetchAccountsFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockBankAPI) FetchUPIs(ctx context.Context, accNo string) ([]models.UPI, error) {
	if m.FetchUPIsFunc != nil {
		return m.FetchUPIsFunc(ctx, accNo)
	}
	return nil, errors.New("not implemented")
}

func (m *MockBankAPI) FetchCards(ctx context.Context, accNo string) ([]models.Card, error) {
	if m.FetchCardsFunc != nil {
		return m.FetchCardsFunc(ctx, accNo)
	}
	return nil, errors.New("not implemented")
}

func (m *MockBankAPI) FetchBeneficiaries(ctx context.Context, userID int64) ([]models.Beneficiary, error) {
	if m.FetchBeneficiariesFunc != nil {
		return m.FetchBeneficiariesFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockBankAPI) FetchTransfers(ctx context.Context) ([]models.Transfer, error) {
	if m.FetchTransfersFunc != nil {
		return m.FetchTransfersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *MockBankAPI) CreateTransfer(ctx context.Context, req models.CreateTransferRequest) (*models.Transfer, error) {
	if m.CreateTransferFunc != nil {
		return m.CreateTransferFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type MockVerifier struct {
	VerifyPinFunc func(ctx context.Context, method models.PaymentMethod, instrumentID, pin string) (bool, error)
	Calls         int
}

func (m *MockVerifier) VerifyPin(ctx context.Context, method models.PaymentMethod, instrumentID, pin string) (bool, error) {
	m.Calls++
	if m.VerifyPinFunc != nil {
		return m.VerifyPinFunc(ctx, method, instrumentID, pin)
	}
	return false, errors.New("not implemented")
}

type MockDeactivator struct {
	DeactivateFunc func(ctx context.Context, method models.PaymentMethod, instrumentID string) error
	Calls          int
}

func (m *MockDeactivator) DeactivatePaymentMethod(ctx context.Context, method models.PaymentMethod, instrumentID string) error {
	m.Calls++
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, method, instrumentID)
	}
	return nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
