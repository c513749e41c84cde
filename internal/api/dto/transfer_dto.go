package dto

import (
	"github.com/shopspring/decimal"

	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// TRANSFER SESSION REQUEST DTOs
// ==============================================

// OpenSessionRequest starts a transfer dialog for a user
type OpenSessionRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
}

// SetMethodRequest chooses the payment method for one side of the draft
type SetMethodRequest struct {
	Side   string `json:"side" binding:"required,oneof=payer payee"`
	Method string `json:"method" binding:"required,oneof=ACCOUNT UPI CARD"`
}

// SetInstrumentRequest sets a concrete instrument value for one side
type SetInstrumentRequest struct {
	Side   string `json:"side" binding:"required,oneof=payer payee"`
	Method string `json:"method" binding:"required,oneof=ACCOUNT UPI CARD"`
	Value  string `json:"value" binding:"required"`
}

// ChooseBeneficiaryRequest resolves a saved beneficiary into the payee
type ChooseBeneficiaryRequest struct {
	BeneficiaryID int `json:"beneficiaryId" binding:"required,gt=0"`
}

// SetDetailsRequest updates amount, description and PIN; omitted fields
// are left unchanged
type SetDetailsRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	Pin         *string          `json:"pin,omitempty"`
}

// ==============================================
// TRANSFER SESSION RESPONSE DTOs
// ==============================================

// SessionResponse is the dialog state returned after every session op
type SessionResponse struct {
	SessionID       string               `json:"sessionId"`
	UserID          int64                `json:"userId"`
	SelectedAccount string               `json:"selectedAccount,omitempty"`
	PinState        string               `json:"pinState"`
	Draft           models.TransferDraft `json:"draft"`
}

// InstrumentsResponse lists the selectable payer instruments
type InstrumentsResponse struct {
	Accounts      []models.BankAccount `json:"accounts"`
	UPIs          []models.UPI         `json:"upis"`
	Cards         []models.Card        `json:"cards"`
	Beneficiaries []models.Beneficiary `json:"beneficiaries"`
}

// SubmitResponse wraps the created transfer
type SubmitResponse struct {
	Transfer *models.Transfer `json:"transfer"`
	Message  string           `json:"message"`
}

// TransferListResponse wraps the transfer history
type TransferListResponse struct {
	Transfers []models.Transfer `json:"transfers"`
	Total     int               `json:"total"`
}
