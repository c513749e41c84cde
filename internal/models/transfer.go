package models

import (
	"github.com/shopspring/decimal"
)

// ==============================================
// TRANSFER MODELS
// ==============================================

// Transfer Statuses (server-owned lifecycle, never mutated here)
const (
	TransferStatusProcessing = "PROCESSING"
	TransferStatusSuccess    = "SUCCESS"
	TransferStatusFailed     = "FAILED"
)

// Transfer represents a server-tracked money movement between a payer
// instrument and a payee instrument
type Transfer struct {
	ReferenceID        string          `json:"referenceId"`
	PayerTransactionID int64           `json:"payerTransactionId"`
	PayeeTransactionID int64           `json:"payeeTransactionId"`
	TransferType       PaymentMethod   `json:"transferType"`
	StartedAt          int64           `json:"startedAt"` // epoch millis
	EndedAt            *int64          `json:"endedAt"`
	TransferStatus     string          `json:"transferStatus"` // 'PROCESSING', 'SUCCESS', 'FAILED'
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	PayerTransaction   Transaction     `json:"payerTransaction"`
	PayeeTransaction   Transaction     `json:"payeeTransaction"`
}

// IsProcessing checks if the transfer is still in flight server-side
func (t *Transfer) IsProcessing() bool {
	return t.TransferStatus == TransferStatusProcessing
}

// IsFailed checks if the transfer has failed
func (t *Transfer) IsFailed() bool {
	return t.TransferStatus == TransferStatusFailed
}

// TransferDraft is the in-memory working copy of a transfer under
// construction. Created when a session opens, mutated by field updates,
// discarded on close or successful submission.
type TransferDraft struct {
	Payer         Instrument      `json:"payerTransaction"`
	PayerPin      string          `json:"-"`
	Payee         Instrument      `json:"payeeTransaction"`
	BeneficiaryID *int            `json:"beneficiaryId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// CreateTransferRequest is the outbound POST /transfers body. The
// beneficiary id is draft metadata only and never crosses the wire.
type CreateTransferRequest struct {
	PayerTransaction Instrument      `json:"payerTransaction"`
	PayeeTransaction Instrument      `json:"payeeTransaction"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
	ReferenceID      string          `json:"referenceId,omitempty"`
}
