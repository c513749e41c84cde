package models

import (
	"github.com/shopspring/decimal"
)

// ==============================================
// TRANSACTION MODELS
// ==============================================

// Transaction Types
const (
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeDeposit    = "DEPOSIT"
)

// Transaction Statuses
const (
	TransactionStatusSuccess = "SUCCESS"
	TransactionStatusPending = "PENDING"
	TransactionStatusFailed  = "FAILED"
)

// Transaction is a single-sided ledger entry on one account, distinct
// from a Transfer which pairs a payer and a payee transaction
type Transaction struct {
	TransactionID     int64           `json:"transactionId"`
	AccNo             string          `json:"accNo"`
	UserID            int64           `json:"userId"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionType   string          `json:"transactionType"`   // 'WITHDRAWAL', 'DEPOSIT'
	TransactionStatus string          `json:"transactionStatus"` // 'SUCCESS', 'PENDING', 'FAILED'
	ByCardNo          *string         `json:"byCardNo"`
	UpiID             *string         `json:"upiId"`
	StartedAt         *int64          `json:"startedAt"` // epoch millis
	EndedAt           *int64          `json:"endedAt"`
	ReferenceID       *string         `json:"referenceId"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
}

// IsPending checks if the transaction is still pending
func (t *Transaction) IsPending() bool {
	return t.TransactionStatus == TransactionStatusPending
}

// IsFailed checks if the transaction has failed
func (t *Transaction) IsFailed() bool {
	return t.TransactionStatus == TransactionStatusFailed
}
