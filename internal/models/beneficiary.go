package models

// ==============================================
// BENEFICIARIES & UPSTREAM INSTRUMENT RECORDS
// ==============================================

// Beneficiary is a saved, named mapping from a user-chosen label to a
// payee instrument. Server-owned; the client only reads and creates.
type Beneficiary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	AccNo string `json:"accNo,omitempty"`
	UpiID string `json:"upiId,omitempty"`
}

// BankAccount is a user's account as returned by the core-banking API
type BankAccount struct {
	AccNo    string `json:"accNo"`
	UserID   int64  `json:"userId"`
	Type     string `json:"accountType"`
	Status   string `json:"accountStatus"` // 'ACTIVE', 'INACTIVE', 'CLOSED'
	BankName string `json:"bankName,omitempty"`
	IFSC     string `json:"ifscCode,omitempty"`
}

// UPI is a UPI handle attached to an account
type UPI struct {
	UpiID     string `json:"upiId"`
	AccNo     string `json:"accNo"`
	UserID    int64  `json:"userId"`
	Status    string `json:"status"` // 'ACTIVE', 'INACTIVE', 'CLOSED'
	IsDefault bool   `json:"isDefault"`
}

// Card is a card attached to an account
type Card struct {
	CardNo string `json:"cardNo"`
	AccNo  string `json:"accNo"`
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// Instrument record statuses shared by UPI and Card
const (
	InstrumentStatusActive   = "ACTIVE"
	InstrumentStatusInactive = "INACTIVE"
	InstrumentStatusClosed   = "CLOSED"
)
