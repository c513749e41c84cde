package models

// ==============================================
// PAYMENT INSTRUMENTS
// ==============================================

// PaymentMethod discriminates which kind of instrument moves the money
type PaymentMethod string

const (
	MethodAccount PaymentMethod = "ACCOUNT"
	MethodUPI     PaymentMethod = "UPI"
	MethodCard    PaymentMethod = "CARD"
)

// IsValid reports whether m is one of the known payment methods
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodAccount, MethodUPI, MethodCard:
		return true
	}
	return false
}

// Instrument is a tagged choice of account number, UPI id or card number.
// Exactly one field must be populated at submission time.
type Instrument struct {
	AccNo  string `json:"accNo,omitempty"`
	UpiID  string `json:"upiId,omitempty"`
	CardNo string `json:"cardNo,omitempty"`
}

// Populated counts how many variants are set
func (i Instrument) Populated() int {
	n := 0
	if i.AccNo != "" {
		n++
	}
	if i.UpiID != "" {
		n++
	}
	if i.CardNo != "" {
		n++
	}
	return n
}

// Method returns the payment method the populated variant belongs to.
// Undefined when zero or multiple variants are set.
func (i Instrument) Method() PaymentMethod {
	switch {
	case i.AccNo != "":
		return MethodAccount
	case i.UpiID != "":
		return MethodUPI
	case i.CardNo != "":
		return MethodCard
	}
	return ""
}

// Identifier returns the populated variant's value
func (i Instrument) Identifier() string {
	switch {
	case i.AccNo != "":
		return i.AccNo
	case i.UpiID != "":
		return i.UpiID
	case i.CardNo != "":
		return i.CardNo
	}
	return ""
}

// ClearExcept blanks every variant that does not belong to the given method
func (i *Instrument) ClearExcept(method PaymentMethod) {
	if method != MethodAccount {
		i.AccNo = ""
	}
	if method != MethodUPI {
		i.UpiID = ""
	}
	if method != MethodCard {
		i.CardNo = ""
	}
}
