package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// These pin the exact matching rules the error translation relies on
// until the upstream contract grows structured error codes.

func TestReasonFromMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Transfer failed: Insufficient balance", "Insufficient balance"},
		{"Transfer failed: account 123: inactive", "inactive"},
		{"no colon at all", "no colon at all"},
		{"trailing colon:", ""},
		{"  spaced : reason  ", "reason"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReasonFromMessage(tt.msg), "msg=%q", tt.msg)
	}
}

func TestInvalidPinMessage(t *testing.T) {
	assert.True(t, InvalidPinMessage("Transfer failed: Invalid PIN"))
	assert.True(t, InvalidPinMessage("invalid pin"))
	assert.True(t, InvalidPinMessage("INVALID PIN entered"))
	assert.False(t, InvalidPinMessage("PIN invalid"))
	assert.False(t, InvalidPinMessage("Insufficient balance"))
	assert.False(t, InvalidPinMessage(""))
}
