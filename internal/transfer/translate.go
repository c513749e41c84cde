package transfer

import (
	"strings"
)

// The core-banking API reports rejections as prose, e.g.
// "Transfer failed: Insufficient balance". Until the contract grows a
// structured error code, the string heuristics live here and nowhere else.

// ReasonFromMessage extracts the user-facing reason: the trailing segment
// after the last colon, trimmed. A message without a colon passes through
// whole.
func ReasonFromMessage(msg string) string {
	idx := strings.LastIndex(msg, ":")
	if idx < 0 {
		return strings.TrimSpace(msg)
	}
	return strings.TrimSpace(msg[idx+1:])
}

// InvalidPinMessage reports whether the upstream message describes a PIN
// mismatch. Matching rule: case-insensitive substring "invalid pin".
func InvalidPinMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "invalid pin")
}
