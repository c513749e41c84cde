package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/netbank/transfer-service/internal/models"
)

// HashPin hashes a PIN using bcrypt (same as password but semantically different)
func HashPin(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPin compares a plaintext PIN with a hashed PIN
func CheckPin(pin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	return err == nil
}

// LocalVerifier checks PINs against bcrypt hashes from a provisioning
// file, keyed by instrument identifier. Used when the deployment has no
// core-banking PIN route (PIN_MODE=local).
type LocalVerifier struct {
	hashes map[string]string
}

// NewLocalVerifier loads a JSON file mapping instrument ids to bcrypt
// hashes
func NewLocalVerifier(path string) (*LocalVerifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pin hash file: %w", err)
	}

	hashes := make(map[string]string)
	if err := json.Unmarshal(raw, &hashes); err != nil {
		return nil, fmt.Errorf("parse pin hash file: %w", err)
	}
	return &LocalVerifier{hashes: hashes}, nil
}

// VerifyPin implements the PIN-verification collaborator. An unknown
// instrument verifies false rather than erroring, matching the upstream
// route's behavior for a wrong PIN.
func (v *LocalVerifier) VerifyPin(_ context.Context, _ models.PaymentMethod, instrumentID, pin string) (bool, error) {
	hash, ok := v.hashes[instrumentID]
	if !ok {
		return false, nil
	}
	return CheckPin(pin, hash), nil
}
