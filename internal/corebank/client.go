// Package corebank is the HTTP client for the remote core-banking REST API.
package corebank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/netbank/transfer-service/internal/models"
)

// APIError is a non-2xx response from the core-banking API. Message keeps
// the raw upstream text so callers can translate it for the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("core bank responded %d: %s", e.StatusCode, e.Message)
}

// envelope is the upstream response wrapper
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client encapsulates HTTP interaction with the core-banking API.
// Reads go through a retrying client; mutations use a plain client so a
// transport retry can never double-submit a transfer.
type Client struct {
	baseURL    string
	readClient *http.Client
	mutClient  *http.Client
}

// NewClient creates a client for the core-banking API at the given address
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.HTTPClient.Timeout = 5 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		readClient: rc.StandardClient(),
		mutClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ==============================================
// READS
// ==============================================

// FetchAccounts lists the user's bank accounts
func (c *Client) FetchAccounts(ctx context.Context, userID int64) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := c.get(ctx, fmt.Sprintf("/users/%d/accounts", userID), &accounts)
	return accounts, err
}

// FetchUPIs lists the UPI handles attached to an account
func (c *Client) FetchUPIs(ctx context.Context, accNo string) ([]models.UPI, error) {
	var upis []models.UPI
	err := c.get(ctx, fmt.Sprintf("/accounts/%s/upi", accNo), &upis)
	return upis, err
}

// FetchCards lists the cards attached to an account
func (c *Client) FetchCards(ctx context.Context, accNo string) ([]models.Card, error) {
	var cards []models.Card
	err := c.get(ctx, fmt.Sprintf("/accounts/%s/card", accNo), &cards)
	return cards, err
}

// FetchBeneficiaries lists the user's saved beneficiaries
func (c *Client) FetchBeneficiaries(ctx context.Context, userID int64) ([]models.Beneficiary, error) {
	var beneficiaries []models.Beneficiary
	err := c.get(ctx, fmt.Sprintf("/users/%d/beneficiaries", userID), &beneficiaries)
	return beneficiaries, err
}

// FetchTransfers lists the user's transfers
func (c *Client) FetchTransfers(ctx context.Context) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := c.get(ctx, "/transfers", &transfers)
	return transfers, err
}

// ==============================================
// MUTATIONS
// ==============================================

// CreateTransfer submits a transfer for execution
func (c *Client) CreateTransfer(ctx context.Context, req models.CreateTransferRequest) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := c.do(ctx, http.MethodPost, "/transfers", req, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// VerifyPin checks the PIN for the given instrument. A false return with
// nil error means the PIN did not match.
func (c *Client) VerifyPin(ctx context.Context, method models.PaymentMethod, instrumentID, pin string) (bool, error) {
	body := map[string]string{"pin": pin}
	path := fmt.Sprintf("/%s/%s/verify-pin", methodPath(method), instrumentID)

	var result struct {
		Valid bool `json:"valid"`
	}
	err := c.do(ctx, http.MethodPost, path, body, &result)
	if err != nil {
		var apiErr *APIError
		// Upstream signals a mismatch as 401, not as a transport failure
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return false, nil
		}
		return false, err
	}
	return result.Valid, nil
}

// DeactivatePaymentMethod disables the instrument after repeated PIN
// failures. Re-enablement is a back-office operation.
func (c *Client) DeactivatePaymentMethod(ctx context.Context, method models.PaymentMethod, instrumentID string) error {
	path := fmt.Sprintf("/%s/%s/deactivate", methodPath(method), instrumentID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// ==============================================
// HELPERS
// ==============================================

func methodPath(method models.PaymentMethod) string {
	switch method {
	case models.MethodUPI:
		return "upi"
	case models.MethodCard:
		return "cards"
	default:
		return "accounts"
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.roundTrip(c.readClient, req, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.roundTrip(c.mutClient, req, out)
}

func (c *Client) roundTrip(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body still produces a usable APIError below
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
