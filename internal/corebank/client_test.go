package corebank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netbank/transfer-service/internal/models"
)

func TestClient_FetchAccountsDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/7/accounts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"accNo":"1234567890","accountType":"SAVINGS"},{"accNo":"9999999999","accountType":"CURRENT"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	accounts, err := client.FetchAccounts(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "1234567890", accounts[0].AccNo)
}

func TestClient_NonSuccessBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Transfer failed: Insufficient balance"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CreateTransfer(context.Background(), models.CreateTransferRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Transfer failed: Insufficient balance", apiErr.Message)
}

func TestClient_NonJSONErrorBodyKeptAsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchTransfers(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestClient_CreateTransferPostsBodyWithoutBeneficiary(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"data":{"referenceId":"ref-1","transferStatus":"PROCESSING"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	transfer, err := client.CreateTransfer(context.Background(), models.CreateTransferRequest{
		ReferenceID:      "ref-1",
		PayerTransaction: models.Instrument{AccNo: "1234567890"},
		PayeeTransaction: models.Instrument{AccNo: "9999999999"},
		Amount:           decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", transfer.ReferenceID)
	assert.Equal(t, models.TransferStatusProcessing, transfer.TransferStatus)

	assert.Contains(t, captured, "payerTransaction")
	assert.Contains(t, captured, "payeeTransaction")
	assert.NotContains(t, captured, "beneficiaryId")
	assert.NotContains(t, captured, "payerPin")
}

func TestClient_VerifyPin(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/accounts/1234567890/verify-pin", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "1234", body["pin"])
			w.Write([]byte(`{"data":{"valid":true}}`))
		}))
		defer srv.Close()

		ok, err := NewClient(srv.URL).VerifyPin(context.Background(), models.MethodAccount, "1234567890", "1234")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatch is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid pin"}`))
		}))
		defer srv.Close()

		ok, err := NewClient(srv.URL).VerifyPin(context.Background(), models.MethodAccount, "1234567890", "0000")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("upstream failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).VerifyPin(context.Background(), models.MethodUPI, "user@bank", "1234")
		require.Error(t, err)
	})
}

func TestClient_DeactivateUsesMethodPath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.DeactivatePaymentMethod(context.Background(), models.MethodCard, "4111111111111111"))
	assert.Equal(t, "/cards/4111111111111111/deactivate", path)

	require.NoError(t, client.DeactivatePaymentMethod(context.Background(), models.MethodUPI, "user@bank"))
	assert.Equal(t, "/upi/user@bank/deactivate", path)
}

func TestClient_ReadsRetryTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchTransfers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_MutationsNeverRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CreateTransfer(context.Background(), models.CreateTransferRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "a retried mutation could double-submit")
}
