package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netbank/transfer-service/internal/cache"
	"github.com/netbank/transfer-service/internal/models"
)

func newTestResolver(api BankAPI) *BeneficiaryResolver {
	return NewBeneficiaryResolver(api, cache.New(), 1, testLogger())
}

func TestResolve_AccountTakesPriorityOverUpi(t *testing.T) {
	api := &MockBankAPI{
		FetchBeneficiariesFunc: func(ctx context.Context, userID int64) ([]models.Beneficiary, error) {
			return []models.Beneficiary{
				{ID: 7, Name: "Bob", AccNo: "9999999999", UpiID: "bob@bank"},
			}, nil
		},
	}
	resolver := newTestResolver(api)
	ctx := context.Background()

	draft := models.TransferDraft{}
	err := resolver.Resolve(ctx, &draft, 7)
	require.NoError(t, err)

	assert.Equal(t, "9999999999", draft.Payee.AccNo)
	assert.Equal(t, "", draft.Payee.UpiID, "only the winning field is written")
	require.NotNil(t, draft.BeneficiaryID)
	assert.Equal(t, 7, *draft.BeneficiaryID)

	// A manually entered UPI value survives resolution; validation owns
	// the doubly-populated case at submit time
	draft = models.TransferDraft{Payee: models.Instrument{UpiID: "manual@bank"}}
	err = resolver.Resolve(ctx, &draft, 7)
	require.NoError(t, err)

	assert.Equal(t, "9999999999", draft.Payee.AccNo)
	assert.Equal(t, "manual@bank", draft.Payee.UpiID)
}

func TestResolve_UpiOnlyBeneficiary(t *testing.T) {
	api := &MockBankAPI{
		FetchBeneficiariesFunc: func(ctx context.Context, userID int64) ([]models.Beneficiary, error) {
			return []models.Beneficiary{{ID: 3, Name: "Carol", UpiID: "carol@bank"}}, nil
		},
	}
	resolver := newTestResolver(api)
	draft := models.TransferDraft{}

	err := resolver.Resolve(context.Background(), &draft, 3)
	require.NoError(t, err)

	assert.Equal(t, "carol@bank", draft.Payee.UpiID)
	assert.Equal(t, "", draft.Payee.AccNo)
}

func TestResolve_UnknownIdLeavesManualEntryIntact(t *testing.T) {
	api := &MockBankAPI{
		FetchBeneficiariesFunc: func(ctx context.Context, userID int64) ([]models.Beneficiary, error) {
			return []models.Beneficiary{{ID: 1, Name: "Alice", AccNo: "1111111111"}}, nil
		},
	}
	resolver := newTestResolver(api)
	draft := models.TransferDraft{Payee: models.Instrument{AccNo: "8888888888"}}

	err := resolver.Resolve(context.Background(), &draft, 42)
	require.NoError(t, err)

	assert.Equal(t, "8888888888", draft.Payee.AccNo, "prior manual entry must survive")
	require.NotNil(t, draft.BeneficiaryID)
	assert.Equal(t, 42, *draft.BeneficiaryID)
}

func TestBeneficiaries_FetchedOncePerSession(t *testing.T) {
	fetches := 0
	api := &MockBankAPI{
		FetchBeneficiariesFunc: func(ctx context.Context, userID int64) ([]models.Beneficiary, error) {
			fetches++
			return []models.Beneficiary{{ID: 1, Name: "Alice", AccNo: "1111111111"}}, nil
		},
	}
	resolver := newTestResolver(api)
	ctx := context.Background()

	_, err := resolver.Beneficiaries(ctx)
	require.NoError(t, err)

	draft := models.TransferDraft{}
	require.NoError(t, resolver.Resolve(ctx, &draft, 1))
	require.NoError(t, resolver.Resolve(ctx, &draft, 1))

	assert.Equal(t, 1, fetches, "resolution must not round-trip to the network")
}
