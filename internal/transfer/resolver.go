package transfer

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/cache"
	"github.com/netbank/transfer-service/internal/models"
)

// ==============================================
// BENEFICIARY RESOLVER
// ==============================================

// BeneficiaryResolver maps a chosen beneficiary id to a concrete payee
// instrument using the session-cached beneficiary list. Resolution is a
// lookup, not ownership: it copies the identifier into the draft and the
// payee fields stay independently editable afterwards.
type BeneficiaryResolver struct {
	api    BankAPI
	cache  *cache.Cache
	userID int64
	log    *zap.SugaredLogger
}

func NewBeneficiaryResolver(api BankAPI, c *cache.Cache, userID int64, log *zap.SugaredLogger) *BeneficiaryResolver {
	return &BeneficiaryResolver{api: api, cache: c, userID: userID, log: log}
}

// Beneficiaries returns the user's saved beneficiaries, fetched once per
// session
func (r *BeneficiaryResolver) Beneficiaries(ctx context.Context) ([]models.Beneficiary, error) {
	key := cache.Key{Resource: "beneficiaries", ID: strconv.FormatInt(r.userID, 10)}
	if v, ok := r.cache.Get(key); ok {
		return v.([]models.Beneficiary), nil
	}

	beneficiaries, err := r.api.FetchBeneficiaries(ctx, r.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch beneficiaries: %w", err)
	}
	r.cache.Set(key, beneficiaries)
	return beneficiaries, nil
}

// Resolve copies the beneficiary's instrument into the draft's payee.
// Account number wins over UPI id when both are present. Only the winning
// field is written; any other payee field keeps its manual entry, and a
// doubly populated payee is caught by draft validation at submit time. An
// unknown id is a no-op on the instrument. The beneficiary id itself is
// retained on the draft as metadata either way.
func (r *BeneficiaryResolver) Resolve(ctx context.Context, draft *models.TransferDraft, beneficiaryID int) error {
	beneficiaries, err := r.Beneficiaries(ctx)
	if err != nil {
		return err
	}

	for _, b := range beneficiaries {
		if b.ID != beneficiaryID {
			continue
		}
		if b.AccNo != "" {
			draft.Payee.AccNo = b.AccNo
		} else if b.UpiID != "" {
			draft.Payee.UpiID = b.UpiID
		}
		break
	}

	draft.BeneficiaryID = &beneficiaryID
	r.log.Infow("beneficiary resolved", "beneficiaryId", beneficiaryID)
	return nil
}
