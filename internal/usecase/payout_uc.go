package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/adapter"
	"seriespay/internal/domain/ports/repository"
	"seriespay/internal/infra/metrics"
	"seriespay/internal/infra/redis"
)

// Compile-time check
var _ PayoutUseCase = (*payoutUC)(nil)

// BatchResult aggregates one batch run for caller logging.
type BatchResult struct {
	TransferredCount int
	FailedCount      int
	TotalAmount      int64 // sum of successfully transferred creator shares
}

type PayoutUseCase interface {
	// BatchTransferToCreator transfers the creator share of every completed,
	// untransferred purchase to the creator's payout account, one transfer
	// per purchase. Partial failure does not abort the batch; failed
	// purchases stay selectable for the next run. Only the initial query can
	// error, and even that is reported as an empty result.
	BatchTransferToCreator(ctx context.Context, creatorID, payoutAccountID string) (BatchResult, error)
}

type payoutUC struct {
	purchases repository.PurchaseRepository
	payouts   repository.PayoutRecordRepository
	gateway   adapter.PaymentGateway
	locker    redis.Locker

	currency string
	log      *zerolog.Logger
}

func NewPayoutUseCase(
	purchases repository.PurchaseRepository,
	payouts repository.PayoutRecordRepository,
	gateway adapter.PaymentGateway,
	locker redis.Locker,
	currency string,
	logger *zerolog.Logger,
) *payoutUC {
	return &payoutUC{
		purchases: purchases,
		payouts:   payouts,
		gateway:   gateway,
		locker:    locker,
		currency:  currency,
		log:       logger,
	}
}

func (u *payoutUC) BatchTransferToCreator(ctx context.Context, creatorID, payoutAccountID string) (BatchResult, error) {
	if creatorID == "" || payoutAccountID == "" {
		return BatchResult{}, domain.ErrInvalidArgument
	}

	// Webhook and return-URL triggers can race; the lock keeps one batch per
	// creator at a time. MarkTransferred's conditional update is the second
	// guard in case the lock is lost mid-batch.
	token, err := u.locker.TryLock(ctx, "payout:batch:"+creatorID, 2*time.Minute)
	if err != nil {
		u.log.Warn().Str("creator_id", creatorID).Msg("payout batch already in flight, skipping")
		return BatchResult{}, nil
	}
	defer func() { _ = u.locker.Unlock(ctx, "payout:batch:"+creatorID, token) }()

	pending, err := u.purchases.ListUntransferredByCreator(ctx, creatorID)
	if err != nil {
		u.log.Error().Err(err).Str("creator_id", creatorID).Msg("payout batch query failed")
		return BatchResult{}, nil
	}

	var res BatchResult
	for _, p := range pending {
		if p.ChargeID == nil {
			// Charge id resolution never completed for this purchase; a
			// transfer needs a source charge, so it is skipped here.
			continue
		}
		if u.transferOne(ctx, p, payoutAccountID) {
			res.TransferredCount++
			res.TotalAmount += p.CreatorShare
		} else {
			res.FailedCount++
		}
	}

	u.log.Info().
		Str("creator_id", creatorID).
		Int("transferred", res.TransferredCount).
		Int("failed", res.FailedCount).
		Int64("total_amount", res.TotalAmount).
		Msg("payout batch finished")
	return res, nil
}

// transferOne attempts a single provider transfer and records the outcome.
// Failures leave the purchase selectable for the next batch run.
func (u *payoutUC) transferOne(ctx context.Context, p *model.Purchase, accountID string) bool {
	transferID, err := u.gateway.CreateTransfer(ctx, adapter.TransferInput{
		Amount:        p.CreatorShare,
		Currency:      u.currency,
		Destination:   accountID,
		SourceCharge:  *p.ChargeID,
		TransferGroup: p.CheckoutKey,
	})
	if err != nil {
		u.log.Error().Err(err).Str("purchase_id", p.ID).Msg("transfer failed")
		u.record(ctx, p, model.FailedTransferID(p.ID), model.PayoutStatusFailed)
		metrics.IncPayoutTransfer("failed")
		return false
	}

	claimed, err := u.purchases.MarkTransferred(ctx, p.ID, transferID)
	if err != nil {
		u.log.Error().Err(err).Str("purchase_id", p.ID).Str("transfer_id", transferID).Msg("failed to mark purchase transferred")
		// The transfer happened; record it anyway so the audit trail holds.
	} else if !claimed {
		u.log.Warn().Str("purchase_id", p.ID).Str("transfer_id", transferID).Msg("purchase claimed by concurrent batch, not recording")
		return false
	}

	u.record(ctx, p, transferID, model.PayoutStatusCompleted)
	metrics.IncPayoutTransfer("completed")
	metrics.AddPayoutAmount(u.currency, p.CreatorShare)
	return true
}

func (u *payoutUC) record(ctx context.Context, p *model.Purchase, transferID string, status model.PayoutStatus) {
	rec := &model.PayoutRecord{
		ID:         ulid.Make().String(),
		CreatorID:  p.CreatorID,
		PurchaseID: p.ID,
		TransferID: transferID,
		Amount:     p.CreatorShare,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.payouts.Save(ctx, rec); err != nil {
		u.log.Error().Err(err).Str("purchase_id", p.ID).Msg("payout record insert failed")
	}
}
