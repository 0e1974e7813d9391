package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/adapter"
	"seriespay/internal/domain/ports/repository"
	"seriespay/internal/infra/metrics"
)

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// ReconcileUseCase converts a provider-confirmed checkout session into
// durable purchase rows exactly once. It is safe to call from any number of
// independent triggers: the provider webhook, the success-page fallback, or
// both concurrently. All triggers share this one implementation.
type ReconcileUseCase interface {
	// ReconcileSession returns the number of purchase rows written: zero for
	// unpaid, malformed or already-reconciled sessions. It returns an error
	// only for failures the caller can act on (session retrieval); store
	// write failures are logged and swallowed so webhook callers always ack.
	ReconcileSession(ctx context.Context, sessionID string) (int, error)
}

type reconcileUC struct {
	purchases repository.PurchaseRepository
	seasons   repository.SeasonRepository
	gateway   adapter.PaymentGateway

	log *zerolog.Logger
}

func NewReconcileUseCase(
	purchases repository.PurchaseRepository,
	seasons repository.SeasonRepository,
	gateway adapter.PaymentGateway,
	logger *zerolog.Logger,
) *reconcileUC {
	return &reconcileUC{purchases: purchases, seasons: seasons, gateway: gateway, log: logger}
}

func (u *reconcileUC) ReconcileSession(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, domain.ErrInvalidArgument
	}
	sess, err := u.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	if !sess.Paid() {
		u.log.Info().Str("session_id", sess.ID).Str("payment_status", sess.PaymentStatus).Msg("session not paid, skipping")
		metrics.IncReconcileSkip("unpaid")
		return 0, nil
	}

	intent, err := model.DecodeCheckoutIntent(sess.Metadata)
	if err != nil {
		// A paid session with broken metadata must still be acked, otherwise
		// the provider retries forever. Log loudly and move on.
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("paid session has unusable metadata, skipping")
		metrics.IncReconcileSkip("bad_metadata")
		return 0, nil
	}

	// Pre-check before insert. The unique constraint on checkout_key is the
	// real guarantee; this read just avoids pointless provider lookups on
	// the common replay path.
	exists, err := u.purchases.ExistsByAnyCheckoutKey(ctx, intent.CheckoutKeys(sess.ID))
	if err != nil {
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("idempotency pre-check failed, skipping")
		return 0, nil
	}
	if exists {
		u.log.Debug().Str("session_id", sess.ID).Msg("session already reconciled")
		metrics.IncReconcileSkip("already_reconciled")
		return 0, nil
	}

	chargeID := u.resolveChargeID(ctx, sess)

	switch it := intent.(type) {
	case model.SingleSeasonIntent:
		return u.recordSingle(ctx, sess, it, chargeID), nil
	case model.BundleIntent:
		return u.recordBundle(ctx, sess, it, chargeID), nil
	default:
		u.log.Error().Str("session_id", sess.ID).Msg("unknown checkout intent variant")
		return 0, nil
	}
}

func (u *reconcileUC) recordSingle(ctx context.Context, sess *adapter.CheckoutSession, it model.SingleSeasonIntent, chargeID *string) int {
	fee, share := model.SplitAmount(sess.AmountTotal)
	p := &model.Purchase{
		ID:              uuid.NewString(),
		UserID:          it.UserID,
		SeasonID:        it.SeasonID,
		SeriesID:        it.SeriesID,
		CreatorID:       it.CreatorID,
		CheckoutKey:     sess.ID,
		PaymentIntentID: sess.PaymentIntentID,
		ChargeID:        chargeID,
		Amount:          sess.AmountTotal,
		PlatformFee:     fee,
		CreatorShare:    share,
		Status:          model.PurchaseStatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	if !u.insert(ctx, p) {
		return 0
	}
	metrics.IncPurchase("single")
	metrics.AddPurchaseRevenue(sess.Currency, p.Amount, p.PlatformFee)
	u.log.Info().
		Str("session_id", sess.ID).
		Str("purchase_id", p.ID).
		Int64("amount", p.Amount).
		Int64("platform_fee", p.PlatformFee).
		Msg("single purchase recorded")
	return 1
}

func (u *reconcileUC) recordBundle(ctx context.Context, sess *adapter.CheckoutSession, it model.BundleIntent, chargeID *string) int {
	prices, err := u.seasons.FindPrices(ctx, it.SeasonIDs)
	if err != nil {
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("bundle price lookup failed, skipping")
		return 0
	}

	// Allocations are rounded per season independently; their sum may drift
	// from the session total by a minor unit or two. Accepted behavior.
	allocated := model.AllocateBundle(sess.AmountTotal, prices)

	written := 0
	now := time.Now().UTC()
	for i, seasonID := range it.SeasonIDs {
		fee, share := model.SplitAmount(allocated[i])
		p := &model.Purchase{
			ID:              uuid.NewString(),
			UserID:          it.UserID,
			SeasonID:        seasonID,
			SeriesID:        it.SeriesID,
			CreatorID:       it.CreatorID,
			CheckoutKey:     model.BundleCheckoutKey(sess.ID, seasonID),
			PaymentIntentID: sess.PaymentIntentID,
			ChargeID:        chargeID,
			Amount:          allocated[i],
			PlatformFee:     fee,
			CreatorShare:    share,
			Status:          model.PurchaseStatusCompleted,
			CreatedAt:       now,
		}
		if u.insert(ctx, p) {
			written++
		}
	}
	if written > 0 {
		metrics.IncPurchase("bundle")
		metrics.AddPurchaseRevenue(sess.Currency, sess.AmountTotal, 0)
	}
	u.log.Info().
		Str("session_id", sess.ID).
		Int("seasons", len(it.SeasonIDs)).
		Int("written", written).
		Int64("session_total", sess.AmountTotal).
		Msg("bundle purchase recorded")
	return written
}

// insert writes one purchase row. A duplicate key is a concurrent trigger
// winning the race and counts as success-no-op; other failures are logged
// and dropped (provider webhook retries are the retry path).
func (u *reconcileUC) insert(ctx context.Context, p *model.Purchase) bool {
	if err := u.purchases.Save(ctx, p); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			u.log.Debug().Str("checkout_key", p.CheckoutKey).Msg("purchase already recorded by concurrent trigger")
			metrics.IncReconcileSkip("already_reconciled")
			return false
		}
		u.log.Error().Err(err).Str("checkout_key", p.CheckoutKey).Msg("purchase insert failed")
		return false
	}
	return true
}

// resolveChargeID is optional enrichment: a transfer later needs the source
// charge, but a failed lookup here must never block purchase recording.
func (u *reconcileUC) resolveChargeID(ctx context.Context, sess *adapter.CheckoutSession) *string {
	if sess.PaymentIntentID == "" {
		return nil
	}
	id, err := u.gateway.ResolveChargeID(ctx, sess.PaymentIntentID)
	if err != nil || id == "" {
		u.log.Warn().Err(err).Str("session_id", sess.ID).Msg("charge id unresolved, storing null")
		return nil
	}
	return &id
}
