package repository

import (
	"context"

	"seriespay/internal/domain/model"
)

// -----------------------------
// Purchases
// -----------------------------

type PurchaseRepository interface {
	// Save inserts a purchase row. A checkout_key collision returns
	// domain.ErrAlreadyExists, which reconciliation treats as a no-op.
	Save(ctx context.Context, p *model.Purchase) error
	// ExistsByAnyCheckoutKey reports whether any of the given idempotency
	// keys is already recorded.
	ExistsByAnyCheckoutKey(ctx context.Context, keys []string) (bool, error)
	// ListUntransferredByCreator returns completed, not-yet-transferred
	// purchases that carry a charge id (a transfer needs a source charge).
	ListUntransferredByCreator(ctx context.Context, creatorID string) ([]*model.Purchase, error)
	// MarkTransferred flips the transferred flag and stores the transfer id,
	// but only if the row is still unclaimed. Returns false when another
	// batch run got there first.
	MarkTransferred(ctx context.Context, purchaseID, transferID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error)
	HasPurchased(ctx context.Context, userID, seasonID string) (bool, error)
	// SumByPeriod totals completed purchase amounts since the start of the
	// given date_trunc period ("week", "month", "year").
	SumByPeriod(ctx context.Context, period string) (int64, error)
	SumFeesByPeriod(ctx context.Context, period string) (int64, error)
}

// -----------------------------
// Payout records
// -----------------------------

type PayoutRecordRepository interface {
	Save(ctx context.Context, rec *model.PayoutRecord) error
	ListByCreator(ctx context.Context, creatorID string) ([]*model.PayoutRecord, error)
	SumCompleted(ctx context.Context) (int64, error)
}
