package model

import "time"

type PurchaseStatus string

const (
	PurchaseStatusCompleted PurchaseStatus = "completed" // money captured, season unlocked
	PurchaseStatusRefunded  PurchaseStatus = "refunded"  // refunded by a separate flow
)

// Purchase records one season's monetary unlock by one user. Rows are
// written exactly once by the reconciliation sink and only ever mutated to
// flip the transfer fields (payout batcher) or the status (refund flow).
type Purchase struct {
	ID       string // UUID
	UserID   string
	SeasonID string
	SeriesID string
	// CreatorID is denormalized here so payout batches never need a catalog join.
	CreatorID string
	// CheckoutKey is the idempotency key: the provider session id for single
	// purchases, "<session id>_<season id>" for each row of a bundle. Unique
	// in the store.
	CheckoutKey     string
	PaymentIntentID string
	ChargeID        *string // best-effort enrichment; nil when unresolved
	Amount          int64   // minor units
	PlatformFee     int64   // round(Amount * 20%)
	CreatorShare    int64   // Amount - PlatformFee
	Status          PurchaseStatus
	Transferred     bool
	TransferID      *string
	CreatedAt       time.Time
}

type PayoutStatus string

const (
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// PayoutRecord is the audit trail entry for one attempted transfer of one
// purchase's creator share. Insert-only; failed attempts accumulate as new
// rows across batch retries.
type PayoutRecord struct {
	ID         string // ULID, sortable
	CreatorID  string
	PurchaseID string
	// TransferID is the provider transfer id, or "failed_<purchase id>" when
	// the transfer attempt failed.
	TransferID string
	Amount     int64
	Status     PayoutStatus
	CreatedAt  time.Time
}

// FailedTransferID builds the synthetic transfer id recorded for a failed
// payout attempt.
func FailedTransferID(purchaseID string) string {
	return "failed_" + purchaseID
}
