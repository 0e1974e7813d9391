package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOperationFailed   = errors.New("operation failed")
	ErrReadDatabaseRow   = errors.New("failed to read database row")
	ErrSeasonNotPriced   = errors.New("season has no price")
	ErrAlreadyPurchased  = errors.New("season already purchased")
	ErrNotPaid           = errors.New("checkout session is not paid")
	ErrMissingMetadata   = errors.New("checkout session metadata is incomplete")
	ErrNoPayoutAccount   = errors.New("creator has no payout account")
	ErrAccountNotReady   = errors.New("payout account is not chargeable yet")
	ErrBatchLockHeld     = errors.New("payout batch already running for creator")
	ErrNothingToPurchase = errors.New("no priced, unpurchased seasons in bundle")
)
