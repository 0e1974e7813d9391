package model

import (
	"fmt"
	"strings"

	"seriespay/internal/domain"
)

// Checkout metadata keys. The provider session's metadata map is the only
// hand-off between checkout creation and reconciliation; there is no local
// pending-order row, so an intent must be fully reconstructable from it.
const (
	MetaPurchaseType = "purchase_type"
	MetaUserID       = "user_id"
	MetaCreatorID    = "creator_id"
	MetaSeriesID     = "series_id"
	MetaSeasonID     = "season_id"
	MetaSeasonIDs    = "season_ids" // comma-joined, bundle only

	purchaseTypeSingle = "single"
	purchaseTypeBundle = "bundle"
)

// CheckoutIntent is the sum type behind the purchase_type discriminant.
// Exhaustive switches over the two variants keep a future third purchase
// type a compile-time-checked change.
type CheckoutIntent interface {
	// EncodeMetadata renders the intent into provider session metadata.
	EncodeMetadata() map[string]string
	// CheckoutKeys returns the idempotency keys the intent produces for a
	// given session id, in season order.
	CheckoutKeys(sessionID string) []string

	isCheckoutIntent()
}

// SingleSeasonIntent covers one season bought at its list price.
type SingleSeasonIntent struct {
	UserID    string
	CreatorID string
	SeriesID  string
	SeasonID  string
}

func (SingleSeasonIntent) isCheckoutIntent() {}

func (i SingleSeasonIntent) EncodeMetadata() map[string]string {
	return map[string]string{
		MetaPurchaseType: purchaseTypeSingle,
		MetaUserID:       i.UserID,
		MetaCreatorID:    i.CreatorID,
		MetaSeriesID:     i.SeriesID,
		MetaSeasonID:     i.SeasonID,
	}
}

func (i SingleSeasonIntent) CheckoutKeys(sessionID string) []string {
	return []string{sessionID}
}

// BundleIntent covers multiple not-yet-purchased seasons of one series
// bought together at a discounted total.
type BundleIntent struct {
	UserID    string
	CreatorID string
	SeriesID  string
	SeasonIDs []string
}

func (BundleIntent) isCheckoutIntent() {}

func (i BundleIntent) EncodeMetadata() map[string]string {
	return map[string]string{
		MetaPurchaseType: purchaseTypeBundle,
		MetaUserID:       i.UserID,
		MetaCreatorID:    i.CreatorID,
		MetaSeriesID:     i.SeriesID,
		MetaSeasonIDs:    strings.Join(i.SeasonIDs, ","),
	}
}

func (i BundleIntent) CheckoutKeys(sessionID string) []string {
	keys := make([]string, len(i.SeasonIDs))
	for n, sid := range i.SeasonIDs {
		keys[n] = BundleCheckoutKey(sessionID, sid)
	}
	return keys
}

// BundleCheckoutKey builds the per-season idempotency key for bundle rows.
func BundleCheckoutKey(sessionID, seasonID string) string {
	return sessionID + "_" + seasonID
}

// DecodeCheckoutIntent reconstructs an intent from provider session
// metadata. Missing or unknown fields yield ErrMissingMetadata wrapped with
// the field name; callers treat that as log-and-skip, never as a reason to
// fail the provider-facing response.
func DecodeCheckoutIntent(meta map[string]string) (CheckoutIntent, error) {
	get := func(key string) (string, error) {
		v := strings.TrimSpace(meta[key])
		if v == "" {
			return "", fmt.Errorf("%w: %s", domain.ErrMissingMetadata, key)
		}
		return v, nil
	}

	userID, err := get(MetaUserID)
	if err != nil {
		return nil, err
	}
	creatorID, err := get(MetaCreatorID)
	if err != nil {
		return nil, err
	}
	seriesID, err := get(MetaSeriesID)
	if err != nil {
		return nil, err
	}

	switch meta[MetaPurchaseType] {
	case purchaseTypeSingle:
		seasonID, err := get(MetaSeasonID)
		if err != nil {
			return nil, err
		}
		return SingleSeasonIntent{UserID: userID, CreatorID: creatorID, SeriesID: seriesID, SeasonID: seasonID}, nil

	case purchaseTypeBundle:
		joined, err := get(MetaSeasonIDs)
		if err != nil {
			return nil, err
		}
		var ids []string
		for _, part := range strings.Split(joined, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingMetadata, MetaSeasonIDs)
		}
		return BundleIntent{UserID: userID, CreatorID: creatorID, SeriesID: seriesID, SeasonIDs: ids}, nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingMetadata, MetaPurchaseType)
	}
}
