package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/adapter"
	"seriespay/internal/domain/ports/repository"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// CreateSingleSeasonCheckout builds a provider checkout session for one
	// season at its list price and returns the redirect URL.
	CreateSingleSeasonCheckout(ctx context.Context, userID, seasonID string) (string, error)
	// CreateBundleCheckout builds a session covering every priced,
	// not-yet-purchased season of a series at the configured discount.
	CreateBundleCheckout(ctx context.Context, userID, seriesID string, seasonIDs []string) (string, error)
}

type checkoutUC struct {
	seasons   repository.SeasonRepository
	series    repository.SeriesRepository
	purchases repository.PurchaseRepository
	gateway   adapter.PaymentGateway

	baseURL        string
	currency       string
	bundleDiscount int // percent
	log            *zerolog.Logger
}

func NewCheckoutUseCase(
	seasons repository.SeasonRepository,
	series repository.SeriesRepository,
	purchases repository.PurchaseRepository,
	gateway adapter.PaymentGateway,
	baseURL, currency string,
	bundleDiscountPercent int,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		seasons:        seasons,
		series:         series,
		purchases:      purchases,
		gateway:        gateway,
		baseURL:        baseURL,
		currency:       currency,
		bundleDiscount: bundleDiscountPercent,
		log:            logger,
	}
}

func (u *checkoutUC) CreateSingleSeasonCheckout(ctx context.Context, userID, seasonID string) (string, error) {
	if userID == "" || seasonID == "" {
		return "", domain.ErrInvalidArgument
	}
	season, err := u.seasons.FindByID(ctx, seasonID)
	if err != nil {
		return "", err
	}
	if !season.Priced() {
		return "", domain.ErrSeasonNotPriced
	}
	owned, err := u.purchases.HasPurchased(ctx, userID, seasonID)
	if err != nil {
		return "", err
	}
	if owned {
		return "", domain.ErrAlreadyPurchased
	}

	intent := model.SingleSeasonIntent{
		UserID:    userID,
		CreatorID: season.CreatorID,
		SeriesID:  season.SeriesID,
		SeasonID:  season.ID,
	}
	sessionID, url, err := u.gateway.CreateCheckoutSession(ctx, adapter.CreateSessionInput{
		ProductName: season.Title,
		Amount:      *season.Price,
		Currency:    u.currency,
		Metadata:    intent.EncodeMetadata(),
		SuccessURL:  u.successURL(),
		CancelURL:   u.cancelURL(season.SeriesID),
	})
	if err != nil {
		return "", err
	}
	u.log.Info().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Str("season_id", seasonID).
		Int64("amount", *season.Price).
		Msg("single season checkout created")
	return url, nil
}

func (u *checkoutUC) CreateBundleCheckout(ctx context.Context, userID, seriesID string, seasonIDs []string) (string, error) {
	if userID == "" || seriesID == "" || len(seasonIDs) == 0 {
		return "", domain.ErrInvalidArgument
	}
	ser, err := u.series.FindByID(ctx, seriesID)
	if err != nil {
		return "", err
	}

	// Keep only priced seasons the user does not own yet; the bundle is
	// rejected when nothing remains.
	var (
		ids    []string
		prices []int64
	)
	for _, sid := range seasonIDs {
		season, err := u.seasons.FindByID(ctx, sid)
		if err != nil {
			return "", err
		}
		if season.SeriesID != seriesID {
			return "", fmt.Errorf("%w: season %s is not part of series %s", domain.ErrInvalidArgument, sid, seriesID)
		}
		if !season.Priced() {
			continue
		}
		owned, err := u.purchases.HasPurchased(ctx, userID, sid)
		if err != nil {
			return "", err
		}
		if owned {
			continue
		}
		ids = append(ids, sid)
		prices = append(prices, *season.Price)
	}
	if len(ids) == 0 {
		return "", domain.ErrNothingToPurchase
	}

	total := model.CalculateBundlePrice(prices, u.bundleDiscount)
	intent := model.BundleIntent{
		UserID:    userID,
		CreatorID: ser.CreatorID,
		SeriesID:  seriesID,
		SeasonIDs: ids,
	}
	sessionID, url, err := u.gateway.CreateCheckoutSession(ctx, adapter.CreateSessionInput{
		ProductName: fmt.Sprintf("%s (%d season bundle)", ser.Title, len(ids)),
		Amount:      total,
		Currency:    u.currency,
		Metadata:    intent.EncodeMetadata(),
		SuccessURL:  u.successURL(),
		CancelURL:   u.cancelURL(seriesID),
	})
	if err != nil {
		return "", err
	}
	u.log.Info().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Str("series_id", seriesID).
		Int("seasons", len(ids)).
		Int64("amount", total).
		Msg("bundle checkout created")
	return url, nil
}

// successURL carries the provider's session-id placeholder so the success
// page can re-run reconciliation without a local pending-order row.
func (u *checkoutUC) successURL() string {
	return u.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
}

func (u *checkoutUC) cancelURL(seriesID string) string {
	return u.baseURL + "/series/" + seriesID
}
