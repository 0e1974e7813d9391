package repository

import (
	"context"

	"seriespay/internal/domain/model"
)

type SeasonRepository interface {
	FindByID(ctx context.Context, id string) (*model.Season, error)
	// FindPrices returns list prices for the given season ids, in the same
	// order. A season without a price yields zero.
	FindPrices(ctx context.Context, ids []string) ([]int64, error)
	ListBySeries(ctx context.Context, seriesID string) ([]*model.Season, error)
}

type SeriesRepository interface {
	FindByID(ctx context.Context, id string) (*model.Series, error)
}

type CreatorRepository interface {
	FindByID(ctx context.Context, id string) (*model.Creator, error)
	FindByPayoutAccount(ctx context.Context, accountID string) (*model.Creator, error)
	SetPayoutAccount(ctx context.Context, creatorID, accountID string) error
	// MarkOnboardingComplete flips the onboarding flag only when it is still
	// false, returning whether this call claimed the transition. The claim
	// gates the one-time payout batch on account activation.
	MarkOnboardingComplete(ctx context.Context, creatorID string) (bool, error)
	// ListPayoutBacklog returns creators whose onboarding is complete but
	// who still have completed, untransferred purchases (sweeper input).
	ListPayoutBacklog(ctx context.Context, limit int) ([]*model.Creator, error)
}
