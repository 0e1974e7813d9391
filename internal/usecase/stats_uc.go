package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"seriespay/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	// Revenue returns gross purchase totals for the trailing week/month/year.
	Revenue(ctx context.Context) (week int64, month int64, year int64, err error)
	// PlatformFees returns the platform's retained share for a period.
	PlatformFees(ctx context.Context, period string) (int64, error)
	// PayoutTotal returns the all-time sum of completed transfers.
	PayoutTotal(ctx context.Context) (int64, error)
}

type statsUC struct {
	purchases repository.PurchaseRepository
	payouts   repository.PayoutRecordRepository

	log *zerolog.Logger
}

func NewStatsUseCase(purchases repository.PurchaseRepository, payouts repository.PayoutRecordRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{purchases: purchases, payouts: payouts, log: logger}
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	w, err := s.purchases.SumByPeriod(ctx, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.purchases.SumByPeriod(ctx, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := s.purchases.SumByPeriod(ctx, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return w, m, y, nil
}

func (s *statsUC) PlatformFees(ctx context.Context, period string) (int64, error) {
	return s.purchases.SumFeesByPeriod(ctx, period)
}

func (s *statsUC) PayoutTotal(ctx context.Context) (int64, error) {
	return s.payouts.SumCompleted(ctx)
}
