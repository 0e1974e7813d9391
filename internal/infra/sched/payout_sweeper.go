package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"seriespay/internal/domain/ports/repository"
	"seriespay/internal/usecase"
)

// PayoutSweeper periodically re-runs payout batches for creators who still
// have completed-but-untransferred purchases after onboarding. It covers
// transfers that failed in an earlier batch and purchases that landed while
// no activation trigger fired.
type PayoutSweeper struct {
	payouts  usecase.PayoutUseCase
	creators repository.CreatorRepository
	interval time.Duration
	log      *zerolog.Logger
}

func NewPayoutSweeper(payouts usecase.PayoutUseCase, creators repository.CreatorRepository, interval time.Duration, logger *zerolog.Logger) *PayoutSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PayoutSweeper{payouts: payouts, creators: creators, interval: interval, log: logger}
}

func (w *PayoutSweeper) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PayoutSweeper) tick(ctx context.Context) {
	backlog, err := w.creators.ListPayoutBacklog(ctx, 100)
	if err != nil {
		w.log.Error().Err(err).Msg("payout-sweeper: backlog query failed")
		return
	}
	for _, c := range backlog {
		if c.PayoutAccountID == nil {
			continue
		}
		res, err := w.payouts.BatchTransferToCreator(ctx, c.ID, *c.PayoutAccountID)
		if err != nil {
			w.log.Error().Err(err).Str("creator_id", c.ID).Msg("payout-sweeper: batch failed")
			continue
		}
		if res.TransferredCount > 0 || res.FailedCount > 0 {
			w.log.Info().
				Str("creator_id", c.ID).
				Int("transferred", res.TransferredCount).
				Int("failed", res.FailedCount).
				Msg("payout-sweeper: batch run")
		}
	}
}
