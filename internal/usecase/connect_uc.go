package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"seriespay/internal/domain"
	"seriespay/internal/domain/ports/adapter"
	"seriespay/internal/domain/ports/repository"
)

// Compile-time check
var _ ConnectUseCase = (*connectUC)(nil)

// ConnectUseCase manages creator payout-account onboarding and triggers the
// one-time payout batch when an account becomes chargeable.
type ConnectUseCase interface {
	// StartOnboarding creates the payout account if needed and returns the
	// provider onboarding URL.
	StartOnboarding(ctx context.Context, creatorID string) (string, error)
	// CompleteOnboarding is the return-URL trigger: verify the account is
	// chargeable, claim the onboarding flag, and run the backlog batch.
	CompleteOnboarding(ctx context.Context, creatorID string) (BatchResult, error)
	// HandleAccountUpdated is the webhook backstop for the same transition,
	// keyed by payout account id. Guarded by the persisted onboarding flag
	// so later status pings never re-batch.
	HandleAccountUpdated(ctx context.Context, accountID string) (BatchResult, error)
}

type connectUC struct {
	creators repository.CreatorRepository
	connect  adapter.ConnectGateway
	payouts  PayoutUseCase

	baseURL string
	log     *zerolog.Logger
}

func NewConnectUseCase(
	creators repository.CreatorRepository,
	connect adapter.ConnectGateway,
	payouts PayoutUseCase,
	baseURL string,
	logger *zerolog.Logger,
) *connectUC {
	return &connectUC{creators: creators, connect: connect, payouts: payouts, baseURL: baseURL, log: logger}
}

func (u *connectUC) StartOnboarding(ctx context.Context, creatorID string) (string, error) {
	creator, err := u.creators.FindByID(ctx, creatorID)
	if err != nil {
		return "", err
	}

	accountID := ""
	if creator.PayoutAccountID != nil {
		accountID = *creator.PayoutAccountID
	} else {
		accountID, err = u.connect.CreateAccount(ctx, creator.Email)
		if err != nil {
			return "", err
		}
		if err := u.creators.SetPayoutAccount(ctx, creatorID, accountID); err != nil {
			return "", err
		}
		u.log.Info().Str("creator_id", creatorID).Str("account_id", accountID).Msg("payout account created")
	}

	returnURL := u.baseURL + "/connect/return?creator_id=" + creatorID
	refreshURL := u.baseURL + "/connect/refresh?creator_id=" + creatorID
	return u.connect.CreateAccountLink(ctx, accountID, refreshURL, returnURL)
}

func (u *connectUC) CompleteOnboarding(ctx context.Context, creatorID string) (BatchResult, error) {
	creator, err := u.creators.FindByID(ctx, creatorID)
	if err != nil {
		return BatchResult{}, err
	}
	if creator.PayoutAccountID == nil {
		return BatchResult{}, domain.ErrNoPayoutAccount
	}
	return u.activateIfChargeable(ctx, creator.ID, *creator.PayoutAccountID)
}

func (u *connectUC) HandleAccountUpdated(ctx context.Context, accountID string) (BatchResult, error) {
	creator, err := u.creators.FindByPayoutAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Status ping for an account we never issued; nothing to do.
			u.log.Debug().Str("account_id", accountID).Msg("account update for unknown creator")
			return BatchResult{}, nil
		}
		return BatchResult{}, err
	}
	if creator.OnboardingComplete {
		// Already batched on a previous transition into chargeable.
		return BatchResult{}, nil
	}
	return u.activateIfChargeable(ctx, creator.ID, accountID)
}

func (u *connectUC) activateIfChargeable(ctx context.Context, creatorID, accountID string) (BatchResult, error) {
	chargesEnabled, payoutsEnabled, detailsSubmitted, err := u.connect.AccountStatus(ctx, accountID)
	if err != nil {
		return BatchResult{}, err
	}
	if !chargesEnabled {
		u.log.Info().
			Str("creator_id", creatorID).
			Bool("payouts_enabled", payoutsEnabled).
			Bool("details_submitted", detailsSubmitted).
			Msg("payout account not chargeable yet")
		return BatchResult{}, domain.ErrAccountNotReady
	}

	claimed, err := u.creators.MarkOnboardingComplete(ctx, creatorID)
	if err != nil {
		return BatchResult{}, err
	}
	if !claimed {
		// A concurrent trigger won the transition and ran (or is running)
		// the batch.
		u.log.Debug().Str("creator_id", creatorID).Msg("onboarding transition already claimed")
		return BatchResult{}, nil
	}

	u.log.Info().Str("creator_id", creatorID).Str("account_id", accountID).Msg("payout account chargeable, running backlog batch")
	return u.payouts.BatchTransferToCreator(ctx, creatorID, accountID)
}
