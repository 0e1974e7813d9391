package model

import "time"

// Season is the unit of sale: a purchasable group of episodes within a series.
type Season struct {
	ID           string
	SeriesID     string
	CreatorID    string
	Title        string
	Price        *int64 // minor units; nil = not purchasable
	EpisodeCount int
	CreatedAt    time.Time
}

// Priced reports whether the season can appear in a checkout.
func (s *Season) Priced() bool { return s.Price != nil }

type Series struct {
	ID        string
	CreatorID string
	Title     string
	CreatedAt time.Time
}

// Creator is the profile slice this engine cares about: where to send the
// 80% share and whether payout onboarding has completed.
type Creator struct {
	ID              string
	Email           string
	PayoutAccountID *string
	// OnboardingComplete guards the payout batch so that repeated
	// account-status pings after the first chargeable transition do not
	// re-trigger batching.
	OnboardingComplete bool
	CreatedAt          time.Time
}

// AccountStatus mirrors the payout-account flags reported by the provider.
type AccountStatus struct {
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}
