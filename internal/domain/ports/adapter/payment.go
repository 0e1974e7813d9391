package adapter

import "context"

// CheckoutSession is the provider-agnostic view of a retrieved checkout
// session: everything the reconciliation sink needs and nothing more.
type CheckoutSession struct {
	ID              string
	PaymentStatus   string // "paid" | "unpaid" | "no_payment_required"
	AmountTotal     int64  // minor units
	Currency        string
	PaymentIntentID string
	Metadata        map[string]string
}

// Paid reports whether the session's payment settled.
func (s *CheckoutSession) Paid() bool { return s.PaymentStatus == "paid" }

type CreateSessionInput struct {
	ProductName string
	Amount      int64 // already-computed total; the gateway performs no discounting
	Currency    string
	Metadata    map[string]string
	SuccessURL  string // must contain the provider's session-id placeholder
	CancelURL   string
}

type TransferInput struct {
	Amount      int64 // creator share, minor units
	Currency    string
	Destination string // payout account id
	// SourceCharge links the transfer back to the originating charge so the
	// provider draws from that charge's funds.
	SourceCharge  string
	TransferGroup string
}

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// CreateCheckoutSession creates a one-time-payment session with a single
	// line item and opaque metadata; returns the session id and redirect URL.
	CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (sessionID, url string, err error)
	// RetrieveSession fetches a session by id.
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	// ResolveChargeID looks up the charge behind a payment intent.
	// Best-effort: callers store nil on failure and continue.
	ResolveChargeID(ctx context.Context, paymentIntentID string) (string, error)
	// CreateTransfer moves a creator share to a payout account.
	CreateTransfer(ctx context.Context, in TransferInput) (transferID string, err error)
}

// ConnectGateway is the hex port for the provider's managed-payouts product.
type ConnectGateway interface {
	CreateAccount(ctx context.Context, email string) (accountID string, err error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (url string, err error)
	AccountStatus(ctx context.Context, accountID string) (chargesEnabled, payoutsEnabled, detailsSubmitted bool, err error)
}
