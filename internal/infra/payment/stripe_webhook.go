package payment

import (
	"encoding/json"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// WebhookEvent is the slice of a verified Stripe event the web layer acts on.
type WebhookEvent struct {
	Type string
	// SessionID is set for checkout.session.* events.
	SessionID string
	// AccountID is set for account.updated events.
	AccountID string
}

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventAccountUpdated           = "account.updated"
)

// ParseWebhookEvent verifies the Stripe-Signature header against the webhook
// secret and extracts the object ids this service cares about. Signature
// failure is the one webhook error that must NOT be acked with a 2xx.
func ParseWebhookEvent(payload []byte, sigHeader, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return nil, err
	}

	out := &WebhookEvent{Type: string(event.Type)}
	switch out.Type {
	case EventCheckoutSessionCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, err
		}
		out.SessionID = s.ID
	case EventAccountUpdated:
		var a stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &a); err != nil {
			return nil, err
		}
		out.AccountID = a.ID
	}
	return out, nil
}
