package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"seriespay/internal/domain"
	"seriespay/internal/infra/logging"
	"seriespay/internal/infra/payment"
)

type checkoutResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleSeasonCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	seasonID := chi.URLParam(r, "seasonID")
	ctx := logging.WithUserID(r.Context(), req.UserID)

	url, err := s.checkoutUC.CreateSingleSeasonCheckout(ctx, req.UserID, seasonID)
	if err != nil {
		s.checkoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResponse{URL: url})
}

func (s *Server) handleBundleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string   `json:"user_id"`
		SeriesID  string   `json:"series_id"`
		SeasonIDs []string `json:"season_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx := logging.WithUserID(r.Context(), req.UserID)

	url, err := s.checkoutUC.CreateBundleCheckout(ctx, req.UserID, req.SeriesID, req.SeasonIDs)
	if err != nil {
		s.checkoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResponse{URL: url})
}

func (s *Server) checkoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrSeasonNotPriced),
		errors.Is(err, domain.ErrAlreadyPurchased),
		errors.Is(err, domain.ErrNothingToPurchase):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("checkout failed")
		http.Error(w, "Checkout failed", http.StatusInternalServerError)
	}
}

// handleStripeWebhook is trigger A for reconciliation and the backstop for
// payout-account activation. Everything after a valid signature must answer
// 2xx, or Stripe keeps redelivering the event.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	event, err := payment.ParseWebhookEvent(body, r.Header.Get("Stripe-Signature"), s.webhookSecret)
	if err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("webhook signature rejected")
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	l := logging.With(r.Context(), s.log)
	switch event.Type {
	case payment.EventCheckoutSessionCompleted:
		if _, err := s.reconcileUC.ReconcileSession(r.Context(), event.SessionID); err != nil {
			// Session retrieval hiccup: Stripe's retry is our retry.
			l.Error().Err(err).Str("session_id", event.SessionID).Msg("webhook reconcile failed")
		}
	case payment.EventAccountUpdated:
		if _, err := s.connectUC.HandleAccountUpdated(r.Context(), event.AccountID); err != nil &&
			!errors.Is(err, domain.ErrAccountNotReady) {
			l.Error().Err(err).Str("account_id", event.AccountID).Msg("account update handling failed")
		}
	default:
		l.Debug().Str("type", event.Type).Msg("ignoring webhook event")
	}

	w.WriteHeader(http.StatusOK)
}

// handleCheckoutSuccess is trigger B: the browser redirect after payment.
// It re-runs reconciliation synchronously so the buyer never sees a paid
// checkout without an unlocked season, and it renders a success-like page
// even when reconciliation is delayed.
func (s *Server) handleCheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		renderResultPage(w, http.StatusBadRequest, false, "missing session_id")
		return
	}
	ctx := logging.WithSessionID(r.Context(), sessionID)

	if _, err := s.reconcileUC.ReconcileSession(ctx, sessionID); err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("success page reconcile failed")
		renderResultPage(w, http.StatusOK, true, "Payment received. Your seasons will unlock shortly.")
		return
	}
	renderResultPage(w, http.StatusOK, true, "Payment successful. Your seasons are unlocked.")
}

func (s *Server) handleConnectOnboard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CreatorID string `json:"creator_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx := logging.WithCreatorID(r.Context(), req.CreatorID)

	url, err := s.connectUC.StartOnboarding(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Msg("onboarding failed")
		http.Error(w, "Onboarding failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		URL string `json:"url"`
	}{URL: url})
}

func (s *Server) handleConnectReturn(w http.ResponseWriter, r *http.Request) {
	creatorID := r.URL.Query().Get("creator_id")
	if creatorID == "" {
		renderResultPage(w, http.StatusBadRequest, false, "missing creator_id")
		return
	}
	ctx := logging.WithCreatorID(r.Context(), creatorID)

	res, err := s.connectUC.CompleteOnboarding(ctx, creatorID)
	switch {
	case errors.Is(err, domain.ErrAccountNotReady):
		renderResultPage(w, http.StatusOK, false, "Your payout account needs more details before payouts can start.")
	case err != nil:
		logging.With(ctx, s.log).Error().Err(err).Msg("onboarding completion failed")
		renderResultPage(w, http.StatusOK, false, "Something went wrong finishing your payout setup. We'll retry automatically.")
	case res.TransferredCount > 0:
		renderResultPage(w, http.StatusOK, true, "Payout account active. Pending earnings are on their way.")
	default:
		renderResultPage(w, http.StatusOK, true, "Payout account active.")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	week, month, year, err := s.statsUC.Revenue(ctx)
	if err != nil {
		http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
		return
	}
	fees, err := s.statsUC.PlatformFees(ctx, "month")
	if err != nil {
		http.Error(w, "Failed to get fees", http.StatusInternalServerError)
		return
	}
	payouts, err := s.statsUC.PayoutTotal(ctx)
	if err != nil {
		http.Error(w, "Failed to get payouts", http.StatusInternalServerError)
		return
	}

	response := struct {
		Revenue struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		} `json:"revenue"`
		PlatformFeesMonth int64 `json:"platform_fees_month"`
		PayoutsTotal      int64 `json:"payouts_total"`
	}{
		PlatformFeesMonth: fees,
		PayoutsTotal:      payouts,
	}
	response.Revenue.Week = week
	response.Revenue.Month = month
	response.Revenue.Year = year

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
