package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"seriespay/internal/usecase"
)

// Server wires the checkout API, the Stripe webhook, the success-page
// fallback and the admin stats API onto one router.
type Server struct {
	checkoutUC  usecase.CheckoutUseCase
	reconcileUC usecase.ReconcileUseCase
	connectUC   usecase.ConnectUseCase
	statsUC     usecase.StatsUseCase

	webhookSecret string
	auth          *AuthManager
	log           *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	reconcileUC usecase.ReconcileUseCase,
	connectUC usecase.ConnectUseCase,
	statsUC usecase.StatsUseCase,
	webhookSecret string,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC:    checkoutUC,
		reconcileUC:   reconcileUC,
		connectUC:     connectUC,
		statsUC:       statsUC,
		webhookSecret: webhookSecret,
		auth:          auth,
		log:           logger,
	}
}

// Router builds the chi router with the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Provider-facing: webhook gets no request timeout beyond the server's.
	r.Post("/webhook/stripe", s.handleStripeWebhook)

	// Browser-facing redirect targets.
	r.Group(func(r chi.Router) {
		r.Use(Timeout(15 * time.Second))
		r.Get("/checkout/success", s.handleCheckoutSuccess)
		r.Get("/connect/return", s.handleConnectReturn)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(10 * time.Second))
		r.Post("/checkout/season/{seasonID}", s.handleSeasonCheckout)
		r.Post("/checkout/bundle", s.handleBundleCheckout)
		r.Post("/connect/onboard", s.handleConnectOnboard)
		r.With(s.auth.RequireAdmin).Get("/stats", s.handleStats)
	})

	return r
}
