package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		payoutTransfersTotal,
		payoutAmountTotal,
	)
}

var (
	payoutTransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payout_transfers_total",
			Help: "Creator payout transfer attempts by outcome (completed/failed).",
		},
		[]string{"status"},
	)

	payoutAmountTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payout_amount_total",
			Help: "Successfully transferred creator shares in minor units, by currency.",
		},
		[]string{"currency"},
	)
)

func IncPayoutTransfer(status string) {
	payoutTransfersTotal.WithLabelValues(norm(status)).Inc()
}

func AddPayoutAmount(currency string, amount int64) {
	payoutAmountTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}
