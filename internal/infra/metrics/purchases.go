package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		purchasesTotal,
		purchaseRevenueTotal,
		platformFeesTotal,
		reconcileSkipsTotal,
	)
}

var (
	purchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Reconciled checkout sessions by purchase type (single/bundle).",
		},
		[]string{"type"},
	)

	purchaseRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_revenue_total",
			Help: "Gross value of reconciled purchases in minor units, by currency.",
		},
		[]string{"currency"},
	)

	platformFeesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_fees_total",
			Help: "Platform share of reconciled purchases in minor units, by currency.",
		},
		[]string{"currency"},
	)

	reconcileSkipsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_skips_total",
			Help: "Reconciliation no-ops by reason (unpaid/bad_metadata/already_reconciled).",
		},
		[]string{"reason"},
	)
)

func IncPurchase(purchaseType string) {
	purchasesTotal.WithLabelValues(norm(purchaseType)).Inc()
}

func AddPurchaseRevenue(currency string, amount, platformFee int64) {
	purchaseRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
	if platformFee > 0 {
		platformFeesTotal.WithLabelValues(norm(currency)).Add(float64(platformFee))
	}
}

func IncReconcileSkip(reason string) {
	reconcileSkipsTotal.WithLabelValues(norm(reason)).Inc()
}
