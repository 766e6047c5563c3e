package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics.
type Metrics struct {
	AccountsCreated prometheus.Counter

	TransfersCreated prometheus.Counter
	TransferErrors   *prometheus.CounterVec

	DepositsProcessed   prometheus.Counter
	DepositAmount       prometheus.Histogram
	SettlementsRecorded prometheus.Counter

	WebhookEventsDuplicate prometheus.Counter
}

// New creates and registers the ledger metrics on reg. Tests pass a
// fresh registry to avoid duplicate registration across cases.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfers_created_total",
			Help: "Total number of transfers applied",
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfer_errors_total",
				Help: "Total number of rejected transfers by reason",
			},
			[]string{"reason"},
		),
		DepositsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_deposits_processed_total",
			Help: "Total number of deposits applied",
		}),
		DepositAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_deposit_amount_cents",
			Help:    "Deposit amounts in cents",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		SettlementsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_settlements_recorded_total",
			Help: "Total number of clearing settlements recorded",
		}),
		WebhookEventsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_webhook_events_duplicate_total",
			Help: "Total number of duplicate payment events skipped",
		}),
	}
}
