package observability

import (
	"context"

	"settler/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the settlement core.
type Metrics struct {
	BetsOpened       prometheus.Counter
	Settlements      *prometheus.CounterVec
	AmountSettled    *prometheus.CounterVec
	Withdrawals      prometheus.Counter
	AmountWithdrawn  prometheus.Counter
	ResolveAttempts  *prometheus.CounterVec
	ResolveDurations prometheus.Histogram
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		BetsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settler_bets_opened_total",
			Help: "Bets escrowed",
		}),

		Settlements: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settler_settlements_total",
			Help: "Settled bets by result",
		}, []string{"result"}),

		AmountSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settler_amount_settled_total",
			Help: "Settled amounts by result (base units)",
		}, []string{"result"}),

		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settler_withdrawals_total",
			Help: "Completed withdrawals",
		}),

		AmountWithdrawn: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settler_amount_withdrawn_total",
			Help: "Withdrawn amounts (base units)",
		}),

		ResolveAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settler_resolve_attempts_total",
			Help: "Resolve submissions per endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		ResolveDurations: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "settler_resolve_duration_seconds",
			Help:    "End-to-end resolve client latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// Subscribe wires the metrics to the settlement event stream.
func (m *Metrics) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBetOpened, func(ctx context.Context, e events.Event) {
		m.BetsOpened.Inc()
	})

	bus.Subscribe(events.EventTypeBetSettled, func(ctx context.Context, e events.Event) {
		settled, ok := e.(events.BetSettledEvent)
		if !ok {
			return
		}
		result := "loss"
		if settled.Won {
			result = "win"
		}
		m.Settlements.WithLabelValues(result).Inc()
		m.AmountSettled.WithLabelValues(result).Add(float64(settled.Amount))
	})

	bus.Subscribe(events.EventTypeWithdrawalCompleted, func(ctx context.Context, e events.Event) {
		withdrawal, ok := e.(events.WithdrawalCompletedEvent)
		if !ok {
			return
		}
		m.Withdrawals.Inc()
		m.AmountWithdrawn.Add(float64(withdrawal.Amount))
	})
}
