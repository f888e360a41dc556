package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stockcart"

const (
	PurchaseOutcomePurchased  = "purchased"
	PurchaseOutcomeOutOfStock = "out_of_stock"
	PurchaseOutcomeNotFound   = "not_found"
	PurchaseOutcomeError      = "error"

	CommitOutcomeCompleted         = "completed"
	CommitOutcomeInventoryExceeded = "inventory_exceeded"
	CommitOutcomeError             = "error"
)

// Stock records purchase and cart commit activity. A nil *Stock is valid
// and records nothing.
type Stock struct {
	purchases      *prometheus.CounterVec
	commits        *prometheus.CounterVec
	commitDuration prometheus.Histogram
	unitsSold      prometheus.Counter
}

// New registers the stock metrics on the provided registerer.
func New(reg prometheus.Registerer) *Stock {
	if reg == nil {
		return &Stock{}
	}
	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Single unit purchases by outcome.",
	}, []string{"outcome"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_commits_total",
		Help:      "Cart completions by outcome.",
	}, []string{"outcome"})
	commitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_commit_duration_seconds",
		Help:      "Duration of cart completion transactions in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
	unitsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_units_decremented_total",
		Help:      "Inventory units removed by purchases and cart completions.",
	})
	reg.MustRegister(purchases, commits, commitDuration, unitsSold)
	return &Stock{
		purchases:      purchases,
		commits:        commits,
		commitDuration: commitDuration,
		unitsSold:      unitsSold,
	}
}

func (s *Stock) ObservePurchase(outcome string) {
	if s == nil || s.purchases == nil {
		return
	}
	s.purchases.WithLabelValues(outcome).Inc()
	if outcome == PurchaseOutcomePurchased {
		s.unitsSold.Inc()
	}
}

// ObserveCommit records one cart completion attempt. units is only counted
// for completed commits.
func (s *Stock) ObserveCommit(outcome string, units int64, d time.Duration) {
	if s == nil || s.commits == nil {
		return
	}
	s.commits.WithLabelValues(outcome).Inc()
	s.commitDuration.Observe(d.Seconds())
	if outcome == CommitOutcomeCompleted && units > 0 {
		s.unitsSold.Add(float64(units))
	}
}
