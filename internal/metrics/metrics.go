package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"

	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultError   = "error"
	ResultDeleted = "deleted"
)

// Storefront records checkout and catalog activity. A nil *Storefront is a no-op.
type Storefront struct {
	checkouts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	compensations    *prometheus.CounterVec
	catalogCache     *prometheus.CounterVec
	sessions         prometheus.Gauge
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_checkout_duration_seconds",
		Help:    "Duration of the order header and line items writes.",
		Buckets: prometheus.DefBuckets,
	})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_compensations_total",
		Help: "Orphaned order headers removed after a failed line items write.",
	}, []string{"result"})
	catalogCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_total",
		Help: "Catalog cache lookups by result.",
	}, []string{"result"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_sessions",
		Help: "Open cart sessions.",
	})
	reg.MustRegister(checkouts, checkoutDuration, compensations, catalogCache, sessions)
	return &Storefront{
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		compensations:    compensations,
		catalogCache:     catalogCache,
		sessions:         sessions,
	}
}

func (s *Storefront) IncCheckout(outcome string) {
	if s == nil || s.checkouts == nil {
		return
	}
	s.checkouts.WithLabelValues(outcome).Inc()
}

func (s *Storefront) ObserveCheckout(duration time.Duration) {
	if s == nil || s.checkoutDuration == nil {
		return
	}
	s.checkoutDuration.Observe(duration.Seconds())
}

func (s *Storefront) IncCompensation(result string) {
	if s == nil || s.compensations == nil {
		return
	}
	s.compensations.WithLabelValues(result).Inc()
}

func (s *Storefront) IncCatalogCache(result string) {
	if s == nil || s.catalogCache == nil {
		return
	}
	s.catalogCache.WithLabelValues(result).Inc()
}

func (s *Storefront) SetSessions(count int) {
	if s == nil || s.sessions == nil {
		return
	}
	s.sessions.Set(float64(count))
}
