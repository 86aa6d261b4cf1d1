package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStorefrontMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefront(reg)

	m.IncCheckout(OutcomeSucceeded)
	m.IncCheckout(OutcomeFailed)
	m.IncCheckout(OutcomeFailed)
	m.IncCompensation(ResultDeleted)
	m.IncCatalogCache(ResultHit)
	m.IncCatalogCache(ResultMiss)
	m.ObserveCheckout(150 * time.Millisecond)
	m.SetSessions(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues(OutcomeSucceeded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkouts.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues(ResultDeleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogCache.WithLabelValues(ResultHit)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.checkoutDuration))
}

func TestNilStorefrontIsNoop(t *testing.T) {
	var m *Storefront
	assert.NotPanics(t, func() {
		m.IncCheckout(OutcomeSucceeded)
		m.IncCompensation(ResultError)
		m.IncCatalogCache(ResultMiss)
		m.ObserveCheckout(time.Second)
		m.SetSessions(1)
	})
	assert.NotPanics(t, func() {
		NewStorefront(nil).IncCheckout(OutcomeRejected)
	})
}
