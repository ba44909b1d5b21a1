package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records price resolution, strategy cache and checkout
// reconciliation activity.
type PricingMetrics struct {
	resolutions   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	lines         *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	reconcileTime prometheus.Histogram
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
// A nil registerer yields a recorder that drops every observation.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolutions_total",
		Help: "Offer price resolutions by price source.",
	}, []string{"source"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_strategy_cache_lookups_total",
		Help: "Pricing strategy cache lookups by result.",
	}, []string{"result"})
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_reconciled_lines_total",
		Help: "Reconciled order lines by status.",
	}, []string{"status"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_reconciliations_total",
		Help: "Reconciled order requests by fulfillment outcome.",
	}, []string{"outcome"})
	reconcileTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_reconcile_duration_seconds",
		Help:    "Duration of order reconciliation including offer lookups.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(resolutions, cacheLookups, lines, outcomes, reconcileTime)
	return &PricingMetrics{
		resolutions:   resolutions,
		cacheLookups:  cacheLookups,
		lines:         lines,
		outcomes:      outcomes,
		reconcileTime: reconcileTime,
	}
}

// ResolutionInvalid labels resolutions the engine rejected as invalid offer data.
const ResolutionInvalid = "invalid"

// IncResolution counts one price resolution by source, or ResolutionInvalid.
func (m *PricingMetrics) IncResolution(source string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncCacheHit counts strategies served from cache.
func (m *PricingMetrics) IncCacheHit(n int) {
	m.addCacheLookups("hit", n)
}

// IncCacheMiss counts strategies that had to be loaded from the database.
func (m *PricingMetrics) IncCacheMiss(n int) {
	m.addCacheLookups("miss", n)
}

func (m *PricingMetrics) addCacheLookups(result string, n int) {
	if m == nil || m.cacheLookups == nil || n <= 0 {
		return
	}
	m.cacheLookups.WithLabelValues(result).Add(float64(n))
}

// IncLine counts one reconciled line.
func (m *PricingMetrics) IncLine(status string) {
	if m == nil || m.lines == nil {
		return
	}
	m.lines.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncOutcome counts one reconciled request.
func (m *PricingMetrics) IncOutcome(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveReconcile records how long a reconciliation took.
func (m *PricingMetrics) ObserveReconcile(duration time.Duration) {
	if m == nil || m.reconcileTime == nil {
		return
	}
	m.reconcileTime.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
