package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records resolution outcomes for the quote endpoint.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	eligible prometheus.Histogram
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of order resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_success",
		Help: "Successful order resolutions.",
	}, []string{"source"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_failure",
		Help: "Rejected order resolutions.",
	}, []string{"code"})
	eligible := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quote_eligible_discounts",
		Help:    "Eligible discounts reported per resolved order.",
		Buckets: []float64{0, 1, 2, 3, 5, 8},
	})
	reg.MustRegister(duration, success, failure, eligible)
	return &QuoteMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		eligible: eligible,
	}
}

// ObserveDuration records how long a resolution took.
func (q *QuoteMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess counts a completed resolution; source is "engine" or "cache".
func (q *QuoteMetrics) IncSuccess(source string) {
	if q == nil || q.success == nil {
		return
	}
	q.success.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncFailure counts a rejected resolution by error code.
func (q *QuoteMetrics) IncFailure(code string) {
	if q == nil || q.failure == nil {
		return
	}
	q.failure.WithLabelValues(normalizeLabel(code)).Inc()
}

// ObserveEligibleDiscounts records the eligible set size for a resolution.
func (q *QuoteMetrics) ObserveEligibleDiscounts(count int) {
	if q == nil || q.eligible == nil {
		return
	}
	q.eligible.Observe(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
