// Package metrics exposes Prometheus metrics for provider routing.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "llmrouter"

// Attempt outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeRetriable    = "retriable_error"
	OutcomeNonRetriable = "error"
	OutcomeCanceled     = "canceled"
)

// LatencyBuckets covers fast replies up to the slowest long-form generations (seconds).
var LatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 4, 6, 8, 10, 15, 30, 60, 120}

var (
	// AttemptsTotal counts provider attempts by outcome.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Provider attempts by outcome",
		},
		[]string{"provider", "model", "outcome"},
	)

	// AttemptLatency tracks the latency of individual provider calls.
	AttemptLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_latency_seconds",
			Help:      "Latency of individual provider calls in seconds",
			Buckets:   LatencyBuckets,
		},
		[]string{"provider", "model"},
	)

	// FallbacksTotal counts requests answered by a non-primary candidate.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Requests served by a fallback candidate",
		},
		[]string{"strategy", "provider"},
	)

	// ExhaustedTotal counts requests where every candidate failed.
	ExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exhausted_total",
			Help:      "Requests where every candidate failed",
		},
		[]string{"strategy", "code"},
	)

	// ProbeUp is 1 when the last key probe of a provider succeeded.
	ProbeUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_probe_up",
			Help:      "Whether the last key probe of a provider succeeded",
		},
		[]string{"provider"},
	)

	// HTTPRequests counts API requests by route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code",
		},
		[]string{"route", "status_code"},
	)
)

// RecordAttempt records one provider call.
func RecordAttempt(provider, model, outcome string, latency time.Duration) {
	model = sanitizeModelLabel(model)
	AttemptsTotal.WithLabelValues(provider, model, outcome).Inc()
	AttemptLatency.WithLabelValues(provider, model).Observe(latency.Seconds())
}

// RecordFallback records a success on a candidate other than the first.
func RecordFallback(strategy, provider string) {
	FallbacksTotal.WithLabelValues(strategy, provider).Inc()
}

// RecordExhausted records a request that ran out of candidates.
func RecordExhausted(strategy, code string) {
	ExhaustedTotal.WithLabelValues(strategy, code).Inc()
}

// RecordProbe records the outcome of a periodic key probe.
func RecordProbe(provider string, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	ProbeUp.WithLabelValues(provider).Set(v)
}

// RecordHTTP records one API response.
func RecordHTTP(route string, statusCode int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

const maxModelLabelLen = 64

func sanitizeModelLabel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "unknown"
	}

	var b strings.Builder
	for _, r := range model {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' || r == ':' || r == '/' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		if b.Len() >= maxModelLabelLen {
			break
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "unknown"
	}
	return out
}
