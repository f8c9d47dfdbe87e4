// Package metrics exposes per-turn Prometheus metrics for the bot.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"eino_grocery_bot/src/llm/fallback"
)

const namespace = "grocery_bot"

// Fallback outcome label values
const (
	OutcomeOK       = "ok"
	OutcomeDisabled = "disabled"
	OutcomeEmpty    = "empty"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Recorder implements core.Metrics on top of a Prometheus registry
type Recorder struct {
	turnsTotal            *prometheus.CounterVec
	unansweredTotal       prometheus.Counter
	fallbackRequestsTotal *prometheus.CounterVec
	turnDurationSeconds   prometheus.Histogram
}

// New registers the bot metrics with reg
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Total number of turns, by the state that produced the answer.",
			},
			[]string{"state"},
		),
		unansweredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unanswered_total",
				Help:      "Total number of questions no state could answer.",
			},
		),
		fallbackRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_requests_total",
				Help:      "Total number of fallback model calls, by outcome.",
			},
			[]string{"outcome"},
		),
		turnDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "turn_duration_seconds",
				Help:      "Histogram of turn durations.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (r *Recorder) ObserveTurn(resolvedBy string, duration time.Duration) {
	r.turnsTotal.WithLabelValues(resolvedBy).Inc()
	r.turnDurationSeconds.Observe(duration.Seconds())
}

func (r *Recorder) ObserveFallback(err error) {
	r.fallbackRequestsTotal.WithLabelValues(FallbackOutcome(err)).Inc()
}

func (r *Recorder) IncUnanswered() {
	r.unansweredTotal.Inc()
}

// FallbackOutcome maps a fallback error to its label value
func FallbackOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, fallback.ErrGatewayDisabled):
		return OutcomeDisabled
	case errors.Is(err, fallback.ErrEmptyCompletion):
		return OutcomeEmpty
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
