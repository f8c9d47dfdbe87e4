package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eino_grocery_bot/src/llm/fallback"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveTurn("FAQ", 20*time.Millisecond)
	r.ObserveTurn("FAQ", 10*time.Millisecond)
	r.ObserveTurn("CATALOG", time.Millisecond)
	r.ObserveFallback(nil)
	r.ObserveFallback(fallback.ErrGatewayDisabled)
	r.IncUnanswered()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.turnsTotal.WithLabelValues("FAQ")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.turnsTotal.WithLabelValues("CATALOG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbackRequestsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbackRequestsTotal.WithLabelValues(OutcomeDisabled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.unansweredTotal))

	count, err := testutil.GatherAndCount(reg, "grocery_bot_turn_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFallbackOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fallback.ErrGatewayDisabled, OutcomeDisabled},
		{fmt.Errorf("wrapped: %w", fallback.ErrEmptyCompletion), OutcomeEmpty},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), OutcomeTimeout},
		{errors.New("429 too many requests"), OutcomeError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FallbackOutcome(tc.err))
	}
}
