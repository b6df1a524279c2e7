package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/engine"
	"github.com/talgya/chancellor/internal/state"
)

func TestObserveRecordsTurns(t *testing.T) {
	r := New()
	s, err := engine.NewGame(engine.GameConfig{Seed: 3})
	require.NoError(t, err)

	e := engine.New(engine.WithObserver(r.Observe))
	for i := 0; i < 3; i++ {
		s, err = e.AdvanceTurn(s, engine.TurnSource(s))
		require.NoError(t, err)
	}

	assert.InDelta(t, 3.0, testutil.ToFloat64(r.Turns), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(r.Turn), 1e-9)
	assert.InDelta(t, s.Markets.Gilt10, testutil.ToFloat64(r.Indicators.WithLabelValues("gilt_10y")), 1e-9)
	assert.InDelta(t, s.Fiscal.DebtPctGDP, testutil.ToFloat64(r.Indicators.WithLabelValues("debt_pct_gdp")), 1e-9)
}

func TestGameOverCountedOnce(t *testing.T) {
	r := New()
	prev := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	next := prev.Clone()
	next.Meta.GameOver = true
	next.Meta.GameOverReason = "debt spiral"

	r.Observe(prev, next, time.Millisecond)
	r.Observe(next, next.Clone(), time.Millisecond)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.GameOvers.WithLabelValues("debt spiral")), 1e-9)
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	s := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	s.Emit("markets", "Gilts sell off", 2)
	r.Observe(s, s, 2*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "chancellor_turn_duration_seconds_bucket")
	assert.Contains(t, string(body), `chancellor_events_total{category="markets"} 1`)
}
