// Package metrics exposes turn timings and headline indicators to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talgya/chancellor/internal/state"
)

// Registry holds every chancellor metric on its own Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	TurnDuration prometheus.Histogram
	Turns        prometheus.Counter
	Events       *prometheus.CounterVec
	GameOvers    *prometheus.CounterVec
	Indicators   *prometheus.GaugeVec
	Turn         prometheus.Gauge
}

// New creates a registry with all chancellor metrics registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		TurnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chancellor_turn_duration_seconds",
				Help:    "Wall time to advance one turn",
				Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
		),

		Turns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chancellor_turns_total",
				Help: "Turns advanced",
			},
		),

		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chancellor_events_total",
				Help: "Events emitted by category",
			},
			[]string{"category"},
		),

		GameOvers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chancellor_game_overs_total",
				Help: "Games ended by reason",
			},
			[]string{"reason"},
		),

		Indicators: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chancellor_indicator",
				Help: "Headline indicators after the latest turn",
			},
			[]string{"name"},
		),

		Turn: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "chancellor_turn",
				Help: "Latest completed turn",
			},
		),
	}

	r.reg.MustRegister(r.TurnDuration, r.Turns, r.Events, r.GameOvers, r.Indicators, r.Turn)
	return r
}

// Observe records one completed turn. It has the engine.Observer signature.
func (r *Registry) Observe(prev, next *state.Snapshot, took time.Duration) {
	r.TurnDuration.Observe(took.Seconds())
	r.Turns.Inc()
	r.Turn.Set(float64(next.Meta.Turn))
	for _, e := range next.Events {
		r.Events.WithLabelValues(e.Category).Inc()
	}
	if next.Meta.GameOver && !prev.Meta.GameOver {
		r.GameOvers.WithLabelValues(next.Meta.GameOverReason).Inc()
	}
	r.SetIndicators(next)
}

// SetIndicators publishes the headline numbers of s.
func (r *Registry) SetIndicators(s *state.Snapshot) {
	r.Indicators.WithLabelValues("growth").Set(s.Economic.GrowthAnnual)
	r.Indicators.WithLabelValues("inflation").Set(s.Economic.Inflation)
	r.Indicators.WithLabelValues("unemployment").Set(s.Economic.Unemployment)
	r.Indicators.WithLabelValues("bank_rate").Set(s.Markets.BankRate)
	r.Indicators.WithLabelValues("gilt_10y").Set(s.Markets.Gilt10)
	r.Indicators.WithLabelValues("deficit_bn").Set(s.Fiscal.DeficitBn)
	r.Indicators.WithLabelValues("debt_pct_gdp").Set(s.Fiscal.DebtPctGDP)
	r.Indicators.WithLabelValues("approval").Set(s.Political.Approval)
	r.Indicators.WithLabelValues("pm_trust").Set(s.Political.PMTrust)
	r.Indicators.WithLabelValues("credibility").Set(s.Political.Credibility)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
