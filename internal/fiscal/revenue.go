// Package fiscal computes public finances: receipts by instrument, managed
// expenditure, debt interest from the maturity ledger, and the single
// deficit/debt roll-forward.
package fiscal

import (
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// Avoidance is the behavioural revenue loss once rate exceeds threshold. It
// grows exponentially with each point above the threshold.
func Avoidance(baseBn, rate, threshold, scale, curvature float64) float64 {
	if threshold <= 0 || rate <= threshold {
		return 0
	}
	return baseBn * scale * (math.Exp(curvature*(rate-threshold)) - 1)
}

// InstrumentRevenue is the annual yield of one headline tax at rate.
func InstrumentRevenue(ti calib.TaxInstrument, rate, nominalGDP float64) float64 {
	growth := math.Pow(calib.Ratio(nominalGDP, calib.BaselineNominalGDP, "baseline nominal GDP"), ti.GDPElasticity)
	static := (ti.BaselineRevenueBn + ti.SensitivityBn*(rate-ti.BaselineRate)) * growth
	return static - Avoidance(ti.BaselineRevenueBn, rate, ti.AvoidanceThreshold, ti.AvoidanceScale, ti.AvoidanceCurvature)*growth
}

// Revenue fills receipts by instrument and the annual total.
func Revenue(prev, next *state.Snapshot) {
	f := &next.Fiscal
	gdp := next.Economic.NominalGDP
	scale := calib.Ratio(gdp, calib.BaselineNominalGDP, "baseline nominal GDP")

	byInstrument := state.Keyed[string, float64]{}
	total := 0.0
	for _, ti := range calib.TaxInstruments {
		rate, _ := f.Rates.Get(ti.ID)
		r := InstrumentRevenue(ti, rate, gdp)
		byInstrument[ti.ID] = r
		total += r
	}
	for _, id := range sortedLines(calib.LineTax) {
		cal := calib.LineItems[id]
		rate := f.Line(id).Rate
		r := (cal.BaselineBn + cal.SensitivityBn*(rate-cal.BaselineRate)) * scale
		r -= Avoidance(math.Abs(cal.BaselineBn), rate, cal.AvoidanceThreshold, cal.AvoidanceScale, cal.AvoidanceCurvature) * scale
		byInstrument[id] = r
		total += r
	}
	other := calib.OtherReceiptsBn * scale
	byInstrument["other"] = other
	total += other

	f.RevenueByInstrument = byInstrument
	f.RevenueBn = total
}
