package economy

import (
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/external"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/state"
)

// Expectations blends the 2% anchor with adaptive recent inflation, weighted
// by anchor health.
func Expectations(prev *state.Snapshot) float64 {
	adaptive := history.Mean(prev.History, calib.AdaptiveWindow-1, history.Inflation, prev.Economic.Inflation)
	w := prev.Economic.AnchorHealth / 100
	return w*calib.InflationTarget + (1-w)*adaptive
}

// UpdateInflation runs the hybrid Phillips curve and the anchoring sub-model.
// The random shock is skipped on the first simulated turn.
func UpdateInflation(prev, next *state.Snapshot, rng entropy.Source) {
	e := &next.Economic
	p := prev.Economic

	exp := Expectations(prev)
	phillips := calib.PhillipsSlope * (e.NAIRU - e.Unemployment)
	energy := calib.EnergyPassThrough * next.External.EnergyPressure
	fx := calib.SterlingPassThrough * (calib.BaselineSterling - prev.Markets.Sterling)
	vatBase, _ := calib.Instrument(calib.TaxVAT)
	vat := calib.VATPassThrough * (next.Fiscal.Rates.VAT - vatBase.BaselineRate)

	spiral := 0.0
	if excess := p.WageGrowth - p.ProductivityGrowth - p.Inflation; excess > calib.SpiralThreshold {
		spiral = calib.SpiralSlope * (excess - calib.SpiralThreshold)
	}

	infl := calib.InflationPersistence*p.Inflation + calib.InflationExpectWeight*exp +
		phillips + energy + fx + vat + spiral + external.InflationEffect(next.External)
	if prev.Meta.Turn > 0 {
		infl += rng.NormFloat64() * calib.InflationShockSD
	}
	e.Inflation = calib.Clamp(infl, calib.InflationMin, calib.InflationMax)
	e.InflationExpectations = exp

	e.AnchorHealth = calib.Clamp(p.AnchorHealth+anchorDelta(e.Inflation, prev.Markets.BankRate), calib.ScoreMin, calib.ScoreMax)
	if e.AnchorHealth < calib.AnchorWarning && p.AnchorHealth >= calib.AnchorWarning {
		slog.Warn("inflation expectations de-anchoring", "turn", next.Meta.Turn, "anchor", e.AnchorHealth)
		next.Emit("economy", "Inflation expectations slip their anchor", 2)
	}
}

func anchorDelta(inflation, bankRate float64) float64 {
	switch {
	case inflation > calib.AnchorErodeSevere:
		return -calib.AnchorErodeSevereRate
	case inflation > calib.AnchorErodeModerate:
		return -calib.AnchorErodeModRate
	case inflation > calib.AnchorErodeMild:
		return -calib.AnchorErodeMildRate
	case inflation < calib.AnchorRecoverBelow && bankRate-inflation > 0:
		return calib.AnchorRecoverRate
	}
	return 0
}

// UpdateAccounts rolls nominal GDP and the price level forward one month.
func UpdateAccounts(prev, next *state.Snapshot) {
	e := &next.Economic
	priceStep := 1 + calib.Monthly(e.Inflation)/100
	e.PriceLevel = prev.Economic.PriceLevel * priceStep
	e.NominalGDP = prev.Economic.NominalGDP * (1 + e.GrowthMonthly/100) * priceStep
}
