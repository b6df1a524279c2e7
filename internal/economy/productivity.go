package economy

import (
	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// UpdateProductivity moves labour productivity growth toward a target set by
// public investment, service quality, R&D incentives and trade friction.
func UpdateProductivity(prev, next *state.Snapshot) {
	e := &next.Economic
	gdp := prev.Economic.NominalGDP

	capital := SpendingDeltas(&next.Fiscal)["capital"]
	services := (prev.Services.NHS + prev.Services.Education + prev.Services.Infrastructure) / 3
	baseServices := 0.0
	for _, spec := range calib.HeadlineServices {
		baseServices += spec.Baseline
	}
	baseServices /= float64(len(calib.HeadlineServices))
	rd := next.Fiscal.Line(calib.LineRDTaxCredit).Rate - calib.LineItems[calib.LineRDTaxCredit].BaselineRate

	target := calib.BaselineProductivity +
		calib.ProductivityCapitalEffect*calib.PctOfGDP(capital, gdp) +
		calib.ProductivityServiceEffect*(services-baseServices) +
		calib.ProductivityRDEffect*rd -
		calib.ProductivityFriction*(next.External.TradeFriction-calib.BaselineTradeFriction)

	e.ProductivityGrowth = calib.Clamp(
		calib.Approach(prev.Economic.ProductivityGrowth, target, calib.ProductivityAdjust),
		calib.ProductivityMin, calib.ProductivityMax)
	e.ProductivityLevel = prev.Economic.ProductivityLevel * (1 + calib.Monthly(e.ProductivityGrowth)/100)
}
