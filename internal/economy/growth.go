// Package economy holds the macro core: productivity, GDP growth,
// employment, inflation, wages and the nominal accounts.
package economy

import (
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/external"
	"github.com/talgya/chancellor/internal/state"
)

// UpdateGrowth sets annualized and monthly real growth. With every policy
// setting on baseline the result is held within PhantomGuardBand of trend.
func UpdateGrowth(prev, next *state.Snapshot, rng entropy.Source) {
	e := &next.Economic
	e.TrendGrowth = e.ProductivityGrowth + calib.LabourForceGrowth

	e.CorpTaxLagged = calib.Approach(prev.Economic.CorpTaxLagged, next.Fiscal.Rates.Corporation, calib.CorpTaxPhaseIn)
	corpBase, _ := calib.Instrument(calib.TaxCorporation)
	supply := -calib.CorpTaxSupplyEffect * (e.CorpTaxLagged - corpBase.BaselineRate)

	impulse := PolicyImpulse(prev, &next.Fiscal, prev.Economic.NominalGDP)
	monetary := -calib.MonetaryGrowthDrag * (prev.Markets.BankRate - calib.NeutralNominalRate)
	sterling := -calib.SterlingGrowthDrag * (prev.Markets.Sterling - calib.BaselineSterling)
	shock := external.GrowthEffect(next.External)

	target := e.TrendGrowth + impulse + supply + monetary + sterling + shock
	g := calib.Approach(prev.Economic.GrowthAnnual, target, calib.TrendReversion)
	g += rng.NormFloat64() * calib.GrowthNoiseSD

	noDelta := AtBaseline(next)
	if noDelta {
		g = calib.Clamp(g, e.TrendGrowth-calib.PhantomGuardBand, e.TrendGrowth+calib.PhantomGuardBand)
	}
	e.GrowthAnnual = calib.Clamp(g, calib.GrowthFloor, calib.GrowthCeiling)
	e.GrowthMonthly = calib.Monthly(e.GrowthAnnual)

	next.Diagnostics.PolicyImpulse = impulse
	next.Diagnostics.NoPolicyDelta = noDelta
	slog.Debug("growth", "turn", next.Meta.Turn, "annual", e.GrowthAnnual, "trend", e.TrendGrowth,
		"impulse", impulse, "monetary", monetary, "shock", shock)
}
