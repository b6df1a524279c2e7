package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

func run(s *state.Snapshot, months int) *state.Snapshot {
	for i := 0; i < months; i++ {
		next := s.Clone()
		next.Meta.Turn++
		Update(s, next)
		s = next
	}
	return s
}

func TestBaselineRatesMatchCalibration(t *testing.T) {
	s := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	etr := EffectiveTaxRates(s.Fiscal.Rates)
	assert.Equal(t, calib.DecileBaseTaxRate, etr)
}

func TestVATIsRegressive(t *testing.T) {
	r := state.NewBaseline(state.DifficultyStandard, "stability_rule").Fiscal.Rates
	r.VAT = 25
	etr := EffectiveTaxRates(r)
	assert.Greater(t, etr[0]-calib.DecileBaseTaxRate[0], etr[9]-calib.DecileBaseTaxRate[9])
}

func TestAdditionalRateHitsTopDecile(t *testing.T) {
	r := state.NewBaseline(state.DifficultyStandard, "stability_rule").Fiscal.Rates
	r.IncomeAdditional = 50
	etr := EffectiveTaxRates(r)
	assert.Equal(t, calib.DecileBaseTaxRate[0], etr[0])
	assert.Greater(t, etr[9], calib.DecileBaseTaxRate[9])
}

func TestBasicRateRiseRaisesPoverty(t *testing.T) {
	base := run(state.NewBaseline(state.DifficultyStandard, "stability_rule"), 24)

	s := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	s.Fiscal.Rates.IncomeBasic = 25
	s.Fiscal.Rates.VAT = 23
	taxed := run(s, 24)

	assert.Greater(t, taxed.Distribution.PovertyRate, base.Distribution.PovertyRate)
	assert.Less(t, taxed.Distribution.Deciles[2].RealIncomeChange, base.Distribution.Deciles[2].RealIncomeChange)
}

func TestMeasuresStayBounded(t *testing.T) {
	s := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	s.Economic.Unemployment = 12
	s.Economic.Inflation = 20
	s.Fiscal.Rates.VAT = 40
	s = run(s, 240)
	d := s.Distribution
	assert.GreaterOrEqual(t, d.Gini, calib.GiniMin)
	assert.LessOrEqual(t, d.Gini, calib.GiniMax)
	assert.GreaterOrEqual(t, d.PovertyRate, calib.PovertyMin)
	assert.LessOrEqual(t, d.PovertyRate, calib.PovertyMax)
	assert.LessOrEqual(t, d.ChildPovertyRate, calib.ChildPovertyMax)
}
