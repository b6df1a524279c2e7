// Package distribution tracks who bears the tax burden and how real incomes
// move across the ten household income deciles.
package distribution

import (
	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// EffectiveTaxRates maps headline rates onto each decile's average tax rate.
func EffectiveTaxRates(r state.TaxRates) [10]float64 {
	var out [10]float64
	for i := range out {
		out[i] = calib.DecileBaseTaxRate[i] +
			calib.DecileBasicExposure[i]*(r.IncomeBasic-20) +
			calib.DecileHigherExp[i]*(r.IncomeHigher-40) +
			calib.DecileAdditionalExp[i]*(r.IncomeAdditional-45) +
			calib.DecileWageShare[i]*calib.DecileNIWeight*(r.NIEmployee-8) +
			calib.DecileVATShare[i]*calib.DecileVATWeight*(r.VAT-20)
	}
	return out
}

// welfareRealChange is the % change of the real welfare budget against game start.
func welfareRealChange(f *state.Fiscal, priceLevel float64) float64 {
	base := calib.DepartmentBaselines["welfare"][0]
	cur := f.Dept("welfare").Current
	return (calib.Ratio(cur+f.AMEUpratingBn, base*priceLevel, "welfare baseline") - 1) * 100
}

func mean(xs []state.Decile) float64 {
	sum := 0.0
	for _, d := range xs {
		sum += d.RealIncomeChange
	}
	return sum / float64(len(xs))
}

// Update refreshes decile burdens and real incomes, then the inequality and
// poverty headline measures.
func Update(prev, next *state.Snapshot) {
	d := &next.Distribution
	e := &next.Economic
	etr := EffectiveTaxRates(next.Fiscal.Rates)
	realWage := e.WageGrowth - e.Inflation
	welfare := welfareRealChange(&next.Fiscal, e.PriceLevel)
	taper := calib.LineItems[calib.LineUCTaper].BaselineRate - next.Fiscal.Line(calib.LineUCTaper).Rate

	for i := range d.Deciles {
		target := calib.DecileWageShare[i]*realWage +
			calib.DecileBenefitShare[i]*(welfare+calib.DecileTaperWeight*taper) -
			calib.DecileTaxIncomeWeight*(etr[i]-calib.DecileBaseTaxRate[i])
		d.Deciles[i].EffectiveTaxRate = etr[i]
		d.Deciles[i].RealIncomeChange = calib.Approach(prev.Distribution.Deciles[i].RealIncomeChange, target, calib.DistributionAdjust)
	}

	bottom := mean(d.Deciles[:3])
	top := mean(d.Deciles[7:])
	unemployment := e.Unemployment - calib.BaselineUnemployment

	gini := calib.BaselineGini + calib.GiniIncomeGap*(top-bottom) + calib.GiniUnemployment*unemployment
	d.Gini = calib.Clamp(calib.Approach(prev.Distribution.Gini, gini, calib.DistributionAdjust), calib.GiniMin, calib.GiniMax)

	poverty := calib.BaselinePoverty + calib.PovertyUnemployment*unemployment - calib.PovertyBottomIncome*bottom
	d.PovertyRate = calib.Clamp(calib.Approach(prev.Distribution.PovertyRate, poverty, calib.DistributionAdjust), calib.PovertyMin, calib.PovertyMax)

	childcare := next.Fiscal.Line(calib.LineChildcare).Rate - calib.LineItems[calib.LineChildcare].BaselineRate
	child := d.PovertyRate*calib.BaselineChildPoverty/calib.BaselinePoverty - calib.ChildPovertyChildcare*childcare
	d.ChildPovertyRate = calib.Clamp(child, calib.PovertyMin, calib.ChildPovertyMax)
}
