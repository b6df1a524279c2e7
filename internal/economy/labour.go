package economy

import (
	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// NAIRUTarget is the equilibrium unemployment implied by current tax and
// welfare settings.
func NAIRUTarget(f *state.Fiscal) float64 {
	r := f.Rates
	employerNI, _ := calib.Instrument(calib.TaxNIEmployer)
	corp, _ := calib.Instrument(calib.TaxCorporation)
	taper := calib.LineItems[calib.LineUCTaper]
	childcare := calib.LineItems[calib.LineChildcare]

	return calib.BaselineNAIRU +
		calib.NAIRUEmployerNI*(r.NIEmployer-employerNI.BaselineRate) +
		calib.NAIRUCorpTax*(r.Corporation-corp.BaselineRate) +
		calib.NAIRULowEarnerEMTR*(r.IncomeBasic+r.NIEmployee-calib.BaselineLowEMTR) +
		calib.NAIRUTaper*(f.Line(calib.LineUCTaper).Rate-taper.BaselineRate) -
		calib.NAIRUChildcare*(f.Line(calib.LineChildcare).Rate-childcare.BaselineRate)
}

// UpdateEmployment applies Okun's law around trend and pulls unemployment
// toward a NAIRU that phases in policy shifts over several months.
func UpdateEmployment(prev, next *state.Snapshot) {
	e := &next.Economic
	e.NAIRU = calib.Clamp(
		calib.Approach(prev.Economic.NAIRU, NAIRUTarget(&next.Fiscal), calib.NAIRUPhaseIn),
		calib.NAIRUMin, calib.NAIRUMax)

	gap := e.GrowthAnnual - e.TrendGrowth
	du := calib.OkunCoefficient/12*gap + calib.NAIRUReversion*(e.NAIRU-prev.Economic.Unemployment)
	e.Unemployment = calib.Clamp(prev.Economic.Unemployment+du, calib.UnemploymentMin, calib.UnemploymentMax)

	participation := calib.BaselineParticipation - calib.ParticipationGapSlope*(e.Unemployment-e.NAIRU)
	e.Participation = calib.Clamp(calib.Approach(prev.Economic.Participation, participation, calib.ParticipationAdjust),
		calib.ParticipationMin, calib.ParticipationMax)
}

// UpdateWages smooths wage growth toward expectations plus productivity plus
// a labour-tightness premium.
func UpdateWages(prev, next *state.Snapshot) {
	e := &next.Economic
	target := calib.WageExpectationWeight*e.InflationExpectations +
		e.ProductivityGrowth +
		calib.WageTightness*(e.NAIRU-e.Unemployment)
	e.WageGrowth = calib.Clamp(calib.Approach(prev.Economic.WageGrowth, target, calib.WageAdjustSpeed),
		calib.WageMin, calib.WageMax)
}
