// Package services maps real, demand-adjusted spending onto public-service
// quality indices and decides when sustained cuts end in strikes.
package services

import (
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// nominalSpend is the money currently flowing to a service.
func nominalSpend(f *state.Fiscal, src calib.SpendSource) float64 {
	if src.Line != "" {
		return f.Line(src.Line).Budget
	}
	b := f.Dept(src.Department)
	if src.Capital {
		return b.Capital
	}
	return b.Current
}

func baselineSpend(src calib.SpendSource) float64 {
	if src.Line != "" {
		return calib.LineItems[src.Line].BaselineBn
	}
	base := calib.DepartmentBaselines[src.Department]
	if src.Capital {
		return base[1]
	}
	return base[0]
}

// RealRatio compares deflated spending with a baseline that grows with
// demand, compounded over the months since game start.
func RealRatio(spec calib.ServiceSpec, f *state.Fiscal, priceLevel float64, months int) float64 {
	real := nominalSpend(f, spec.Source) / priceLevel
	need := baselineSpend(spec.Source) * math.Pow(1+spec.DemandGrowth/100, float64(months)/12)
	return calib.Ratio(real, need, "baseline spend for "+spec.ID)
}

// QualityDelta maps a real-spending ratio to a monthly change in the index
// before lags and diminishing returns.
func QualityDelta(ratio float64) float64 {
	switch {
	case ratio > calib.NeutralBandHigh:
		return calib.BonusScale * math.Log(1+(ratio-1)*calib.BonusSteepness)
	case ratio >= calib.NeutralBandLow:
		return 0
	}
	penalty := (calib.NeutralBandLow + 0.01 - ratio) * calib.PenaltyScale
	switch {
	case ratio < calib.PenaltyEscalate2:
		penalty *= calib.PenaltyEscalate2Mul
	case ratio < calib.PenaltyEscalate1:
		penalty *= calib.PenaltyEscalate1Mul
	}
	return -penalty
}

// Step applies the asymmetric lag and the high-quality dampener, and clamps.
func Step(current, delta float64) float64 {
	if delta > 0 {
		delta *= calib.PositiveLag
		switch {
		case current > calib.VeryHighQuality:
			delta *= calib.VeryHighQualityMul
		case current > calib.HighQuality:
			delta *= calib.HighQualityMul
		}
	} else {
		delta *= calib.NegativeLag
	}
	return calib.Clamp(current+delta, calib.QualityMin, calib.QualityMax)
}

// Update moves every headline and granular service index one month.
func Update(prev, next *state.Snapshot) {
	s := &next.Services
	if s.RealRatios == nil {
		s.RealRatios = state.Keyed[string, float64]{}
	}
	months := next.Meta.Turn
	price := next.Economic.PriceLevel
	rdBoost := calib.RDServiceBoost * (next.Fiscal.Line(calib.LineRDTaxCredit).Rate - calib.LineItems[calib.LineRDTaxCredit].BaselineRate)

	apply := func(spec calib.ServiceSpec) {
		ratio := RealRatio(spec, &next.Fiscal, price, months)
		s.RealRatios[spec.ID] = ratio
		current, ok := prev.Services.Index(spec.ID)
		if !ok {
			current = spec.Baseline
		}
		delta := QualityDelta(ratio)
		if spec.ID == "research_output" {
			delta += rdBoost
		}
		s.SetIndex(spec.ID, Step(current, delta))
	}
	for _, spec := range calib.HeadlineServices {
		apply(spec)
	}
	for _, spec := range calib.GranularServices {
		apply(spec)
	}
}
