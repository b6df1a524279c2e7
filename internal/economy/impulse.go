package economy

import (
	"maps"
	"math"
	"slices"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// category maps a department's current budget to its demand-multiplier class.
func category(dept string) string {
	switch dept {
	case "nhs", "education", "defence", "welfare":
		return dept
	}
	return "other_current"
}

// SpendingDeltas returns each multiplier category's spending change against
// the game-start baseline, in £bn.
func SpendingDeltas(f *state.Fiscal) map[string]float64 {
	out := map[string]float64{}
	for _, id := range calib.Departments {
		base := calib.DepartmentBaselines[id]
		b := f.Dept(id)
		out[category(id)] += b.Current - base[0]
		out["capital"] += b.Capital - base[1]
	}
	for _, id := range slices.Sorted(maps.Keys(calib.LineItems)) {
		cal := calib.LineItems[id]
		if cal.Kind != calib.LineSpend {
			continue
		}
		out["other_current"] += f.Line(id).Budget - cal.BaselineBn
	}
	return out
}

// TaxDeltas returns each headline instrument's rate change against baseline.
func TaxDeltas(r state.TaxRates) map[string]float64 {
	out := map[string]float64{}
	for _, ti := range calib.TaxInstruments {
		v, _ := r.Get(ti.ID)
		out[ti.ID] = v - ti.BaselineRate
	}
	return out
}

// AtBaseline reports whether every tax and spending setting sits exactly on
// its game-start value and no emergency programme is running.
func AtBaseline(s *state.Snapshot) bool {
	if len(s.Emergency) > 0 {
		return false
	}
	for _, d := range SpendingDeltas(&s.Fiscal) {
		if math.Abs(d) > calib.DeltaEpsilon {
			return false
		}
	}
	for _, d := range TaxDeltas(s.Fiscal.Rates) {
		if math.Abs(d) > calib.DeltaEpsilon {
			return false
		}
	}
	for id, cal := range calib.LineItems {
		if cal.Kind != calib.LineSpend && math.Abs(s.Fiscal.Line(id).Rate-cal.BaselineRate) > calib.DeltaEpsilon {
			return false
		}
	}
	return true
}

// demandScale combines the slack widening, inflation dampener and
// overheating dampener applied to every fiscal multiplier.
func demandScale(prev *state.Snapshot) float64 {
	e := prev.Economic
	slack := 1.0
	if gap := e.Unemployment - calib.BaselineUnemployment; gap > 0 {
		slack = math.Min(1+calib.SlackMultiplierPerPoint*gap, calib.SlackMultiplierCap)
	}
	infl := 1.0
	if e.Inflation > calib.InflationDampenerStart {
		infl = math.Max(1-calib.InflationDampenerSlope*(e.Inflation-calib.InflationDampenerStart), calib.InflationDampenerFloor)
	}
	heat := 1.0
	if e.GrowthAnnual > e.TrendGrowth+calib.OverheatMargin {
		heat = calib.OverheatDampener
	}
	return slack * infl * heat
}

// PolicyImpulse is the annualized growth contribution of tax and spending
// changes against baseline, before supply-side effects.
func PolicyImpulse(prev *state.Snapshot, f *state.Fiscal, gdp float64) float64 {
	scale := demandScale(prev)
	impulse := 0.0
	spend := SpendingDeltas(f)
	for _, cat := range slices.Sorted(maps.Keys(spend)) {
		impulse += calib.PctOfGDP(spend[cat], gdp) * calib.SpendingMultipliers[cat]
	}
	taxes := TaxDeltas(f.Rates)
	for _, ti := range calib.TaxInstruments {
		impulse -= calib.PctOfGDP(ti.SensitivityBn*taxes[ti.ID], gdp) * calib.TaxDemandMultipliers[ti.ID]
	}
	return impulse * scale
}
