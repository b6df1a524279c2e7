package fiscal

import (
	"math"
	"slices"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

func sortedLines(kind calib.LineKind) []string {
	var ids []string
	for id, li := range calib.LineItems {
		if li.Kind == kind {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Spending aggregates departmental budgets and the demand-led add-ons. Debt
// interest and the totals are left to DebtInterest and RollForward.
func Spending(prev, next *state.Snapshot) {
	f := &next.Fiscal
	current, capital := 0.0, 0.0
	for _, id := range calib.Departments {
		b := f.Dept(id)
		current += b.Current
		capital += b.Capital
	}
	f.DepartmentalBn = current + capital
	f.CapitalSpendingBn = capital

	detailed := 0.0
	for _, id := range sortedLines(calib.LineSpend) {
		detailed += f.Line(id).Budget
	}
	for _, id := range sortedLines(calib.LineParameter) {
		cal := calib.LineItems[id]
		detailed += cal.SensitivityBn * (f.Line(id).Rate - cal.BaselineRate)
	}
	f.DetailedSpendBn = detailed

	f.StabilizersBn = calib.StabilizerPerPoint * math.Max(0, next.Economic.Unemployment-calib.BaselineUnemployment)

	comparable := 0.0
	for _, id := range calib.BarnettComparable {
		base := calib.DepartmentBaselines[id]
		comparable += f.Dept(id).Total() - (base[0] + base[1])
	}
	f.BarnettBn = calib.BarnettShare * comparable

	welfare := f.Dept("welfare").Current
	f.AMEUpratingBn = welfare * (next.Economic.PriceLevel - 1) * calib.AMEUprating

	f.FPCAddOnBn = 0
	if next.Financial.MortgageSupportActive {
		f.FPCAddOnBn = calib.MortgageSupportCost
	}

	emergency := 0.0
	for _, p := range next.Emergency {
		emergency += p.AnnualCostBn
	}
	f.EmergencyBn = emergency

	f.NonInterestCurrent = current + detailed + f.StabilizersBn + f.BarnettBn + f.AMEUpratingBn + f.FPCAddOnBn + f.EmergencyBn

	updateDelivery(next)
}

// updateDelivery tracks departmental budgets growing faster in-year than
// delivery capacity allows; the excess is reported as backlog.
func updateDelivery(next *state.Snapshot) {
	sr := &next.SpendingReview
	f := &next.Fiscal
	if sr.Capacity == nil {
		sr.Capacity = state.Keyed[state.Department, float64]{}
	}
	backlog := 0.0
	for _, id := range calib.Departments {
		capacity, ok := sr.Capacity[id]
		if !ok {
			capacity = calib.BaselineCapacity
		}
		start := f.YearStartDept(id).Total()
		allowance := start * (1 + capacity/calib.CapacityAllowanceDiv)
		if excess := f.Dept(id).Total() - allowance; excess > 0 {
			backlog += excess
			capacity += calib.CapacityGrowth
		}
		sr.Capacity[id] = calib.Clamp(capacity, calib.ScoreMin, calib.ScoreMax)
	}
	sr.BacklogBn = calib.Approach(sr.BacklogBn, backlog, 1-calib.BacklogDecay)
}
