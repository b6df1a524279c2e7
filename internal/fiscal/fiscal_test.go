package fiscal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

func baseline() *state.Snapshot {
	return state.NewBaseline(state.DifficultyStandard, "stability_rule")
}

func account(prev, next *state.Snapshot) {
	Revenue(prev, next)
	Spending(prev, next)
	DebtInterest(prev, next)
	RollForward(prev, next)
}

func TestBaselineAccounts(t *testing.T) {
	prev := baseline()
	next := prev.Clone()
	account(prev, next)

	f := next.Fiscal
	assert.InDelta(t, 1050.0, f.RevenueBn, 1e-6)
	assert.InDelta(t, 102.6, f.DebtInterestBn, 1e-6)
	assert.InDelta(t, 1150.7, f.TotalManagedExpBn, 1e-6)
	assert.InDelta(t, f.TotalManagedExpBn-f.RevenueBn, f.DeficitBn, 1e-9)
	assert.InDelta(t, prev.Fiscal.DebtBn+f.DeficitBn/12, f.DebtBn, 1e-9)
	assert.Greater(t, f.CurrentBalanceBn, 0.0, "stability rule starts compliant")
}

func TestLedgerTracksDebtStock(t *testing.T) {
	s := baseline()
	for turn := 1; turn <= 40; turn++ {
		next := s.Clone()
		next.Meta.Turn = turn
		account(s, next)
		require.InDelta(t, next.Fiscal.DebtBn, next.Debt.TotalBn(), 1e-6, "turn %d", turn)
		s = next
	}
	assert.Greater(t, s.Debt.WAMYears, 0.0)
	assert.Greater(t, s.Debt.Refinancing, 0.0)
}

func TestSurplusRepaysShortFirst(t *testing.T) {
	prev := baseline()
	next := prev.Clone()
	next.Fiscal.Rates.VAT = 30
	next.Fiscal.Rates.IncomeBasic = 30
	account(prev, next)
	require.Less(t, next.Fiscal.DeficitBn, 0.0)
	assert.Less(t, next.Debt.Short.StockBn, prev.Debt.Short.StockBn)
	assert.Equal(t, prev.Debt.Long.StockBn, next.Debt.Long.StockBn)
}

func TestShortIssuanceShiftsMix(t *testing.T) {
	a, b := baseline(), baseline()
	b.Debt.Strategy = state.IssuanceShort
	na, nb := a.Clone(), b.Clone()
	account(a, na)
	account(b, nb)
	assert.Greater(t, nb.Debt.Short.StockBn, na.Debt.Short.StockBn)
}

func TestAvoidanceAccelerates(t *testing.T) {
	ti, ok := calib.Instrument(calib.TaxIncomeAdditional)
	require.True(t, ok)
	l1 := Avoidance(ti.BaselineRevenueBn, ti.AvoidanceThreshold+1, ti.AvoidanceThreshold, ti.AvoidanceScale, ti.AvoidanceCurvature)
	l2 := Avoidance(ti.BaselineRevenueBn, ti.AvoidanceThreshold+2, ti.AvoidanceThreshold, ti.AvoidanceScale, ti.AvoidanceCurvature)
	l3 := Avoidance(ti.BaselineRevenueBn, ti.AvoidanceThreshold+3, ti.AvoidanceThreshold, ti.AvoidanceScale, ti.AvoidanceCurvature)
	assert.Zero(t, Avoidance(ti.BaselineRevenueBn, ti.AvoidanceThreshold, ti.AvoidanceThreshold, ti.AvoidanceScale, ti.AvoidanceCurvature))
	assert.Greater(t, l2-l1, l1)
	assert.Greater(t, l3-l2, l2-l1)
}

func TestLafferPeak(t *testing.T) {
	ti, _ := calib.Instrument(calib.TaxIncomeAdditional)
	at60 := InstrumentRevenue(ti, 60, calib.BaselineNominalGDP)
	at90 := InstrumentRevenue(ti, 90, calib.BaselineNominalGDP)
	assert.Greater(t, at60, at90)
}

func TestStabilizers(t *testing.T) {
	prev := baseline()
	next := prev.Clone()
	next.Economic.Unemployment = calib.BaselineUnemployment + 2
	Spending(prev, next)
	assert.InDelta(t, 2*calib.StabilizerPerPoint, next.Fiscal.StabilizersBn, 1e-9)
}

func TestMissingLineFallsBack(t *testing.T) {
	prev := baseline()
	a, b := prev.Clone(), prev.Clone()
	delete(b.Fiscal.Detailed, calib.LineLegalAid)
	delete(b.Fiscal.Detailed, calib.LineFuelDuty)
	account(prev, a)
	account(prev, b)
	assert.InDelta(t, a.Fiscal.DeficitBn, b.Fiscal.DeficitBn, 1e-9)
}

func TestMissingDepartmentsFallBack(t *testing.T) {
	prev := baseline()
	a, b := prev.Clone(), prev.Clone()
	for _, id := range append([]string{"welfare"}, calib.BarnettComparable...) {
		delete(b.Fiscal.Departments, id)
		delete(b.Fiscal.FiscalYearStartSpending, id)
	}
	b.Economic.PriceLevel = 1.1
	a.Economic.PriceLevel = 1.1
	account(prev, a)
	account(prev, b)

	assert.InDelta(t, 0, b.Fiscal.BarnettBn, 1e-9)
	assert.InDelta(t, a.Fiscal.AMEUpratingBn, b.Fiscal.AMEUpratingBn, 1e-9)
	assert.Greater(t, b.Fiscal.AMEUpratingBn, 0.0)
	assert.InDelta(t, a.SpendingReview.BacklogBn, b.SpendingReview.BacklogBn, 1e-9)
	assert.InDelta(t, a.Fiscal.DeficitBn, b.Fiscal.DeficitBn, 1e-9)
}

func TestRolloverOnlyInAprilAfterStart(t *testing.T) {
	prev := baseline()
	for turn := 1; turn <= 36; turn++ {
		next := prev.Clone()
		next.Meta.Turn = turn
		next.Meta.Month = ((6 + turn) % 12) + 1
		nhs := next.Fiscal.Departments["nhs"]
		nhs.Current += 1
		next.Fiscal.Departments["nhs"] = nhs
		next.Diagnostics.FiscalYearRolled = false

		RolloverYear(prev, next)
		rolled := turn == 9 || turn == 21 || turn == 33
		require.Equal(t, rolled, next.Diagnostics.FiscalYearRolled, "turn %d", turn)
		if rolled {
			assert.Equal(t, turn, next.Fiscal.FiscalYearStartTurn)
			assert.Equal(t, next.Fiscal.Departments["nhs"], next.Fiscal.FiscalYearStartSpending["nhs"])
		}
		prev = next
	}
}

func TestEmergencyPaidForDeclaredTurns(t *testing.T) {
	s := baseline()
	s.Emergency = []state.EmergencyProgramme{{ID: "flood", AnnualCostBn: 12, TurnsRemaining: 3}}
	paid := 0
	for i := 0; i < 6; i++ {
		next := s.Clone()
		ExpireEmergency(s, next)
		Spending(s, next)
		if next.Fiscal.EmergencyBn > 0 {
			paid++
		}
		s = next
	}
	assert.Equal(t, 3, paid)
	assert.Empty(t, s.Emergency)
}

func TestDeliveryBacklog(t *testing.T) {
	prev := baseline()
	next := prev.Clone()
	nhs := next.Fiscal.Departments["nhs"]
	nhs.Current += 60
	next.Fiscal.Departments["nhs"] = nhs
	Spending(prev, next)
	assert.Greater(t, next.SpendingReview.BacklogBn, 0.0)
	assert.Greater(t, next.SpendingReview.Capacity["nhs"], calib.BaselineCapacity)
}
