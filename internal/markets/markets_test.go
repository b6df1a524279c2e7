package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/fiscal"
	"github.com/talgya/chancellor/internal/state"
)

func accounted(d state.Difficulty) *state.Snapshot {
	prev := state.NewBaseline(d, "stability_rule")
	next := prev.Clone()
	fiscal.Revenue(prev, next)
	fiscal.Spending(prev, next)
	fiscal.DebtInterest(prev, next)
	fiscal.RollForward(prev, next)
	next.Fiscal.BaselineDeficitBn = next.Fiscal.DeficitBn
	next.Fiscal.BaselineCapitalBn = next.Fiscal.CapitalSpendingBn
	return next
}

func TestBaselineTargetNearStartingYield(t *testing.T) {
	s := accounted(state.DifficultyStandard)
	b := TargetYield(s, s)
	assert.InDelta(t, calib.BaselineGilt10, b.Target, 0.2)
	assert.Zero(t, b.Vigilante)
	assert.Zero(t, b.Trend, "no history means no trend premium")
}

func TestDebtPremiumAccelerates(t *testing.T) {
	assert.Zero(t, debtPremium(80))
	low := debtPremium(100) - debtPremium(95)
	high := debtPremium(125) - debtPremium(120)
	assert.Greater(t, high, low)
}

func TestVigilantePremiumNeedsLargeJump(t *testing.T) {
	prev := accounted(state.DifficultyStandard)
	next := prev.Clone()
	next.Fiscal.DeficitBn = prev.Fiscal.DeficitBn + 10
	assert.Zero(t, TargetYield(prev, next).Vigilante)
	next.Fiscal.DeficitBn = prev.Fiscal.DeficitBn + 60
	assert.Greater(t, TargetYield(prev, next).Vigilante, 0.0)
}

func TestTrendPremiumUsesHistory(t *testing.T) {
	s := accounted(state.DifficultyStandard)
	for i := 0; i < 6; i++ {
		s.History = append(s.History, state.HistoryEntry{Turn: i, DebtPctGDP: 90})
	}
	s.Fiscal.DebtPctGDP = 96
	assert.Greater(t, trendPremium(s), 0.0)
}

func TestGiltStepIsBounded(t *testing.T) {
	prev := accounted(state.DifficultyStandard)
	next := prev.Clone()
	next.Fiscal.DebtPctGDP = 160
	UpdateGilts(prev, next)
	assert.LessOrEqual(t, next.Markets.Gilt10-prev.Markets.Gilt10, calib.YieldMaxStep+1e-9)
	assert.False(t, next.Markets.LDIPanic, "no panic outside hard mode")
}

func TestLDIPanicOnHard(t *testing.T) {
	prev := accounted(state.DifficultyHard)
	next := prev.Clone()
	next.Fiscal.DebtPctGDP = 160
	UpdateGilts(prev, next)
	require.True(t, next.Markets.LDIPanic)
	assert.Greater(t, next.Markets.Gilt10, next.Markets.Breakdown.Target-1e-9)

	// Yields falling well below the peak end the panic.
	calm := next.Clone()
	calm.Fiscal.DebtPctGDP = 90
	UpdateGilts(next, calm)
	assert.False(t, calm.Markets.LDIPanic)
}

func TestRatingReviewedOnlyOnSchedule(t *testing.T) {
	for turn := 1; turn <= 24; turn++ {
		prev := accounted(state.DifficultyStandard)
		prev.Fiscal.DebtPctGDP = 150
		next := prev.Clone()
		next.Meta.Turn = turn
		ReviewRating(prev, next)
		if turn%6 == 0 {
			assert.True(t, next.Diagnostics.RatingReviewed, "turn %d", turn)
			assert.Equal(t, OutlookNegative, next.Political.RatingOutlook)
		} else {
			assert.False(t, next.Diagnostics.RatingReviewed, "turn %d", turn)
			assert.Equal(t, prev.Political.RatingOutlook, next.Political.RatingOutlook)
			assert.Equal(t, prev.Political.RatingNotch, next.Political.RatingNotch)
		}
	}
}

func TestDowngradeFollowsNegativeOutlook(t *testing.T) {
	prev := accounted(state.DifficultyStandard)
	prev.Fiscal.DebtPctGDP = 150
	prev.Political.RatingOutlook = OutlookNegative
	next := prev.Clone()
	next.Meta.Turn = 12
	ReviewRating(prev, next)
	assert.Equal(t, prev.Political.RatingNotch+1, next.Political.RatingNotch)
	assert.True(t, next.Diagnostics.RatingChanged)
	assert.Less(t, next.Political.Credibility, prev.Political.Credibility)
}

func TestBaselineScoresAA(t *testing.T) {
	s := accounted(state.DifficultyStandard)
	assert.Equal(t, calib.BaselineRatingNotch, NotchFor(RatingScore(s)))
}

func TestSterlingBounded(t *testing.T) {
	prev := accounted(state.DifficultyStandard)
	s := prev
	for i := 0; i < 200; i++ {
		next := s.Clone()
		next.Markets.BankRate = calib.BankRateMax
		UpdateSterling(s, next)
		s = next
	}
	assert.LessOrEqual(t, s.Markets.Sterling, calib.SterlingMax)
	assert.Greater(t, s.Markets.Sterling, prev.Markets.Sterling)
}

func TestMacroprudentialTriggers(t *testing.T) {
	prev := accounted(state.DifficultyStandard)
	prev.Financial.HouseholdDTI = calib.MacropruDTITrigger + 5
	next := prev.Clone()
	UpdateHousing(prev, next)
	require.True(t, next.Financial.Macroprudential.Active)
	assert.Equal(t, calib.MacropruTurns, next.Financial.Macroprudential.TurnsRemaining)
}

func TestMortgageSupportOpensAboveTrigger(t *testing.T) {
	prev := accounted(state.DifficultyStandard)
	next := prev.Clone()
	next.Markets.MortgageRate = calib.MortgageSupportTrigger + 0.5
	UpdateHousing(prev, next)
	assert.True(t, next.Financial.MortgageSupportActive)
}
