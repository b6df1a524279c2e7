package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

func TestLookup(t *testing.T) {
	r, ok := Lookup("maastricht")
	require.True(t, ok)
	assert.InDelta(t, 3.0, r.DeficitCeiling, 1e-9)

	_, ok = Lookup("vibes")
	assert.False(t, ok)
	assert.Equal(t, Default, MustLookup("vibes").ID)

	seen := map[string]bool{}
	for _, r := range Catalog {
		assert.False(t, seen[r.ID], "duplicate rule %s", r.ID)
		seen[r.ID] = true
	}
	assert.True(t, seen[Default])
}

func TestBreachPenaltyEscalates(t *testing.T) {
	assert.InDelta(t, calib.BreachMinor, BreachPenalty(1), 1e-9)
	assert.InDelta(t, calib.BreachModerate, BreachPenalty(calib.BreachModerateAt), 1e-9)
	assert.InDelta(t, calib.BreachSevere, BreachPenalty(calib.BreachSevereAt+4), 1e-9)
}

func TestGoldenRuleAllowsBorrowingToInvest(t *testing.T) {
	f := state.Fiscal{BaselineDeficitBn: 100, BaselineCapitalBn: 130}
	f.DeficitBn, f.CapitalSpendingBn = 120, 150
	assert.True(t, GoldenRuleCheck(&f))

	f.DeficitBn = 120 + calib.GoldenRuleToleranceBn + 1
	assert.False(t, GoldenRuleCheck(&f))
}

func TestDiscretionHasNoHeadroom(t *testing.T) {
	s := state.NewBaseline(state.DifficultyStandard, "discretion")
	assert.Empty(t, Measure(MustLookup("discretion"), s))
	assert.Zero(t, HeadroomBn(MustLookup("discretion"), s))
}

func TestDebtAnchorHeadroomIgnoresUnknownTrend(t *testing.T) {
	s := state.NewBaseline(state.DifficultyStandard, "debt_anchor")
	s.History = nil
	s.Fiscal.DeficitPctGDP = 2.5
	s.Fiscal.DebtPctGDP = 95

	outcomes := Measure(MustLookup("debt_anchor"), s)
	require.Len(t, outcomes, 3)
	assert.False(t, outcomes[2].Known)
	assert.True(t, outcomes[2].Pass)
	assert.InDelta(t, s.Economic.NominalGDP/100, HeadroomBn(MustLookup("debt_anchor"), s), 1e-6)
}

func TestEvaluateBreachAndRestore(t *testing.T) {
	prev := state.NewBaseline(state.DifficultyStandard, "maastricht")

	next := prev.Clone()
	next.Fiscal.DeficitPctGDP = 5
	Evaluate(prev, next)

	c := next.Political.Compliance
	assert.False(t, c.Compliant)
	assert.False(t, c.Tests[string(DeficitCeiling)])
	assert.Equal(t, 1, c.ConsecutiveBreaches)
	assert.InDelta(t, prev.Political.Credibility-calib.BreachMinor, next.Political.Credibility, 1e-9)
	require.Len(t, next.Events, 1)
	assert.Equal(t, "fiscal", next.Events[0].Category)

	later := next.Clone()
	later.Events = nil
	later.Fiscal.DeficitPctGDP = 2
	Evaluate(next, later)
	assert.True(t, later.Political.Compliance.Compliant)
	assert.Zero(t, later.Political.Compliance.ConsecutiveBreaches)
	assert.Equal(t, 1, later.Political.Compliance.TotalBreaches)
	assert.InDelta(t, calib.ComplianceRestore, later.Diagnostics.RuleCredibility, 1e-9)
}
