package politics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

type certain struct{}

func (certain) Float64() float64     { return 0 }
func (certain) NormFloat64() float64 { return 0 }
func (certain) Int63() int64         { return 0 }

type never struct{}

func (never) Float64() float64     { return 0.999999 }
func (never) NormFloat64() float64 { return 0 }
func (never) Int63() int64         { return 0 }

func baseline() *state.Snapshot {
	return state.NewBaseline(state.DifficultyStandard, "stability_rule")
}

func advance(prev *state.Snapshot) *state.Snapshot {
	next := prev.Clone()
	next.Meta.Turn++
	next.Events = nil
	next.Diagnostics = state.Diagnostics{}
	return next
}

func TestGuardDampsNearFloor(t *testing.T) {
	assert.Equal(t, 2.0, Guard(50, 2))
	assert.Equal(t, 3.0, Guard(22, 2))
	assert.Equal(t, -1.0, Guard(15, -2))
	assert.Equal(t, -2.0, Guard(22, -2))
}

func TestViolationPenaltyEscalates(t *testing.T) {
	assert.Zero(t, ViolationPenalty(1))
	assert.InDelta(t, 1.5, ViolationPenalty(2), 1e-9)
	assert.Greater(t, ViolationPenalty(3)-ViolationPenalty(2), ViolationPenalty(2)-ViolationPenalty(1))
}

func TestHoneymoonFades(t *testing.T) {
	assert.Greater(t, Honeymoon(0), Honeymoon(6))
	assert.Zero(t, Honeymoon(calib.HoneymoonTurns))
	total := 0.0
	for i := 0; i < calib.HoneymoonTurns; i++ {
		total += Honeymoon(i)
	}
	assert.Less(t, total, calib.HoneymoonBonus)
}

func TestStandingSteadyAtBaseline(t *testing.T) {
	s := baseline()
	for i := 0; i < 36; i++ {
		next := advance(s)
		UpdateStanding(s, next)
		s = next
	}
	assert.InDelta(t, calib.BaselineApproval, s.Political.Approval, 5)
	assert.InDelta(t, calib.BackbenchEquilibrium, s.Political.Backbench, 5)
	assert.InDelta(t, calib.CredibilityEquilibrium, s.Political.Credibility, 5)
}

func TestTaxRiseCostsApproval(t *testing.T) {
	s := baseline()
	taxed := baseline()
	taxed.Fiscal.Rates.IncomeBasic = 25
	for i := 0; i < 12; i++ {
		n1, n2 := advance(s), advance(taxed)
		UpdateStanding(s, n1)
		UpdateStanding(taxed, n2)
		s, taxed = n1, n2
	}
	assert.Less(t, taxed.Political.Approval, s.Political.Approval-2)
}

func TestRiskModifiersExpire(t *testing.T) {
	s := baseline()
	s.RiskModifiers = []state.PolicyRiskModifier{{ID: "giveaway", ApprovalPerTurn: -1, TurnsRemaining: 2}}
	for i := 0; i < 2; i++ {
		next := advance(s)
		UpdateStanding(s, next)
		s = next
	}
	assert.Empty(t, s.RiskModifiers)
}

func TestDebtSpiralEndsGame(t *testing.T) {
	prev := baseline()
	next := advance(prev)
	next.Fiscal.DebtPctGDP = 121
	CheckGameOver(prev, next)
	require.True(t, next.Meta.GameOver)
	assert.Contains(t, next.Meta.GameOverReason, calib.ReasonDebtSpiral)

	easy := advance(prev)
	easy.Meta.Difficulty = state.DifficultyEasy
	easy.Fiscal.DebtPctGDP = 121
	CheckGameOver(prev, easy)
	assert.False(t, easy.Meta.GameOver)
}

func TestFirstReasonWins(t *testing.T) {
	prev := baseline()
	next := advance(prev)
	endGame(next, calib.ReasonReshuffled)
	next.Fiscal.DebtPctGDP = 150
	CheckGameOver(prev, next)
	assert.Equal(t, calib.ReasonReshuffled, next.Meta.GameOverReason)
}

func TestInterventionPriorityAndBlocking(t *testing.T) {
	prev := baseline()
	next := advance(prev)
	next.Political.PMTrust = 50
	next.Political.Backbench = 20
	next.Political.Approval = 15
	UpdatePMIntervention(prev, next, certain{})
	require.NotNil(t, next.Political.PMIntervention)
	assert.Equal(t, TriggerRevolt, next.Political.PMIntervention.Trigger)
	assert.Equal(t, 1, next.Political.Interventions)

	again := advance(next)
	UpdatePMIntervention(next, again, certain{})
	assert.Equal(t, TriggerRevolt, again.Political.PMIntervention.Trigger)
	assert.Equal(t, 1, again.Political.Interventions)
	assert.Equal(t, 1, again.Political.PMIntervention.TurnsPending)
}

func TestInterventionGatedByTrust(t *testing.T) {
	prev := baseline()
	next := advance(prev)
	next.Political.PMTrust = calib.PMTrustGate
	next.Political.Backbench = 20
	UpdatePMIntervention(prev, next, certain{})
	assert.Nil(t, next.Political.PMIntervention)
}

func TestIgnoredInterventionIsDefied(t *testing.T) {
	s := baseline()
	s.Political.PMTrust = 50
	s.Political.PMIntervention = &state.PMIntervention{Trigger: TriggerCrisis, Severity: 0.5}
	for i := 0; i < calib.InterventionDeadline; i++ {
		next := advance(s)
		UpdatePMIntervention(s, next, never{})
		s = next
	}
	assert.Nil(t, s.Political.PMIntervention)
	assert.InDelta(t, 50-calib.DefyTrust, s.Political.PMTrust, 1e-9)
	assert.False(t, s.Meta.GameOver)
}

func TestDefyCanEndInReshuffle(t *testing.T) {
	s := baseline()
	s.Political.PMIntervention = &state.PMIntervention{Trigger: TriggerRevolt, Severity: 1}
	Defy(s, certain{})
	assert.True(t, s.Meta.GameOver)
	assert.Equal(t, calib.ReasonReshuffled, s.Meta.GameOverReason)
}

func TestComplyRestoresTrust(t *testing.T) {
	s := baseline()
	s.Political.PMTrust = 40
	s.Political.PMIntervention = &state.PMIntervention{Trigger: TriggerManifesto, Severity: 0.6}
	Comply(s)
	assert.Nil(t, s.Political.PMIntervention)
	assert.InDelta(t, 40+calib.ComplyTrust, s.Political.PMTrust, 1e-9)
}

func TestCommitteeOpensInquiry(t *testing.T) {
	prev := baseline()
	c := prev.Parliament.Committees["health"]
	c.Pressure = 69
	prev.Parliament.Committees["health"] = c
	next := advance(prev)
	next.Services.NHS = 30
	UpdateParliament(prev, next, nil)

	got := next.Parliament.Committees["health"]
	assert.Equal(t, calib.InquiryTurns, got.InquiryTurnsRemaining)
	assert.Equal(t, calib.InquiryResetPressure, got.Pressure)
	assert.Equal(t, 1, next.Parliament.ActiveInquiries())
}

func TestConfidenceVoteLost(t *testing.T) {
	s := baseline()
	s.Political.Backbench = 20
	scheduled := false
	for i := 0; i < calib.ConfidenceLowMonths+1 && !s.Meta.GameOver; i++ {
		next := advance(s)
		UpdateParliament(s, next, nil)
		CheckGameOver(s, next)
		if next.Parliament.Confidence.State == state.ConfidenceScheduled {
			scheduled = true
		}
		s = next
	}
	assert.True(t, scheduled)
	assert.Equal(t, 1, s.Parliament.Confidence.VotesHeld)
	assert.True(t, s.Meta.GameOver)
	assert.Equal(t, calib.ReasonConfidence, s.Meta.GameOverReason)
}

type stances map[string]state.Stance

func (st stances) CalculateAllMPStances(state.MPSystem, collab.BudgetDelta, []string, int, collab.StanceContext) state.Keyed[string, state.Stance] {
	out := state.Keyed[string, state.Stance]{}
	for k, v := range st {
		out[k] = v
	}
	return out
}

func TestRebellionSchedulesConfidenceVote(t *testing.T) {
	prev := baseline()
	prev.MPs.MPs = state.Keyed[string, state.MP]{"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"}}
	calc := stances{"a": state.StanceRebel, "b": state.StanceSupport, "c": state.StanceSupport}
	next := advance(prev)
	UpdateParliament(prev, next, calc)
	assert.Equal(t, 1, next.Parliament.Rebellions)
	assert.Equal(t, state.ConfidenceScheduled, next.Parliament.Confidence.State)

	vote := advance(next)
	UpdateParliament(next, vote, calc)
	assert.Equal(t, state.ConfidenceNone, vote.Parliament.Confidence.State)
	assert.Greater(t, vote.Parliament.Confidence.LastSupport, calib.ConfidenceMajority)
	assert.False(t, LostConfidence(next, vote))
}

type tracker struct{ broken []string }

func (tr tracker) CheckAnnualGrowthPledges(state.Manifesto, state.Fiscal, float64) []string {
	return tr.broken
}

func (tracker) ApplyManifestoViolations(m state.Manifesto, ids []string, turn int) state.Manifesto {
	for _, id := range ids {
		p := m.Pledges[id]
		p.Violated, p.ViolatedTurn = true, turn
		m.Pledges[id] = p
		m.Violations = append(m.Violations, state.Violation{PledgeID: id, Turn: turn})
	}
	return m
}

func (tracker) CheckPolicyForViolations(state.Manifesto, collab.PolicyDelta) collab.PolicyCheck {
	return collab.PolicyCheck{}
}

func TestAnnualPledgesJudgedAtRollover(t *testing.T) {
	prev := baseline()
	prev.Manifesto.Pledges["nhs_real_growth"] = state.Pledge{ID: "nhs_real_growth", ApprovalCost: 3, TrustCost: 4}
	prev.Political.PendingViolations = []string{"vat_lock"}
	tr := tracker{broken: []string{"nhs_real_growth"}}

	quiet := advance(prev)
	UpdateManifesto(prev, quiet, tr)
	assert.Equal(t, []string{"vat_lock"}, quiet.Diagnostics.NewViolations)
	assert.Empty(t, quiet.Political.PendingViolations)

	rolled := advance(prev)
	rolled.Diagnostics.FiscalYearRolled = true
	UpdateManifesto(prev, rolled, tr)
	assert.Equal(t, []string{"vat_lock", "nhs_real_growth"}, rolled.Diagnostics.NewViolations)
	assert.Equal(t, 2, rolled.Political.ViolationCount)
	assert.InDelta(t, prev.Political.Approval-3, rolled.Political.Approval, 1e-9)
	assert.InDelta(t, prev.Political.PMTrust-4, rolled.Political.PMTrust, 1e-9)
	assert.True(t, rolled.Manifesto.Pledges["nhs_real_growth"].Violated)
}

func TestLocalCutsRaiseCouncilStress(t *testing.T) {
	prev := baseline()
	next := advance(prev)
	next.Services.RealRatios["social_care"] = 0.7
	UpdateDevolution(prev, next, never{})
	assert.Greater(t, next.Devolution.LocalAuthorityStress, prev.Devolution.LocalAuthorityStress)

	prev.Devolution.LocalAuthorityStress = 95
	notice := advance(prev)
	notice.Services.RealRatios["social_care"] = 0.7
	UpdateDevolution(prev, notice, certain{})
	assert.Equal(t, 1, notice.Devolution.Section114Notices)
	assert.Equal(t, 1, notice.Diagnostics.Section114)
}
