package politics

import (
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// Guard damps moves near the floor so a very low metric can recover and does
// not collapse further at full speed. Genuine collapse is still possible.
func Guard(current, delta float64) float64 {
	switch {
	case current < calib.RecoveryBelow && delta > 0:
		return delta * calib.RecoveryMultiplier
	case current < calib.SoftFloorBelow && delta < 0:
		return delta * calib.SoftFloorMultiplier
	}
	return delta
}

// Honeymoon is the approval bonus for the given turn; it sums to roughly
// HoneymoonBonus over the honeymoon period.
func Honeymoon(turn int) float64 {
	if turn >= calib.HoneymoonTurns {
		return 0
	}
	return calib.HoneymoonBonus * (1 - calib.HoneymoonDecay) * math.Pow(calib.HoneymoonDecay, float64(turn))
}

func approvalDelta(prev, next *state.Snapshot) float64 {
	e, r, sv := next.Economic, next.Fiscal.Rates, next.Services
	d := calib.ApprovalGrowth*(e.GrowthAnnual-e.TrendGrowth) -
		calib.ApprovalInflation*math.Max(0, e.Inflation-calib.ApprovalInflationFree) -
		calib.ApprovalUnemployment*(e.Unemployment-calib.BaselineUnemployment) +
		calib.ApprovalRealWage*(e.WageGrowth-e.Inflation)

	d += calib.ApprovalNHS*(sv.NHS-calib.HeadlineServices[0].Baseline) +
		calib.ApprovalEducation*(sv.Education-calib.HeadlineServices[1].Baseline) +
		calib.ApprovalInfra*(sv.Infrastructure-calib.HeadlineServices[2].Baseline)

	d -= calib.ApprovalBasicRate*(r.IncomeBasic-20) +
		calib.ApprovalHigherRate*(r.IncomeHigher-40) +
		calib.ApprovalNIEmployee*(r.NIEmployee-8) +
		calib.ApprovalVAT*(r.VAT-20)

	d += calib.ApprovalCredibility*(next.Political.Credibility-calib.BaselineCredibility) -
		calib.ApprovalMortgagePain*math.Max(0, next.Markets.MortgageRate-calib.MortgagePainFrom) -
		calib.ApprovalPoverty*(next.Distribution.PovertyRate-calib.BaselinePoverty) -
		calib.StrikePenalty*float64(sv.ActiveStrikes()) -
		calib.Section114Approval*float64(next.Diagnostics.Section114)

	d += Honeymoon(next.Meta.Turn)
	return d + calib.ApprovalReversion*(calib.ApprovalEquilibrium-prev.Political.Approval)
}

func backbenchDelta(prev, next *state.Snapshot, violations int) float64 {
	p, r := next.Political, next.Fiscal.Rates
	business := math.Max(0, r.Corporation-calib.BusinessTaxCorp) + math.Max(0, r.NIEmployer-calib.BusinessTaxEmployerNI)
	d := calib.BackbenchApproval*(p.Approval-calib.BaselineApproval) +
		calib.BackbenchCredibility*(p.Credibility-calib.BaselineCredibility) -
		calib.BackbenchViolation*float64(violations) -
		calib.BackbenchRebellion*float64(next.Parliament.Rebellions) +
		calib.BackbenchWhip*(next.Parliament.WhipStrength-calib.BaselineWhip) -
		calib.BackbenchStrike*float64(next.Services.ActiveStrikes()) -
		calib.BackbenchInquiry*float64(next.Parliament.ActiveInquiries()) -
		calib.BackbenchBusinessTax*business
	return d + calib.BackbenchReversion*(calib.BackbenchEquilibrium-prev.Political.Backbench)
}

func trustDelta(prev, next *state.Snapshot, violations int) float64 {
	p := next.Political
	d := calib.PMTrustApproval*(p.Approval-calib.BaselineApproval) +
		calib.PMTrustCredibility*(p.Credibility-calib.BaselineCredibility) -
		calib.PMTrustViolation*float64(violations)
	if !p.Compliance.Compliant {
		d -= calib.PMTrustBreach
	}
	if p.PMIntervention != nil && p.PMIntervention.TurnsPending > 0 {
		d -= calib.PMTrustPending
	}
	return d + calib.PMTrustReversion*(calib.PMTrustEquilibrium-prev.Political.PMTrust)
}

func credibilityDelta(next *state.Snapshot) float64 {
	d := -calib.CredibilityGiltPain*math.Max(0, next.Markets.Gilt10-calib.CredibilityGiltFrom) +
		calib.CredibilityAnchor*(next.Economic.AnchorHealth-calib.BaselineAnchorHealth) -
		calib.CredibilityBacklog*next.SpendingReview.BacklogBn -
		calib.InquiryCredibility*float64(next.Parliament.ActiveInquiries())
	return d + calib.CredibilityReversion*(calib.CredibilityEquilibrium-next.Political.Credibility)
}

// UpdateStanding moves approval, backbench satisfaction, PM trust and market
// credibility for the month, then ages the policy risk modifiers.
func UpdateStanding(prev, next *state.Snapshot) {
	p := &next.Political
	violations := len(next.Diagnostics.NewViolations)

	extra := 0.0
	for k := p.ViolationCount - violations + 1; k <= p.ViolationCount; k++ {
		extra += ViolationPenalty(k)
	}
	var risk state.PolicyRiskModifier
	for _, m := range next.RiskModifiers {
		risk.ApprovalPerTurn += m.ApprovalPerTurn
		risk.BackbenchPerTurn += m.BackbenchPerTurn
		risk.CredibilityPerTurn += m.CredibilityPerTurn
	}

	a := approvalDelta(prev, next) - extra + risk.ApprovalPerTurn
	p.Approval = calib.Clamp(p.Approval+Guard(p.Approval, a), calib.ApprovalMin, calib.ApprovalMax)

	b := backbenchDelta(prev, next, violations) + risk.BackbenchPerTurn
	p.Backbench = calib.Clamp(p.Backbench+Guard(p.Backbench, b), calib.ScoreMin, calib.ScoreMax)

	t := trustDelta(prev, next, violations)
	p.PMTrust = calib.Clamp(p.PMTrust+Guard(p.PMTrust, t), calib.ScoreMin, calib.ScoreMax)

	c := credibilityDelta(next) + risk.CredibilityPerTurn
	p.Credibility = calib.Clamp(p.Credibility+Guard(p.Credibility, c), calib.ScoreMin, calib.ScoreMax)

	kept := next.RiskModifiers[:0]
	for _, m := range next.RiskModifiers {
		m.TurnsRemaining--
		if m.TurnsRemaining > 0 {
			kept = append(kept, m)
		}
	}
	next.RiskModifiers = kept
}
