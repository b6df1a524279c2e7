// Package manifesto is the default pledge tracker. It knows the standard
// manifesto: tax locks, a corporation-tax cap, real growth for the NHS and
// debt falling year on year.
package manifesto

import (
	"fmt"
	"slices"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

// Pledge kinds.
const (
	KindTaxLock     = "tax_lock"
	KindTaxCap      = "tax_cap"
	KindRealGrowth  = "real_growth"
	KindDebtFalling = "debt_falling"
)

// locks names the instruments each tax-lock pledge covers.
var locks = map[string][]string{
	"income_tax_lock": {calib.TaxIncomeBasic, calib.TaxIncomeHigher, calib.TaxIncomeAdditional},
	"ni_lock":         {calib.TaxNIEmployee},
	"vat_lock":        {calib.TaxVAT},
}

// Standard returns the pledge book a new government starts with.
func Standard() state.Manifesto {
	pledges := []state.Pledge{
		{ID: "income_tax_lock", Kind: KindTaxLock, Description: "No rise in income tax rates", ApprovalCost: 4, TrustCost: 6},
		{ID: "ni_lock", Kind: KindTaxLock, Description: "No rise in National Insurance for working people", ApprovalCost: 3, TrustCost: 5},
		{ID: "vat_lock", Kind: KindTaxLock, Description: "No rise in VAT", ApprovalCost: 3, TrustCost: 5},
		{ID: "corp_tax_cap", Kind: KindTaxCap, Description: "Corporation tax capped at 25%", Threshold: 25, ApprovalCost: 1, TrustCost: 3},
		{ID: "nhs_real_growth", Kind: KindRealGrowth, Description: "Real-terms NHS funding growth every year", Threshold: 0, ApprovalCost: 3, TrustCost: 4},
		{ID: "debt_falling", Kind: KindDebtFalling, Description: "Debt falling as a share of the economy", ApprovalCost: 1, TrustCost: 4},
	}
	m := state.Manifesto{Pledges: state.Keyed[string, state.Pledge]{}, Violations: []state.Violation{}}
	for _, p := range pledges {
		m.Pledges[p.ID] = p
	}
	return m
}

// Tracker implements collab.ManifestoTracker for the standard pledge kinds.
type Tracker struct{}

var _ collab.ManifestoTracker = Tracker{}

// NHSRealGrowth is the % real change in the NHS budget over the fiscal year
// that has just ended, from the rollover anchors.
func NHSRealGrowth(f state.Fiscal) float64 {
	start, ok := f.PriorYearSpending["nhs"]
	end, ok2 := f.FiscalYearStartSpending["nhs"]
	if !ok || !ok2 {
		return 0
	}
	then := calib.Ratio(start.Total(), f.PriorYearPrice, "prior-year price level")
	now := calib.Ratio(end.Total(), f.FiscalYearStartPrice, "fiscal-year price level")
	return (calib.Ratio(now, then, "prior-year NHS budget") - 1) * 100
}

// CheckAnnualGrowthPledges judges the year-on-year pledges. inflation is only
// used when the price anchors are missing.
func (Tracker) CheckAnnualGrowthPledges(m state.Manifesto, f state.Fiscal, inflation float64) []string {
	if f.PriorYearPrice == 0 || f.FiscalYearStartPrice == 0 {
		f.PriorYearPrice = 1
		f.FiscalYearStartPrice = 1 + inflation/100
	}
	var out []string
	for _, id := range m.Pledges.Keys() {
		p := m.Pledges[id]
		if p.Violated {
			continue
		}
		switch p.Kind {
		case KindRealGrowth:
			if NHSRealGrowth(f) < p.Threshold {
				out = append(out, id)
			}
		case KindDebtFalling:
			if f.FiscalYearStartDebtPct > f.PriorYearDebtPct {
				out = append(out, id)
			}
		}
	}
	return out
}

// ApplyManifestoViolations marks pledges broken on turn. Unknown or already
// broken pledges are ignored.
func (Tracker) ApplyManifestoViolations(m state.Manifesto, violated []string, turn int) state.Manifesto {
	out := state.Manifesto{Pledges: m.Pledges.Clone(), Violations: slices.Clone(m.Violations)}
	if out.Pledges == nil {
		out.Pledges = state.Keyed[string, state.Pledge]{}
	}
	for _, id := range violated {
		p, ok := out.Pledges[id]
		if !ok || p.Violated {
			continue
		}
		p.Violated = true
		p.ViolatedTurn = turn
		out.Pledges[id] = p
		out.Violations = append(out.Violations, state.Violation{PledgeID: id, Turn: turn})
	}
	return out
}

// CheckPolicyForViolations reports the pledges a proposed policy would break
// and what breaking them costs.
func (Tracker) CheckPolicyForViolations(m state.Manifesto, d collab.PolicyDelta) collab.PolicyCheck {
	var c collab.PolicyCheck
	for _, id := range m.Pledges.Keys() {
		p := m.Pledges[id]
		if p.Violated {
			continue
		}
		broken := false
		switch p.Kind {
		case KindTaxLock:
			for _, inst := range locks[id] {
				if d.RateChange(inst) > calib.DeltaEpsilon {
					broken = true
				}
			}
		case KindTaxCap:
			broken = d.After.Corporation > p.Threshold+calib.DeltaEpsilon && d.RateChange(calib.TaxCorporation) > 0
		case KindRealGrowth:
			before, after := d.SpendBefore["nhs"], d.SpendAfter["nhs"]
			if after < before {
				c.Warnings = append(c.Warnings, fmt.Sprintf("cutting the NHS budget by £%.1fbn puts %q at risk", before-after, p.Description))
			}
		case KindDebtFalling:
			// Judged at year end.
		}
		if broken {
			c.Violated = append(c.Violated, id)
			c.ApprovalCost += p.ApprovalCost
			c.TrustCost += p.TrustCost
		}
	}
	return c
}
