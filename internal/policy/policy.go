// Package policy applies the Chancellor's decisions to a snapshot between
// turns: tax and spending changes, fiscal-rule switches, debt issuance,
// emergency programmes and answers to the Prime Minister.
package policy

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/politics"
	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/state"
)

var (
	ErrUnknownRule           = errors.New("unknown fiscal rule")
	ErrNoPendingIntervention = errors.New("no pending PM intervention")
	ErrInvalidDecision       = errors.New("invalid decision")
	ErrGameOver              = errors.New("game is over")
)

// EmergencyLaunch starts a time-limited programme paid on top of departmental budgets.
type EmergencyLaunch struct {
	Name         string  `json:"name"`
	AnnualCostBn float64 `json:"annual_cost_bn"`
	Turns        int     `json:"turns"`
}

// Decision is everything the Chancellor can change in one sitting. Nil and
// zero fields leave the current setting in force.
type Decision struct {
	Rates       *state.TaxRates                       `json:"rates,omitempty"`
	Departments map[state.Department]state.DeptBudget `json:"departments,omitempty"`
	Lines       map[string]float64                    `json:"lines,omitempty"` // rate for tax and parameter lines, £bn for spend lines
	FiscalRule  string                                `json:"fiscal_rule,omitempty"`
	Strategy    state.IssuanceStrategy                `json:"issuance_strategy,omitempty"`
	Emergency   *EmergencyLaunch                      `json:"emergency,omitempty"`
	ComplyPM    *bool                                 `json:"comply_pm,omitempty"`
}

// Empty reports whether d changes nothing.
func (d Decision) Empty() bool {
	return d.Rates == nil && len(d.Departments) == 0 && len(d.Lines) == 0 &&
		d.FiscalRule == "" && d.Strategy == "" && d.Emergency == nil && d.ComplyPM == nil
}

// Deps are the services a decision is judged against.
type Deps struct {
	Manifesto collab.ManifestoTracker
	RNG       entropy.Source
}

// Report is what happened when a decision was applied.
type Report struct {
	Violated          []string `json:"violated"`
	ApprovalCost      float64  `json:"approval_cost"`
	TrustCost         float64  `json:"trust_cost"`
	Warnings          []string `json:"warnings"`
	GiveawayBn        float64  `json:"giveaway_bn"`
	RiskModifier      string   `json:"risk_modifier,omitempty"`
	RuleChangePenalty float64  `json:"rule_change_penalty"`
	Reshuffled        bool     `json:"reshuffled"`
}

// Apply validates d against s and returns the snapshot the next turn should
// start from. s is never modified; on error the returned snapshot is nil.
func Apply(s *state.Snapshot, d Decision, deps Deps) (*state.Snapshot, Report, error) {
	var rep Report
	if s.Meta.GameOver {
		return nil, rep, ErrGameOver
	}
	if err := validate(d); err != nil {
		return nil, rep, err
	}
	if d.ComplyPM != nil && s.Political.PMIntervention == nil {
		return nil, rep, ErrNoPendingIntervention
	}

	next := s.Clone()
	f := &next.Fiscal
	before := f.Rates
	spendBefore := departmentTotals(f.Departments)

	if d.Rates != nil {
		f.Rates = *d.Rates
	}
	if f.Departments == nil {
		f.Departments = state.Keyed[state.Department, state.DeptBudget]{}
	}
	for _, id := range sortedKeys(d.Departments) {
		f.Departments[id] = d.Departments[id]
	}
	if f.Detailed == nil {
		f.Detailed = state.Keyed[string, state.LineItem]{}
	}
	for _, id := range sortedKeys(d.Lines) {
		li := f.Line(id)
		if calib.LineItems[id].Kind == calib.LineSpend {
			li.Budget = d.Lines[id]
		} else {
			li.Rate = d.Lines[id]
		}
		f.Detailed[id] = li
	}
	if d.Strategy != "" {
		next.Debt.Strategy = d.Strategy
	}
	if d.Emergency != nil {
		next.Emergency = append(next.Emergency, state.EmergencyProgramme{
			ID:             fmt.Sprintf("emergency-%d-%d", next.Meta.Turn, len(next.Emergency)),
			Name:           d.Emergency.Name,
			AnnualCostBn:   d.Emergency.AnnualCostBn,
			TurnsRemaining: d.Emergency.Turns,
		})
		slog.Info("emergency programme launched", "turn", next.Meta.Turn, "name", d.Emergency.Name, "cost_bn", d.Emergency.AnnualCostBn)
	}

	if deps.Manifesto != nil {
		check := deps.Manifesto.CheckPolicyForViolations(next.Manifesto, collab.PolicyDelta{
			Before:          before,
			After:           f.Rates,
			SpendBefore:     spendBefore,
			SpendAfter:      departmentTotals(f.Departments),
			PriceLevel:      next.Economic.PriceLevel,
			StartPriceLevel: f.FiscalYearStartPrice,
		})
		rep.Violated = check.Violated
		rep.ApprovalCost = check.ApprovalCost
		rep.TrustCost = check.TrustCost
		rep.Warnings = append(rep.Warnings, check.Warnings...)
		if len(check.Violated) > 0 {
			p := &next.Political
			p.Approval = calib.Clamp(p.Approval-check.ApprovalCost, calib.ApprovalMin, calib.ApprovalMax)
			p.PMTrust = calib.Clamp(p.PMTrust-check.TrustCost, calib.ScoreMin, calib.ScoreMax)
			next.Manifesto = deps.Manifesto.ApplyManifestoViolations(next.Manifesto, check.Violated, next.Meta.Turn)
			p.PendingViolations = append(p.PendingViolations, check.Violated...)
			slog.Warn("manifesto pledges broken", "turn", next.Meta.Turn, "pledges", check.Violated,
				"approval_cost", check.ApprovalCost, "trust_cost", check.TrustCost)
		}
	}

	rep.GiveawayBn = Giveaway(s, next)
	if m, ok := riskModifier(next, rep.GiveawayBn); ok {
		next.RiskModifiers = append(next.RiskModifiers, m)
		rep.RiskModifier = m.ID
		rep.Warnings = append(rep.Warnings, m.Reason)
		slog.Warn("unfunded giveaway", "turn", next.Meta.Turn, "giveaway_bn", rep.GiveawayBn, "yield_premium", m.YieldPremium)
	}

	if d.FiscalRule != "" {
		penalty, err := ChangeFiscalRule(next, d.FiscalRule)
		if err != nil {
			return nil, Report{}, err
		}
		rep.RuleChangePenalty = penalty
	}

	if d.ComplyPM != nil {
		if err := ResolvePMIntervention(next, *d.ComplyPM, deps.RNG); err != nil {
			return nil, Report{}, err
		}
		rep.Reshuffled = next.Meta.GameOver
	}
	return next, rep, nil
}

func validate(d Decision) error {
	if d.Rates != nil {
		for _, ti := range calib.TaxInstruments {
			r, _ := d.Rates.Get(ti.ID)
			if !inRange(r, 0, calib.MaxTaxRate) {
				return fmt.Errorf("%w: %s rate %.2f outside 0..%.0f", ErrInvalidDecision, ti.ID, r, calib.MaxTaxRate)
			}
		}
	}
	for _, id := range sortedKeys(d.Departments) {
		b := d.Departments[id]
		if _, ok := calib.DepartmentBaselines[id]; !ok {
			return fmt.Errorf("%w: unknown department %q", ErrInvalidDecision, id)
		}
		if !inRange(b.Current, 0, math.MaxFloat64) || !inRange(b.Capital, 0, math.MaxFloat64) {
			return fmt.Errorf("%w: %s budget must be non-negative", ErrInvalidDecision, id)
		}
	}
	for _, id := range sortedKeys(d.Lines) {
		v := d.Lines[id]
		if _, ok := calib.LineItems[id]; !ok {
			return fmt.Errorf("%w: unknown line item %q", ErrInvalidDecision, id)
		}
		if !inRange(v, 0, math.MaxFloat64) {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalidDecision, id)
		}
	}
	if d.Strategy != "" {
		if _, ok := calib.IssuanceShares[string(d.Strategy)]; !ok {
			return fmt.Errorf("%w: unknown issuance strategy %q", ErrInvalidDecision, d.Strategy)
		}
	}
	if e := d.Emergency; e != nil {
		if e.Turns < 1 || e.Turns > calib.MaxEmergencyTurns {
			return fmt.Errorf("%w: emergency programme must run 1..%d turns", ErrInvalidDecision, calib.MaxEmergencyTurns)
		}
		if !inRange(e.AnnualCostBn, 0, calib.MaxEmergencyCostBn) {
			return fmt.Errorf("%w: emergency cost %.1f outside 0..%.0f", ErrInvalidDecision, e.AnnualCostBn, calib.MaxEmergencyCostBn)
		}
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= lo && v <= hi
}

// Giveaway is the static annual cost of moving from prev's settings to
// next's: tax cuts plus spending rises, net of tax rises and cuts.
func Giveaway(prev, next *state.Snapshot) float64 {
	pf, nf := &prev.Fiscal, &next.Fiscal
	g := 0.0
	for _, ti := range calib.TaxInstruments {
		a, _ := pf.Rates.Get(ti.ID)
		b, _ := nf.Rates.Get(ti.ID)
		g += ti.SensitivityBn * (a - b)
	}
	for _, id := range calib.Departments {
		g += nf.Dept(id).Total() - pf.Dept(id).Total()
	}
	for _, id := range sortedKeys(calib.LineItems) {
		cal := calib.LineItems[id]
		a, b := pf.Line(id), nf.Line(id)
		switch cal.Kind {
		case calib.LineTax:
			g += cal.SensitivityBn * (a.Rate - b.Rate)
		case calib.LineSpend:
			g += b.Budget - a.Budget
		case calib.LineParameter:
			g += cal.SensitivityBn * (b.Rate - a.Rate)
		}
	}
	if len(next.Emergency) > len(prev.Emergency) {
		for _, p := range next.Emergency[len(prev.Emergency):] {
			g += p.AnnualCostBn
		}
	}
	return g
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func departmentTotals(b state.Keyed[state.Department, state.DeptBudget]) map[string]float64 {
	out := make(map[string]float64, len(b))
	for id, v := range b {
		out[id] = v.Total()
	}
	return out
}

func riskModifier(s *state.Snapshot, giveawayBn float64) (state.PolicyRiskModifier, bool) {
	pct := calib.PctOfGDP(giveawayBn, s.Economic.NominalGDP)
	if pct <= calib.UnfundedGiveawayPct {
		return state.PolicyRiskModifier{}, false
	}
	scale := math.Min(2, pct/calib.UnfundedGiveawayPct)
	return state.PolicyRiskModifier{
		ID:                 fmt.Sprintf("unfunded-%d", s.Meta.Turn),
		Reason:             fmt.Sprintf("£%.1fbn of unfunded giveaways (%.1f%% of GDP) unsettles the gilt market", giveawayBn, pct),
		CredibilityPerTurn: -calib.UnfundedCredibilityHit,
		YieldPremium:       calib.UnfundedYieldPremium * scale,
		TurnsRemaining:     calib.UnfundedTurns,
	}, true
}

// ChangeFiscalRule switches s to the framework id and charges the credibility
// penalty base × 2^(n-1), where n counts switches inside the escalation
// window including this one. Re-selecting the rule in force is free.
func ChangeFiscalRule(s *state.Snapshot, id string) (float64, error) {
	if _, ok := rules.Lookup(id); !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRule, id)
	}
	p := &s.Political
	if p.FiscalRuleID == id {
		return 0, nil
	}
	n := 1
	for _, t := range p.RuleChangeLog {
		if s.Meta.Turn-t < calib.RuleChangeWindowTurns {
			n++
		}
	}
	penalty := calib.RuleChangeBasePenalty * math.Pow(2, float64(n-1))
	p.Credibility = calib.Clamp(p.Credibility-penalty, calib.ScoreMin, calib.ScoreMax)
	p.RuleChangeLog = append(p.RuleChangeLog, s.Meta.Turn)
	slog.Info("fiscal rule changed", "turn", s.Meta.Turn, "from", p.FiscalRuleID, "to", id,
		"changes_in_window", n, "credibility_penalty", penalty)
	p.FiscalRuleID = id
	p.Compliance.ConsecutiveBreaches = 0
	return penalty, nil
}

// ResolvePMIntervention answers the pending PM demand in place. Defiance can
// end the game through a reshuffle.
func ResolvePMIntervention(s *state.Snapshot, comply bool, rng entropy.Source) error {
	iv := s.Political.PMIntervention
	if iv == nil {
		return ErrNoPendingIntervention
	}
	if rng == nil {
		rng = entropy.ForDecision(s.Meta.Seed, s.Meta.Turn)
	}
	if comply {
		politics.Comply(s)
	} else {
		politics.Defy(s, rng)
	}
	slog.Info("PM intervention resolved", "turn", s.Meta.Turn, "trigger", iv.Trigger, "comply", comply,
		"reshuffled", s.Meta.GameOver)
	return nil
}
