package rules

import (
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/state"
)

// Outcome is one test's verdict. Margin is in % of GDP, positive when passing.
// Known is false when a trend test lacked history and passed by default.
type Outcome struct {
	Test   Test
	Pass   bool
	Margin float64
	Known  bool
}

// Measure runs every test the rule applies against s.
func Measure(r Rule, s *state.Snapshot) []Outcome {
	f := &s.Fiscal
	gdp := s.Economic.NominalGDP
	out := make([]Outcome, 0, len(r.Tests))
	for _, t := range r.Tests {
		var o Outcome
		switch t {
		case CurrentBalance:
			o = margin(t, calib.PctOfGDP(f.CurrentBalanceBn, gdp)+currentTolerance(r.Horizon))
		case OverallBalance:
			o = margin(t, -f.DeficitPctGDP)
		case DeficitCeiling:
			o = margin(t, r.DeficitCeiling-f.DeficitPctGDP)
		case DebtTarget:
			o = margin(t, r.DebtTarget-f.DebtPctGDP)
		case DebtFalling:
			o = debtFalling(r, s)
		case GoldenRule:
			slack := (f.CapitalSpendingBn - f.BaselineCapitalBn) + calib.GoldenRuleToleranceBn -
				(f.DeficitBn - f.BaselineDeficitBn)
			o = margin(t, calib.PctOfGDP(slack, gdp))
		}
		out = append(out, o)
	}
	return out
}

func margin(t Test, m float64) Outcome {
	return Outcome{Test: t, Pass: m >= 0, Margin: m, Known: true}
}

// debtFalling picks the proxy the framework allows: investment-exempt
// medium/long rules use the current budget, short-horizon rules need an
// observed fall, and the rest fall back to the deficit ceiling.
func debtFalling(r Rule, s *state.Snapshot) Outcome {
	switch {
	case r.InvestmentExempt && (r.Horizon == HorizonMedium || r.Horizon == HorizonLong):
		o := margin(CurrentBalance, calib.PctOfGDP(s.Fiscal.CurrentBalanceBn, s.Economic.NominalGDP)+currentTolerance(r.Horizon))
		o.Test = DebtFalling
		return o
	case r.Horizon == HorizonShort:
		for _, k := range []int{12, 6} {
			if past, ok := history.MonthsAgo(s.History, k-1); ok {
				return margin(DebtFalling, past.DebtPctGDP-s.Fiscal.DebtPctGDP)
			}
		}
		return Outcome{Test: DebtFalling, Pass: true}
	default:
		ceiling := r.DeficitCeiling
		if ceiling == 0 {
			ceiling = calib.DefaultDeficitCeiling
		}
		return margin(DebtFalling, ceiling-s.Fiscal.DeficitPctGDP)
	}
}

// HeadroomBn is the tightest known margin in £bn. A rule with no measurable
// test has zero headroom.
func HeadroomBn(r Rule, s *state.Snapshot) float64 {
	best := math.Inf(1)
	for _, o := range Measure(r, s) {
		if o.Known && o.Test != GoldenRule {
			best = math.Min(best, o.Margin)
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best * s.Economic.NominalGDP / 100
}

// GoldenRuleCheck verifies the deficit has not risen by more than capital
// spending since baseline, within tolerance.
func GoldenRuleCheck(f *state.Fiscal) bool {
	return f.DeficitBn-f.BaselineDeficitBn <= f.CapitalSpendingBn-f.BaselineCapitalBn+calib.GoldenRuleToleranceBn
}

// BreachPenalty is the credibility lost on the n-th consecutive breach.
func BreachPenalty(n int) float64 {
	switch {
	case n >= calib.BreachSevereAt:
		return calib.BreachSevere
	case n >= calib.BreachModerateAt:
		return calib.BreachModerate
	}
	return calib.BreachMinor
}

// Evaluate updates the compliance record and applies the credibility
// consequences of breach or restored compliance.
func Evaluate(prev, next *state.Snapshot) {
	r := MustLookup(next.Political.FiscalRuleID)
	c := &next.Political.Compliance
	c.Tests = map[string]bool{}
	compliant := true
	for _, o := range Measure(r, next) {
		c.Tests[string(o.Test)] = o.Pass
		compliant = compliant && o.Pass
	}
	c.GoldenRuleOK = !r.InvestmentExempt || GoldenRuleCheck(&next.Fiscal)
	c.Compliant = compliant

	delta := 0.0
	switch {
	case !compliant:
		c.ConsecutiveBreaches++
		c.TotalBreaches++
		c.LastBreachTurn = next.Meta.Turn
		delta = -BreachPenalty(c.ConsecutiveBreaches)
		if c.ConsecutiveBreaches == 1 {
			slog.Warn("fiscal rule breached", "turn", next.Meta.Turn, "rule", r.ID, "tests", c.Tests)
			next.Emit("fiscal", r.Name+" breached", 2)
		}
	case prev.Political.Compliance.ConsecutiveBreaches > 0:
		c.ConsecutiveBreaches = 0
		delta = calib.ComplianceRestore
		slog.Info("fiscal rule compliance restored", "turn", next.Meta.Turn, "rule", r.ID)
		next.Emit("fiscal", r.Name+" back in compliance", 1)
	}
	next.Diagnostics.RuleCredibility = delta
	next.Political.Credibility = calib.Clamp(next.Political.Credibility+delta, calib.ScoreMin, calib.ScoreMax)
}
