// Package markets forms gilt yields, sterling, mortgage rates and the
// housing loop, and runs the periodic credit-rating review.
package markets

import (
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/external"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/state"
)

// debtPremium is linear above DebtPremiumStart and adds a quadratic term
// above DebtPremiumAccel.
func debtPremium(debtPct float64) float64 {
	p := 0.0
	if debtPct > calib.DebtPremiumStart {
		p += calib.DebtPremiumSlope * (debtPct - calib.DebtPremiumStart)
	}
	if over := debtPct - calib.DebtPremiumAccel; over > 0 {
		p += calib.DebtPremiumQuad * over * over
	}
	return p
}

// trendPremium prices the annualized debt-ratio trajectory, preferring a
// 12-month window and degrading to 6 months, then to no trend.
func trendPremium(s *state.Snapshot) float64 {
	for _, n := range []int{12, 6} {
		if past, ok := history.MonthsAgo(s.History, n-1); ok {
			annual := (s.Fiscal.DebtPctGDP - past.DebtPctGDP) / float64(n) * 12
			return calib.TrendPremiumSlope * annual
		}
	}
	return 0
}

// stressFlags counts the market-stress conditions psychology reacts to.
func stressFlags(s *state.Snapshot) int {
	n := 0
	for _, flag := range []bool{
		s.Fiscal.DeficitPctGDP > calib.DeficitTolerancePct,
		s.Fiscal.DebtPctGDP > calib.DebtPremiumAccel,
		s.Fiscal.HeadroomBn < 0,
		!s.Political.Compliance.Compliant,
		s.Political.Credibility < calib.StressCredibility,
		s.Economic.AnchorHealth < calib.StressAnchorHealth,
	} {
		if flag {
			n++
		}
	}
	return n
}

// TargetYield assembles the 10-year target from its premia.
func TargetYield(prev, next *state.Snapshot) state.YieldBreakdown {
	f := next.Fiscal
	gdp := next.Economic.NominalGDP
	bank := next.Markets.BankRate
	b := state.YieldBreakdown{Base: bank}

	b.Term = calib.TermPremiumBase - calib.TermPremiumSlope*(bank-calib.NeutralNominalRate)
	if !next.Debt.QTPaused {
		b.QT = calib.QTPremiumPerBn * next.Debt.QTPaceBn
	}
	headroomPct := calib.PctOfGDP(f.HeadroomBn, gdp)
	if headroomPct < 0 {
		b.Headroom = -calib.HeadroomPremium * headroomPct
	} else {
		b.Headroom = -calib.HeadroomDiscount * math.Min(headroomPct, calib.HeadroomDiscountCap)
	}
	b.Debt = debtPremium(f.DebtPctGDP)
	if over := f.DeficitPctGDP - calib.DeficitTolerancePct; over > 0 {
		b.Deficit = calib.DeficitPremiumSlope * over
	}
	b.Trend = trendPremium(next)
	if jump := f.DeficitBn - prev.Fiscal.DeficitBn; jump > calib.VigilanteJumpBn {
		b.Vigilante = math.Min(calib.VigilanteBase+calib.VigilanteSlope*(jump-calib.VigilanteJumpBn), calib.VigilanteCap)
	}
	b.Credibility = -calib.CredibilityDiscount * (next.Political.Credibility - calib.CredibilityNeutral)
	b.Rating = calib.RatingPremium[clampNotch(next.Political.RatingNotch)]
	b.Rule = rules.MustLookup(next.Political.FiscalRuleID).YieldOffset

	if flags := stressFlags(next); prev.Markets.Gilt10 > calib.PsychologyYield && flags >= calib.PsychologyMinFlags {
		b.Psychology = calib.PsychologyPerFlag*float64(flags) + calib.MomentumCarry*math.Max(0, prev.Markets.YieldMomentum)
	}
	b.Issuance = calib.IssuancePremium[string(next.Debt.Strategy)]
	b.Rollover = calib.RolloverRiskPremium * next.Debt.Refinancing / 100
	b.External = external.YieldEffect(next.External)
	for _, m := range next.RiskModifiers {
		b.Policy += m.YieldPremium
	}

	b.Target = calib.Clamp(b.Base+b.Term+b.QT+b.Headroom+b.Debt+b.Deficit+b.Trend+b.Vigilante+
		b.Credibility+b.Rating+b.Rule+b.Psychology+b.Issuance+b.Rollover+b.External+b.Policy,
		calib.YieldMin, calib.YieldMax)
	return b
}

func clampNotch(n int) int {
	return max(0, min(n, len(calib.RatingLadder)-1))
}

// UpdateGilts moves the 10-year yield toward target at a bounded speed and
// derives the 2- and 30-year points. On difficulties that allow it, a sharp
// monthly rise starts an LDI panic: yields jump straight to an amplified
// target until they fall back meaningfully from the peak.
func UpdateGilts(prev, next *state.Snapshot) {
	mk := &next.Markets
	b := TargetYield(prev, next)
	mk.Breakdown = b
	last := prev.Markets.Gilt10

	step := calib.Clamp((b.Target-last)*calib.YieldAdjustSpeed, -calib.YieldMaxStep, calib.YieldMaxStep)
	gilt := last + step

	if calib.DifficultyFor(string(next.Meta.Difficulty)).PanicEnabled {
		if !mk.LDIPanic && step >= calib.PanicRiseTrigger {
			mk.LDIPanic = true
			mk.PanicPeakYield = 0
			slog.Warn("LDI panic", "turn", next.Meta.Turn, "gilt_10y", last, "target", b.Target)
			next.Emit("markets", "Pension funds dump gilts as LDI margin calls bite", 3)
		}
		if mk.LDIPanic {
			gilt = calib.Clamp(b.Target+calib.PanicAmplifier*math.Max(0, b.Target-last), calib.YieldMin, calib.YieldMax)
			mk.PanicPeakYield = math.Max(mk.PanicPeakYield, gilt)
			if gilt < mk.PanicPeakYield-calib.PanicExitFall {
				mk.LDIPanic = false
				slog.Info("LDI panic over", "turn", next.Meta.Turn, "gilt_10y", gilt)
			}
		}
	}
	mk.Gilt10 = calib.Clamp(gilt, calib.YieldMin, calib.YieldMax)
	mk.YieldMomentum = mk.Gilt10 - last
	mk.Gilt2 = calib.Clamp(calib.Gilt2BankWeight*mk.BankRate+(1-calib.Gilt2BankWeight)*mk.Gilt10+calib.Gilt2Spread,
		calib.YieldMin, calib.YieldMax)
	mk.Gilt30 = calib.Clamp(mk.Gilt10+calib.Gilt30Spread+calib.Gilt30DebtShare*b.Debt, calib.YieldMin, calib.YieldMax)
}
