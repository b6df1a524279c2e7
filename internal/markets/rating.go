package markets

import (
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// Outlooks.
const (
	OutlookStable   = "stable"
	OutlookNegative = "negative"
	OutlookPositive = "positive"
)

// RatingScore is the agency's view of sovereign strength; higher is better.
func RatingScore(s *state.Snapshot) float64 {
	score := calib.RatingScoreBase -
		calib.RatingDebtWeight*s.Fiscal.DebtPctGDP -
		calib.RatingDeficitWeight*math.Max(0, s.Fiscal.DeficitPctGDP) +
		calib.RatingCredWeight*(s.Political.Credibility-calib.CredibilityNeutral) +
		calib.RatingGrowthWeight*(s.Economic.GrowthAnnual-s.Economic.TrendGrowth) -
		calib.RatingAnchorWeight*math.Max(0, calib.BaselineAnchorHealth-s.Economic.AnchorHealth)
	if !s.Political.Compliance.Compliant {
		score -= calib.RatingBreachPenalty
	}
	if s.Markets.LDIPanic {
		score -= calib.RatingPanicPenalty
	}
	return score
}

// NotchFor maps a score onto the ladder.
func NotchFor(score float64) int {
	for i, th := range calib.RatingThresholds {
		if score >= th {
			return i
		}
	}
	return len(calib.RatingLadder) - 1
}

// IsReviewTurn reports whether the agency reviews the rating on turn.
func IsReviewTurn(turn int) bool {
	return turn > 0 && turn%calib.RatingReviewInterval == 0
}

// ReviewRating re-rates the sovereign on review turns only. A move in either
// direction first changes the outlook; the notch moves one step at the next
// review if the pressure persists.
func ReviewRating(prev, next *state.Snapshot) {
	if !IsReviewTurn(next.Meta.Turn) {
		return
	}
	p := &next.Political
	next.Diagnostics.RatingReviewed = true
	target := NotchFor(RatingScore(next))

	switch {
	case target > p.RatingNotch:
		if p.RatingOutlook == OutlookNegative {
			p.RatingNotch++
			p.RatingOutlook = OutlookStable
			p.Credibility = calib.Clamp(p.Credibility-calib.RatingDowngradeCred, calib.ScoreMin, calib.ScoreMax)
		} else {
			p.RatingOutlook = OutlookNegative
		}
	case target < p.RatingNotch:
		if p.RatingOutlook == OutlookPositive {
			p.RatingNotch--
			p.RatingOutlook = OutlookStable
			p.Credibility = calib.Clamp(p.Credibility+calib.RatingUpgradeCred, calib.ScoreMin, calib.ScoreMax)
		} else {
			p.RatingOutlook = OutlookPositive
		}
	default:
		p.RatingOutlook = OutlookStable
	}

	if p.RatingNotch != prev.Political.RatingNotch {
		next.Diagnostics.RatingChanged = true
		name := calib.RatingName(p.RatingNotch)
		slog.Warn("credit rating changed", "turn", next.Meta.Turn, "from", calib.RatingName(prev.Political.RatingNotch), "to", name)
		next.Emit("markets", "Sovereign rating moved to "+name, 3)
	} else if p.RatingOutlook != prev.Political.RatingOutlook {
		slog.Info("rating outlook changed", "turn", next.Meta.Turn, "outlook", p.RatingOutlook)
		next.Emit("markets", "Rating outlook now "+p.RatingOutlook, 1)
	}
}
