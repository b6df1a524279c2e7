package markets

import (
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/state"
)

// UpdateSterling moves the trade-weighted index toward a level set by the
// rate differential, fiscal risk premia and political confidence, then
// refreshes the mortgage rate.
func UpdateSterling(prev, next *state.Snapshot) {
	mk := &next.Markets
	b := mk.Breakdown
	risk := math.Max(0, b.Debt+b.Deficit+b.Trend+b.Vigilante+b.Psychology)

	target := calib.BaselineSterling +
		calib.SterlingRateSlope*(mk.BankRate-calib.SterlingReferenceRate) -
		calib.SterlingRiskSlope*risk +
		calib.SterlingApproval*(next.Political.Approval-calib.ApprovalNeutral) +
		calib.SterlingCredibility*(next.Political.Credibility-calib.CredibilityNeutral) +
		rules.MustLookup(next.Political.FiscalRuleID).SterlingOffset
	mk.Sterling = calib.Clamp(calib.Approach(prev.Markets.Sterling, target, calib.SterlingAdjustSpeed),
		calib.SterlingMin, calib.SterlingMax)

	mk.MortgageRate = calib.MortgageGiltWeight*mk.Gilt2 + (1-calib.MortgageGiltWeight)*mk.BankRate + calib.MortgageSpread
}

// UpdateHousing runs the house-price and credit loop and the FPC's
// macroprudential and mortgage-support interventions.
func UpdateHousing(prev, next *state.Snapshot) {
	fs := &next.Financial
	mortgage := next.Markets.MortgageRate

	target := calib.HousePriceAnchor -
		calib.HousePriceMortgageSlope*(mortgage-calib.HousePriceMortgageAnchor) +
		calib.HousePriceGrowthWeight*(next.Economic.GrowthAnnual-next.Economic.TrendGrowth)
	if fs.Macroprudential.Active {
		target -= calib.MacropruDrag
	}
	fs.HousePriceGrowth = calib.Approach(prev.Financial.HousePriceGrowth, target, calib.HousePriceAdjust)
	fs.HousePriceIndex = prev.Financial.HousePriceIndex * (1 + calib.Monthly(fs.HousePriceGrowth)/100)

	credit := calib.BaselineCreditGrowth -
		calib.CreditMortgageSlope*(mortgage-calib.HousePriceMortgageAnchor) +
		calib.CreditHousingWeight*(fs.HousePriceGrowth-calib.BaselineHousePriceGrowth)
	if fs.Macroprudential.Active {
		credit -= calib.MacropruDrag
	}
	fs.CreditGrowth = calib.Approach(prev.Financial.CreditGrowth, credit, calib.CreditAdjust)
	fs.HouseholdDTI = math.Max(0, prev.Financial.HouseholdDTI*(1+(fs.CreditGrowth-next.Economic.WageGrowth)/1200))

	mp := &fs.Macroprudential
	switch {
	case mp.Active:
		mp.TurnsRemaining--
		if mp.TurnsRemaining <= 0 {
			*mp = state.Macroprudential{}
			slog.Info("macroprudential measures lifted", "turn", next.Meta.Turn)
		}
	case fs.HouseholdDTI > calib.MacropruDTITrigger:
		*mp = state.Macroprudential{Active: true, Kind: "dti_limit", TurnsRemaining: calib.MacropruTurns}
	case fs.HousePriceGrowth > calib.MacropruHPTrigger:
		*mp = state.Macroprudential{Active: true, Kind: "ltv_limit", TurnsRemaining: calib.MacropruTurns}
	}
	if mp.Active && !prev.Financial.Macroprudential.Active {
		slog.Info("macroprudential intervention", "turn", next.Meta.Turn, "kind", mp.Kind)
		next.Emit("markets", "FPC tightens mortgage lending rules", 1)
	}

	switch {
	case !fs.MortgageSupportActive && mortgage > calib.MortgageSupportTrigger:
		fs.MortgageSupportActive = true
		slog.Warn("mortgage support scheme opened", "turn", next.Meta.Turn, "mortgage_rate", mortgage)
		next.Emit("markets", "Treasury opens mortgage support scheme", 2)
	case fs.MortgageSupportActive && mortgage < calib.MortgageSupportExit:
		fs.MortgageSupportActive = false
	}
}
