// Package rules evaluates the player's chosen fiscal framework: which tests
// apply, how much headroom remains against them, and the credibility cost of
// breaching them.
package rules

import "github.com/talgya/chancellor/internal/calib"

// Horizon is how far ahead a framework's targets bind.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// Test names one boolean fiscal test.
type Test string

const (
	CurrentBalance Test = "current_balance"
	OverallBalance Test = "overall_balance"
	DeficitCeiling Test = "deficit_ceiling"
	DebtTarget     Test = "debt_target"
	DebtFalling    Test = "debt_falling"
	GoldenRule     Test = "golden_rule"
)

// Rule is one selectable fiscal framework.
type Rule struct {
	ID               string
	Name             string
	InvestmentExempt bool
	Horizon          Horizon
	Tests            []Test
	DeficitCeiling   float64 // % GDP
	DebtTarget       float64 // % GDP
	YieldOffset      float64 // persistent gilt premium, pp
	SterlingOffset   float64 // index points
}

// Default is the framework in force at game start.
const Default = "stability_rule"

// Catalog lists every framework the player can pick.
var Catalog = []Rule{
	{
		ID:               "stability_rule",
		Name:             "Stability rule",
		InvestmentExempt: true,
		Horizon:          HorizonMedium,
		Tests:            []Test{CurrentBalance, DebtFalling, GoldenRule},
	},
	{
		ID:               "golden_rule",
		Name:             "Golden rule",
		InvestmentExempt: true,
		Horizon:          HorizonLong,
		Tests:            []Test{CurrentBalance, DebtFalling, GoldenRule},
		YieldOffset:      0.05,
	},
	{
		ID:             "maastricht",
		Name:           "Maastricht-style deficit ceiling",
		Horizon:        HorizonMedium,
		Tests:          []Test{DeficitCeiling, DebtFalling},
		DeficitCeiling: 3.0,
		YieldOffset:    -0.05,
	},
	{
		ID:             "balanced_budget",
		Name:           "Balanced budget",
		Horizon:        HorizonShort,
		Tests:          []Test{OverallBalance, DebtFalling},
		YieldOffset:    -0.10,
		SterlingOffset: 1.0,
	},
	{
		ID:             "debt_anchor",
		Name:           "Debt anchor",
		Horizon:        HorizonShort,
		Tests:          []Test{DeficitCeiling, DebtTarget, DebtFalling},
		DeficitCeiling: 3.5,
		DebtTarget:     100.0,
		YieldOffset:    -0.03,
	},
	{
		ID:             "discretion",
		Name:           "Full discretion",
		Horizon:        HorizonShort,
		YieldOffset:    0.35,
		SterlingOffset: -2.0,
	},
}

// Lookup returns the framework with the given ID.
func Lookup(id string) (Rule, bool) {
	for _, r := range Catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// MustLookup returns the framework or the default when id is unknown.
func MustLookup(id string) Rule {
	if r, ok := Lookup(id); ok {
		return r
	}
	r, _ := Lookup(Default)
	return r
}

// currentTolerance is how far (% GDP) the current budget may sit in deficit
// before the test fails, by horizon.
func currentTolerance(h Horizon) float64 {
	switch h {
	case HorizonMedium:
		return calib.CurrentToleranceMedium
	case HorizonLong:
		return calib.CurrentToleranceLong
	}
	return 0
}
