package calib

// Monetary policy committee.
const (
	BaselineBankRate  = 5.0
	RealNeutralRate   = 1.25
	TaylorGapWeight   = 0.5
	VoteTolerance     = 0.2
	RateStep          = 0.25
	BankRateMin       = 0.1
	BankRateMax       = 8.0
	StanceNoiseSD     = 0.10
	ForecastInflation = 0.6 // weight of current inflation in the committee forecast
)

// CommitteeMember seeds one voting member.
type CommitteeMember struct {
	Name            string
	InflationWeight float64
	StanceBias      float64 // positive = hawkish (prefers higher rates)
	Chair           bool
}

var Committee = []CommitteeMember{
	{Name: "Governor", InflationWeight: 1.5, StanceBias: 0, Chair: true},
	{Name: "Deputy Governor (Monetary Policy)", InflationWeight: 1.5, StanceBias: 0.1},
	{Name: "Deputy Governor (Financial Stability)", InflationWeight: 1.2, StanceBias: -0.1},
	{Name: "Deputy Governor (Markets)", InflationWeight: 1.4, StanceBias: 0},
	{Name: "Chief Economist", InflationWeight: 1.8, StanceBias: 0.25},
	{Name: "External Member A", InflationWeight: 2.0, StanceBias: 0.4},
	{Name: "External Member B", InflationWeight: 1.0, StanceBias: -0.4},
	{Name: "External Member C", InflationWeight: 1.3, StanceBias: -0.2},
	{Name: "External Member D", InflationWeight: 1.6, StanceBias: 0.15},
}

// Gilt yield formation. All values in percentage points.
const (
	BaselineGilt10       = 4.1
	BaselineGilt2        = 4.0
	BaselineGilt30       = 4.6
	TermPremiumBase      = 0.3
	TermPremiumSlope     = 0.9
	QTPremiumPerBn       = 0.0015
	HeadroomPremium      = 0.15 // per % GDP of negative headroom
	HeadroomDiscount     = 0.02 // per % GDP of positive headroom, capped
	HeadroomDiscountCap  = 2.0
	DebtPremiumStart     = 90.0
	DebtPremiumSlope     = 0.02
	DebtPremiumAccel     = 110.0
	DebtPremiumQuad      = 0.004
	DeficitTolerancePct  = 3.0
	DeficitPremiumSlope  = 0.08
	TrendPremiumSlope    = 0.05
	VigilanteJumpBn      = 25.0
	VigilanteBase        = 0.4
	VigilanteSlope       = 0.01
	VigilanteCap         = 1.2
	CredibilityDiscount  = 0.006
	PsychologyYield      = 5.5
	PsychologyPerFlag    = 0.10
	PsychologyMinFlags   = 2
	MomentumCarry        = 0.3
	RolloverRiskPremium  = 0.2
	BankingStressPremium = 0.35
	YieldAdjustSpeed     = 0.3
	YieldMaxStep         = 0.5
	YieldMin             = 0.1
	YieldMax             = 15.0
	PanicRiseTrigger     = 0.4
	PanicAmplifier       = 0.5
	PanicExitFall        = 0.75
	Gilt2BankWeight      = 0.5
	Gilt2Spread          = -0.45
	Gilt30Spread         = 0.4
	Gilt30DebtShare      = 0.5
)

// IssuancePremium adjusts yields for the issuance strategy.
var IssuancePremium = map[string]float64{
	"short":    -0.05,
	"balanced": 0,
	"long":     0.08,
}

// Sterling.
const (
	BaselineSterling      = 100.0
	SterlingReferenceRate = 4.5
	SterlingRateSlope     = 3.0
	SterlingRiskSlope     = 4.0
	SterlingApproval      = 0.1
	SterlingCredibility   = 0.1
	SterlingAdjustSpeed   = 0.2
	SterlingMin           = 60.0
	SterlingMax           = 130.0
	ApprovalNeutral       = 35.0
	CredibilityNeutral    = 50.0
)

// Housing and macroprudential policy.
const (
	MortgageSpread           = 0.45
	MortgageGiltWeight       = 0.5
	BaselineMortgageRate     = 5.0
	BaselineHousePriceIndex  = 100.0
	BaselineHousePriceGrowth = 2.0
	BaselineDTI              = 135.0
	BaselineCreditGrowth     = 3.0
	HousePriceAnchor         = 4.0
	HousePriceMortgageSlope  = 2.5
	HousePriceMortgageAnchor = 4.5
	HousePriceGrowthWeight   = 0.5
	HousePriceAdjust         = 0.15
	CreditMortgageSlope      = 1.0
	CreditHousingWeight      = 0.2
	MacropruDTITrigger       = 145.0
	MacropruHPTrigger        = 10.0
	MacropruDrag             = 2.0
	MacropruTurns            = 12
	MortgageSupportTrigger   = 7.0
)

// Credit rating ladder, best first.
var RatingLadder = []string{"AAA", "AA+", "AA", "AA-", "A+", "A", "A-", "BBB+", "BBB", "BBB-", "BB+"}

// RatingThresholds gives the minimum score for each notch on RatingLadder.
var RatingThresholds = []float64{85, 78, 70, 62, 54, 46, 38, 30, 22, 14, -1e9}

// RatingPremium is the yield adjustment per notch on RatingLadder.
var RatingPremium = []float64{-0.15, -0.08, 0, 0.05, 0.15, 0.25, 0.4, 0.55, 0.7, 0.9, 1.5}

const (
	BaselineRatingNotch  = 2 // AA
	RatingReviewInterval = 6
)

// ShockProfile describes an external shock's per-unit-magnitude effects.
type ShockProfile struct {
	Kind           string
	GrowthHit      float64
	InflationPush  float64
	EnergyPush     float64
	FrictionPush   float64
	CurrentAccount float64
	YieldPremium   float64
	MinTurns       int
	MaxTurns       int
}

var Shocks = []ShockProfile{
	{Kind: "energy_spike", GrowthHit: -0.5, EnergyPush: 25, MinTurns: 6, MaxTurns: 15},
	{Kind: "trade_war", GrowthHit: -0.4, FrictionPush: 15, CurrentAccount: -0.3, MinTurns: 9, MaxTurns: 18},
	{Kind: "partner_recession", GrowthHit: -0.6, CurrentAccount: -0.8, MinTurns: 6, MaxTurns: 12},
	{Kind: "tariff_shock", GrowthHit: -0.2, FrictionPush: 8, InflationPush: 0.2, MinTurns: 6, MaxTurns: 12},
	{Kind: "banking_stress", GrowthHit: -0.5, YieldPremium: BankingStressPremium, MinTurns: 3, MaxTurns: 9},
}

// External sector.
const (
	ShockProbability       = 0.025
	ShockMagnitudeMin      = 0.6
	ShockMagnitudeMax      = 1.4
	EnergyDecay            = 0.10
	FrictionDecay          = 0.02
	BaselineCurrentAccount = -3.0
	CurrentAccountAdjust   = 0.05
	CurrentAccountSterling = -0.03
	CurrentAccountEnergy   = -0.02
	NoiseFrequency         = 0.08
	NoiseAmplitude         = 0.6
	CurrentAccountMin      = -8.0
	CurrentAccountMax      = 3.0
)

// RatingName returns the ladder label for a notch, clamping out-of-range notches.
func RatingName(notch int) string {
	if notch < 0 {
		notch = 0
	}
	if notch >= len(RatingLadder) {
		notch = len(RatingLadder) - 1
	}
	return RatingLadder[notch]
}

// Drift noise layering for the external sector.
const (
	NoiseOctaves     = 3
	NoisePersistence = 0.5
	EnergyNoise      = 4.0 // energy pressure points at full noise
	ShockRiseSpeed   = 0.5
)

// Output-gap proxy used by the committee: growth gap plus this weight on the
// unemployment gap.
const OutputGapUnemployment = 1.0

// Credit rating score. The baseline economy scores inside the AA band.
const (
	RatingScoreBase     = 101.0
	RatingDebtWeight    = 0.25
	RatingDeficitWeight = 1.5
	RatingCredWeight    = 0.15
	RatingGrowthWeight  = 1.0
	RatingBreachPenalty = 3.0
	RatingPanicPenalty  = 5.0
	RatingAnchorWeight  = 0.05
	RatingDowngradeCred = 3.0
	RatingUpgradeCred   = 1.5
)

// Market psychology stress flags.
const (
	StressCredibility  = 40.0
	StressAnchorHealth = 50.0
)

// Housing credit and debt-to-income drift.
const (
	CreditAdjust        = 0.1
	MortgageSupportExit = 6.0
)
