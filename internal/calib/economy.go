package calib

// Baseline economy at game start (July 2024 equivalent).
const (
	BaselineNominalGDP        = 2750.0 // £bn, annual
	BaselineGrowth            = 1.0    // % annualized real
	BaselineInflation         = 2.2
	BaselineAnchorHealth      = 75.0
	BaselineUnemployment      = 4.2
	BaselineNAIRU             = 4.25
	BaselineParticipation     = 63.0
	BaselineWageGrowth        = 4.0
	BaselineProductivityLevel = 100.0
	BaselineProductivity      = 0.8 // % annual growth
	LabourForceGrowth         = 0.4
)

// Trend growth and the phantom-stimulus guard.
const (
	TrendReversion = 0.15 // monthly pull of growth toward trend
	// PhantomGuardBand bounds annualized growth around trend when policy sits
	// exactly on the baseline settings.
	PhantomGuardBand = 0.75
	GrowthFloor      = -8.0
	GrowthCeiling    = 8.0
	DeltaEpsilon     = 1e-9
)

// Demand multipliers per spending category, applied to the spending delta
// expressed as % of GDP.
var SpendingMultipliers = map[string]float64{
	"nhs":           0.6,
	"education":     0.5,
	"defence":       0.4,
	"welfare":       0.7,
	"other_current": 0.5,
	"capital":       0.9,
}

// Demand-side tax multipliers (MPC-weighted), applied to the revenue-equivalent
// of a rate change expressed as % of GDP. Signs are handled by the caller.
var TaxDemandMultipliers = map[string]float64{
	"income_basic":      0.50,
	"income_higher":     0.30,
	"income_additional": 0.15,
	"ni_employee":       0.45,
	"ni_employer":       0.35,
	"vat":               0.55,
	"corporation":       0.20,
}

const (
	SlackMultiplierPerPoint = 0.10 // wider multipliers per pp unemployment above baseline
	SlackMultiplierCap      = 1.5
	InflationDampenerStart  = 3.0
	InflationDampenerSlope  = 0.10
	InflationDampenerFloor  = 0.4
	OverheatMargin          = 1.0 // growth above trend by this much dampens multipliers
	OverheatDampener        = 0.6

	CorpTaxSupplyEffect = 0.04 // annual growth pp per pp of lagged corporation tax
	CorpTaxPhaseIn      = 1.0 / 12

	NeutralNominalRate = 3.25
	MonetaryGrowthDrag = 0.15 // growth pp per pp of Bank Rate above neutral
	SterlingGrowthDrag = 0.02 // growth pp per index point above 100
	GrowthNoiseSD      = 0.10
)

// Employment.
const (
	OkunCoefficient    = -0.45 // unemployment pp per pp of annual growth gap, per year
	NAIRUReversion     = 0.03
	NAIRUPhaseIn       = 1.0 / 6
	NAIRUEmployerNI    = 0.06
	NAIRUCorpTax       = 0.02
	NAIRULowEarnerEMTR = 0.03
	NAIRUTaper         = 0.02
	NAIRUChildcare     = 0.01
	BaselineLowEMTR    = 28.0 // basic rate + employee NI
	UnemploymentMin    = 3.0
	UnemploymentMax    = 12.0
	NAIRUMin           = 3.0
	NAIRUMax           = 8.0
	ParticipationMin   = 55.0
	ParticipationMax   = 70.0
)

// Inflation.
const (
	InflationTarget       = 2.0
	InflationPersistence  = 0.55
	InflationExpectWeight = 0.45
	PhillipsSlope         = 0.12
	EnergyPassThrough     = 0.02
	SterlingPassThrough   = 0.025
	VATPassThrough        = 0.12
	SpiralThreshold       = 1.5
	SpiralSlope           = 0.08
	InflationShockSD      = 0.08
	InflationMin          = -2.0
	InflationMax          = 20.0
	AdaptiveWindow        = 3
	AnchorErodeMild       = 3.5
	AnchorErodeModerate   = 5.0
	AnchorErodeSevere     = 8.0
	AnchorErodeMildRate   = 1.0
	AnchorErodeModRate    = 2.5
	AnchorErodeSevereRate = 5.0
	AnchorRecoverBelow    = 3.0
	AnchorRecoverRate     = 1.0
)

// Wages.
const (
	WageExpectationWeight = 1.0
	WageTightness         = 0.5
	WageAdjustSpeed       = 0.20
	WageMin               = -5.0
	WageMax               = 20.0
)

// Productivity.
const (
	ProductivityCapitalEffect = 0.15 // per % GDP of extra capital spend
	ProductivityServiceEffect = 0.005
	ProductivityRDEffect      = 0.02
	ProductivityFriction      = 0.01
	ProductivityAdjust        = 0.10
	ProductivityMin           = -2.0
	ProductivityMax           = 4.0
	BaselineTradeFriction     = 5.0
)

// Participation drift.
const (
	ParticipationGapSlope = 0.3
	ParticipationAdjust   = 0.05
)

// AnchorWarning is the anchor-health level below which de-anchoring is reported.
const AnchorWarning = 40.0
