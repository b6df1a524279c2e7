package calib

// SpendSource names where a service's money comes from.
type SpendSource struct {
	Department string // department ID, or "" when a detailed line funds it
	Capital    bool   // capital rather than current budget
	Line       string // detailed line item ID
}

// ServiceSpec calibrates one tracked service index.
type ServiceSpec struct {
	ID           string
	Source       SpendSource
	DemandGrowth float64 // annual % growth of the demand-adjusted baseline
	Baseline     float64 // starting index
}

// Headline services.
const (
	ServiceNHS            = "nhs"
	ServiceEducation      = "education"
	ServiceInfrastructure = "infrastructure"
)

var HeadlineServices = []ServiceSpec{
	{ID: ServiceNHS, Source: SpendSource{Department: "nhs"}, DemandGrowth: 3.5, Baseline: 62},
	{ID: ServiceEducation, Source: SpendSource{Department: "education"}, DemandGrowth: 1.5, Baseline: 65},
	{ID: ServiceInfrastructure, Source: SpendSource{Department: "infrastructure", Capital: true}, DemandGrowth: 2.0, Baseline: 55},
}

var GranularServices = []ServiceSpec{
	{ID: "mental_health_access", Source: SpendSource{Department: "nhs"}, DemandGrowth: 4.5, Baseline: 48},
	{ID: "primary_care", Source: SpendSource{Department: "nhs"}, DemandGrowth: 3.0, Baseline: 55},
	{ID: "social_care", Source: SpendSource{Line: LineLocalGovGrant}, DemandGrowth: 4.0, Baseline: 45},
	{ID: "prison_safety", Source: SpendSource{Department: "justice"}, DemandGrowth: 2.5, Baseline: 40},
	{ID: "court_backlog", Source: SpendSource{Department: "justice"}, DemandGrowth: 2.0, Baseline: 42},
	{ID: "legal_aid", Source: SpendSource{Line: LineLegalAid}, DemandGrowth: 2.0, Baseline: 45},
	{ID: "policing", Source: SpendSource{Department: "police"}, DemandGrowth: 2.0, Baseline: 55},
	{ID: "border_security", Source: SpendSource{Line: LineBorderForce}, DemandGrowth: 3.0, Baseline: 50},
	{ID: "rail_reliability", Source: SpendSource{Department: "infrastructure"}, DemandGrowth: 2.5, Baseline: 52},
	{ID: "affordable_housing", Source: SpendSource{Department: "other", Capital: true}, DemandGrowth: 2.0, Baseline: 40},
	{ID: "flood_resilience", Source: SpendSource{Department: "infrastructure", Capital: true}, DemandGrowth: 3.0, Baseline: 58},
	{ID: "research_output", Source: SpendSource{Department: "education", Capital: true}, DemandGrowth: 1.5, Baseline: 70},
}

// Quality response curve.
const (
	NeutralBandLow      = 0.98
	NeutralBandHigh     = 1.02
	BonusScale          = 0.3
	BonusSteepness      = 20.0
	PenaltyScale        = 40.0
	PenaltyEscalate1    = 0.90
	PenaltyEscalate1Mul = 1.5
	PenaltyEscalate2    = 0.80
	PenaltyEscalate2Mul = 2.0
	PositiveLag         = 0.25
	NegativeLag         = 0.60
	HighQuality         = 75.0
	HighQualityMul      = 0.6
	VeryHighQuality     = 85.0
	VeryHighQualityMul  = 0.3
	QualityMin          = 0.0
	QualityMax          = 100.0
	RDServiceBoost      = 0.02 // research output per pp of R&D credit above baseline
)

// StrikeSpec configures industrial action for one sector.
type StrikeSpec struct {
	Sector        string
	Service       string
	QualityFloor  float64
	CutMonths     int // consecutive real-cut months before a strike is possible
	BaseChance    float64
	ChancePerMon  float64 // added per month beyond CutMonths
	DurationTurns int
	CooldownTurns int
	QualityHit    float64 // per month on the sector's index while striking
}

var Strikes = []StrikeSpec{
	{Sector: "nhs", Service: ServiceNHS, QualityFloor: 55, CutMonths: 6, BaseChance: 0.5, ChancePerMon: 0.1, DurationTurns: 3, CooldownTurns: 12, QualityHit: 0.8},
	{Sector: "education", Service: ServiceEducation, QualityFloor: 55, CutMonths: 6, BaseChance: 0.4, ChancePerMon: 0.1, DurationTurns: 2, CooldownTurns: 12, QualityHit: 0.5},
	{Sector: "rail", Service: "rail_reliability", QualityFloor: 45, CutMonths: 6, BaseChance: 0.4, ChancePerMon: 0.1, DurationTurns: 2, CooldownTurns: 12, QualityHit: 0.6},
}

// Distribution.
const (
	BaselineGini         = 0.35
	BaselinePoverty      = 17.0
	BaselineChildPoverty = 29.0
	GiniMin              = 0.2
	GiniMax              = 0.6
	PovertyMin           = 5.0
	PovertyMax           = 40.0
)

// Decile exposure tables, lowest decile first.
var (
	DecileBaseTaxRate   = [10]float64{34, 27, 27, 29, 31, 33, 34, 35, 35, 34}
	DecileBasicExposure = [10]float64{0.02, 0.10, 0.30, 0.50, 0.60, 0.65, 0.65, 0.60, 0.50, 0.35}
	DecileHigherExp     = [10]float64{0, 0, 0, 0, 0, 0.02, 0.05, 0.12, 0.25, 0.35}
	DecileAdditionalExp = [10]float64{0, 0, 0, 0, 0, 0, 0, 0, 0.02, 0.20}
	DecileVATShare      = [10]float64{0.22, 0.16, 0.14, 0.12, 0.11, 0.10, 0.09, 0.085, 0.08, 0.06}
	DecileWageShare     = [10]float64{0.2, 0.4, 0.6, 0.75, 0.85, 0.9, 0.9, 0.9, 0.85, 0.7}
	DecileBenefitShare  = [10]float64{0.6, 0.45, 0.3, 0.2, 0.12, 0.08, 0.05, 0.03, 0.02, 0.01}
)

// Distribution response.
const (
	DecileNIWeight        = 0.8 // employee NI pass-through per unit of wage share
	DecileVATWeight       = 3.0 // effective-rate pp per VAT pp per unit of spending share
	DecileTaxIncomeWeight = 1.0 // real income pp lost per pp of effective rate
	DecileTaperWeight     = 0.1 // real income pp per pp of UC taper below baseline, per unit of benefit share
	DistributionAdjust    = 0.1
	GiniIncomeGap         = 0.004 // per pp gap between top and bottom decile income change
	GiniUnemployment      = 0.002
	PovertyUnemployment   = 0.5
	PovertyBottomIncome   = 0.3
	ChildPovertyChildcare = 0.1 // pp per funded hour above baseline
	ChildPovertyMax       = 60.0
)
