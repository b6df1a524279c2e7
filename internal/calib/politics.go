package calib

// Political baselines and ranges.
const (
	BaselineApproval    = 40.0
	BaselineBackbench   = 70.0
	BaselinePMTrust     = 70.0
	BaselineCredibility = 60.0
	ApprovalMin         = 10.0
	ApprovalMax         = 70.0
	ScoreMin            = 0.0
	ScoreMax            = 100.0
)

// Equilibria and reversion speeds.
const (
	ApprovalEquilibrium    = 38.0
	ApprovalReversion      = 0.05
	BackbenchEquilibrium   = 65.0
	BackbenchReversion     = 0.05
	PMTrustEquilibrium     = 65.0
	PMTrustReversion       = 0.04
	CredibilityEquilibrium = 60.0
	CredibilityReversion   = 0.02
)

// Approval weights (per month, per unit).
const (
	ApprovalGrowth        = 0.15
	ApprovalInflation     = 0.25
	ApprovalInflationFree = 2.5
	ApprovalUnemployment  = 0.15
	ApprovalRealWage      = 0.08
	ApprovalNHS           = 0.03
	ApprovalEducation     = 0.015
	ApprovalInfra         = 0.01
	ApprovalBasicRate     = 0.12
	ApprovalHigherRate    = 0.04
	ApprovalNIEmployee    = 0.08
	ApprovalVAT           = 0.10
	ApprovalCredibility   = 0.01
	ApprovalMortgagePain  = 0.10
	MortgagePainFrom      = 5.5
	ApprovalPoverty       = 0.03
	StrikePenalty         = 0.6
	HoneymoonBonus        = 2.0
	HoneymoonDecay        = 0.85
	HoneymoonTurns        = 12
	Section114Approval    = 0.5
)

// Backbench and PM trust weights.
const (
	BackbenchApproval    = 0.08
	BackbenchCredibility = 0.02
	BackbenchViolation   = 1.5
	BackbenchRebellion   = 0.05
	BackbenchWhip        = 0.03
	BackbenchStrike      = 0.5
	BackbenchInquiry     = 0.8
	BackbenchBusinessTax = 0.05
	PMTrustApproval      = 0.05
	PMTrustCredibility   = 0.04
	PMTrustViolation     = 2.0
	PMTrustBreach        = 1.0
	PMTrustPending       = 1.5
	CredibilityGiltPain  = 0.3
	CredibilityGiltFrom  = 5.5
	CredibilityAnchor    = 0.01
	CredibilityBacklog   = 0.01 // per £bn of delivery backlog
)

// Death-spiral guards.
const (
	RecoveryBelow       = 25.0
	RecoveryMultiplier  = 1.5
	SoftFloorBelow      = 20.0
	SoftFloorMultiplier = 0.5
)

// Manifesto penalties: the k-th violation costs ViolationExtraBase*(k-1)^ViolationExtraPow
// on top of the pledge's declared cost, so the first breach is mild.
const (
	ViolationExtraBase = 1.5
	ViolationExtraPow  = 1.5
)

// Fiscal rule engine credibility penalties.
const (
	BreachMinor       = 0.5
	BreachModerate    = 1.5
	BreachSevere      = 3.0
	BreachModerateAt  = 3
	BreachSevereAt    = 6
	ComplianceRestore = 1.0
)

// PM intervention triggers, in priority order.
const (
	PMTrustGate          = 70.0
	RevoltBackbench      = 30.0
	CollapseApproval     = 20.0
	CrisisGilt           = 6.5
	CrisisDebtPct        = 110.0
	ChanceRevolt         = 0.7
	ChanceManifesto      = 0.5
	ChanceCollapse       = 0.4
	ChanceCrisis         = 0.6
	ComplyTrust          = 6.0
	ComplyBackbench      = 4.0
	ComplyApproval       = 1.0
	DefyTrust            = 12.0
	ReshuffleRiskPerSev  = 0.35
	InterventionDeadline = 3
)

// Parliament.
const (
	BaselineWhip             = 70.0
	WhipBackbench            = 0.05
	WhipRebellion            = 0.2
	WhipReversion            = 0.03
	CommitteeDecay           = 0.92
	InquiryThreshold         = 70.0
	InquiryTurns             = 6
	InquiryResetPressure     = 30.0
	InquiryCredibility       = 0.4
	InquiryBackbench         = 0.3
	ConfidenceLowBackbench   = 30.0
	ConfidenceLowMonths      = 3
	ConfidenceRebelShare     = 0.2
	ConfidenceMajority       = 0.5
	ConfidenceCooldown       = 12
	ConfidenceWinBackbench   = 8.0
	StanceRebelThreshold     = 0.6
	StanceUndecidedThreshold = 0.4
)

// Devolution and local government.
const (
	BaselineLocalStress    = 40.0
	LocalStressSlope       = 150.0
	LocalStressAdjust      = 0.1
	Section114Stress       = 75.0
	Section114ChanceDiv    = 50.0
	Section114Credibility  = 0.5
	BaselineDevolvedStrain = 30.0
	DevolvedBarnettSlope   = 1.0
	DevolvedAdjust         = 0.1
)

// Spending review delivery.
const (
	BaselineCapacity     = 85.0
	CapacityGrowth       = 0.5
	CapacityAllowanceDiv = 1000.0 // capacity/1000 = share of start budget deliverable as growth
	BacklogDecay         = 0.10
)

// Difficulty tunes terminal thresholds and the LDI panic loop.
type Difficulty struct {
	DebtGameOver      float64
	GiltGameOver      float64
	PMTrustGameOver   float64
	BackbenchGameOver float64
	PanicEnabled      bool
}

var Difficulties = map[string]Difficulty{
	"easy":     {DebtGameOver: 140, GiltGameOver: 9.0, PMTrustGameOver: 10, BackbenchGameOver: 10},
	"standard": {DebtGameOver: 120, GiltGameOver: 8.0, PMTrustGameOver: 10, BackbenchGameOver: 10},
	"hard":     {DebtGameOver: 110, GiltGameOver: 7.5, PMTrustGameOver: 15, BackbenchGameOver: 15, PanicEnabled: true},
}

// DifficultyFor returns the difficulty table for name, defaulting to standard.
func DifficultyFor(name string) Difficulty {
	if d, ok := Difficulties[name]; ok {
		return d
	}
	return Difficulties["standard"]
}

// Committee scrutiny drivers (pressure added per month).
const (
	TreasuryBreachPressure   = 1.5 // per consecutive breach
	TreasuryGiltPressure     = 2.0 // per pp of 10y yield above CrisisGilt-1
	HealthQualityPressure    = 0.25
	HealthStrikePressure     = 3.0
	ServiceQualityReference  = 60.0
	EducationQualityPressure = 0.25
	PACBacklogPressure       = 0.2 // per £bn of delivery backlog
	PACEmergencyPressure     = 1.0 // per live emergency programme
	PACSection114Pressure    = 4.0
	CommitteePressureMax     = 100.0
)

// Standing extras.
const (
	BusinessTaxEmployerNI = 13.8
	BusinessTaxCorp       = 25.0
	SeverityFloor         = 0.3
	ConfidenceUndecided   = 0.5 // weight of an undecided MP relative to whip strength
)

// Game-over reasons.
const (
	ReasonDebtSpiral = "debt spiral"
	ReasonGiltCrisis = "gilt market crisis"
	ReasonSacked     = "sacked by the Prime Minister"
	ReasonRevolt     = "backbench revolt"
	ReasonConfidence = "government lost a confidence vote"
	ReasonReshuffled = "reshuffled out of the Treasury"
)
