package calib

// TaxInstrument describes how one headline tax raises revenue.
type TaxInstrument struct {
	ID                 string
	BaselineRate       float64
	BaselineRevenueBn  float64
	SensitivityBn      float64 // static revenue per pp of rate
	GDPElasticity      float64 // revenue scales with (nominal GDP / baseline)^elasticity
	AvoidanceThreshold float64 // 0 means no behavioural erosion curve
	AvoidanceScale     float64 // share of baseline revenue lost at exp(1)-1
	AvoidanceCurvature float64 // exponent per pp above threshold
}

// Headline instrument IDs.
const (
	TaxIncomeBasic      = "income_basic"
	TaxIncomeHigher     = "income_higher"
	TaxIncomeAdditional = "income_additional"
	TaxNIEmployee       = "ni_employee"
	TaxNIEmployer       = "ni_employer"
	TaxVAT              = "vat"
	TaxCorporation      = "corporation"
)

// TaxInstruments lists the headline taxes in evaluation order.
var TaxInstruments = []TaxInstrument{
	{ID: TaxIncomeBasic, BaselineRate: 20, BaselineRevenueBn: 160, SensitivityBn: 7.0, GDPElasticity: 1.1},
	{ID: TaxIncomeHigher, BaselineRate: 40, BaselineRevenueBn: 85, SensitivityBn: 2.2, GDPElasticity: 1.3},
	{ID: TaxIncomeAdditional, BaselineRate: 45, BaselineRevenueBn: 40, SensitivityBn: 0.5, GDPElasticity: 1.5,
		AvoidanceThreshold: 50, AvoidanceScale: 0.03, AvoidanceCurvature: 0.25},
	{ID: TaxNIEmployee, BaselineRate: 8, BaselineRevenueBn: 55, SensitivityBn: 6.0, GDPElasticity: 1.0,
		AvoidanceThreshold: 12, AvoidanceScale: 0.02, AvoidanceCurvature: 0.30},
	{ID: TaxNIEmployer, BaselineRate: 13.8, BaselineRevenueBn: 110, SensitivityBn: 7.5, GDPElasticity: 1.0,
		AvoidanceThreshold: 15, AvoidanceScale: 0.02, AvoidanceCurvature: 0.30},
	{ID: TaxVAT, BaselineRate: 20, BaselineRevenueBn: 175, SensitivityBn: 8.0, GDPElasticity: 1.0,
		AvoidanceThreshold: 20, AvoidanceScale: 0.015, AvoidanceCurvature: 0.25},
	{ID: TaxCorporation, BaselineRate: 25, BaselineRevenueBn: 95, SensitivityBn: 3.2, GDPElasticity: 1.4,
		AvoidanceThreshold: 30, AvoidanceScale: 0.03, AvoidanceCurvature: 0.20},
}

// Instrument returns the headline instrument with the given ID.
func Instrument(id string) (TaxInstrument, bool) {
	for _, ti := range TaxInstruments {
		if ti.ID == id {
			return ti, true
		}
	}
	return TaxInstrument{}, false
}

// OtherReceiptsBn covers every receipt not modelled as a headline instrument
// or a detailed line item. Scales with nominal GDP.
const OtherReceiptsBn = 274.0

// LineKind distinguishes detailed line items.
type LineKind string

const (
	LineTax       LineKind = "tax"
	LineSpend     LineKind = "spend"
	LineParameter LineKind = "parameter"
)

// LineItem is the calibration of one detailed tax/spending line.
// Tax lines raise BaselineBn at BaselineRate and SensitivityBn per unit of
// rate above it. Spend lines cost their budget. Parameter lines cost
// SensitivityBn per unit of deviation from BaselineRate.
type LineItem struct {
	ID                 string
	Kind               LineKind
	BaselineRate       float64
	BaselineBn         float64
	SensitivityBn      float64
	AvoidanceThreshold float64
	AvoidanceScale     float64
	AvoidanceCurvature float64
}

// Detailed line item IDs referenced by stages.
const (
	LineFuelDuty      = "fuel_duty"
	LineCGT           = "capital_gains_tax"
	LineStampDuty     = "stamp_duty"
	LineAlcoholDuty   = "alcohol_duty"
	LineRDTaxCredit   = "rd_tax_credit"
	LineLocalGovGrant = "local_gov_grant"
	LineLegalAid      = "legal_aid"
	LineBorderForce   = "border_force"
	LineUCTaper       = "uc_taper"
	LineChildcare     = "childcare_hours"
)

// LineItems is the detailed-line catalogue.
var LineItems = map[string]LineItem{
	LineFuelDuty:    {ID: LineFuelDuty, Kind: LineTax, BaselineRate: 52.95, BaselineBn: 24.5, SensitivityBn: 0.5},
	LineCGT:         {ID: LineCGT, Kind: LineTax, BaselineRate: 20, BaselineBn: 15, SensitivityBn: 0.4, AvoidanceThreshold: 28, AvoidanceScale: 0.05, AvoidanceCurvature: 0.2},
	LineStampDuty:   {ID: LineStampDuty, Kind: LineTax, BaselineRate: 5, BaselineBn: 12, SensitivityBn: 1.5},
	LineAlcoholDuty: {ID: LineAlcoholDuty, Kind: LineTax, BaselineRate: 100, BaselineBn: 12.5, SensitivityBn: 0.08},
	// A more generous R&D credit costs receipts.
	LineRDTaxCredit:   {ID: LineRDTaxCredit, Kind: LineTax, BaselineRate: 27, BaselineBn: -8, SensitivityBn: -0.3},
	LineLocalGovGrant: {ID: LineLocalGovGrant, Kind: LineSpend, BaselineBn: 30},
	LineLegalAid:      {ID: LineLegalAid, Kind: LineSpend, BaselineBn: 2.3},
	LineBorderForce:   {ID: LineBorderForce, Kind: LineSpend, BaselineBn: 1.8},
	// Lower taper costs more: sensitivity is per pp below baseline.
	LineUCTaper:   {ID: LineUCTaper, Kind: LineParameter, BaselineRate: 55, SensitivityBn: -0.5},
	LineChildcare: {ID: LineChildcare, Kind: LineParameter, BaselineRate: 30, SensitivityBn: 0.15},
}

// Departments and their baseline (current, capital) budgets in £bn.
var DepartmentBaselines = map[string][2]float64{
	"nhs":            {180, 12},
	"education":      {78, 7},
	"defence":        {42, 14},
	"welfare":        {300, 0},
	"infrastructure": {20, 40},
	"police":         {19, 2},
	"justice":        {12, 2},
	"other":          {246, 40},
}

// Departments lists department IDs in a fixed order.
var Departments = []string{"nhs", "education", "defence", "welfare", "infrastructure", "police", "justice", "other"}

// BarnettComparable lists departments whose England spending drives Barnett consequentials.
var BarnettComparable = []string{"nhs", "education", "police", "justice"}

// Spending add-ons.
const (
	StabilizerPerPoint  = 7.0  // £bn welfare per pp unemployment above baseline
	BarnettShare        = 0.08 // devolved consequential per £ of comparable spend change
	AMEUprating         = 0.8  // share of welfare uprated with the price level
	MortgageSupportCost = 3.0  // £bn annual while mortgage support is active
)

// Debt management.
const (
	BaselineDebtBn        = 2700.0
	BaselineQEHoldingsBn  = 700.0
	QTPaceAnnualBn        = 100.0
	QTPauseYield          = 5.5
	APFAverageCoupon      = 2.0
	IndexLinkedMargin     = 0.5
	RolloverFraction      = 0.10
	RefinancingShortShare = 150.0
	RefinancingWAMWeight  = 30.0
	RefinancingWAMAnchor  = 20.0
)

// Bucket describes one maturity bucket of the debt ledger.
type Bucket struct {
	ID            string
	BaselineBn    float64
	Coupon        float64
	CycleTurns    int     // turns between redemptions
	MaturityYears float64 // representative residual maturity
}

// Maturity bucket IDs.
const (
	BucketShort       = "short"
	BucketMedium      = "medium"
	BucketLong        = "long"
	BucketIndexLinked = "index_linked"
)

var DebtBuckets = []Bucket{
	{ID: BucketShort, BaselineBn: 600, Coupon: 5.0, CycleTurns: 3, MaturityYears: 1},
	{ID: BucketMedium, BaselineBn: 800, Coupon: 2.5, CycleTurns: 12, MaturityYears: 7},
	{ID: BucketLong, BaselineBn: 700, Coupon: 2.2, CycleTurns: 24, MaturityYears: 25},
	{ID: BucketIndexLinked, BaselineBn: 600, Coupon: IndexLinkedMargin, CycleTurns: 18, MaturityYears: 18},
}

// IssuanceShares maps an issuance strategy to bucket shares, in DebtBuckets order.
var IssuanceShares = map[string][4]float64{
	"short":    {0.50, 0.25, 0.15, 0.10},
	"balanced": {0.25, 0.35, 0.25, 0.15},
	"long":     {0.10, 0.25, 0.50, 0.15},
}

// Emergency programmes and policy risk.
const (
	UnfundedGiveawayPct    = 1.0 // % GDP of net loosening that spooks markets
	UnfundedCredibilityHit = 1.0 // per turn
	UnfundedYieldPremium   = 0.25
	UnfundedTurns          = 6
	RuleChangeBasePenalty  = 4.0
	RuleChangeWindowTurns  = 24
	GoldenRuleToleranceBn  = 5.0
)

// Bounds on what a single decision may set.
const (
	MaxTaxRate         = 75.0
	MaxEmergencyTurns  = 36
	MaxEmergencyCostBn = 100.0
)

// Fiscal rule tolerances, % GDP.
const (
	CurrentToleranceMedium = 0.5
	CurrentToleranceLong   = 1.0
	DefaultDeficitCeiling  = 3.0
)
