// Package state defines the Snapshot threaded through the turn pipeline.
// A Snapshot is treated as immutable once a turn has produced it: the engine
// clones the previous snapshot and stages write only to the clone.
package state

import (
	"fmt"

	"github.com/talgya/chancellor/internal/calib"
)

// Difficulty selects terminal thresholds and whether the LDI loop can fire.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyStandard Difficulty = "standard"
	DifficultyHard     Difficulty = "hard"
)

// Department identifies a spending department.
type Department = string

// Snapshot is the complete country state for one month.
type Snapshot struct {
	Meta           Metadata             `json:"meta"`
	Economic       Economic             `json:"economic"`
	Fiscal         Fiscal               `json:"fiscal"`
	Debt           DebtManagement       `json:"debt_management"`
	Markets        Markets              `json:"markets"`
	Financial      FinancialStability   `json:"financial_stability"`
	Services       Services             `json:"services"`
	Political      Political            `json:"political"`
	External       ExternalSector       `json:"external_sector"`
	Distribution   Distributional       `json:"distributional"`
	Devolution     Devolution           `json:"devolution"`
	Parliament     Parliamentary        `json:"parliamentary"`
	SpendingReview SpendingReview       `json:"spending_review"`
	Emergency      []EmergencyProgramme `json:"emergency_programmes"`
	RiskModifiers  []PolicyRiskModifier `json:"policy_risk_modifiers"`
	Manifesto      Manifesto            `json:"manifesto"`
	MPs            MPSystem             `json:"mp_system"`
	Diagnostics    Diagnostics          `json:"diagnostics"`
	Events         []Event              `json:"events"` // this turn only
	History        []HistoryEntry       `json:"history"`
}

// Metadata carries the turn clock and terminal status.
type Metadata struct {
	Turn           int        `json:"turn"` // 0-based; turn 0 is the first in-game month
	Month          int        `json:"month"`
	Year           int        `json:"year"`
	Difficulty     Difficulty `json:"difficulty"`
	Seed           int64      `json:"seed"`
	GameOver       bool       `json:"game_over"`
	GameOverReason string     `json:"game_over_reason,omitempty"`
}

// Economic is the macro state. Rates are annualized percentages unless named Monthly.
type Economic struct {
	NominalGDP            float64 `json:"nominal_gdp_bn"` // annual £bn
	GrowthAnnual          float64 `json:"growth_annual"`
	GrowthMonthly         float64 `json:"growth_monthly"`
	TrendGrowth           float64 `json:"trend_growth"`
	Inflation             float64 `json:"inflation"`
	InflationExpectations float64 `json:"inflation_expectations"`
	AnchorHealth          float64 `json:"anchor_health"` // 0–100
	PriceLevel            float64 `json:"price_level"`   // 1.0 at game start
	Unemployment          float64 `json:"unemployment"`
	NAIRU                 float64 `json:"nairu"`
	Participation         float64 `json:"participation"`
	WageGrowth            float64 `json:"wage_growth"`
	ProductivityLevel     float64 `json:"productivity_level"`
	ProductivityGrowth    float64 `json:"productivity_growth"`
	CorpTaxLagged         float64 `json:"corp_tax_lagged"` // phased-in corporation tax rate for supply effects
}

// TaxRates holds the headline tax rates in percent.
type TaxRates struct {
	IncomeBasic      float64 `json:"income_basic"`
	IncomeHigher     float64 `json:"income_higher"`
	IncomeAdditional float64 `json:"income_additional"`
	NIEmployee       float64 `json:"ni_employee"`
	NIEmployer       float64 `json:"ni_employer"`
	VAT              float64 `json:"vat"`
	Corporation      float64 `json:"corporation"`
}

// Get returns the rate for a headline instrument ID.
func (r TaxRates) Get(id string) (float64, bool) {
	switch id {
	case "income_basic":
		return r.IncomeBasic, true
	case "income_higher":
		return r.IncomeHigher, true
	case "income_additional":
		return r.IncomeAdditional, true
	case "ni_employee":
		return r.NIEmployee, true
	case "ni_employer":
		return r.NIEmployer, true
	case "vat":
		return r.VAT, true
	case "corporation":
		return r.Corporation, true
	}
	return 0, false
}

// LineItem is a detailed tax or spending line. Rate applies to tax and
// parameter lines, Budget to spend lines.
type LineItem struct {
	ID     string  `json:"id"`
	Rate   float64 `json:"rate"`
	Budget float64 `json:"budget_bn"`
}

// DeptBudget is a department's annual current and capital budget in £bn.
type DeptBudget struct {
	Current float64 `json:"current_bn"`
	Capital float64 `json:"capital_bn"`
}

// Total returns current plus capital.
func (b DeptBudget) Total() float64 { return b.Current + b.Capital }

// Fiscal holds public finances. Every *Bn flow is annualized.
type Fiscal struct {
	Rates       TaxRates                      `json:"rates"`
	Detailed    Keyed[string, LineItem]       `json:"detailed"`
	Departments Keyed[Department, DeptBudget] `json:"departments"`

	RevenueByInstrument Keyed[string, float64] `json:"revenue_by_instrument"`
	RevenueBn           float64                `json:"revenue_bn"`
	DepartmentalBn      float64                `json:"departmental_bn"`
	NonInterestCurrent  float64                `json:"non_interest_current_bn"`
	CurrentSpendingBn   float64                `json:"current_spending_bn"`
	CapitalSpendingBn   float64                `json:"capital_spending_bn"`
	DetailedSpendBn     float64                `json:"detailed_spend_bn"`
	StabilizersBn       float64                `json:"stabilizers_bn"`
	BarnettBn           float64                `json:"barnett_bn"`
	AMEUpratingBn       float64                `json:"ame_uprating_bn"`
	FPCAddOnBn          float64                `json:"fpc_add_on_bn"`
	EmergencyBn         float64                `json:"emergency_bn"`
	DebtInterestBn      float64                `json:"debt_interest_bn"`
	TotalManagedExpBn   float64                `json:"total_managed_expenditure_bn"`
	DeficitBn           float64                `json:"deficit_bn"`
	DeficitPctGDP       float64                `json:"deficit_pct_gdp"`
	CurrentBalanceBn    float64                `json:"current_budget_balance_bn"`
	DebtBn              float64                `json:"debt_bn"`
	DebtPctGDP          float64                `json:"debt_pct_gdp"`
	HeadroomBn          float64                `json:"headroom_bn"`

	FiscalYearStartTurn     int                           `json:"fiscal_year_start_turn"`
	FiscalYearStartSpending Keyed[Department, DeptBudget] `json:"fiscal_year_start_spending"`
	PriorYearSpending       Keyed[Department, DeptBudget] `json:"prior_year_spending"`
	FiscalYearStartDebtPct  float64                       `json:"fiscal_year_start_debt_pct"`
	PriorYearDebtPct        float64                       `json:"prior_year_debt_pct"`
	FiscalYearStartPrice    float64                       `json:"fiscal_year_start_price_level"`
	PriorYearPrice          float64                       `json:"prior_year_price_level"`

	// Baseline aggregates captured at game start for rule and golden-rule tests.
	BaselineDeficitBn float64 `json:"baseline_deficit_bn"`
	BaselineCapitalBn float64 `json:"baseline_capital_bn"`
}

// IssuanceStrategy selects how new borrowing is spread across maturities.
type IssuanceStrategy string

const (
	IssuanceShort    IssuanceStrategy = "short"
	IssuanceBalanced IssuanceStrategy = "balanced"
	IssuanceLong     IssuanceStrategy = "long"
)

// Bucket is one maturity bucket of the debt ledger.
type Bucket struct {
	StockBn         float64 `json:"stock_bn"`
	AvgCoupon       float64 `json:"avg_coupon"`
	TurnsToMaturity int     `json:"turns_to_maturity"`
}

// DebtManagement is the maturity-bucketed ledger behind debt interest.
type DebtManagement struct {
	Short        Bucket           `json:"short"`
	Medium       Bucket           `json:"medium"`
	Long         Bucket           `json:"long"`
	IndexLinked  Bucket           `json:"index_linked"`
	Strategy     IssuanceStrategy `json:"strategy"`
	QEHoldingsBn float64          `json:"qe_holdings_bn"`
	QTPaceBn     float64          `json:"qt_pace_bn"` // annual
	QTPaused     bool             `json:"qt_paused"`
	WAMYears     float64          `json:"weighted_average_maturity_years"`
	Refinancing  float64          `json:"refinancing_risk"` // 0–100
}

// Buckets returns pointers to the four buckets in ledger order.
func (d *DebtManagement) Buckets() [4]*Bucket {
	return [4]*Bucket{&d.Short, &d.Medium, &d.Long, &d.IndexLinked}
}

// TotalBn sums the bucket stocks.
func (d *DebtManagement) TotalBn() float64 {
	return d.Short.StockBn + d.Medium.StockBn + d.Long.StockBn + d.IndexLinked.StockBn
}

// Vote is a committee member's rate vote.
type Vote string

const (
	VoteCut  Vote = "cut"
	VoteHold Vote = "hold"
	VoteHike Vote = "hike"
)

// CommitteeMember is one voting member of the rate-setting committee.
type CommitteeMember struct {
	Name            string  `json:"name"`
	InflationWeight float64 `json:"inflation_weight"`
	StanceBias      float64 `json:"stance_bias"`
	Chair           bool    `json:"chair,omitempty"`
	PreferredRate   float64 `json:"preferred_rate"`
	LastVote        Vote    `json:"last_vote"`
}

// YieldBreakdown records the components of the latest 10-year target.
type YieldBreakdown struct {
	Base        float64 `json:"base"`
	Term        float64 `json:"term"`
	QT          float64 `json:"qt"`
	Headroom    float64 `json:"headroom"`
	Debt        float64 `json:"debt"`
	Deficit     float64 `json:"deficit"`
	Trend       float64 `json:"trend"`
	Vigilante   float64 `json:"vigilante"`
	Credibility float64 `json:"credibility"`
	Rating      float64 `json:"rating"`
	Rule        float64 `json:"rule"`
	Psychology  float64 `json:"psychology"`
	Issuance    float64 `json:"issuance"`
	Rollover    float64 `json:"rollover"`
	External    float64 `json:"external"`
	Policy      float64 `json:"policy"`
	Target      float64 `json:"target"`
}

// Markets holds rates, yields and the exchange rate.
type Markets struct {
	BankRate       float64           `json:"bank_rate"`
	Committee      []CommitteeMember `json:"committee"`
	LastDecision   Vote              `json:"last_decision"`
	VoteSplit      map[Vote]int      `json:"vote_split"`
	Gilt10         float64           `json:"gilt_10y"`
	Gilt2          float64           `json:"gilt_2y"`
	Gilt30         float64           `json:"gilt_30y"`
	YieldMomentum  float64           `json:"yield_momentum"` // last monthly change in the 10-year
	Sterling       float64           `json:"sterling_index"`
	MortgageRate   float64           `json:"mortgage_rate"`
	LDIPanic       bool              `json:"ldi_panic"`
	PanicPeakYield float64           `json:"panic_peak_yield"`
	Breakdown      YieldBreakdown    `json:"yield_breakdown"`
}

// Macroprudential is the state of an FPC intervention.
type Macroprudential struct {
	Active         bool   `json:"active"`
	Kind           string `json:"kind,omitempty"`
	TurnsRemaining int    `json:"turns_remaining"`
}

// FinancialStability covers housing and household credit.
type FinancialStability struct {
	HousePriceIndex       float64         `json:"house_price_index"`
	HousePriceGrowth      float64         `json:"house_price_growth"`
	HouseholdDTI          float64         `json:"household_debt_to_income"`
	CreditGrowth          float64         `json:"credit_growth"`
	Macroprudential       Macroprudential `json:"macroprudential"`
	MortgageSupportActive bool            `json:"mortgage_support_active"`
}

// StrikeState tracks industrial action in one sector.
type StrikeState struct {
	MonthsRemaining     int `json:"months_remaining"`
	Cooldown            int `json:"cooldown"`
	ConsecutiveRealCuts int `json:"consecutive_real_cuts"`
}

// Services holds headline and granular quality indices (0–100, higher is better).
type Services struct {
	NHS            float64                    `json:"nhs"`
	Education      float64                    `json:"education"`
	Infrastructure float64                    `json:"infrastructure"`
	Metrics        Keyed[string, float64]     `json:"metrics"`
	RealRatios     Keyed[string, float64]     `json:"real_ratios"`
	Strikes        Keyed[string, StrikeState] `json:"strikes"`
}

// Index returns the value of a headline or granular service index.
func (s *Services) Index(id string) (float64, bool) {
	switch id {
	case "nhs":
		return s.NHS, true
	case "education":
		return s.Education, true
	case "infrastructure":
		return s.Infrastructure, true
	}
	v, ok := s.Metrics[id]
	return v, ok
}

// SetIndex writes a headline or granular service index.
func (s *Services) SetIndex(id string, v float64) {
	switch id {
	case "nhs":
		s.NHS = v
	case "education":
		s.Education = v
	case "infrastructure":
		s.Infrastructure = v
	default:
		if s.Metrics == nil {
			s.Metrics = Keyed[string, float64]{}
		}
		s.Metrics[id] = v
	}
}

// ActiveStrikes counts sectors currently on strike.
func (s *Services) ActiveStrikes() int {
	n := 0
	for _, st := range s.Strikes {
		if st.MonthsRemaining > 0 {
			n++
		}
	}
	return n
}

// Compliance is the fiscal-rule compliance record.
type Compliance struct {
	Compliant           bool            `json:"compliant"`
	Tests               map[string]bool `json:"tests"`
	GoldenRuleOK        bool            `json:"golden_rule_ok"`
	ConsecutiveBreaches int             `json:"consecutive_breaches"`
	TotalBreaches       int             `json:"total_breaches"`
	LastBreachTurn      int             `json:"last_breach_turn"`
}

// PMIntervention is a pending demand from the Prime Minister.
type PMIntervention struct {
	Trigger      string  `json:"trigger"`
	Severity     float64 `json:"severity"` // 0–1
	Demand       string  `json:"demand"`
	RaisedTurn   int     `json:"raised_turn"`
	TurnsPending int     `json:"turns_pending"`
}

// Political is the government's standing.
type Political struct {
	Approval       float64         `json:"approval"`
	Backbench      float64         `json:"backbench_satisfaction"`
	PMTrust        float64         `json:"pm_trust"`
	Credibility    float64         `json:"credibility"`
	RatingNotch    int             `json:"rating_notch"`
	RatingOutlook  string          `json:"rating_outlook"`
	FiscalRuleID   string          `json:"fiscal_rule_id"`
	RuleChangeLog  []int           `json:"rule_change_turns"`
	Compliance     Compliance      `json:"compliance"`
	PMIntervention *PMIntervention `json:"pm_intervention,omitempty"`
	Interventions  int             `json:"interventions_total"`

	// PendingViolations are pledge IDs broken by a policy decision since the
	// last turn; the next turn's political stages consume them.
	PendingViolations []string `json:"pending_violations"`
	ViolationCount    int      `json:"violation_count"`
}

// ExternalSector holds the rest-of-world position and any active shock.
type ExternalSector struct {
	CurrentAccountPct   float64 `json:"current_account_pct_gdp"`
	Shock               string  `json:"shock,omitempty"`
	ShockMagnitude      float64 `json:"shock_magnitude"`
	ShockTurnsRemaining int     `json:"shock_turns_remaining"`
	TradeFriction       float64 `json:"trade_friction"`
	EnergyPressure      float64 `json:"energy_price_pressure"`
	NoiseSeed           int64   `json:"noise_seed"`
}

// BankingStress reports whether a banking-stress shock is active.
func (e ExternalSector) BankingStress() bool {
	return e.Shock == "banking_stress" && e.ShockTurnsRemaining > 0
}

// Decile tracks one income decile.
type Decile struct {
	EffectiveTaxRate float64 `json:"effective_tax_rate"`
	RealIncomeChange float64 `json:"real_income_change"` // smoothed annualized %
}

// Distributional holds income-distribution outcomes.
type Distributional struct {
	Deciles          [10]Decile `json:"deciles"`
	Gini             float64    `json:"gini"`
	PovertyRate      float64    `json:"poverty_rate"`
	ChildPovertyRate float64    `json:"child_poverty_rate"`
}

// Devolution covers devolved nations and local government.
type Devolution struct {
	LocalAuthorityStress float64 `json:"local_authority_stress"`
	Section114Notices    int     `json:"section_114_notices"`
	DevolvedStrain       float64 `json:"devolved_strain"`
}

// Committee is one select committee's scrutiny state.
type Committee struct {
	Pressure              float64 `json:"pressure"`
	InquiryTurnsRemaining int     `json:"inquiry_turns_remaining"`
}

// ConfidenceState is the confidence-vote state machine position.
type ConfidenceState string

const (
	ConfidenceNone      ConfidenceState = "none"
	ConfidenceScheduled ConfidenceState = "scheduled"
)

// ConfidenceVote tracks the confidence-vote state machine.
type ConfidenceVote struct {
	State            ConfidenceState `json:"state"`
	LowSupportMonths int             `json:"low_support_months"`
	Cooldown         int             `json:"cooldown"`
	LastSupport      float64         `json:"last_support"`
	VotesHeld        int             `json:"votes_held"`
}

// Parliamentary holds whip strength, committees and confidence state.
type Parliamentary struct {
	WhipStrength float64                  `json:"whip_strength"`
	Rebellions   int                      `json:"rebellions"`
	Committees   Keyed[string, Committee] `json:"committees"`
	Confidence   ConfidenceVote           `json:"confidence"`
}

// ActiveInquiries counts committees with a live inquiry.
func (p *Parliamentary) ActiveInquiries() int {
	n := 0
	for _, c := range p.Committees {
		if c.InquiryTurnsRemaining > 0 {
			n++
		}
	}
	return n
}

// SpendingReview tracks departmental delivery capacity.
type SpendingReview struct {
	Capacity  Keyed[Department, float64] `json:"capacity"`
	BacklogBn float64                    `json:"backlog_bn"`
}

// EmergencyProgramme is time-limited emergency spending.
type EmergencyProgramme struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AnnualCostBn   float64 `json:"annual_cost_bn"`
	TurnsRemaining int     `json:"turns_remaining"`
}

// PolicyRiskModifier is a time-limited political/market drag created by a decision.
type PolicyRiskModifier struct {
	ID                 string  `json:"id"`
	Reason             string  `json:"reason"`
	CredibilityPerTurn float64 `json:"credibility_per_turn"`
	ApprovalPerTurn    float64 `json:"approval_per_turn"`
	BackbenchPerTurn   float64 `json:"backbench_per_turn"`
	YieldPremium       float64 `json:"yield_premium"`
	TurnsRemaining     int     `json:"turns_remaining"`
}

// Pledge is one manifesto commitment.
type Pledge struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Description  string  `json:"description"`
	Threshold    float64 `json:"threshold"`
	ApprovalCost float64 `json:"approval_cost"`
	TrustCost    float64 `json:"trust_cost"`
	Violated     bool    `json:"violated"`
	ViolatedTurn int     `json:"violated_turn"`
}

// Violation records a pledge broken on a turn.
type Violation struct {
	PledgeID string `json:"pledge_id"`
	Turn     int    `json:"turn"`
}

// Manifesto is the government's pledge book, injected at game start.
type Manifesto struct {
	Pledges    Keyed[string, Pledge] `json:"pledges"`
	Violations []Violation           `json:"violations"`
}

// MP is one governing-party member of parliament.
type MP struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Faction  string  `json:"faction"`
	Ideology float64 `json:"ideology"` // -1 left … +1 right
	Loyalty  float64 `json:"loyalty"`  // 0–1
	Marginal bool    `json:"marginal"`
}

// Stance is an MP's position on the current fiscal stance.
type Stance string

const (
	StanceSupport   Stance = "support"
	StanceUndecided Stance = "undecided"
	StanceRebel     Stance = "rebel"
)

// MPSystem is the injected roster plus computed stances.
type MPSystem struct {
	MPs     Keyed[string, MP]     `json:"mps"`
	Stances Keyed[string, Stance] `json:"stances"`
}

// Diagnostics is per-turn scratch written by stages and reset each turn.
type Diagnostics struct {
	NoPolicyDelta    bool     `json:"no_policy_delta"`
	PolicyImpulse    float64  `json:"policy_impulse"` // annual growth pp from tax and spending deltas
	NewViolations    []string `json:"new_violations"`
	StrikesStarted   []string `json:"strikes_started"`
	Section114       int      `json:"section_114"`
	RatingChanged    bool     `json:"rating_changed"`
	RatingReviewed   bool     `json:"rating_reviewed"`
	FiscalYearRolled bool     `json:"fiscal_year_rolled"`
	RuleCredibility  float64  `json:"rule_credibility"`
}

// Event is a notable occurrence emitted during a turn.
type Event struct {
	ID       string `json:"id"`
	Turn     int    `json:"turn"`
	Category string `json:"category"`
	Headline string `json:"headline"`
	Severity int    `json:"severity"` // 1 minor … 3 major
}

// HistoryEntry is the compact monthly summary kept in the append-only log.
type HistoryEntry struct {
	Turn         int     `json:"turn"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	Growth       float64 `json:"growth"`
	Inflation    float64 `json:"inflation"`
	Unemployment float64 `json:"unemployment"`
	BankRate     float64 `json:"bank_rate"`
	Gilt10       float64 `json:"gilt_10y"`
	DeficitBn    float64 `json:"deficit_bn"`
	DebtBn       float64 `json:"debt_bn"`
	DebtPctGDP   float64 `json:"debt_pct_gdp"`
	Approval     float64 `json:"approval"`
	Credibility  float64 `json:"credibility"`
	NHS          float64 `json:"nhs"`
}

// Emit records an event for the turn being built. Events live for one turn;
// the engine clears them before the next turn starts.
func (s *Snapshot) Emit(category, headline string, severity int) {
	s.Events = append(s.Events, Event{
		ID:       fmt.Sprintf("%d-%s-%d", s.Meta.Turn, category, len(s.Events)),
		Turn:     s.Meta.Turn,
		Category: category,
		Headline: headline,
		Severity: severity,
	})
}

// Dept returns department id's budget, or its calibrated baseline when the
// department is missing.
func (f *Fiscal) Dept(id Department) DeptBudget {
	return deptOrBaseline(f.Departments, id)
}

// YearStartDept is Dept for the budgets recorded at the start of the fiscal year.
func (f *Fiscal) YearStartDept(id Department) DeptBudget {
	return deptOrBaseline(f.FiscalYearStartSpending, id)
}

func deptOrBaseline(m Keyed[Department, DeptBudget], id Department) DeptBudget {
	if b, ok := m[id]; ok {
		return b
	}
	base := calib.DepartmentBaselines[id]
	return DeptBudget{Current: base[0], Capital: base[1]}
}

// Line returns the detailed line item id. A missing item falls back to its
// calibrated baseline so a save without the line still runs.
func (f *Fiscal) Line(id string) LineItem {
	if li, ok := f.Detailed[id]; ok {
		return li
	}
	cal, ok := calib.LineItems[id]
	if !ok {
		return LineItem{ID: id}
	}
	li := LineItem{ID: id, Rate: cal.BaselineRate}
	if cal.Kind == calib.LineSpend {
		li.Budget = cal.BaselineBn
	}
	return li
}
