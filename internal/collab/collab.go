// Package collab declares the narrow services the turn pipeline consumes from
// outside the simulation core: the manifesto tracker, MP stance calculator,
// event/newspaper engine, and PM communications. Implementations live in
// their own packages; the engine wires defaults.
package collab

import (
	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// PolicyDelta describes a proposed policy relative to the settings in force.
type PolicyDelta struct {
	Before state.TaxRates
	After  state.TaxRates

	// Department totals (current + capital) before and after, in £bn.
	SpendBefore map[string]float64
	SpendAfter  map[string]float64

	// PriceLevel lets real-terms pledges deflate nominal budgets.
	PriceLevel      float64
	StartPriceLevel float64
}

// RateChange returns After minus Before for a headline instrument.
func (d PolicyDelta) RateChange(id string) float64 {
	a, _ := d.After.Get(id)
	b, _ := d.Before.Get(id)
	return a - b
}

// PolicyCheck is the tracker's verdict on a proposed policy.
type PolicyCheck struct {
	Violated     []string
	ApprovalCost float64
	TrustCost    float64
	Warnings     []string
}

// ManifestoTracker knows the government's pledges.
type ManifestoTracker interface {
	// CheckAnnualGrowthPledges runs at fiscal-year rollover against the year
	// that just ended and returns newly broken pledge IDs.
	CheckAnnualGrowthPledges(m state.Manifesto, f state.Fiscal, inflation float64) []string
	ApplyManifestoViolations(m state.Manifesto, violated []string, turn int) state.Manifesto
	CheckPolicyForViolations(m state.Manifesto, d PolicyDelta) PolicyCheck
}

// BudgetDelta summarises the fiscal stance against the game-start baseline.
type BudgetDelta struct {
	TaxChangeBn     float64 // positive = tax rises
	SpendChangeBn   float64 // positive = spending rises
	DeficitChangeBn float64
}

// StanceContext is the political weather MPs react to.
type StanceContext struct {
	Approval     float64
	Backbench    float64
	WhipStrength float64
	DebtPctGDP   float64
	Gilt10       float64
}

// MPStanceCalculator assigns every MP a stance on the current budget.
type MPStanceCalculator interface {
	CalculateAllMPStances(mps state.MPSystem, delta BudgetDelta, violations []string, turn int, ctx StanceContext) state.Keyed[string, state.Stance]
}

// PublicView is the read-only projection of a snapshot narrative services see.
type PublicView struct {
	Turn          int
	Month, Year   int
	Growth        float64
	Inflation     float64
	Unemployment  float64
	BankRate      float64
	Gilt10        float64
	GiltChange    float64
	Sterling      float64
	DeficitBn     float64
	DebtPctGDP    float64
	Approval      float64
	NHS           float64
	Rating        string
	RatingChanged bool
	Strikes       []string
	Shock         string
	LDIPanic      bool
	Compliant     bool
	Violations    []string
	GameOver      bool
}

// Article is a newspaper front page for an event.
type Article struct {
	Outlet     string `json:"outlet"`
	Headline   string `json:"headline"`
	Standfirst string `json:"standfirst"`
	Turn       int    `json:"turn"`
}

// EventEngine produces events and newspapers from the public view only.
type EventEngine interface {
	GenerateEvents(v PublicView) []state.Event
	GenerateNewspaper(v PublicView, e state.Event) Article
}

// PMMessage is a communication from the Prime Minister.
type PMMessage struct {
	Tone string `json:"tone"`
	Text string `json:"text"`
}

// PMComms is the outcome of one round of PM communications.
type PMComms struct {
	Message            *PMMessage
	PMTrustDelta       float64
	BackbenchDelta     float64
	ReshuffleTriggered bool
}

// PMCommsEngine reads a snapshot and reports relationship changes. It must
// not mutate the snapshot it is given.
type PMCommsEngine interface {
	ProcessPMCommunications(s *state.Snapshot) PMComms
}

// Set bundles the collaborators a turn needs.
type Set struct {
	Manifesto ManifestoTracker
	Stances   MPStanceCalculator
	Events    EventEngine
	PMComms   PMCommsEngine
}

// NewPublicView projects the turn just produced. prev may be nil on the first turn.
func NewPublicView(prev, next *state.Snapshot) PublicView {
	v := PublicView{
		Turn:         next.Meta.Turn,
		Month:        next.Meta.Month,
		Year:         next.Meta.Year,
		Growth:       next.Economic.GrowthAnnual,
		Inflation:    next.Economic.Inflation,
		Unemployment: next.Economic.Unemployment,
		BankRate:     next.Markets.BankRate,
		Gilt10:       next.Markets.Gilt10,
		Sterling:     next.Markets.Sterling,
		DeficitBn:    next.Fiscal.DeficitBn,
		DebtPctGDP:   next.Fiscal.DebtPctGDP,
		Approval:     next.Political.Approval,
		NHS:          next.Services.NHS,
		Rating:       calib.RatingName(next.Political.RatingNotch),
		Strikes:      append([]string(nil), next.Diagnostics.StrikesStarted...),
		Shock:        next.External.Shock,
		LDIPanic:     next.Markets.LDIPanic,
		Compliant:    next.Political.Compliance.Compliant,
		Violations:   append([]string(nil), next.Diagnostics.NewViolations...),
		GameOver:     next.Meta.GameOver,
	}
	if prev != nil {
		v.GiltChange = next.Markets.Gilt10 - prev.Markets.Gilt10
		v.RatingChanged = next.Political.RatingNotch != prev.Political.RatingNotch
	}
	return v
}
