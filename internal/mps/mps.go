// Package mps is the default MP stance calculator and a small sample roster.
package mps

import (
	"fmt"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

// Stance weights.
const (
	disloyaltyWeight = 0.5
	taxWeight        = 0.4 // right-leaning MPs against tax rises
	cutsWeight       = 0.4 // left-leaning MPs against spending cuts
	deficitWeight    = 0.2
	violationWeight  = 0.05
	scaleBn          = 50.0 // budget change that saturates an ideological objection
	marginalApproval = 35.0
	mutinyBackbench  = 50.0
	whipNeutral      = 50.0
	whipDivisor      = 250.0
)

// Calculator implements collab.MPStanceCalculator.
type Calculator struct{}

var _ collab.MPStanceCalculator = Calculator{}

// RebelScore is an MP's propensity to rebel on the current budget, roughly 0–1.
func RebelScore(mp state.MP, delta collab.BudgetDelta, violations int, ctx collab.StanceContext) float64 {
	right, left := max(0, mp.Ideology), max(0, -mp.Ideology)
	score := (1-mp.Loyalty)*disloyaltyWeight +
		right*calib.Clamp(delta.TaxChangeBn/scaleBn, 0, 1)*taxWeight +
		right*calib.Clamp(delta.DeficitChangeBn/scaleBn, 0, 1)*deficitWeight +
		left*calib.Clamp(-delta.SpendChangeBn/scaleBn, 0, 1)*cutsWeight +
		violationWeight*float64(violations) +
		max(0, mutinyBackbench-ctx.Backbench)/100 -
		(ctx.WhipStrength-whipNeutral)/whipDivisor
	if mp.Marginal {
		score += max(0, marginalApproval-ctx.Approval) / 100
	}
	return score
}

// CalculateAllMPStances scores every MP on the roster.
func (Calculator) CalculateAllMPStances(sys state.MPSystem, delta collab.BudgetDelta, violations []string, turn int, ctx collab.StanceContext) state.Keyed[string, state.Stance] {
	out := make(state.Keyed[string, state.Stance], len(sys.MPs))
	for _, id := range sys.MPs.Keys() {
		score := RebelScore(sys.MPs[id], delta, len(violations), ctx)
		switch {
		case score >= calib.StanceRebelThreshold:
			out[id] = state.StanceRebel
		case score >= calib.StanceUndecidedThreshold:
			out[id] = state.StanceUndecided
		default:
			out[id] = state.StanceSupport
		}
	}
	return out
}

var (
	forenames = []string{"Alice", "Bharat", "Catherine", "David", "Eleanor", "Farid", "Grace", "Hugh"}
	surnames  = []string{"Ashworth", "Begum", "Collins", "Dhillon", "Evans", "Fraser"}
)

type faction struct {
	name     string
	ideology float64
}

var factions = []faction{{"left", -0.7}, {"soft_left", -0.3}, {"centre", 0}, {"right", 0.5}}

// SampleRoster is a deterministic roster fixture of n MPs spread across the
// party's factions. Every fifth MP holds a marginal seat.
func SampleRoster(n int) state.MPSystem {
	sys := state.MPSystem{MPs: state.Keyed[string, state.MP]{}, Stances: state.Keyed[string, state.Stance]{}}
	for i := 0; i < n; i++ {
		f := factions[i%len(factions)]
		id := fmt.Sprintf("mp-%03d", i+1)
		sys.MPs[id] = state.MP{
			ID:       id,
			Name:     forenames[i%len(forenames)] + " " + surnames[(i/len(forenames))%len(surnames)],
			Faction:  f.name,
			Ideology: f.ideology,
			Loyalty:  0.6 + 0.05*float64(i%8),
			Marginal: i%5 == 0,
		}
		sys.Stances[id] = state.StanceSupport
	}
	return sys
}
