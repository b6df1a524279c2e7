// Package monetary simulates the rate-setting committee and the run-down
// of the asset purchase facility.
package monetary

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// PreferredRate is a member's Taylor-style rate before noise.
func PreferredRate(m state.CommitteeMember, e state.Economic) float64 {
	forecast := calib.ForecastInflation*e.Inflation + (1-calib.ForecastInflation)*e.InflationExpectations
	gap := (e.GrowthAnnual - e.TrendGrowth) + calib.OutputGapUnemployment*(e.NAIRU-e.Unemployment)
	return calib.RealNeutralRate + forecast +
		m.InflationWeight*(forecast-calib.InflationTarget) +
		calib.TaylorGapWeight*gap +
		m.StanceBias
}

func voteFor(preferred, current float64) state.Vote {
	switch d := preferred - current; {
	case d > calib.VoteTolerance:
		return state.VoteHike
	case d < -calib.VoteTolerance:
		return state.VoteCut
	}
	return state.VoteHold
}

// Tally picks the plurality decision. A tie goes to the chair's vote when the
// chair is among the tied options, otherwise to hold.
func Tally(members []state.CommitteeMember) (state.Vote, map[state.Vote]int) {
	split := map[state.Vote]int{state.VoteCut: 0, state.VoteHold: 0, state.VoteHike: 0}
	var chair state.Vote
	for _, m := range members {
		split[m.LastVote]++
		if m.Chair {
			chair = m.LastVote
		}
	}
	best := 0
	for _, n := range split {
		best = max(best, n)
	}
	var tied []state.Vote
	for _, v := range []state.Vote{state.VoteCut, state.VoteHold, state.VoteHike} {
		if split[v] == best {
			tied = append(tied, v)
		}
	}
	if len(tied) == 1 {
		return tied[0], split
	}
	for _, v := range tied {
		if v == chair {
			return v, split
		}
	}
	return state.VoteHold, split
}

// Decide runs the monthly committee meeting and sets Bank Rate.
func Decide(prev, next *state.Snapshot, rng entropy.Source) {
	mk := &next.Markets
	for i := range mk.Committee {
		m := &mk.Committee[i]
		m.PreferredRate = PreferredRate(*m, next.Economic) + rng.NormFloat64()*calib.StanceNoiseSD
		m.LastVote = voteFor(m.PreferredRate, prev.Markets.BankRate)
	}
	decision, split := Tally(mk.Committee)
	mk.LastDecision = decision
	mk.VoteSplit = split

	rate := prev.Markets.BankRate
	switch decision {
	case state.VoteHike:
		rate += calib.RateStep
	case state.VoteCut:
		rate -= calib.RateStep
	}
	rate = math.Round(rate/calib.RateStep) * calib.RateStep
	mk.BankRate = calib.Clamp(rate, calib.BankRateMin, calib.BankRateMax)

	if mk.BankRate != prev.Markets.BankRate {
		slog.Info("bank rate decision", "turn", next.Meta.Turn, "decision", decision, "rate", mk.BankRate,
			"cut", split[state.VoteCut], "hold", split[state.VoteHold], "hike", split[state.VoteHike])
		next.Emit("monetary", fmt.Sprintf("Bank Rate %s to %.2f%%", decision, mk.BankRate), 1)
	}
}

// UpdateQT runs the asset purchase facility down unless gilts are stressed
// or a banking-stress shock is active.
func UpdateQT(prev, next *state.Snapshot) {
	d := &next.Debt
	paused := prev.Markets.Gilt10 > calib.QTPauseYield || next.External.BankingStress()
	if paused != d.QTPaused {
		slog.Info("QT status changed", "turn", next.Meta.Turn, "paused", paused)
	}
	d.QTPaused = paused
	if paused {
		return
	}
	d.QEHoldingsBn = math.Max(0, d.QEHoldingsBn-d.QTPaceBn/12)
}
