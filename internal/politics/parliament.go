package politics

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

// BudgetDeltaOf summarises the fiscal stance against the game-start baseline.
func BudgetDeltaOf(s *state.Snapshot) collab.BudgetDelta {
	var d collab.BudgetDelta
	for _, ti := range calib.TaxInstruments {
		rate, _ := s.Fiscal.Rates.Get(ti.ID)
		d.TaxChangeBn += ti.SensitivityBn * (rate - ti.BaselineRate)
	}
	for _, id := range calib.Departments {
		base := calib.DepartmentBaselines[id]
		b := s.Fiscal.Dept(id)
		d.SpendChangeBn += b.Total() - (base[0] + base[1])
	}
	d.DeficitChangeBn = s.Fiscal.DeficitBn - s.Fiscal.BaselineDeficitBn
	return d
}

// violatedPledges lists every broken pledge, oldest breach first.
func violatedPledges(m state.Manifesto) []string {
	out := make([]string, 0, len(m.Violations))
	seen := map[string]bool{}
	for _, v := range m.Violations {
		if !seen[v.PledgeID] {
			seen[v.PledgeID] = true
			out = append(out, v.PledgeID)
		}
	}
	return out
}

// UpdateParliament refreshes MP stances, whip strength, committee scrutiny and
// the confidence-vote state machine. calc may be nil when no roster is loaded.
func UpdateParliament(prev, next *state.Snapshot, calc collab.MPStanceCalculator) {
	p := &next.Parliament

	p.Rebellions = 0
	if calc != nil && len(next.MPs.MPs) > 0 {
		ctx := collab.StanceContext{
			Approval:     prev.Political.Approval,
			Backbench:    prev.Political.Backbench,
			WhipStrength: prev.Parliament.WhipStrength,
			DebtPctGDP:   next.Fiscal.DebtPctGDP,
			Gilt10:       next.Markets.Gilt10,
		}
		next.MPs.Stances = calc.CalculateAllMPStances(next.MPs, BudgetDeltaOf(next), violatedPledges(next.Manifesto), next.Meta.Turn, ctx)
		for _, st := range next.MPs.Stances {
			if st == state.StanceRebel {
				p.Rebellions++
			}
		}
	}

	whip := calib.BaselineWhip +
		calib.WhipBackbench*(prev.Political.Backbench-calib.BaselineBackbench) -
		calib.WhipRebellion*float64(p.Rebellions)
	p.WhipStrength = calib.Clamp(calib.Approach(prev.Parliament.WhipStrength, whip, calib.WhipReversion), calib.ScoreMin, calib.ScoreMax)

	updateCommittees(prev, next)
	updateConfidence(prev, next)
}

func committeeDrivers(s *state.Snapshot) map[string]float64 {
	health := calib.HealthQualityPressure * math.Max(0, calib.ServiceQualityReference-s.Services.NHS)
	if s.Services.Strikes["nhs"].MonthsRemaining > 0 {
		health += calib.HealthStrikePressure
	}
	treasury := calib.TreasuryBreachPressure*float64(s.Political.Compliance.ConsecutiveBreaches) +
		calib.TreasuryGiltPressure*math.Max(0, s.Markets.Gilt10-(calib.CrisisGilt-1))
	pac := calib.PACBacklogPressure*s.SpendingReview.BacklogBn +
		calib.PACEmergencyPressure*float64(len(s.Emergency)) +
		calib.PACSection114Pressure*float64(s.Diagnostics.Section114)
	return map[string]float64{
		"treasury":        treasury,
		"health":          health,
		"education":       calib.EducationQualityPressure * math.Max(0, calib.ServiceQualityReference-s.Services.Education),
		"public_accounts": pac,
	}
}

func updateCommittees(prev, next *state.Snapshot) {
	p := &next.Parliament
	if p.Committees == nil {
		p.Committees = state.Keyed[string, state.Committee]{}
	}
	drivers := committeeDrivers(next)
	for _, id := range state.CommitteeIDs {
		c := prev.Parliament.Committees[id]
		c.Pressure = calib.Clamp(c.Pressure*calib.CommitteeDecay+drivers[id], calib.ScoreMin, calib.CommitteePressureMax)
		switch {
		case c.InquiryTurnsRemaining > 0:
			c.InquiryTurnsRemaining--
		case c.Pressure >= calib.InquiryThreshold:
			c.InquiryTurnsRemaining = calib.InquiryTurns
			c.Pressure = calib.InquiryResetPressure
			slog.Warn("select committee inquiry opened", "committee", id, "turn", next.Meta.Turn)
			next.Emit("parliament", fmt.Sprintf("%s committee launches inquiry into Treasury decisions", committeeName(id)), 2)
		}
		p.Committees[id] = c
	}
}

func committeeName(id string) string {
	switch id {
	case "treasury":
		return "Treasury"
	case "health":
		return "Health"
	case "education":
		return "Education"
	case "public_accounts":
		return "Public Accounts"
	}
	return id
}

// Support is the weighted share of party MPs backing the government:
// supporters count fully, undecided MPs in proportion to whip strength and
// rebels not at all. Without a roster, whip strength and backbench mood stand in.
func Support(s *state.Snapshot) float64 {
	if len(s.MPs.Stances) == 0 {
		return (s.Parliament.WhipStrength + s.Political.Backbench) / 200
	}
	weight := 0.0
	for _, st := range s.MPs.Stances {
		switch st {
		case state.StanceSupport:
			weight++
		case state.StanceUndecided:
			weight += calib.ConfidenceUndecided * s.Parliament.WhipStrength / 50
		}
	}
	return weight / float64(len(s.MPs.Stances))
}

func updateConfidence(prev, next *state.Snapshot) {
	cv := &next.Parliament.Confidence
	if cv.Cooldown > 0 {
		cv.Cooldown--
	}
	if next.Political.Backbench < calib.ConfidenceLowBackbench {
		cv.LowSupportMonths++
	} else {
		cv.LowSupportMonths = 0
	}

	if prev.Parliament.Confidence.State == state.ConfidenceScheduled {
		cv.State = state.ConfidenceNone
		cv.VotesHeld++
		cv.LastSupport = Support(next)
		cv.LowSupportMonths = 0
		cv.Cooldown = calib.ConfidenceCooldown
		if cv.LastSupport < calib.ConfidenceMajority {
			slog.Warn("confidence vote lost", "turn", next.Meta.Turn, "support", cv.LastSupport)
			next.Emit("parliament", "Government loses a vote of confidence", 3)
			return
		}
		next.Political.Backbench = calib.Clamp(next.Political.Backbench+calib.ConfidenceWinBackbench, calib.ScoreMin, calib.ScoreMax)
		slog.Info("confidence vote won", "turn", next.Meta.Turn, "support", cv.LastSupport)
		next.Emit("parliament", fmt.Sprintf("Government survives confidence vote with %.0f%% support", cv.LastSupport*100), 2)
		return
	}

	rebelShare := 0.0
	if n := len(next.MPs.Stances); n > 0 {
		rebelShare = float64(next.Parliament.Rebellions) / float64(n)
	}
	if cv.State == state.ConfidenceNone && cv.Cooldown == 0 &&
		(cv.LowSupportMonths >= calib.ConfidenceLowMonths || rebelShare >= calib.ConfidenceRebelShare) {
		cv.State = state.ConfidenceScheduled
		slog.Warn("confidence vote scheduled", "turn", next.Meta.Turn,
			"low_support_months", cv.LowSupportMonths, "rebels", next.Parliament.Rebellions)
		next.Emit("parliament", "Opposition tables a motion of no confidence", 3)
	}
}

// LostConfidence reports whether this turn's confidence vote went against the government.
func LostConfidence(prev, next *state.Snapshot) bool {
	cv := next.Parliament.Confidence
	return cv.VotesHeld > prev.Parliament.Confidence.VotesHeld && cv.LastSupport < calib.ConfidenceMajority
}
