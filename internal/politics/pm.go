package politics

import (
	"fmt"
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// Intervention triggers in priority order.
const (
	TriggerRevolt    = "backbench_revolt"
	TriggerManifesto = "manifesto_breach"
	TriggerCollapse  = "approval_collapse"
	TriggerCrisis    = "market_crisis"
)

type trigger struct {
	id     string
	chance float64
	demand string
	check  func(s *state.Snapshot) (severity float64, ok bool)
}

var triggers = []trigger{
	{TriggerRevolt, calib.ChanceRevolt, "Win back the backbenches: reverse the most unpopular measures",
		func(s *state.Snapshot) (float64, bool) {
			b := s.Political.Backbench
			return (calib.RevoltBackbench - b) / calib.RevoltBackbench, b < calib.RevoltBackbench
		}},
	{TriggerManifesto, calib.ChanceManifesto, "Stop breaking manifesto commitments",
		func(s *state.Snapshot) (float64, bool) {
			n := len(s.Diagnostics.NewViolations)
			return 0.4 + 0.2*float64(n), n > 0
		}},
	{TriggerCollapse, calib.ChanceCollapse, "Deliver something voters will notice",
		func(s *state.Snapshot) (float64, bool) {
			a := s.Political.Approval
			return (calib.CollapseApproval - a) / calib.CollapseApproval, a < calib.CollapseApproval
		}},
	{TriggerCrisis, calib.ChanceCrisis, "Restore market confidence with a credible consolidation",
		func(s *state.Snapshot) (float64, bool) {
			g := (s.Markets.Gilt10 - calib.CrisisGilt) / 2
			d := (s.Fiscal.DebtPctGDP - calib.CrisisDebtPct) / 20
			return max(g, d), s.Markets.Gilt10 > calib.CrisisGilt || s.Fiscal.DebtPctGDP > calib.CrisisDebtPct
		}},
}

// UpdatePMIntervention ages a pending intervention, defying it automatically
// past the deadline, or rolls for a new one when PM trust is below the gate.
// Only one intervention can be pending at a time.
func UpdatePMIntervention(prev, next *state.Snapshot, rng entropy.Source) {
	p := &next.Political
	if iv := p.PMIntervention; iv != nil {
		iv.TurnsPending++
		if iv.TurnsPending >= calib.InterventionDeadline {
			slog.Warn("PM intervention ignored", "trigger", iv.Trigger, "turn", next.Meta.Turn)
			Defy(next, rng)
		}
		return
	}
	if p.PMTrust >= calib.PMTrustGate {
		return
	}
	for _, tr := range triggers {
		severity, ok := tr.check(next)
		if !ok {
			continue
		}
		if !entropy.Chance(rng, tr.chance) {
			continue
		}
		p.PMIntervention = &state.PMIntervention{
			Trigger:    tr.id,
			Severity:   calib.Clamp(severity, calib.SeverityFloor, 1),
			Demand:     tr.demand,
			RaisedTurn: next.Meta.Turn,
		}
		p.Interventions++
		slog.Warn("PM intervention", "trigger", tr.id, "severity", p.PMIntervention.Severity, "turn", next.Meta.Turn)
		next.Emit("pm", fmt.Sprintf("Prime Minister intervenes: %s", tr.demand), 2)
		return
	}
}

// Comply resolves the pending intervention by giving the PM what they asked for.
func Comply(s *state.Snapshot) {
	p := &s.Political
	if p.PMIntervention == nil {
		return
	}
	p.PMTrust = calib.Clamp(p.PMTrust+calib.ComplyTrust, calib.ScoreMin, calib.ScoreMax)
	p.Backbench = calib.Clamp(p.Backbench+calib.ComplyBackbench, calib.ScoreMin, calib.ScoreMax)
	p.Approval = calib.Clamp(p.Approval+calib.ComplyApproval, calib.ApprovalMin, calib.ApprovalMax)
	p.PMIntervention = nil
}

// Defy resolves the pending intervention by refusing it. The PM may reshuffle
// the Chancellor out with probability proportional to severity.
func Defy(s *state.Snapshot, rng entropy.Source) {
	p := &s.Political
	iv := p.PMIntervention
	if iv == nil {
		return
	}
	p.PMTrust = calib.Clamp(p.PMTrust-calib.DefyTrust, calib.ScoreMin, calib.ScoreMax)
	p.PMIntervention = nil
	if entropy.Chance(rng, calib.ReshuffleRiskPerSev*iv.Severity) {
		endGame(s, calib.ReasonReshuffled)
	}
}

// ApplyPMComms folds the PM's relationship updates into the snapshot.
func ApplyPMComms(next *state.Snapshot, c collab.PMComms) {
	p := &next.Political
	p.PMTrust = calib.Clamp(p.PMTrust+c.PMTrustDelta, calib.ScoreMin, calib.ScoreMax)
	p.Backbench = calib.Clamp(p.Backbench+c.BackbenchDelta, calib.ScoreMin, calib.ScoreMax)
	if c.Message != nil {
		next.Emit("pm", c.Message.Text, 1)
	}
	if c.ReshuffleTriggered {
		endGame(next, calib.ReasonReshuffled)
	}
}
