package politics

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

// UpdateManifesto gathers this turn's broken pledges. Violations recorded by
// a policy decision since the last turn are already costed; annual pledges are
// judged at fiscal-year rollover and cost their declared break penalties here.
func UpdateManifesto(prev, next *state.Snapshot, tracker collab.ManifestoTracker) {
	p := &next.Political
	fresh := append([]string(nil), p.PendingViolations...)
	p.PendingViolations = []string{}

	if tracker != nil && next.Diagnostics.FiscalYearRolled {
		annual := tracker.CheckAnnualGrowthPledges(next.Manifesto, next.Fiscal, prev.Economic.Inflation)
		if len(annual) > 0 {
			next.Manifesto = tracker.ApplyManifestoViolations(next.Manifesto, annual, next.Meta.Turn)
			for _, id := range annual {
				pl := next.Manifesto.Pledges[id]
				p.Approval = calib.Clamp(p.Approval-pl.ApprovalCost, calib.ApprovalMin, calib.ApprovalMax)
				p.PMTrust = calib.Clamp(p.PMTrust-pl.TrustCost, calib.ScoreMin, calib.ScoreMax)
				slog.Warn("annual pledge broken", "pledge", id, "turn", next.Meta.Turn)
				next.Emit("manifesto", fmt.Sprintf("Government breaks pledge: %s", pledgeLabel(pl)), 3)
			}
			fresh = append(fresh, annual...)
		}
	}
	next.Diagnostics.NewViolations = fresh
	p.ViolationCount += len(fresh)
}

func pledgeLabel(p state.Pledge) string {
	if p.Description != "" {
		return p.Description
	}
	return p.ID
}

// ViolationPenalty is the extra approval cost of the k-th violation of the
// term (1-based). The first breach costs nothing beyond the pledge's own price.
func ViolationPenalty(k int) float64 {
	if k <= 1 {
		return 0
	}
	return calib.ViolationExtraBase * math.Pow(float64(k-1), calib.ViolationExtraPow)
}
