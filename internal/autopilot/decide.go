package autopilot

import (
	"fmt"
	"math"
	"strings"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/policy"
	"github.com/talgya/chancellor/internal/state"
)

// Actions a plan can carry.
const (
	ActionNone       = "none"
	ActionComply     = "comply"
	ActionTighten    = "tighten"
	ActionFund       = "fund"
	ActionProtectNHS = "protect_nhs"
)

const (
	tightenCritical = 0.03 // share of discretionary current spend cut per turn
	tightenWarning  = 0.015
	fundStep        = 0.03
	dutyStep        = 1.0
	dutyHeadroom    = 10.0 // max rise over the calibrated baseline
	nhsGrowthMargin = 1.005
)

// departments trimmed first when consolidating.
var discretionary = []state.Department{"other", "defence", "justice", "police"}

// Plan is the autopilot's choice for one turn.
type Plan struct {
	Actions   []string        `json:"actions"`
	Rationale string          `json:"rationale"`
	Decision  policy.Decision `json:"decision"`
}

// Action joins the plan's actions for logging.
func (p Plan) Action() string {
	if len(p.Actions) == 0 {
		return ActionNone
	}
	return strings.Join(p.Actions, "+")
}

// Decide picks at most one fiscal move plus any answer owed to the PM. It
// never breaks a tax lock: consolidation comes from spending and duties.
func Decide(s *state.Snapshot, h Health) Plan {
	var p Plan
	var why []string
	d := &p.Decision

	if h.PMPending {
		comply := true
		d.ComplyPM = &comply
		p.Actions = append(p.Actions, ActionComply)
		why = append(why, fmt.Sprintf("PM demands action on %s", s.Political.PMIntervention.Trigger))
	}

	switch {
	case h.Level == LevelCritical || h.Level == LevelWarning:
		step := tightenWarning
		if h.Level == LevelCritical {
			step = tightenCritical
		}
		tighten(s, d, step)
		p.Actions = append(p.Actions, ActionTighten)
		why = append(why, fmt.Sprintf("%s: gilts %.2f%%, debt %.1f%% of GDP", h.Level, h.Gilt10, h.DebtPctGDP))
	case h.WeakestService != "" && h.WeakestQuality < serviceFloor:
		id := departmentFor(h.WeakestService)
		b := budget(s, d, id)
		b.Current *= 1 + fundStep
		setBudget(d, id, b)
		p.Actions = append(p.Actions, ActionFund)
		why = append(why, fmt.Sprintf("%s quality %.0f below floor", h.WeakestService, h.WeakestQuality))
	}

	if gap := nhsShortfall(s, d); gap > 0 {
		b := budget(s, d, "nhs")
		b.Current += gap
		setBudget(d, "nhs", b)
		p.Actions = append(p.Actions, ActionProtectNHS)
		why = append(why, fmt.Sprintf("£%.1fbn keeps NHS funding growing in real terms", gap))
	}

	p.Rationale = strings.Join(why, "; ")
	return p
}

func tighten(s *state.Snapshot, d *policy.Decision, step float64) {
	for _, id := range discretionary {
		b := budget(s, d, id)
		b.Current *= 1 - step
		setBudget(d, id, b)
	}
	for _, id := range []string{calib.LineFuelDuty, calib.LineAlcoholDuty} {
		ceiling := calib.LineItems[id].BaselineRate + dutyHeadroom
		if rate := s.Fiscal.Line(id).Rate; rate < ceiling {
			if d.Lines == nil {
				d.Lines = map[string]float64{}
			}
			d.Lines[id] = math.Min(ceiling, rate+dutyStep)
		}
	}
	if s.Debt.Strategy == state.IssuanceShort {
		d.Strategy = state.IssuanceBalanced
	}
}

// nhsShortfall is how much the NHS budget must rise before the fiscal year
// rolls over for the real-growth pledge to hold.
func nhsShortfall(s *state.Snapshot, d *policy.Decision) float64 {
	if s.Meta.Month%12+1 != calib.FiscalMonth {
		return 0
	}
	pledge, ok := s.Manifesto.Pledges["nhs_real_growth"]
	if !ok || pledge.Violated || s.Fiscal.FiscalYearStartPrice <= 0 {
		return 0
	}
	start := s.Fiscal.YearStartDept("nhs").Total()
	need := start * s.Economic.PriceLevel / s.Fiscal.FiscalYearStartPrice * nhsGrowthMargin
	return math.Max(0, need-budget(s, d, "nhs").Total())
}

// budget is the department's budget as already amended by d.
func budget(s *state.Snapshot, d *policy.Decision, id state.Department) state.DeptBudget {
	if b, ok := d.Departments[id]; ok {
		return b
	}
	return s.Fiscal.Dept(id)
}

func setBudget(d *policy.Decision, id state.Department, b state.DeptBudget) {
	if d.Departments == nil {
		d.Departments = map[state.Department]state.DeptBudget{}
	}
	d.Departments[id] = b
}
