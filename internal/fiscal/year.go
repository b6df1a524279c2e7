package fiscal

import (
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

// RollsOver reports whether the turn in s opens a new fiscal year.
func RollsOver(s *state.Snapshot) bool {
	return s.Meta.Month == calib.FiscalMonth && s.Meta.Turn > 0
}

// RolloverYear snapshots the spending and debt anchors at the start of a
// fiscal year. It fires once per twelve turns, in April.
func RolloverYear(prev, next *state.Snapshot) {
	if !RollsOver(next) {
		return
	}
	f := &next.Fiscal
	f.PriorYearSpending = f.FiscalYearStartSpending.Clone()
	f.FiscalYearStartSpending = f.Departments.Clone()
	f.FiscalYearStartTurn = next.Meta.Turn
	f.PriorYearDebtPct = f.FiscalYearStartDebtPct
	f.FiscalYearStartDebtPct = prev.Fiscal.DebtPctGDP
	f.PriorYearPrice = f.FiscalYearStartPrice
	f.FiscalYearStartPrice = prev.Economic.PriceLevel
	next.Diagnostics.FiscalYearRolled = true
	slog.Info("fiscal year rollover", "turn", next.Meta.Turn, "year", next.Meta.Year,
		"debt_pct", prev.Fiscal.DebtPctGDP)
}

// ExpireEmergency drops finished emergency programmes and counts down the
// rest; a programme launched with n turns is paid for n turns.
func ExpireEmergency(prev, next *state.Snapshot) {
	kept := next.Emergency[:0]
	for _, p := range next.Emergency {
		if p.TurnsRemaining <= 0 {
			slog.Info("emergency programme ended", "turn", next.Meta.Turn, "programme", p.ID)
			continue
		}
		p.TurnsRemaining--
		kept = append(kept, p)
	}
	next.Emergency = kept
}
