package autopilot

import (
	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/state"
)

// Level grades how urgently the public finances need attention.
type Level string

const (
	LevelHealthy  Level = "HEALTHY"
	LevelWatch    Level = "WATCH"
	LevelWarning  Level = "WARNING"
	LevelCritical Level = "CRITICAL"
)

const (
	trendMonths      = 3
	debtMargin       = 10.0 // pp below the game-over debt ratio
	deficitWarning   = 5.0  // % GDP
	serviceFloor     = 40.0
	giltWarningBelow = 1.0 // pp below CrisisGilt
)

// Health holds the signals the autopilot decides on. It is computed from the
// snapshot alone and is deterministic.
type Health struct {
	Gilt10         float64 `json:"gilt_10y"`
	GiltSlope      float64 `json:"gilt_slope"`
	DebtPctGDP     float64 `json:"debt_pct_gdp"`
	DebtSlope      float64 `json:"debt_slope"`
	DeficitPctGDP  float64 `json:"deficit_pct_gdp"`
	Compliant      bool    `json:"compliant"`
	WeakestService string  `json:"weakest_service"`
	WeakestQuality float64 `json:"weakest_quality"`
	PMPending      bool    `json:"pm_pending"`
	Level          Level   `json:"level"`
}

// headline services and the department that funds each.
var serviceDepartments = []struct {
	service    string
	department state.Department
}{
	{"nhs", "nhs"},
	{"education", "education"},
	{"infrastructure", "infrastructure"},
}

// Triage grades s.
func Triage(s *state.Snapshot) Health {
	h := Health{
		Gilt10:         s.Markets.Gilt10,
		DebtPctGDP:     s.Fiscal.DebtPctGDP,
		DeficitPctGDP:  s.Fiscal.DeficitPctGDP,
		Compliant:      s.Political.Compliance.Compliant,
		PMPending:      s.Political.PMIntervention != nil,
		WeakestQuality: calib.ScoreMax,
	}
	// Short histories read as flat.
	h.GiltSlope, _ = history.Slope(s.History, trendMonths, history.Gilt10)
	h.DebtSlope, _ = history.Slope(s.History, trendMonths, history.DebtPct)

	for _, sd := range serviceDepartments {
		q, ok := s.Services.Index(sd.service)
		if ok && q < h.WeakestQuality {
			h.WeakestService, h.WeakestQuality = sd.service, q
		}
	}

	limit := calib.DifficultyFor(string(s.Meta.Difficulty)).DebtGameOver
	switch {
	case s.Markets.LDIPanic, h.Gilt10 >= calib.CrisisGilt, h.DebtPctGDP >= limit-debtMargin:
		h.Level = LevelCritical
	case h.Gilt10 >= calib.CrisisGilt-giltWarningBelow,
		!h.Compliant && h.DebtSlope > 0,
		h.DeficitPctGDP > deficitWarning:
		h.Level = LevelWarning
	case !h.Compliant, h.DebtSlope > 0 && h.GiltSlope > 0:
		h.Level = LevelWatch
	default:
		h.Level = LevelHealthy
	}
	return h
}

func departmentFor(service string) state.Department {
	for _, sd := range serviceDepartments {
		if sd.service == service {
			return sd.department
		}
	}
	return ""
}
