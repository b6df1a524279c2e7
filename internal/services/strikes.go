package services

import (
	"fmt"
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// strikeChance is the monthly probability of a walkout once a sector has
// endured at least CutMonths of real cuts below its quality floor.
func strikeChance(spec calib.StrikeSpec, cuts int) float64 {
	return min(1, spec.BaseChance+spec.ChancePerMon*float64(cuts-spec.CutMonths))
}

// UpdateStrikes advances strike timers and rolls for new industrial action.
// It runs after Update so the real-spend ratios are this month's. The
// cooldown starts with the walkout and runs down alongside it.
func UpdateStrikes(prev, next *state.Snapshot, rng entropy.Source) {
	s := &next.Services
	if s.Strikes == nil {
		s.Strikes = state.Keyed[string, state.StrikeState]{}
	}
	next.Diagnostics.StrikesStarted = nil

	for _, spec := range calib.Strikes {
		st := prev.Services.Strikes[spec.Sector]
		quality, _ := s.Index(spec.Service)

		if ratio, ok := s.RealRatios[spec.Service]; ok && ratio < calib.NeutralBandLow {
			st.ConsecutiveRealCuts++
		} else {
			st.ConsecutiveRealCuts = 0
		}

		if st.Cooldown > 0 {
			st.Cooldown--
		}
		switch {
		case st.MonthsRemaining > 0:
			st.MonthsRemaining--
			s.SetIndex(spec.Service, calib.Clamp(quality-spec.QualityHit, calib.QualityMin, calib.QualityMax))
			if st.MonthsRemaining == 0 {
				slog.Info("strike ended", "sector", spec.Sector, "turn", next.Meta.Turn)
			}
		case st.Cooldown == 0 && st.ConsecutiveRealCuts >= spec.CutMonths && quality < spec.QualityFloor:
			if !entropy.Chance(rng, strikeChance(spec, st.ConsecutiveRealCuts)) {
				break
			}
			st.MonthsRemaining = spec.DurationTurns
			st.Cooldown = spec.CooldownTurns
			s.SetIndex(spec.Service, calib.Clamp(quality-spec.QualityHit, calib.QualityMin, calib.QualityMax))
			next.Diagnostics.StrikesStarted = append(next.Diagnostics.StrikesStarted, spec.Sector)
			slog.Warn("strike called", "sector", spec.Sector, "turn", next.Meta.Turn,
				"quality", quality, "real_cut_months", st.ConsecutiveRealCuts)
			next.Emit("services", fmt.Sprintf("%s workers walk out after %d months of real-terms cuts", sectorName(spec.Sector), st.ConsecutiveRealCuts), 3)
		}
		s.Strikes[spec.Sector] = st
	}
}

func sectorName(sector string) string {
	switch sector {
	case "nhs":
		return "NHS"
	case "rail":
		return "Rail"
	case "education":
		return "Teaching"
	}
	return sector
}
