package politics

import (
	"fmt"
	"log/slog"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/state"
)

func endGame(s *state.Snapshot, reason string) {
	if s.Meta.GameOver {
		return
	}
	s.Meta.GameOver = true
	s.Meta.GameOverReason = reason
	slog.Warn("game over", "turn", s.Meta.Turn, "reason", reason)
	s.Emit("game_over", reason, 3)
}

// CheckGameOver applies the terminal conditions for the session's difficulty.
// A game already ended this turn keeps its first reason.
func CheckGameOver(prev, next *state.Snapshot) {
	if next.Meta.GameOver {
		return
	}
	d := calib.DifficultyFor(string(next.Meta.Difficulty))
	switch {
	case next.Fiscal.DebtPctGDP > d.DebtGameOver:
		endGame(next, fmt.Sprintf("%s: debt reached %.1f%% of GDP", calib.ReasonDebtSpiral, next.Fiscal.DebtPctGDP))
	case next.Markets.Gilt10 > d.GiltGameOver:
		endGame(next, fmt.Sprintf("%s: 10-year gilts at %.2f%%", calib.ReasonGiltCrisis, next.Markets.Gilt10))
	case LostConfidence(prev, next):
		endGame(next, calib.ReasonConfidence)
	case next.Political.PMTrust < d.PMTrustGameOver:
		endGame(next, calib.ReasonSacked)
	case next.Political.Backbench < d.BackbenchGameOver:
		endGame(next, calib.ReasonRevolt)
	}
}
