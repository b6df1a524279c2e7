package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/fiscal"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/manifesto"
	"github.com/talgya/chancellor/internal/mps"
	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/state"
)

// DefaultRosterSize is the number of MPs in the sample roster.
const DefaultRosterSize = 60

// GameConfig describes a new session.
type GameConfig struct {
	Difficulty state.Difficulty
	FiscalRule string
	Seed       int64 // 0 draws a fresh seed

	// Manifesto and Roster override the standard pledge book and the sample
	// roster when set.
	Manifesto *state.Manifesto
	Roster    *state.MPSystem
}

// NewGame builds the turn-zero snapshot: calibration baseline, injected
// pledges and roster, and the fiscal aggregates the rules and markets need
// from the first turn.
func NewGame(cfg GameConfig) (*state.Snapshot, error) {
	if cfg.FiscalRule == "" {
		cfg.FiscalRule = rules.Default
	}
	if _, ok := rules.Lookup(cfg.FiscalRule); !ok {
		return nil, fmt.Errorf("new game: unknown fiscal rule %q", cfg.FiscalRule)
	}
	switch cfg.Difficulty {
	case "", state.DifficultyEasy, state.DifficultyStandard, state.DifficultyHard:
	default:
		return nil, fmt.Errorf("new game: unknown difficulty %q", cfg.Difficulty)
	}
	if cfg.Seed == 0 {
		cfg.Seed = entropy.NewSeed()
	}

	s := state.NewBaseline(cfg.Difficulty, cfg.FiscalRule)
	s.Meta.Seed = cfg.Seed
	s.External.NoiseSeed = cfg.Seed ^ 0x5eed
	s.Manifesto = manifesto.Standard()
	if cfg.Manifesto != nil {
		s.Manifesto = *cfg.Manifesto
	}
	s.MPs = mps.SampleRoster(DefaultRosterSize)
	if cfg.Roster != nil {
		s.MPs = *cfg.Roster
	}

	if err := settleAccounts(s); err != nil {
		return nil, err
	}
	history.Append(s)
	slog.Info("new game", "difficulty", s.Meta.Difficulty, "rule", cfg.FiscalRule, "seed", cfg.Seed,
		"deficit_bn", fmt.Sprintf("%.1f", s.Fiscal.DeficitBn), "debt_pct", fmt.Sprintf("%.1f", s.Fiscal.DebtPctGDP))
	return s, nil
}

// settleAccounts runs the fiscal stages once against a scratch copy and keeps
// the flow aggregates, leaving the debt stock and ledger at their baselines.
func settleAccounts(s *state.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: opening accounts: %v", ErrStageFault, r)
		}
	}()
	scratch := s.Clone()
	fiscal.Revenue(s, scratch)
	fiscal.Spending(s, scratch)
	fiscal.DebtInterest(s, scratch)
	fiscal.RollForward(s, scratch)

	f := scratch.Fiscal
	f.DebtBn = s.Fiscal.DebtBn
	f.DebtPctGDP = s.Fiscal.DebtPctGDP
	f.BaselineDeficitBn = f.DeficitBn
	f.BaselineCapitalBn = f.CapitalSpendingBn
	s.Fiscal = f
	s.SpendingReview = scratch.SpendingReview
	return nil
}
