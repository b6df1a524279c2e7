package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// Driver acts for the player between turns: it may apply a policy decision or
// resolve a pending intervention and returns the snapshot to advance.
type Driver interface {
	BetweenTurns(ctx context.Context, s *state.Snapshot) (*state.Snapshot, error)
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(ctx context.Context, s *state.Snapshot) (*state.Snapshot, error)

func (f DriverFunc) BetweenTurns(ctx context.Context, s *state.Snapshot) (*state.Snapshot, error) {
	return f(ctx, s)
}

// TurnSource is the entropy for the turn after s, derived from the session
// seed so a replay from any save reproduces the same months.
func TurnSource(s *state.Snapshot) entropy.Source {
	return entropy.ForTurn(s.Meta.Seed, s.Meta.Turn+1)
}

// Run advances s up to n turns, stopping early at game over or when ctx is
// cancelled. It returns the last good snapshot along with any error.
func (e *Engine) Run(ctx context.Context, s *state.Snapshot, n int, driver Driver) (*state.Snapshot, error) {
	slog.Info("simulation started", "turn", s.Meta.Turn, "turns", n, "interval", e.interval)
	for i := 0; i < n && !s.Meta.GameOver; i++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if driver != nil {
			decided, err := driver.BetweenTurns(ctx, s)
			if err != nil {
				return s, fmt.Errorf("driver before turn %d: %w", s.Meta.Turn+1, err)
			}
			s = decided
		}
		next, err := e.AdvanceTurn(s, TurnSource(s))
		if err != nil {
			return s, err
		}
		s = next

		if e.interval > 0 {
			select {
			case <-ctx.Done():
				return s, ctx.Err()
			case <-time.After(e.interval):
			}
		}
	}
	slog.Info("simulation stopped", "turn", s.Meta.Turn, "game_over", s.Meta.GameOver, "reason", s.Meta.GameOverReason)
	return s, nil
}
