// Package engine runs the monthly turn pipeline: it clones the previous
// snapshot, runs every stage in a fixed order and returns the next snapshot.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/manifesto"
	"github.com/talgya/chancellor/internal/mps"
	"github.com/talgya/chancellor/internal/newsroom"
	"github.com/talgya/chancellor/internal/pmcomms"
	"github.com/talgya/chancellor/internal/state"
)

var (
	// ErrGameOver is returned when asked to advance a finished game.
	ErrGameOver = errors.New("game is over")

	// ErrStageFault wraps a panic or invalid output inside a stage. The
	// caller's previous snapshot is untouched and remains current.
	ErrStageFault = errors.New("stage fault")
)

// Observer sees every completed turn.
type Observer func(prev, next *state.Snapshot, took time.Duration)

// Engine holds the stage list and the collaborators a turn consumes. It keeps
// no game state of its own, so one Engine can serve many sessions.
type Engine struct {
	collab    collab.Set
	strict    bool
	interval  time.Duration
	observers []Observer
	stages    []Stage
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrict validates the snapshot after every stage.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithCollaborators replaces the default collaborators. Nil members keep
// their defaults.
func WithCollaborators(c collab.Set) Option {
	return func(e *Engine) {
		if c.Manifesto != nil {
			e.collab.Manifesto = c.Manifesto
		}
		if c.Stances != nil {
			e.collab.Stances = c.Stances
		}
		if c.Events != nil {
			e.collab.Events = c.Events
		}
		if c.PMComms != nil {
			e.collab.PMComms = c.PMComms
		}
	}
}

// WithObserver registers a callback run after each successful turn.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithInterval paces Run with a pause between turns.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// New creates an engine wired with the default collaborators.
func New(opts ...Option) *Engine {
	e := &Engine{
		collab: collab.Set{
			Manifesto: manifesto.Tracker{},
			Stances:   mps.Calculator{},
			Events:    newsroom.Engine{},
			PMComms:   pmcomms.Engine{},
		},
		stages: Stages(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Collaborators returns the collaborator set in use.
func (e *Engine) Collaborators() collab.Set { return e.collab }

// AdvanceTurn computes the month after prev. prev is never modified; on
// error the returned snapshot is nil and prev remains the current state.
func (e *Engine) AdvanceTurn(prev *state.Snapshot, rng entropy.Source) (*state.Snapshot, error) {
	if prev.Meta.GameOver {
		return nil, ErrGameOver
	}
	start := time.Now()
	next := prev.Clone()
	next.Events = []state.Event{}
	next.Diagnostics = state.Diagnostics{}

	env := &Env{RNG: rng, Collab: e.collab}
	for _, st := range e.stages {
		if err := e.runStage(st, prev, next, env); err != nil {
			slog.Error("turn aborted", "turn", prev.Meta.Turn+1, "err", err)
			return nil, err
		}
	}
	took := time.Since(start)

	slog.Info("monthly report",
		"turn", next.Meta.Turn,
		"date", fmt.Sprintf("%d-%02d", next.Meta.Year, next.Meta.Month),
		"growth", fmt.Sprintf("%.2f", next.Economic.GrowthAnnual),
		"inflation", fmt.Sprintf("%.2f", next.Economic.Inflation),
		"unemployment", fmt.Sprintf("%.2f", next.Economic.Unemployment),
		"bank_rate", next.Markets.BankRate,
		"gilt_10y", fmt.Sprintf("%.2f", next.Markets.Gilt10),
		"deficit_bn", fmt.Sprintf("%.1f", next.Fiscal.DeficitBn),
		"debt_pct", fmt.Sprintf("%.1f", next.Fiscal.DebtPctGDP),
		"approval", fmt.Sprintf("%.1f", next.Political.Approval),
		"events", len(next.Events),
		"took", took,
	)
	for _, o := range e.observers {
		o(prev, next, took)
	}
	return next, nil
}

func (e *Engine) runStage(st Stage, prev, next *state.Snapshot, env *Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrStageFault, st.Name, r)
		}
	}()
	st.Run(prev, next, env)
	if e.strict {
		if verr := state.Validate(next); verr != nil {
			return fmt.Errorf("%w: %s: %w", ErrStageFault, st.Name, verr)
		}
	}
	slog.Debug("stage done", "stage", st.Name, "turn", next.Meta.Turn)
	return nil
}
