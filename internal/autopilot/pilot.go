// Package autopilot plays the Chancellor without a human: each turn it
// triages the public finances, picks a cautious policy and applies it. It
// drives soak runs in-process and can steer a running server over HTTP.
package autopilot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/policy"
	"github.com/talgya/chancellor/internal/state"
)

// Pilot implements engine.Driver.
type Pilot struct {
	Manifesto collab.ManifestoTracker
	Memory    Memory
}

// New returns a pilot judging its decisions with tracker.
func New(tracker collab.ManifestoTracker) *Pilot {
	return &Pilot{Manifesto: tracker}
}

// Plan triages s and decides, recording the cycle.
func (p *Pilot) Plan(s *state.Snapshot) Plan {
	h := Triage(s)
	plan := Decide(s, h)
	p.Memory.Record(CycleRecord{
		Turn:       s.Meta.Turn,
		Action:     plan.Action(),
		Level:      h.Level,
		Gilt10:     h.Gilt10,
		DebtPctGDP: h.DebtPctGDP,
		Rationale:  plan.Rationale,
	})
	return plan
}

// BetweenTurns applies this turn's plan to s.
func (p *Pilot) BetweenTurns(ctx context.Context, s *state.Snapshot) (*state.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan := p.Plan(s)
	if plan.Decision.Empty() {
		return s, nil
	}
	next, rep, err := policy.Apply(s, plan.Decision, policy.Deps{
		Manifesto: p.Manifesto,
		RNG:       entropy.ForDecision(s.Meta.Seed, s.Meta.Turn),
	})
	if err != nil {
		return nil, fmt.Errorf("autopilot %s: %w", plan.Action(), err)
	}
	p.noteReport(rep)
	slog.Info("autopilot decision", "turn", s.Meta.Turn, "action", plan.Action(), "rationale", plan.Rationale,
		"giveaway_bn", rep.GiveawayBn, "violated", rep.Violated)
	return next, nil
}

func (p *Pilot) noteReport(rep policy.Report) {
	if n := len(p.Memory.Records); n > 0 {
		p.Memory.Records[n-1].Violated = len(rep.Violated)
	}
}
