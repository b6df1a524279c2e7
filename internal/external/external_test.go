package external

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// alwaysShock rolls zero on every uniform draw.
type alwaysShock struct{}

func (alwaysShock) Float64() float64     { return 0 }
func (alwaysShock) NormFloat64() float64 { return 0 }
func (alwaysShock) Int63() int64         { return 0 }

func TestNoShockOnFirstTurn(t *testing.T) {
	prev := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	next := prev.Clone()
	next.Meta.Turn = 1
	Update(prev, next, alwaysShock{})
	assert.Empty(t, next.External.Shock)
}

func TestShockStartsAndDecays(t *testing.T) {
	prev := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	prev.Meta.Turn = 5
	next := prev.Clone()
	next.Meta.Turn = 6
	Update(prev, next, alwaysShock{})

	require.Equal(t, calib.Shocks[0].Kind, next.External.Shock)
	assert.Equal(t, calib.Shocks[0].MinTurns, next.External.ShockTurnsRemaining)
	assert.Greater(t, next.External.EnergyPressure, 5.0)
	assert.NotEmpty(t, next.Events)

	for i := 0; i < calib.Shocks[0].MinTurns; i++ {
		p := next
		next = p.Clone()
		next.Meta.Turn++
		Update(p, next, entropy.NewSeeded(int64(i)))
	}
	assert.NotEqual(t, calib.Shocks[0].Kind, next.External.Shock)
}

func TestDriftStaysBounded(t *testing.T) {
	s := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	s.External.NoiseSeed = 99
	rng := entropy.NewSeeded(3)
	for i := 0; i < 600; i++ {
		next := s.Clone()
		next.Meta.Turn++
		Update(s, next, rng)
		s = next
		require.GreaterOrEqual(t, s.External.CurrentAccountPct, calib.CurrentAccountMin)
		require.LessOrEqual(t, s.External.CurrentAccountPct, calib.CurrentAccountMax)
		require.GreaterOrEqual(t, s.External.TradeFriction, 0.0)
	}
}

func TestEffectsZeroWithoutShock(t *testing.T) {
	e := state.ExternalSector{}
	assert.Zero(t, GrowthEffect(e))
	assert.Zero(t, InflationEffect(e))
	assert.Zero(t, YieldEffect(e))
}
