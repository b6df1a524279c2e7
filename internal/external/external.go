// Package external models the rest of the world: stochastic shocks and the
// slow drift of the current account, trade friction and energy prices.
package external

import (
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/state"
)

// Active returns the profile and magnitude of the shock in force, if any.
func Active(e state.ExternalSector) (calib.ShockProfile, float64, bool) {
	if e.Shock == "" || e.ShockTurnsRemaining <= 0 {
		return calib.ShockProfile{}, 0, false
	}
	for _, p := range calib.Shocks {
		if p.Kind == e.Shock {
			return p, e.ShockMagnitude, true
		}
	}
	return calib.ShockProfile{}, 0, false
}

// Update advances shocks and drift. No new shock can start on the first
// simulated turn.
func Update(prev, next *state.Snapshot, rng entropy.Source) {
	ext := &next.External
	firstTurn := prev.Meta.Turn == 0

	if ext.ShockTurnsRemaining > 0 {
		ext.ShockTurnsRemaining--
		if ext.ShockTurnsRemaining == 0 {
			slog.Info("external shock ended", "shock", ext.Shock, "turn", next.Meta.Turn)
			next.Emit("external", "External shock fades: "+ext.Shock, 1)
			ext.Shock = ""
			ext.ShockMagnitude = 0
		}
	} else if !firstTurn && entropy.Chance(rng, calib.ShockProbability) {
		p := calib.Shocks[entropy.IntBetween(rng, 0, len(calib.Shocks)-1)]
		ext.Shock = p.Kind
		ext.ShockMagnitude = entropy.Between(rng, calib.ShockMagnitudeMin, calib.ShockMagnitudeMax)
		ext.ShockTurnsRemaining = entropy.IntBetween(rng, p.MinTurns, p.MaxTurns)
		slog.Warn("external shock", "shock", p.Kind, "magnitude", ext.ShockMagnitude, "turns", ext.ShockTurnsRemaining)
		next.Emit("external", "External shock hits: "+p.Kind, 2)
	}

	profile, mag, active := Active(*ext)

	noise := opensimplex.NewNormalized(ext.NoiseSeed)
	t := float64(next.Meta.Turn)
	caNoise := (octaveNoise(noise, t, 0) - 0.5) * 2 * calib.NoiseAmplitude
	energyNoise := (octaveNoise(noise, t, 100) - 0.5) * 2 * calib.EnergyNoise

	energyTarget := energyNoise
	if active {
		energyTarget += profile.EnergyPush * mag
	}
	if energyTarget > ext.EnergyPressure {
		ext.EnergyPressure = calib.Approach(ext.EnergyPressure, energyTarget, calib.ShockRiseSpeed)
	} else {
		ext.EnergyPressure = calib.Approach(ext.EnergyPressure, energyTarget, calib.EnergyDecay)
	}

	frictionTarget := calib.BaselineTradeFriction
	if active {
		frictionTarget += profile.FrictionPush * mag
	}
	if frictionTarget > ext.TradeFriction {
		ext.TradeFriction = calib.Approach(ext.TradeFriction, frictionTarget, calib.ShockRiseSpeed)
	} else {
		ext.TradeFriction = calib.Approach(ext.TradeFriction, frictionTarget, calib.FrictionDecay)
	}
	ext.TradeFriction = calib.Clamp(ext.TradeFriction, 0, 100)

	caTarget := calib.BaselineCurrentAccount +
		calib.CurrentAccountSterling*(prev.Markets.Sterling-calib.BaselineSterling) +
		calib.CurrentAccountEnergy*ext.EnergyPressure +
		caNoise
	if active {
		caTarget += profile.CurrentAccount * mag
	}
	ext.CurrentAccountPct = calib.Clamp(
		calib.Approach(ext.CurrentAccountPct, caTarget, calib.CurrentAccountAdjust),
		calib.CurrentAccountMin, calib.CurrentAccountMax)
}

// GrowthEffect is the annualized growth hit of the active shock.
func GrowthEffect(e state.ExternalSector) float64 {
	p, mag, ok := Active(e)
	if !ok {
		return 0
	}
	return p.GrowthHit * mag
}

// InflationEffect is the direct inflation push of the active shock.
func InflationEffect(e state.ExternalSector) float64 {
	p, mag, ok := Active(e)
	if !ok {
		return 0
	}
	return p.InflationPush * mag
}

// YieldEffect is the gilt premium of the active shock.
func YieldEffect(e state.ExternalSector) float64 {
	p, mag, ok := Active(e)
	if !ok {
		return 0
	}
	return p.YieldPremium * mag
}

// octaveNoise layers a few frequencies of simplex noise into a smooth [0, 1] drift.
func octaveNoise(noise opensimplex.Noise, x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := calib.NoiseFrequency

	for i := 0; i < calib.NoiseOctaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= calib.NoisePersistence
		frequency *= 2
	}

	return total / maxVal
}
