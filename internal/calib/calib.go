// Package calib holds every calibrated constant the turn pipeline uses.
// Numbers are tuned for a bounded, plausible gameplay range rather than
// forecasting accuracy. Stages reference them by name; nothing calibrated is
// written inline in a stage.
package calib

import (
	"fmt"
	"math"
)

// ConfigError reports a calibration bug detected at runtime, such as a zero
// baseline used as a denominator. It is raised as a panic and converted into
// an error by the engine, which discards the turn.
type ConfigError struct {
	What string
}

func (e *ConfigError) Error() string {
	return "calibration fault: " + e.What
}

// Ratio divides num by den. Baselines are never learned at runtime, so a zero
// or non-finite denominator is a configuration bug and panics.
func Ratio(num, den float64, what string) float64 {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		panic(&ConfigError{What: fmt.Sprintf("%s: denominator %v", what, den)})
	}
	return num / den
}

// Clamp bounds v to [lo, hi]. NaN is not clamped; callers catch it in strict mode.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Approach moves current toward target by the given fraction.
func Approach(current, target, speed float64) float64 {
	return current + (target-current)*speed
}

// Monthly converts an annualized percentage rate to a monthly percentage.
func Monthly(annualPct float64) float64 {
	return (math.Pow(1+annualPct/100, 1.0/12) - 1) * 100
}

// Annualize converts a monthly percentage rate to an annualized percentage.
func Annualize(monthlyPct float64) float64 {
	return (math.Pow(1+monthlyPct/100, 12) - 1) * 100
}

// PctOfGDP expresses an annual £bn flow as a percentage of nominal GDP.
func PctOfGDP(bn, nominalGDP float64) float64 {
	return Ratio(bn, nominalGDP, "nominal GDP") * 100
}

// Calendar.
const (
	StartMonth   = 7 // July
	StartYear    = 2024
	FiscalMonth  = 4 // April
	MonthsInYear = 12
)
