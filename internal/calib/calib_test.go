package calib

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioPanicsOnBadDenominator(t *testing.T) {
	for _, den := range []float64{0, math.NaN(), math.Inf(1)} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r, "den=%v", den)
				var cfgErr *ConfigError
				require.True(t, errors.As(r.(error), &cfgErr))
				assert.Contains(t, cfgErr.Error(), "nominal GDP")
			}()
			Ratio(1, den, "nominal GDP")
		}()
	}
	assert.InDelta(t, 0.25, Ratio(1, 4, "quarter"), 1e-12)
}

func TestClampAndApproach(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(140, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
	assert.InDelta(t, 2.5, Approach(2, 4, 0.25), 1e-12)
	assert.InDelta(t, 2.0, PctOfGDP(60, 3000), 1e-12)
}

func TestMonthlyAnnualizeRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("annualize inverts monthly", prop.ForAll(
		func(annual float64) bool {
			return math.Abs(Annualize(Monthly(annual))-annual) < 1e-9
		},
		gen.Float64Range(-20, 40),
	))
	properties.Property("monthly rate has the annual sign", prop.ForAll(
		func(annual float64) bool {
			m := Monthly(annual)
			return (annual >= 0) == (m >= 0) && math.Abs(m) <= math.Abs(annual)
		},
		gen.Float64Range(-20, 40),
	))

	properties.TestingRun(t)
}
