package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForTurnIsDeterministic(t *testing.T) {
	a, b := ForTurn(42, 7), ForTurn(42, 7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.NormFloat64(), b.NormFloat64())
	}
	assert.NotEqual(t, ForTurn(42, 7).Float64(), ForTurn(42, 8).Float64())
}

func TestForDecisionIsSeparateFromTurnStream(t *testing.T) {
	const seed = 4611686018427400001
	for turn := 1; turn <= 12; turn++ {
		a, b := ForDecision(seed, turn), ForDecision(seed, turn)
		assert.Equal(t, a.Float64(), b.Float64())
		assert.NotEqual(t, ForTurn(seed, turn).Float64(), ForDecision(seed, turn).Float64(), "turn %d", turn)
	}
}

func TestCryptoRanges(t *testing.T) {
	c := &Crypto{}
	for i := 0; i < 200; i++ {
		f := c.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
		assert.GreaterOrEqual(t, c.Int63(), int64(0))
	}
}

func TestIntBetween(t *testing.T) {
	src := NewSeeded(1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		n := IntBetween(src, 3, 6)
		assert.True(t, n >= 3 && n <= 6, "got %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 5, IntBetween(src, 5, 5))
}
