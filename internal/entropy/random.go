// Package entropy supplies the randomness stages draw from. Every stochastic
// draw in a turn goes through a Source so a seeded game replays exactly.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"sync"
)

// Source is the random stream a turn consumes. *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
	Int63() int64
}

// NewSeeded returns a deterministic source.
func NewSeeded(seed int64) Source {
	return mrand.New(mrand.NewSource(seed))
}

// ForTurn derives the stream for one turn of a seeded game, so replaying a
// saved game from any turn reproduces the same draws.
func ForTurn(seed int64, turn int) Source {
	return NewSeeded(seed*1_000_003 + int64(turn))
}

// decisionSalt separates between-turn decision draws from the turn stream.
const decisionSalt = 0x6dec1510

// ForDecision derives the stream for choices made between turns, such as a
// reshuffle after defying the PM. It is salted apart from ForTurn for the
// same game and turn.
func ForDecision(seed int64, turn int) Source {
	return ForTurn(seed^decisionSalt, turn)
}

// NewSeed returns a fresh game seed from crypto/rand.
func NewSeed() int64 {
	return int64(cryptoUint64() >> 1)
}

// Crypto is an unseeded Source backed by crypto/rand. Games run on it cannot
// be replayed; it backs the host's "no seed" mode.
type Crypto struct {
	mu    sync.Mutex
	spare float64
	has   bool
}

// Float64 returns a uniform value in [0, 1).
func (c *Crypto) Float64() float64 {
	return cryptoRandFloat()
}

// NormFloat64 returns a standard normal draw using the Box-Muller transform.
func (c *Crypto) NormFloat64() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has {
		c.has = false
		return c.spare
	}
	u1 := cryptoRandFloat()
	for u1 == 0 {
		u1 = cryptoRandFloat()
	}
	u2 := cryptoRandFloat()
	r := math.Sqrt(-2 * math.Log(u1))
	c.spare = r * math.Sin(2*math.Pi*u2)
	c.has = true
	return r * math.Cos(2*math.Pi*u2)
}

// Int63 returns a non-negative 63-bit integer.
func (c *Crypto) Int63() int64 {
	return int64(cryptoUint64() >> 1)
}

func cryptoUint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// cryptoRandFloat uses 53 bits for a uniform float64 in [0, 1).
func cryptoRandFloat() float64 {
	n := cryptoUint64() >> 11
	return float64(n) / float64(1<<53)
}

// Chance reports whether a draw from src falls under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Between returns a uniform draw in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// IntBetween returns a uniform integer in [lo, hi].
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(src.Int63()%int64(hi-lo+1))
}
