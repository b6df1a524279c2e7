package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/state"
)

func series(debt ...float64) []state.HistoryEntry {
	out := make([]state.HistoryEntry, len(debt))
	for i, d := range debt {
		out[i] = state.HistoryEntry{Turn: i, DebtPctGDP: d}
	}
	return out
}

func TestSlopeNeedsEnoughHistory(t *testing.T) {
	_, ok := Slope(series(98, 99), 6, DebtPct)
	assert.False(t, ok)

	s, ok := Slope(series(90, 91, 92, 93, 94, 95, 96), 6, DebtPct)
	require.True(t, ok)
	assert.InDelta(t, 1.0, s, 1e-9)
}

func TestAppendKeepsCapacity(t *testing.T) {
	s := state.NewBaseline(state.DifficultyStandard, "stability_rule")
	for i := 0; i < Capacity+5; i++ {
		s.Meta.Turn = i
		Append(s)
	}
	require.Len(t, s.History, Capacity)
	assert.Equal(t, 5, s.History[0].Turn)
	assert.Equal(t, Capacity+4, s.History[len(s.History)-1].Turn)
}

func TestMonthsAgo(t *testing.T) {
	h := series(1, 2, 3)
	e, ok := MonthsAgo(h, 2)
	require.True(t, ok)
	assert.Equal(t, 1.0, e.DebtPctGDP)
	_, ok = MonthsAgo(h, 3)
	assert.False(t, ok)
}

func TestMeanIncludesCurrent(t *testing.T) {
	h := []state.HistoryEntry{{Inflation: 2}, {Inflation: 3}, {Inflation: 4}}
	assert.InDelta(t, 4.0, Mean(h, 2, Inflation, 5), 1e-9)
}
