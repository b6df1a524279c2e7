// Package history maintains the append-only monthly log on a snapshot and
// the trend readers later stages use (debt slope, adaptive inflation).
package history

import "github.com/talgya/chancellor/internal/state"

// Capacity bounds the log; older months are dropped once it is full.
const Capacity = 600

// Record builds the entry summarising s.
func Record(s *state.Snapshot) state.HistoryEntry {
	return state.HistoryEntry{
		Turn:         s.Meta.Turn,
		Month:        s.Meta.Month,
		Year:         s.Meta.Year,
		Growth:       s.Economic.GrowthAnnual,
		Inflation:    s.Economic.Inflation,
		Unemployment: s.Economic.Unemployment,
		BankRate:     s.Markets.BankRate,
		Gilt10:       s.Markets.Gilt10,
		DeficitBn:    s.Fiscal.DeficitBn,
		DebtBn:       s.Fiscal.DebtBn,
		DebtPctGDP:   s.Fiscal.DebtPctGDP,
		Approval:     s.Political.Approval,
		Credibility:  s.Political.Credibility,
		NHS:          s.Services.NHS,
	}
}

// Append records next's end-of-turn state. It runs last in the pipeline.
func Append(next *state.Snapshot) {
	next.History = append(next.History, Record(next))
	if over := len(next.History) - Capacity; over > 0 {
		next.History = append([]state.HistoryEntry(nil), next.History[over:]...)
	}
}

// Last returns up to n most recent entries, oldest first.
func Last(h []state.HistoryEntry, n int) []state.HistoryEntry {
	if n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

// MonthsAgo returns the entry k months before the newest one.
func MonthsAgo(h []state.HistoryEntry, k int) (state.HistoryEntry, bool) {
	i := len(h) - 1 - k
	if i < 0 || k < 0 {
		return state.HistoryEntry{}, false
	}
	return h[i], true
}

// Slope is the average monthly change of field over the last n months.
// It reports false when fewer than n+1 entries exist.
func Slope(h []state.HistoryEntry, n int, field func(state.HistoryEntry) float64) (float64, bool) {
	if n <= 0 || len(h) < n+1 {
		return 0, false
	}
	newest := field(h[len(h)-1])
	oldest := field(h[len(h)-1-n])
	return (newest - oldest) / float64(n), true
}

// Mean averages field over the last n entries plus an optional current value.
func Mean(h []state.HistoryEntry, n int, field func(state.HistoryEntry) float64, current float64) float64 {
	recent := Last(h, n)
	sum := current
	for _, e := range recent {
		sum += field(e)
	}
	return sum / float64(len(recent)+1)
}

// Field accessors.
func DebtPct(e state.HistoryEntry) float64 { return e.DebtPctGDP }
func Inflation(e state.HistoryEntry) float64 { return e.Inflation }
func Deficit(e state.HistoryEntry) float64 { return e.DeficitBn }
func Gilt10(e state.HistoryEntry) float64 { return e.Gilt10 }
