package autopilot

import (
	"fmt"
	"strings"
)

const maxRecords = 24

// CycleRecord captures what happened in a single autopilot cycle.
type CycleRecord struct {
	Turn       int     `json:"turn"`
	Action     string  `json:"action"`
	Level      Level   `json:"level"`
	Gilt10     float64 `json:"gilt_10y"`
	DebtPctGDP float64 `json:"debt_pct_gdp"`
	Violated   int     `json:"violated"`
	Rationale  string  `json:"rationale,omitempty"`
}

// Memory keeps a ring of recent cycles and running action counts.
type Memory struct {
	Records []CycleRecord  `json:"records"`
	Counts  map[string]int `json:"counts"`
}

// Record adds a cycle record, trimming to the most recent maxRecords.
func (m *Memory) Record(r CycleRecord) {
	if m.Counts == nil {
		m.Counts = map[string]int{}
	}
	m.Counts[r.Action]++
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// Last returns the newest record.
func (m *Memory) Last() (CycleRecord, bool) {
	if len(m.Records) == 0 {
		return CycleRecord{}, false
	}
	return m.Records[len(m.Records)-1], true
}

// Summary formats the most recent n cycles, oldest first.
func (m *Memory) Summary(n int) string {
	if len(m.Records) == 0 {
		return ""
	}
	start := 0
	if len(m.Records) > n {
		start = len(m.Records) - n
	}
	var b strings.Builder
	for _, r := range m.Records[start:] {
		fmt.Fprintf(&b, "turn %d: action=%s level=%s gilts=%.2f debt=%.1f", r.Turn, r.Action, r.Level, r.Gilt10, r.DebtPctGDP)
		if r.Rationale != "" {
			fmt.Fprintf(&b, " (%s)", r.Rationale)
		}
		b.WriteString("\n")
	}
	return b.String()
}
