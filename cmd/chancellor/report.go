package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/persistence"
	"github.com/talgya/chancellor/internal/state"
)

// bn formats a £bn figure with thousands separators.
func bn(v float64) string {
	return "£" + humanize.CommafWithDigits(v, 1) + "bn"
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func monthYear(month, year int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d/%d", month, year)
	}
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

// printSummary compares the session's opening and closing months.
func printSummary(w io.Writer, id string, start, end *state.Snapshot) {
	if id == "" {
		id = "(unsaved)"
	}
	fmt.Fprintf(w, "Session %s: %s to %s, %s played\n\n", id,
		monthYear(start.Meta.Month, start.Meta.Year), monthYear(end.Meta.Month, end.Meta.Year),
		months(end.Meta.Turn-start.Meta.Turn))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tSTART\tEND\t")
	rows := []struct {
		name string
		f    func(*state.Snapshot) string
	}{
		{"Growth", func(s *state.Snapshot) string { return pct(s.Economic.GrowthAnnual) }},
		{"Inflation", func(s *state.Snapshot) string { return pct(s.Economic.Inflation) }},
		{"Unemployment", func(s *state.Snapshot) string { return pct(s.Economic.Unemployment) }},
		{"Bank Rate", func(s *state.Snapshot) string { return fmt.Sprintf("%.2f%%", s.Markets.BankRate) }},
		{"10y gilt", func(s *state.Snapshot) string { return fmt.Sprintf("%.2f%%", s.Markets.Gilt10) }},
		{"Borrowing", func(s *state.Snapshot) string { return bn(s.Fiscal.DeficitBn) }},
		{"Debt", func(s *state.Snapshot) string { return bn(s.Fiscal.DebtBn) }},
		{"Debt/GDP", func(s *state.Snapshot) string { return pct(s.Fiscal.DebtPctGDP) }},
		{"Rating", func(s *state.Snapshot) string { return calib.RatingName(s.Political.RatingNotch) }},
		{"Approval", func(s *state.Snapshot) string { return pct(s.Political.Approval) }},
		{"PM trust", func(s *state.Snapshot) string { return fmt.Sprintf("%.0f", s.Political.PMTrust) }},
		{"Credibility", func(s *state.Snapshot) string { return fmt.Sprintf("%.0f", s.Political.Credibility) }},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.name, r.f(start), r.f(end))
	}
	tw.Flush()

	fmt.Fprintln(w)
	if n := len(end.Manifesto.Violations); n > 0 {
		ids := make([]string, 0, n)
		for _, v := range end.Manifesto.Violations {
			ids = append(ids, v.PledgeID)
		}
		fmt.Fprintf(w, "Broken pledges: %s\n", strings.Join(ids, ", "))
	} else {
		fmt.Fprintln(w, "Manifesto intact.")
	}
	if end.Meta.GameOver {
		fmt.Fprintf(w, "GAME OVER in %s: %s\n", monthYear(end.Meta.Month, end.Meta.Year), end.Meta.GameOverReason)
	}
}

func months(n int) string {
	if n == 1 {
		return "1 month"
	}
	return humanize.Comma(int64(n)) + " months"
}

// printSessions lists saved games, newest first.
func printSessions(w io.Writer, sessions []persistence.Session) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDIFFICULTY\tRULE\tTURN\tSEED")
	for _, s := range sessions {
		started := s.CreatedAt
		if t, err := time.Parse(time.RFC3339, s.CreatedAt); err == nil {
			started = humanize.Time(t)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", s.ID, started, s.Difficulty, s.FiscalRule, s.LastTurn, s.Seed)
	}
	tw.Flush()
}

// printHistory renders the monthly log as a table.
func printHistory(w io.Writer, entries []state.HistoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TURN\tMONTH\tGROWTH\tCPI\tUNEMP\tBANK\tGILT\tBORROWING\tDEBT/GDP\tAPPROVAL\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%s\t%s\t%s\t\n",
			e.Turn, monthYear(e.Month, e.Year), pct(e.Growth), pct(e.Inflation), pct(e.Unemployment),
			e.BankRate, e.Gilt10, bn(e.DeficitBn), pct(e.DebtPctGDP), pct(e.Approval))
	}
	tw.Flush()
}
