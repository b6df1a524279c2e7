// Package newsroom is the default event engine: it turns threshold crossings
// in the public view into events and writes plain front pages for them.
package newsroom

import (
	"fmt"
	"strings"

	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

// Thresholds a newsroom reacts to.
const (
	GiltSelloff      = 0.30 // pp rise in a month
	InflationAlarm   = 5.0
	UnemploymentHigh = 6.0
	ApprovalLow      = 25.0
	NHSCrisis        = 40.0
	SterlingSlump    = 90.0
)

// Engine implements collab.EventEngine.
type Engine struct{}

var _ collab.EventEngine = Engine{}

// GenerateEvents reads only the public view. Event IDs are left for the
// caller to assign.
func (Engine) GenerateEvents(v collab.PublicView) []state.Event {
	var out []state.Event
	add := func(category, headline string, severity int) {
		out = append(out, state.Event{Turn: v.Turn, Category: category, Headline: headline, Severity: severity})
	}

	if v.GiltChange >= GiltSelloff {
		add("markets", fmt.Sprintf("Gilts sell off: 10-year yield jumps %.0f basis points to %.2f%%", v.GiltChange*100, v.Gilt10), 2)
	}
	if v.LDIPanic {
		add("markets", "Pension funds dump gilts as margin calls spiral", 3)
	}
	if v.RatingChanged {
		add("markets", fmt.Sprintf("Credit rating now %s", v.Rating), 2)
	}
	if v.Sterling < SterlingSlump {
		add("markets", fmt.Sprintf("Sterling slides to %.1f on the trade-weighted index", v.Sterling), 1)
	}
	if v.Inflation > InflationAlarm {
		add("economy", fmt.Sprintf("Inflation hits %.1f%%", v.Inflation), 2)
	}
	if v.Unemployment > UnemploymentHigh {
		add("economy", fmt.Sprintf("Jobless rate climbs to %.1f%%", v.Unemployment), 2)
	}
	if v.Growth < 0 {
		add("economy", fmt.Sprintf("Economy shrinking at an annual rate of %.1f%%", -v.Growth), 2)
	}
	if v.NHS < NHSCrisis {
		add("services", "Waiting lists at record high as NHS buckles", 2)
	}
	for _, s := range v.Strikes {
		add("services", fmt.Sprintf("Picket lines form as %s strike begins", s), 2)
	}
	if len(v.Violations) > 0 {
		add("politics", fmt.Sprintf("Broken promise row: %s", strings.Join(v.Violations, ", ")), 3)
	}
	if !v.Compliant {
		add("politics", "Chancellor's fiscal rule in breach, watchdog confirms", 1)
	}
	if v.Approval < ApprovalLow {
		add("politics", fmt.Sprintf("Government approval sinks to %.0f%%", v.Approval), 2)
	}
	return out
}

func outlet(category string) string {
	switch category {
	case "markets", "economy":
		return "The Financial Ledger"
	case "services":
		return "The Evening Bulletin"
	}
	return "The Westminster Courier"
}

// GenerateNewspaper writes a short front page around one event.
func (Engine) GenerateNewspaper(v collab.PublicView, e state.Event) collab.Article {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d. ", monthName(v.Month), v.Year)
	fmt.Fprintf(&b, "Growth %.1f%%, inflation %.1f%%, unemployment %.1f%%. ", v.Growth, v.Inflation, v.Unemployment)
	fmt.Fprintf(&b, "Bank Rate %.2f%%, 10-year gilts %.2f%%. ", v.BankRate, v.Gilt10)
	fmt.Fprintf(&b, "Borrowing £%.0fbn; debt %.1f%% of GDP.", v.DeficitBn, v.DebtPctGDP)
	if v.Shock != "" {
		fmt.Fprintf(&b, " The %s continues to weigh.", strings.ReplaceAll(v.Shock, "_", " "))
	}
	return collab.Article{
		Outlet:     outlet(e.Category),
		Headline:   e.Headline,
		Standfirst: b.String(),
		Turn:       v.Turn,
	}
}

// FrontPage renders the month's events as a plain-text digest.
func FrontPage(v collab.PublicView, events []state.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "THE WESTMINSTER COURIER\n")
	fmt.Fprintf(&b, "=======================\n")
	fmt.Fprintf(&b, "%s %d\n\n", monthName(v.Month), v.Year)

	fmt.Fprintf(&b, "THE ECONOMY\n")
	fmt.Fprintf(&b, "Growth %.1f%%, inflation %.1f%%, unemployment %.1f%%.\n", v.Growth, v.Inflation, v.Unemployment)
	fmt.Fprintf(&b, "Bank Rate %.2f%%; 10-year gilts %.2f%%; sterling %.1f.\n\n", v.BankRate, v.Gilt10, v.Sterling)

	byCategory := map[string][]string{}
	var order []string
	for _, e := range events {
		if _, ok := byCategory[e.Category]; !ok {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e.Headline)
	}
	for _, c := range order {
		fmt.Fprintf(&b, "%s\n", strings.ToUpper(strings.ReplaceAll(c, "_", " ")))
		for i, h := range byCategory[c] {
			if i >= 5 {
				fmt.Fprintf(&b, "...and %d more.\n", len(byCategory[c])-5)
				break
			}
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "WESTMINSTER\n")
	fmt.Fprintf(&b, "Approval %.0f%%. Rating %s.", v.Approval, v.Rating)
	if v.GameOver {
		fmt.Fprintf(&b, " The Chancellor has left office.")
	}
	b.WriteString("\n")
	return b.String()
}

var months = [...]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return fmt.Sprintf("Month %d", m)
	}
	return months[m-1]
}
