package newsroom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/state"
)

func quiet() collab.PublicView {
	return collab.PublicView{
		Turn:         3,
		Month:        10,
		Year:         2024,
		Growth:       1.1,
		Inflation:    2.3,
		Unemployment: 4.2,
		BankRate:     5,
		Gilt10:       4.1,
		Sterling:     100,
		DebtPctGDP:   98,
		Approval:     40,
		NHS:          62,
		Rating:       "AA",
		Compliant:    true,
	}
}

func TestQuietMonthHasNoNews(t *testing.T) {
	assert.Empty(t, Engine{}.GenerateEvents(quiet()))
}

func TestSelloffAndStrikeMakeNews(t *testing.T) {
	v := quiet()
	v.GiltChange = 0.45
	v.Gilt10 = 4.55
	v.Strikes = []string{"nhs"}
	v.Violations = []string{"vat_lock"}
	events := Engine{}.GenerateEvents(v)
	require.Len(t, events, 3)
	assert.Equal(t, "markets", events[0].Category)
	assert.Contains(t, events[0].Headline, "45 basis points")
	assert.Equal(t, 3, events[2].Severity)
	for _, e := range events {
		assert.Empty(t, e.ID)
		assert.Equal(t, 3, e.Turn)
	}
}

func TestNewspaper(t *testing.T) {
	v := quiet()
	v.Shock = "energy_spike"
	a := Engine{}.GenerateNewspaper(v, state.Event{Category: "markets", Headline: "Gilts slump"})
	assert.Equal(t, "The Financial Ledger", a.Outlet)
	assert.Equal(t, "Gilts slump", a.Headline)
	assert.True(t, strings.HasPrefix(a.Standfirst, "October 2024."))
	assert.Contains(t, a.Standfirst, "energy spike")
}

func TestFrontPageGroupsByCategory(t *testing.T) {
	events := []state.Event{
		{Category: "markets", Headline: "one"},
		{Category: "politics", Headline: "two"},
		{Category: "markets", Headline: "three"},
	}
	page := FrontPage(quiet(), events)
	assert.Contains(t, page, "MARKETS\n- one\n- three\n")
	assert.Contains(t, page, "POLITICS\n- two\n")
	assert.Less(t, strings.Index(page, "MARKETS"), strings.Index(page, "POLITICS"))
}
