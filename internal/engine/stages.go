package engine

import (
	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/distribution"
	"github.com/talgya/chancellor/internal/economy"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/external"
	"github.com/talgya/chancellor/internal/fiscal"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/markets"
	"github.com/talgya/chancellor/internal/monetary"
	"github.com/talgya/chancellor/internal/politics"
	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/services"
	"github.com/talgya/chancellor/internal/state"
)

// Env is what a stage may consume besides the two snapshots.
type Env struct {
	RNG    entropy.Source
	Collab collab.Set
}

// Stage is one named step of the turn pipeline. Stages read prev and the
// fields of next written by earlier stages, and write only to next.
type Stage struct {
	Name string
	Run  func(prev, next *state.Snapshot, env *Env)
}

// pure adapts a stage that needs neither randomness nor collaborators.
func pure(name string, f func(prev, next *state.Snapshot)) Stage {
	return Stage{Name: name, Run: func(prev, next *state.Snapshot, _ *Env) { f(prev, next) }}
}

// random adapts a stage that draws from the turn's entropy source.
func random(name string, f func(prev, next *state.Snapshot, rng entropy.Source)) Stage {
	return Stage{Name: name, Run: func(prev, next *state.Snapshot, env *Env) { f(prev, next, env.RNG) }}
}

// Clock returns the calendar month and year of a turn.
func Clock(turn int) (month, year int) {
	m := calib.StartMonth - 1 + turn
	return m%12 + 1, calib.StartYear + m/12
}

func advanceClock(prev, next *state.Snapshot) {
	next.Meta.Turn = prev.Meta.Turn + 1
	next.Meta.Month, next.Meta.Year = Clock(next.Meta.Turn)
}

func generateEvents(prev, next *state.Snapshot, env *Env) {
	if env.Collab.Events == nil {
		return
	}
	for _, e := range env.Collab.Events.GenerateEvents(collab.NewPublicView(prev, next)) {
		next.Emit(e.Category, e.Headline, e.Severity)
	}
}

func pmComms(prev, next *state.Snapshot, env *Env) {
	if env.Collab.PMComms == nil {
		return
	}
	politics.ApplyPMComms(next, env.Collab.PMComms.ProcessPMCommunications(next))
}

// Stages is the turn pipeline in execution order.
func Stages() []Stage {
	return []Stage{
		pure("metadata", advanceClock),
		pure("fiscal_year", fiscal.RolloverYear),
		pure("emergency_expiry", fiscal.ExpireEmergency),
		random("external", external.Update),
		pure("productivity", economy.UpdateProductivity),
		random("growth", economy.UpdateGrowth),
		pure("employment", economy.UpdateEmployment),
		random("inflation", economy.UpdateInflation),
		pure("wages", economy.UpdateWages),
		pure("accounts", economy.UpdateAccounts),
		random("monetary_policy", monetary.Decide),
		pure("quantitative_tightening", monetary.UpdateQT),
		pure("revenue", fiscal.Revenue),
		pure("spending", fiscal.Spending),
		pure("debt_interest", fiscal.DebtInterest),
		pure("deficit_and_debt", fiscal.RollForward),
		pure("fiscal_rules", rules.Evaluate),
		pure("gilts", markets.UpdateGilts),
		pure("sterling", markets.UpdateSterling),
		pure("housing", markets.UpdateHousing),
		pure("credit_rating", markets.ReviewRating),
		pure("services", services.Update),
		random("strikes", services.UpdateStrikes),
		pure("distribution", distribution.Update),
		random("devolution", politics.UpdateDevolution),
		{Name: "parliament", Run: func(prev, next *state.Snapshot, env *Env) {
			politics.UpdateParliament(prev, next, env.Collab.Stances)
		}},
		{Name: "manifesto", Run: func(prev, next *state.Snapshot, env *Env) {
			politics.UpdateManifesto(prev, next, env.Collab.Manifesto)
		}},
		pure("political_standing", politics.UpdateStanding),
		random("pm_intervention", politics.UpdatePMIntervention),
		{Name: "pm_comms", Run: pmComms},
		{Name: "events", Run: generateEvents},
		pure("game_over", politics.CheckGameOver),
		pure("history", func(_, next *state.Snapshot) { history.Append(next) }),
	}
}
