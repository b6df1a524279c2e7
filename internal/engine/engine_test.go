package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/markets"
	"github.com/talgya/chancellor/internal/newsroom"
	"github.com/talgya/chancellor/internal/state"
)

func newGame(t *testing.T, seed int64) *state.Snapshot {
	t.Helper()
	s, err := NewGame(GameConfig{Difficulty: state.DifficultyStandard, Seed: seed})
	require.NoError(t, err)
	return s
}

func TestStagesAreNamedAndOrdered(t *testing.T) {
	stages := Stages()
	seen := map[string]bool{}
	for _, st := range stages {
		require.NotEmpty(t, st.Name)
		require.NotNil(t, st.Run)
		require.False(t, seen[st.Name], "duplicate stage %s", st.Name)
		seen[st.Name] = true
	}
	assert.Equal(t, "metadata", stages[0].Name)
	assert.Equal(t, "history", stages[len(stages)-1].Name)
	assert.GreaterOrEqual(t, len(stages), 25)
}

func TestClock(t *testing.T) {
	m, y := Clock(0)
	assert.Equal(t, 7, m)
	assert.Equal(t, 2024, y)
	m, y = Clock(9)
	assert.Equal(t, 4, m)
	assert.Equal(t, 2025, y)
	m, y = Clock(18)
	assert.Equal(t, 1, m)
	assert.Equal(t, 2026, y)
}

func TestNewGameOpeningAccounts(t *testing.T) {
	s := newGame(t, 1)
	f := s.Fiscal
	assert.InDelta(t, calib.BaselineDebtBn, f.DebtBn, 1e-9)
	assert.InDelta(t, f.TotalManagedExpBn-f.RevenueBn, f.DeficitBn, 1e-9)
	assert.Equal(t, f.DeficitBn, f.BaselineDeficitBn)
	assert.Greater(t, f.DeficitBn, 0.0)
	assert.Len(t, s.History, 1)
	assert.NotEmpty(t, s.Manifesto.Pledges)
	assert.Len(t, s.MPs.MPs, DefaultRosterSize)

	_, err := NewGame(GameConfig{FiscalRule: "no_such_rule"})
	assert.Error(t, err)
}

func TestAdvanceLeavesPrevUntouched(t *testing.T) {
	prev := newGame(t, 2)
	before := prev.Clone()
	next, err := New().AdvanceTurn(prev, TurnSource(prev))
	require.NoError(t, err)
	assert.Equal(t, before, prev)
	assert.Equal(t, 1, next.Meta.Turn)
	assert.Equal(t, 8, next.Meta.Month)
}

func TestSeededTurnsAreReproducible(t *testing.T) {
	e := New(WithStrict(true))
	a, err := e.Run(context.Background(), newGame(t, 42), 18, nil)
	require.NoError(t, err)
	b, err := e.Run(context.Background(), newGame(t, 42), 18, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAccountingIdentitiesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)
	e := New(WithStrict(true))

	properties.Property("deficit and debt accretion hold every turn", prop.ForAll(
		func(seed int64, difficulty string) bool {
			s, err := NewGame(GameConfig{Difficulty: state.Difficulty(difficulty), Seed: seed})
			if err != nil {
				return false
			}
			for i := 0; i < 36 && !s.Meta.GameOver; i++ {
				next, err := e.AdvanceTurn(s, TurnSource(s))
				if err != nil {
					t.Logf("seed %d turn %d: %v", seed, i+1, err)
					return false
				}
				f := next.Fiscal
				if math.Abs(f.DeficitBn-(f.TotalManagedExpBn-f.RevenueBn)) > 1e-9 {
					return false
				}
				if math.Abs(f.DebtBn-(s.Fiscal.DebtBn+f.DeficitBn/12)) > 1e-9 {
					return false
				}
				if state.Validate(next) != nil {
					return false
				}
				s = next
			}
			return true
		},
		gen.Int64Range(1, math.MaxInt64),
		gen.OneConstOf("easy", "standard", "hard"),
	))

	properties.TestingRun(t)
}

func TestNoPhantomStimulus(t *testing.T) {
	e := New()
	s := newGame(t, 7)
	for i := 0; i < 24; i++ {
		next, err := e.AdvanceTurn(s, TurnSource(s))
		require.NoError(t, err)
		assert.True(t, next.Diagnostics.NoPolicyDelta, "turn %d", next.Meta.Turn)
		assert.Zero(t, next.Diagnostics.PolicyImpulse)
		assert.InDelta(t, next.Economic.TrendGrowth, next.Economic.GrowthAnnual, calib.PhantomGuardBand+1e-9)
		s = next
	}
}

func TestFirstTurnMovesOnlyThroughStabilizersAndInterest(t *testing.T) {
	prev := newGame(t, 9)
	next, err := New().AdvanceTurn(prev, TurnSource(prev))
	require.NoError(t, err)
	assert.True(t, next.Diagnostics.NoPolicyDelta)
	assert.Empty(t, next.External.Shock)
	assert.Equal(t, prev.Fiscal.DepartmentalBn, next.Fiscal.DepartmentalBn)
}

func TestFiscalYearRollsOverOncePerYear(t *testing.T) {
	e := New()
	s := newGame(t, 3)
	var rolled []int
	for i := 0; i < 36; i++ {
		next, err := e.AdvanceTurn(s, TurnSource(s))
		require.NoError(t, err)
		if next.Diagnostics.FiscalYearRolled {
			rolled = append(rolled, next.Meta.Turn)
			assert.Equal(t, 4, next.Meta.Month)
			assert.Equal(t, next.Meta.Turn, next.Fiscal.FiscalYearStartTurn)
			assert.Equal(t, next.Fiscal.Departments, next.Fiscal.FiscalYearStartSpending)
		}
		s = next
	}
	assert.Equal(t, []int{9, 21, 33}, rolled)
}

func TestRatingOnlyMovesOnReviewTurns(t *testing.T) {
	e := New()
	s := newGame(t, 5)
	s.Fiscal.DebtBn = 3100 // a weak starting position gives the agencies something to say
	for i := 0; i < 30 && !s.Meta.GameOver; i++ {
		next, err := e.AdvanceTurn(s, TurnSource(s))
		require.NoError(t, err)
		if !markets.IsReviewTurn(next.Meta.Turn) {
			assert.False(t, next.Diagnostics.RatingReviewed)
			assert.Equal(t, s.Political.RatingNotch, next.Political.RatingNotch)
			assert.Equal(t, s.Political.RatingOutlook, next.Political.RatingOutlook)
		} else {
			assert.True(t, next.Diagnostics.RatingReviewed)
		}
		s = next
	}
}

func TestDebtSpiralEndsGame(t *testing.T) {
	s := newGame(t, 11)
	s.Fiscal.DebtBn = 1.25 * s.Economic.NominalGDP
	next, err := New().AdvanceTurn(s, TurnSource(s))
	require.NoError(t, err)
	require.True(t, next.Meta.GameOver)
	assert.Contains(t, next.Meta.GameOverReason, calib.ReasonDebtSpiral)

	_, err = New().AdvanceTurn(next, TurnSource(next))
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestRunStopsAtGameOver(t *testing.T) {
	s := newGame(t, 12)
	s.Fiscal.DebtBn = 1.3 * s.Economic.NominalGDP
	out, err := New().Run(context.Background(), s, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Meta.Turn)
	assert.True(t, out.Meta.GameOver)
}

type explodingNews struct{ newsroom.Engine }

func (explodingNews) GenerateEvents(collab.PublicView) []state.Event {
	panic("wire service down")
}

func TestStageFaultIsRecovered(t *testing.T) {
	prev := newGame(t, 13)
	before := prev.Clone()
	e := New(WithCollaborators(collab.Set{Events: explodingNews{}}))
	next, err := e.AdvanceTurn(prev, TurnSource(prev))
	assert.Nil(t, next)
	require.ErrorIs(t, err, ErrStageFault)
	assert.Contains(t, err.Error(), "events")
	assert.Equal(t, before, prev)
}

func TestStrictModeCatchesNonFinite(t *testing.T) {
	prev := newGame(t, 14)
	prev.Political.Approval = math.NaN()
	_, err := New(WithStrict(true)).AdvanceTurn(prev, TurnSource(prev))
	require.ErrorIs(t, err, ErrStageFault)
	assert.True(t, errors.Is(err, state.ErrInvalid))
	assert.Contains(t, err.Error(), "metadata")
}

func TestZeroBaselineIsAConfigFault(t *testing.T) {
	prev := newGame(t, 15)
	prev.Economic.NominalGDP = 0
	_, err := New().AdvanceTurn(prev, TurnSource(prev))
	require.ErrorIs(t, err, ErrStageFault)
}

func TestObserverSeesEachTurn(t *testing.T) {
	var turns []int
	e := New(WithObserver(func(_, next *state.Snapshot, _ time.Duration) { turns = append(turns, next.Meta.Turn) }))
	_, err := e.Run(context.Background(), newGame(t, 16), 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, turns)
}

func TestDriverRunsBetweenTurns(t *testing.T) {
	calls := 0
	d := DriverFunc(func(_ context.Context, s *state.Snapshot) (*state.Snapshot, error) {
		calls++
		return s, nil
	})
	_, err := New().Run(context.Background(), newGame(t, 17), 4, d)
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newGame(t, 18)
	out, err := New().Run(ctx, s, 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, out.Meta.Turn)
}
