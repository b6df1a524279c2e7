package persistence

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/calib"
	"github.com/talgya/chancellor/internal/engine"
	"github.com/talgya/chancellor/internal/state"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chancellor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newGame(t *testing.T) *state.Snapshot {
	t.Helper()
	s, err := engine.NewGame(engine.GameConfig{Difficulty: state.DifficultyStandard, Seed: 11})
	require.NoError(t, err)
	return s
}

func play(t *testing.T, db *DB, id string, s *state.Snapshot, n int) *state.Snapshot {
	t.Helper()
	e := engine.New()
	for i := 0; i < n; i++ {
		next, err := e.AdvanceTurn(s, engine.TurnSource(s))
		require.NoError(t, err)
		require.NoError(t, db.SaveTurn(id, next))
		s = next
	}
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	db := openTemp(t)
	s := newGame(t)

	id, err := db.CreateSession(s)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	loaded, err := db.LoadLatest(id)
	require.NoError(t, err)
	want, err := json.Marshal(s)
	require.NoError(t, err)
	got, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	latest, err := db.LatestSession()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestSaveTurnRecordsHistoryAndEvents(t *testing.T) {
	db := openTemp(t)
	s := newGame(t)
	id, err := db.CreateSession(s)
	require.NoError(t, err)

	last := play(t, db, id, s, 6)

	loaded, err := db.LoadLatest(id)
	require.NoError(t, err)
	assert.Equal(t, last.Meta.Turn, loaded.Meta.Turn)
	assert.InDelta(t, last.Fiscal.DebtBn, loaded.Fiscal.DebtBn, 1e-9)

	hist, err := db.History(id, 0)
	require.NoError(t, err)
	require.Len(t, hist, len(last.History))
	for i := 1; i < len(hist); i++ {
		assert.Equal(t, hist[i-1].Turn+1, hist[i].Turn)
	}
	assert.Equal(t, last.History[len(last.History)-1], hist[len(hist)-1])

	recent, err := db.History(id, 3)
	require.NoError(t, err)
	assert.Equal(t, hist[len(hist)-3:], recent)

	events, err := db.RecentEvents(id, 500)
	require.NoError(t, err)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i-1].Turn, events[i].Turn)
	}

	sessions, err := db.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, last.Meta.Turn, sessions[0].LastTurn)
	assert.Equal(t, int64(11), sessions[0].Seed)
}

func TestResavingATurnIsIdempotent(t *testing.T) {
	db := openTemp(t)
	s := newGame(t)
	id, err := db.CreateSession(s)
	require.NoError(t, err)
	s.Emit("test", "something happened", 1)

	require.NoError(t, db.SaveTurn(id, s))
	require.NoError(t, db.SaveTurn(id, s))

	events, err := db.RecentEvents(id, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestUnknownSession(t *testing.T) {
	db := openTemp(t)
	_, err := db.LoadLatest("missing")
	assert.ErrorIs(t, err, ErrNoSession)

	err = db.SaveTurn("missing", newGame(t))
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = db.LatestSession()
	assert.ErrorIs(t, err, ErrNoSession)
}

// downgrade rewrites a current document the way a version-1 build stored it.
func downgrade(t *testing.T, s *state.Snapshot) []byte {
	t.Helper()
	doc, err := toDocument(s)
	require.NoError(t, err)
	for _, path := range keyedPaths {
		parent, key, ok := walk(doc, path)
		require.True(t, ok, path)
		pairs, ok := parent[key].([]any)
		require.True(t, ok, path)
		obj := map[string]any{}
		for _, p := range pairs {
			kv := p.(map[string]any)
			obj[kv["key"].(string)] = kv["value"]
		}
		parent[key] = obj
	}
	delete(doc, "debt_management")
	delete(doc["economic"].(map[string]any), "anchor_health")
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	return body
}

func TestLoadMigratesOldSaves(t *testing.T) {
	db := openTemp(t)
	// Above 2^53: a float64 round trip would drop the low digits.
	s, err := engine.NewGame(engine.GameConfig{Difficulty: state.DifficultyStandard, Seed: 4611686018427400001})
	require.NoError(t, err)
	id, err := db.CreateSession(s)
	require.NoError(t, err)

	require.NoError(t, db.SaveRaw(id, 1, 1, downgrade(t, s)))

	loaded, err := db.LoadLatest(id)
	require.NoError(t, err)
	assert.Equal(t, s.Fiscal.Departments, loaded.Fiscal.Departments)
	assert.Equal(t, s.Manifesto.Pledges, loaded.Manifesto.Pledges)
	assert.Equal(t, s.MPs.MPs, loaded.MPs.MPs)
	assert.InDelta(t, s.Fiscal.DebtBn, loaded.Debt.TotalBn(), 1e-6)
	assert.Equal(t, state.IssuanceBalanced, loaded.Debt.Strategy)
	assert.InDelta(t, calib.BaselineAnchorHealth, loaded.Economic.AnchorHealth, 1e-9)
	assert.Equal(t, s.Meta.Seed, loaded.Meta.Seed)
	assert.Equal(t, s.External.NoiseSeed, loaded.External.NoiseSeed)
	require.NoError(t, state.Validate(loaded))
}

func TestMigrateV2KeepsSeedsExact(t *testing.T) {
	s, err := engine.NewGame(engine.GameConfig{Difficulty: state.DifficultyStandard, Seed: 4611686018427400001})
	require.NoError(t, err)
	doc, err := toDocument(s)
	require.NoError(t, err)
	delete(doc, "debt_management")
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	loaded, err := Migrate(2, body)
	require.NoError(t, err)
	require.Equal(t, s.Meta.Seed, loaded.Meta.Seed)
	require.Equal(t, s.External.NoiseSeed, loaded.External.NoiseSeed)
	assert.InDelta(t, s.Fiscal.DebtBn, loaded.Debt.TotalBn(), 1e-6)
}

func TestSchemaTooNew(t *testing.T) {
	db := openTemp(t)
	id, err := db.CreateSession(newGame(t))
	require.NoError(t, err)
	require.NoError(t, db.SaveRaw(id, 1, CurrentSchema+1, []byte(`{}`)))

	_, err = db.LoadLatest(id)
	assert.ErrorIs(t, err, ErrSchemaTooNew)
}
