package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chancellor/internal/autopilot"
	"github.com/talgya/chancellor/internal/engine"
	"github.com/talgya/chancellor/internal/manifesto"
	"github.com/talgya/chancellor/internal/metrics"
	"github.com/talgya/chancellor/internal/persistence"
	"github.com/talgya/chancellor/internal/policy"
	"github.com/talgya/chancellor/internal/state"
)

const adminKey = "test-key"

func newServer(t *testing.T, db *persistence.DB) (*Server, *httptest.Server) {
	t.Helper()
	snap, err := engine.NewGame(engine.GameConfig{Seed: 21})
	require.NoError(t, err)

	reg := metrics.New()
	srv := &Server{
		Engine:          engine.New(engine.WithObserver(reg.Observe)),
		DB:              db,
		Metrics:         reg,
		AdminKey:        adminKey,
		TurnRatePerHour: 100,
	}
	id := "memory"
	if db != nil {
		id, err = db.CreateSession(snap)
		require.NoError(t, err)
	}
	srv.Attach(id, snap)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func call(t *testing.T, ts *httptest.Server, method, path, key, body string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestNoGameLoaded(t *testing.T) {
	ts := httptest.NewServer((&Server{Engine: engine.New(), AdminKey: adminKey}).Handler())
	defer ts.Close()

	code, _ := call(t, ts, http.MethodGet, "/api/v1/status", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = call(t, ts, http.MethodPost, "/api/v1/turn", adminKey, "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestStatusAndSnapshot(t *testing.T) {
	srv, ts := newServer(t, nil)

	code, body := call(t, ts, http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, code)
	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, "memory", status["session"])
	assert.EqualValues(t, 0, status["turn"])
	assert.Equal(t, false, status["game_over"])

	code, body = call(t, ts, http.MethodGet, "/api/v1/snapshot", "", "")
	require.Equal(t, http.StatusOK, code)
	var snap state.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, srv.Current().Meta.Seed, snap.Meta.Seed)
	assert.InDelta(t, srv.Current().Fiscal.DebtBn, snap.Fiscal.DebtBn, 1e-9)
}

func TestAdminAuth(t *testing.T) {
	_, ts := newServer(t, nil)

	code, _ := call(t, ts, http.MethodPost, "/api/v1/turn", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(t, ts, http.MethodPost, "/api/v1/turn", "wrong", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(t, ts, http.MethodGet, "/api/v1/turn", adminKey, "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	open := httptest.NewServer((&Server{Engine: engine.New()}).Handler())
	defer open.Close()
	code, _ = call(t, open, http.MethodPost, "/api/v1/turn", "anything", "")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestTurnAdvancesGame(t *testing.T) {
	srv, ts := newServer(t, nil)

	for want := 1; want <= 3; want++ {
		code, body := call(t, ts, http.MethodPost, "/api/v1/turn", adminKey, "")
		require.Equal(t, http.StatusOK, code, body)
		var res TurnResponse
		require.NoError(t, json.Unmarshal([]byte(body), &res))
		assert.Equal(t, want, res.Turn)
		assert.False(t, res.GameOver)
		assert.NotNil(t, res.Events)
	}
	assert.Equal(t, 3, srv.Current().Meta.Turn)

	code, body := call(t, ts, http.MethodGet, "/api/v1/history?limit=2", "", "")
	require.Equal(t, http.StatusOK, code)
	var hist []state.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(body), &hist))
	require.Len(t, hist, 2)
	assert.Equal(t, 3, hist[1].Turn)

	code, body = call(t, ts, http.MethodGet, "/api/v1/events?limit=500", "", "")
	require.Equal(t, http.StatusOK, code)
	var events []state.Event
	require.NoError(t, json.Unmarshal([]byte(body), &events))
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i-1].Turn, events[i].Turn)
	}

	code, body = call(t, ts, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "chancellor_turns_total 3")
}

func TestTurnRateLimited(t *testing.T) {
	srv, _ := newServer(t, nil)
	srv.TurnRatePerHour = 2
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for i := 0; i < 2; i++ {
		code, _ := call(t, ts, http.MethodPost, "/api/v1/turn", adminKey, "")
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := call(t, ts, http.MethodPost, "/api/v1/turn", adminKey, "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, 2, srv.Current().Meta.Turn)
}

func TestPolicyBreaksPledge(t *testing.T) {
	srv, ts := newServer(t, nil)

	rates := srv.Current().Fiscal.Rates
	rates.IncomeBasic += 5
	body, err := json.Marshal(policy.Decision{Rates: &rates})
	require.NoError(t, err)

	code, resp := call(t, ts, http.MethodPost, "/api/v1/policy", adminKey, string(body))
	require.Equal(t, http.StatusOK, code, resp)
	var rep policy.Report
	require.NoError(t, json.Unmarshal([]byte(resp), &rep))
	assert.Equal(t, []string{"income_tax_lock"}, rep.Violated)

	pledge := manifesto.Standard().Pledges["income_tax_lock"]
	assert.InDelta(t, pledge.ApprovalCost, rep.ApprovalCost, 1e-9)
	assert.InDelta(t, rates.IncomeBasic, srv.Current().Fiscal.Rates.IncomeBasic, 1e-9)
	assert.Equal(t, []string{"income_tax_lock"}, srv.Current().Political.PendingViolations)
}

func TestPolicyErrors(t *testing.T) {
	_, ts := newServer(t, nil)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"malformed", "/api/v1/policy", `{"rates":`, http.StatusBadRequest},
		{"unknown field", "/api/v1/policy", `{"tariffs": 10}`, http.StatusBadRequest},
		{"unknown rule", "/api/v1/policy", `{"fiscal_rule": "vibes"}`, http.StatusBadRequest},
		{"negative budget", "/api/v1/policy", `{"departments": {"nhs": {"current_bn": -1}}}`, http.StatusBadRequest},
		{"nothing pending", "/api/v1/pm/resolve", `{"comply": true}`, http.StatusConflict},
		{"comply missing", "/api/v1/pm/resolve", `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := call(t, ts, http.MethodPost, tc.path, adminKey, tc.body)
			assert.Equal(t, tc.want, code, body)
		})
	}
}

func TestPersistsToDatabase(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv, ts := newServer(t, db)
	for i := 0; i < 4; i++ {
		code, _ := call(t, ts, http.MethodPost, "/api/v1/turn", adminKey, "")
		require.Equal(t, http.StatusOK, code)
	}

	id, err := db.LatestSession()
	require.NoError(t, err)
	loaded, err := db.LoadLatest(id)
	require.NoError(t, err)
	assert.Equal(t, srv.Current().Meta.Turn, loaded.Meta.Turn)

	code, body := call(t, ts, http.MethodGet, "/api/v1/history", "", "")
	require.Equal(t, http.StatusOK, code)
	var hist []state.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(body), &hist))
	assert.Len(t, hist, len(srv.Current().History))
}

func TestNewspaper(t *testing.T) {
	_, ts := newServer(t, nil)
	code, _ := call(t, ts, http.MethodPost, "/api/v1/turn", adminKey, "")
	require.Equal(t, http.StatusOK, code)

	code, body := call(t, ts, http.MethodGet, "/api/v1/newspaper?format=text", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "THE WESTMINSTER COURIER")

	code, _ = call(t, ts, http.MethodGet, "/api/v1/newspaper", "", "")
	assert.Contains(t, []int{http.StatusOK, http.StatusNotFound}, code)
}

func TestAutopilotDrivesServer(t *testing.T) {
	srv, ts := newServer(t, nil)

	pilot := autopilot.New(manifesto.Tracker{})
	client := autopilot.NewClient(ts.URL, adminKey)
	require.NoError(t, pilot.Drive(context.Background(), client, 6))

	cur := srv.Current()
	assert.Equal(t, 6, cur.Meta.Turn)
	assert.Len(t, pilot.Memory.Records, 6)
	assert.False(t, cur.Manifesto.Pledges["income_tax_lock"].Violated)
}
