// Package api serves one game session over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token and change the game.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/config"
	"github.com/talgya/chancellor/internal/engine"
	"github.com/talgya/chancellor/internal/entropy"
	"github.com/talgya/chancellor/internal/history"
	"github.com/talgya/chancellor/internal/metrics"
	"github.com/talgya/chancellor/internal/newsroom"
	"github.com/talgya/chancellor/internal/persistence"
	"github.com/talgya/chancellor/internal/policy"
	"github.com/talgya/chancellor/internal/state"
)

const maxRecentEvents = 500

// Server serves the current game over HTTP.
type Server struct {
	Engine          *engine.Engine
	DB              *persistence.DB   // nil keeps the game in memory only
	Metrics         *metrics.Registry // nil disables /metrics
	Port            int
	AdminKey        string // Bearer token for POST endpoints. Empty = POST disabled.
	TurnRatePerHour int

	mu        sync.Mutex
	sessionID string
	prev      *state.Snapshot
	snap      *state.Snapshot
	recent    []state.Event // newest last, used when DB is nil
	started   time.Time
}

// TurnResponse is the body returned by POST /api/v1/turn.
type TurnResponse struct {
	Turn     int           `json:"turn"`
	GameOver bool          `json:"game_over"`
	Reason   string        `json:"reason,omitempty"`
	Events   []state.Event `json:"events"`
}

// Attach makes snap the game this server plays.
func (s *Server) Attach(sessionID string, snap *state.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = sessionID
	s.prev = nil
	s.snap = snap
	s.recent = nil
	s.started = time.Now()
	if s.Metrics != nil {
		s.Metrics.SetIndicators(snap)
	}
}

// Current returns the latest snapshot. Callers must not modify it.
func (s *Server) Current() *state.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	rate := s.TurnRatePerHour
	if rate <= 0 {
		rate = config.Default().API.TurnRatePerHour
	}
	turnLimiter := NewRateLimiter(rate, time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/newspaper", s.handleNewspaper)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}

	mux.HandleFunc("POST /api/v1/turn", s.adminOnly(RateLimitMiddleware(turnLimiter, s.handleTurn)))
	mux.HandleFunc("POST /api/v1/policy", s.adminOnly(s.handlePolicy))
	mux.HandleFunc("POST /api/v1/pm/resolve", s.adminOnly(s.handleResolve))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine. The returned server is
// for shutdown.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "session", s.sessionID)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CHANCELLOR_CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv(config.EnvPrefix + "CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no CHANCELLOR_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// game returns the loaded snapshot, writing 503 when there is none. The
// caller must hold s.mu.
func (s *Server) game(w http.ResponseWriter) (*state.Snapshot, bool) {
	if s.snap == nil {
		http.Error(w, "no game loaded", http.StatusServiceUnavailable)
		return nil, false
	}
	return s.snap, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.game(w)
	if !ok {
		return
	}

	status := map[string]any{
		"session":        s.sessionID,
		"started":        humanize.Time(s.started),
		"turn":           snap.Meta.Turn,
		"month":          snap.Meta.Month,
		"year":           snap.Meta.Year,
		"difficulty":     snap.Meta.Difficulty,
		"fiscal_rule":    snap.Political.FiscalRuleID,
		"compliant":      snap.Political.Compliance.Compliant,
		"game_over":      snap.Meta.GameOver,
		"reason":         snap.Meta.GameOverReason,
		"approval":       snap.Political.Approval,
		"pm_trust":       snap.Political.PMTrust,
		"credibility":    snap.Political.Credibility,
		"gilt_10y":       snap.Markets.Gilt10,
		"debt_pct_gdp":   snap.Fiscal.DebtPctGDP,
		"deficit":        fmt.Sprintf("£%sbn", humanize.CommafWithDigits(snap.Fiscal.DeficitBn, 1)),
		"pm_demand":      snap.Political.PMIntervention,
		"broken_pledges": len(snap.Manifesto.Violations),
	}
	writeJSON(w, status)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.game(w); ok {
		writeJSON(w, snap)
	}
}

// queryLimit parses ?limit=, falling back to def and capping at ceiling.
func queryLimit(r *http.Request, def, ceiling int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= ceiling {
			return n
		}
	}
	return def
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 60, 600)

	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.game(w)
	if !ok {
		return
	}

	if s.DB == nil {
		writeJSON(w, history.Last(snap.History, limit))
		return
	}
	entries, err := s.DB.History(s.sessionID, limit)
	if err != nil {
		slog.Error("history query failed", "session", s.sessionID, "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, maxRecentEvents)
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.game(w); !ok {
		return
	}

	var events []state.Event
	if s.DB != nil {
		var err error
		events, err = s.DB.RecentEvents(s.sessionID, maxRecentEvents)
		if err != nil {
			slog.Error("events query failed", "session", s.sessionID, "error", err)
			http.Error(w, "events unavailable", http.StatusInternalServerError)
			return
		}
	} else {
		for i := len(s.recent) - 1; i >= 0; i-- {
			events = append(events, s.recent[i])
		}
	}

	out := make([]state.Event, 0, limit)
	for _, e := range events {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	writeJSON(w, out)
}

// handleNewspaper returns the front page for the latest month. With
// ?format=text it returns the plain-text digest of every event instead.
func (s *Server) handleNewspaper(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.game(w)
	if !ok {
		return
	}
	view := collab.NewPublicView(s.prev, snap)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, newsroom.FrontPage(view, snap.Events))
		return
	}

	if len(snap.Events) == 0 {
		http.Error(w, "no news this month", http.StatusNotFound)
		return
	}
	lead := snap.Events[0]
	for _, e := range snap.Events[1:] {
		if e.Severity > lead.Severity {
			lead = e
		}
	}
	writeJSON(w, s.Engine.Collaborators().Events.GenerateNewspaper(view, lead))
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.game(w)
	if !ok {
		return
	}

	next, err := s.Engine.AdvanceTurn(snap, engine.TurnSource(snap))
	if err != nil {
		if errors.Is(err, engine.ErrGameOver) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("turn failed", "session", s.sessionID, "turn", snap.Meta.Turn+1, "error", err)
		http.Error(w, "turn failed", http.StatusInternalServerError)
		return
	}
	if !s.persist(w, next) {
		return
	}

	s.prev, s.snap = snap, next
	s.recent = append(s.recent, next.Events...)
	if over := len(s.recent) - maxRecentEvents; over > 0 {
		s.recent = append([]state.Event(nil), s.recent[over:]...)
	}

	events := next.Events
	if events == nil {
		events = []state.Event{}
	}
	writeJSON(w, TurnResponse{
		Turn:     next.Meta.Turn,
		GameOver: next.Meta.GameOver,
		Reason:   next.Meta.GameOverReason,
		Events:   events,
	})
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	var d policy.Decision
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.apply(w, d)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comply *bool `json:"comply"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Comply == nil {
		http.Error(w, `"comply" is required`, http.StatusBadRequest)
		return
	}
	s.apply(w, policy.Decision{ComplyPM: req.Comply})
}

func (s *Server) apply(w http.ResponseWriter, d policy.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.game(w)
	if !ok {
		return
	}

	next, rep, err := policy.Apply(snap, d, policy.Deps{
		Manifesto: s.Engine.Collaborators().Manifesto,
		RNG:       entropy.ForDecision(snap.Meta.Seed, snap.Meta.Turn),
	})
	switch {
	case errors.Is(err, policy.ErrInvalidDecision), errors.Is(err, policy.ErrUnknownRule):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, policy.ErrGameOver), errors.Is(err, policy.ErrNoPendingIntervention):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		slog.Error("policy failed", "session", s.sessionID, "turn", snap.Meta.Turn, "error", err)
		http.Error(w, "policy failed", http.StatusInternalServerError)
		return
	}
	if !s.persist(w, next) {
		return
	}
	s.snap = next
	if rep.Warnings == nil {
		rep.Warnings = []string{}
	}
	writeJSON(w, rep)
}

// persist stores next for the current session, writing 500 on failure. The
// caller must hold s.mu.
func (s *Server) persist(w http.ResponseWriter, next *state.Snapshot) bool {
	if s.DB == nil {
		return true
	}
	if err := s.DB.SaveTurn(s.sessionID, next); err != nil {
		slog.Error("save failed", "session", s.sessionID, "turn", next.Meta.Turn, "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Warn("encode response", "error", err)
	}
}
