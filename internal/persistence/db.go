// Package persistence provides SQLite-based game storage: sessions,
// schema-versioned snapshot documents, the monthly history log and events.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/chancellor/internal/state"
)

// ErrNoSession is returned when a session has no saved snapshot.
var ErrNoSession = errors.New("no such session")

// DB wraps a SQLite connection for game persistence.
type DB struct {
	conn *sqlx.DB
}

// Session describes one saved game.
type Session struct {
	ID         string `db:"id" json:"id"`
	CreatedAt  string `db:"created_at" json:"created_at"`
	Seed       int64  `db:"seed" json:"seed"`
	Difficulty string `db:"difficulty" json:"difficulty"`
	FiscalRule string `db:"fiscal_rule" json:"fiscal_rule"`
	LastTurn   int    `db:"last_turn" json:"last_turn"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		difficulty TEXT NOT NULL,
		fiscal_rule TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL REFERENCES sessions(id),
		turn INTEGER NOT NULL,
		schema_version INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (session_id, turn)
	);

	CREATE TABLE IF NOT EXISTS history (
		session_id TEXT NOT NULL REFERENCES sessions(id),
		turn INTEGER NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		growth REAL NOT NULL,
		inflation REAL NOT NULL,
		unemployment REAL NOT NULL,
		bank_rate REAL NOT NULL,
		gilt_10y REAL NOT NULL,
		deficit_bn REAL NOT NULL,
		debt_bn REAL NOT NULL,
		debt_pct_gdp REAL NOT NULL,
		approval REAL NOT NULL,
		credibility REAL NOT NULL,
		nhs REAL NOT NULL,
		PRIMARY KEY (session_id, turn)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		event_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		category TEXT NOT NULL,
		headline TEXT NOT NULL,
		severity INTEGER NOT NULL,
		UNIQUE (session_id, event_id)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session_turn ON events(session_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateSession registers a new game and saves its opening snapshot.
func (db *DB) CreateSession(s *state.Snapshot) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO sessions (id, created_at, seed, difficulty, fiscal_rule) VALUES (?, ?, ?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339), s.Meta.Seed, string(s.Meta.Difficulty), s.Political.FiscalRuleID,
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	if err := db.SaveTurn(id, s); err != nil {
		return "", err
	}
	if err := db.SaveMeta("last_session", id); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	slog.Info("session created", "session", id, "seed", s.Meta.Seed, "difficulty", s.Meta.Difficulty)
	return id, nil
}

func (db *DB) sessionExists(q sqlx.Queryer, id string) error {
	var n int
	if err := sqlx.Get(q, &n, "SELECT COUNT(*) FROM sessions WHERE id = ?", id); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	return nil
}

// SaveTurn stores the snapshot document for its turn, the newest history
// entry and the turn's events. Re-saving a turn replaces it.
func (db *DB) SaveTurn(sessionID string, s *state.Snapshot) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := db.sessionExists(tx, sessionID); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO snapshots (session_id, turn, schema_version, body) VALUES (?, ?, ?, ?)",
		sessionID, s.Meta.Turn, CurrentSchema, string(body),
	); err != nil {
		return fmt.Errorf("insert snapshot turn %d: %w", s.Meta.Turn, err)
	}

	if n := len(s.History); n > 0 {
		row := toHistoryRow(sessionID, s.History[n-1])
		if _, err := tx.NamedExec(`INSERT OR REPLACE INTO history
			(session_id, turn, month, year, growth, inflation, unemployment, bank_rate, gilt_10y,
			 deficit_bn, debt_bn, debt_pct_gdp, approval, credibility, nhs)
			VALUES (:session_id, :turn, :month, :year, :growth, :inflation, :unemployment, :bank_rate, :gilt_10y,
			 :deficit_bn, :debt_bn, :debt_pct_gdp, :approval, :credibility, :nhs)`, row); err != nil {
			return fmt.Errorf("insert history turn %d: %w", row.Turn, err)
		}
	}

	for _, e := range s.Events {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO events (session_id, event_id, turn, category, headline, severity) VALUES (?, ?, ?, ?, ?, ?)",
			sessionID, e.ID, e.Turn, e.Category, e.Headline, e.Severity,
		); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// LoadLatest returns the newest snapshot of a session, migrated to the
// current schema.
func (db *DB) LoadLatest(sessionID string) (*state.Snapshot, error) {
	var row struct {
		Version int    `db:"schema_version"`
		Body    string `db:"body"`
	}
	err := db.conn.Get(&row,
		"SELECT schema_version, body FROM snapshots WHERE session_id = ? ORDER BY turn DESC LIMIT 1",
		sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s, err := Migrate(row.Version, []byte(row.Body))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return s, nil
}

// SaveRaw stores a document exactly as given. It lets tooling import saves
// written under an older schema.
func (db *DB) SaveRaw(sessionID string, turn, version int, body []byte) error {
	if err := db.sessionExists(db.conn, sessionID); err != nil {
		return err
	}
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (session_id, turn, schema_version, body) VALUES (?, ?, ?, ?)",
		sessionID, turn, version, string(body),
	)
	return err
}

type historyRow struct {
	SessionID    string  `db:"session_id"`
	Turn         int     `db:"turn"`
	Month        int     `db:"month"`
	Year         int     `db:"year"`
	Growth       float64 `db:"growth"`
	Inflation    float64 `db:"inflation"`
	Unemployment float64 `db:"unemployment"`
	BankRate     float64 `db:"bank_rate"`
	Gilt10       float64 `db:"gilt_10y"`
	DeficitBn    float64 `db:"deficit_bn"`
	DebtBn       float64 `db:"debt_bn"`
	DebtPctGDP   float64 `db:"debt_pct_gdp"`
	Approval     float64 `db:"approval"`
	Credibility  float64 `db:"credibility"`
	NHS          float64 `db:"nhs"`
}

func toHistoryRow(sessionID string, e state.HistoryEntry) historyRow {
	return historyRow{
		SessionID:    sessionID,
		Turn:         e.Turn,
		Month:        e.Month,
		Year:         e.Year,
		Growth:       e.Growth,
		Inflation:    e.Inflation,
		Unemployment: e.Unemployment,
		BankRate:     e.BankRate,
		Gilt10:       e.Gilt10,
		DeficitBn:    e.DeficitBn,
		DebtBn:       e.DebtBn,
		DebtPctGDP:   e.DebtPctGDP,
		Approval:     e.Approval,
		Credibility:  e.Credibility,
		NHS:          e.NHS,
	}
}

func (r historyRow) entry() state.HistoryEntry {
	return state.HistoryEntry{
		Turn:         r.Turn,
		Month:        r.Month,
		Year:         r.Year,
		Growth:       r.Growth,
		Inflation:    r.Inflation,
		Unemployment: r.Unemployment,
		BankRate:     r.BankRate,
		Gilt10:       r.Gilt10,
		DeficitBn:    r.DeficitBn,
		DebtBn:       r.DebtBn,
		DebtPctGDP:   r.DebtPctGDP,
		Approval:     r.Approval,
		Credibility:  r.Credibility,
		NHS:          r.NHS,
	}
}

// History returns up to limit of the newest history entries, oldest first.
// A limit of zero or less returns everything.
func (db *DB) History(sessionID string, limit int) ([]state.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []historyRow
	err := db.conn.Select(&rows,
		`SELECT * FROM (SELECT * FROM history WHERE session_id = ? ORDER BY turn DESC LIMIT ?) ORDER BY turn ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	out := make([]state.HistoryEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

// RecentEvents returns the most recent N events of a session, newest first.
func (db *DB) RecentEvents(sessionID string, limit int) ([]state.Event, error) {
	var rows []struct {
		ID       string `db:"event_id"`
		Turn     int    `db:"turn"`
		Category string `db:"category"`
		Headline string `db:"headline"`
		Severity int    `db:"severity"`
	}
	err := db.conn.Select(&rows,
		"SELECT event_id, turn, category, headline, severity FROM events WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	events := make([]state.Event, len(rows))
	for i, r := range rows {
		events[i] = state.Event{ID: r.ID, Turn: r.Turn, Category: r.Category, Headline: r.Headline, Severity: r.Severity}
	}
	return events, nil
}

// Sessions lists saved games, newest first.
func (db *DB) Sessions() ([]Session, error) {
	var out []Session
	err := db.conn.Select(&out, `SELECT s.id, s.created_at, s.seed, s.difficulty, s.fiscal_rule,
		COALESCE((SELECT MAX(turn) FROM snapshots WHERE session_id = s.id), 0) AS last_turn
		FROM sessions s ORDER BY s.created_at DESC, s.rowid DESC`)
	return out, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// LatestSession returns the most recently created session's ID.
func (db *DB) LatestSession() (string, error) {
	id, err := db.GetMeta("last_session")
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSession
	}
	return id, err
}
