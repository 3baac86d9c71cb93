// Package store persists interview sessions in SQLite: the relationship
// history flag, the append-only transcript and the instrument answers.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/narrate"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level var so tests can freeze the clock.
var timeNow = time.Now

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Session is one respondent's assessment.
type Session struct {
	ID        string          `json:"id"`
	History   narrate.History `json:"history"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".rapport")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the session store backed by SQLite. Writes are serialised so
// turn sequence numbers stay gapless per session.
type Store struct {
	db  *sql.DB
	cfg Config
	mu  sync.Mutex
}

// New creates the data directory if needed, opens SQLite with WAL mode and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "rapport.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			history    TEXT NOT NULL DEFAULT 'substantial',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS turns (
			session_id TEXT    NOT NULL REFERENCES sessions(id),
			seq        INTEGER NOT NULL,
			role       TEXT    NOT NULL,
			content    TEXT    NOT NULL,
			created_at TEXT    NOT NULL,
			PRIMARY KEY (session_id, seq)
		);

		CREATE TABLE IF NOT EXISTS answers (
			session_id TEXT    NOT NULL REFERENCES sessions(id),
			instrument TEXT    NOT NULL,
			item_id    TEXT    NOT NULL,
			value      INTEGER NOT NULL,
			updated_at TEXT    NOT NULL,
			PRIMARY KEY (session_id, instrument, item_id)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// CreateSession starts a new session with a fresh id.
func (s *Store) CreateSession(history narrate.History) (*Session, error) {
	if history == "" {
		history = narrate.HistorySubstantial
	}
	now := Now()
	sess := &Session{ID: uuid.NewString(), History: history, CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, history, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sess.ID, string(sess.History), sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by id.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT id, history, created_at, updated_at FROM sessions WHERE id = ?`, id)
	var sess Session
	var history string
	if err := row.Scan(&sess.ID, &history, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}
	sess.History = narrate.History(history)
	return &sess, nil
}

// SetHistory updates the relationship history flag.
func (s *Store) SetHistory(id string, history narrate.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`UPDATE sessions SET history = ?, updated_at = ? WHERE id = ?`, string(history), Now(), id)
	if err != nil {
		return fmt.Errorf("setting history: %w", err)
	}
	return requireRow(res, id)
}

// ─── Turns ───────────────────────────────────────────────────────────────────

// AppendTurn validates and appends a turn, returning its zero-based
// position in the transcript. Turns are never updated or deleted.
func (s *Store) AppendTurn(sessionID string, turn interview.Turn) (int, error) {
	if err := turn.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("appending turn: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := sessionExists(tx, sessionID); err != nil {
		return 0, err
	}
	var seq int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq) + 1, 0) FROM turns WHERE session_id = ?`, sessionID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("appending turn: %w", err)
	}
	now := Now()
	if _, err := tx.Exec(
		`INSERT INTO turns (session_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, seq, string(turn.Role), turn.Content, now,
	); err != nil {
		return 0, fmt.Errorf("appending turn: %w", err)
	}
	if _, err := tx.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID); err != nil {
		return 0, fmt.Errorf("appending turn: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("appending turn: %w", err)
	}
	return seq, nil
}

// Transcript loads a session's turns in order.
func (s *Store) Transcript(sessionID string) (*interview.Transcript, error) {
	if err := sessionExists(s.db, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT role, content FROM turns WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}
	defer rows.Close()

	var turns []interview.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("loading transcript: %w", err)
		}
		turns = append(turns, interview.Turn{Role: interview.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}
	return interview.NewTranscript(turns...)
}

// ─── Answers ─────────────────────────────────────────────────────────────────

// PutAnswer stores one item answer, replacing any earlier answer to the
// same item. Range checks belong to the caller.
func (s *Store) PutAnswer(sessionID string, id instruments.ID, itemID string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := sessionExists(s.db, sessionID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO answers (session_id, instrument, item_id, value, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id, instrument, item_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, string(id), itemID, value, Now(),
	)
	if err != nil {
		return fmt.Errorf("storing answer: %w", err)
	}
	return nil
}

// Answers returns every stored answer grouped by instrument.
func (s *Store) Answers(sessionID string) (map[instruments.ID]instruments.AnswerSet, error) {
	if err := sessionExists(s.db, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT instrument, item_id, value FROM answers WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	defer rows.Close()

	out := make(map[instruments.ID]instruments.AnswerSet)
	for rows.Next() {
		var inst, item string
		var value int
		if err := rows.Scan(&inst, &item, &value); err != nil {
			return nil, fmt.Errorf("loading answers: %w", err)
		}
		set, ok := out[instruments.ID(inst)]
		if !ok {
			set = instruments.AnswerSet{}
			out[instruments.ID(inst)] = set
		}
		set[item] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	return out, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func sessionExists(db queryRower, id string) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return timeNow().UTC().Format("2006-01-02 15:04:05")
}
