// Package store persists routing decisions to a local SQLite archive. The
// archive is append-only from the engine's point of view: decisions are
// written once and read back only by the inspection CLI.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"advisor/internal/logging"
	"advisor/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	strategy        TEXT NOT NULL,
	confidence      REAL NOT NULL,
	matched_signals TEXT NOT NULL,
	rationale       TEXT NOT NULL,
	decided_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id);
CREATE INDEX IF NOT EXISTS idx_decisions_decided ON decisions(decided_at);
`

// DecisionStore is the SQLite-backed decision archive.
type DecisionStore struct {
	db   *sql.DB
	path string
}

// Open creates (if needed) and opens the archive under the workspace's
// .advisor directory.
func Open(workspace string) (*DecisionStore, error) {
	dir := filepath.Join(workspace, ".advisor")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	path := filepath.Join(dir, "decisions.db")

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open decision store: %w", err)
	}
	// A single local file; concurrent writers just serialize.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init decision store schema: %w", err)
	}

	logging.Store("decision archive opened at %s", path)
	return &DecisionStore{db: db, path: path}, nil
}

// Append archives one routing decision.
func (s *DecisionStore) Append(d *types.RoutingDecision) error {
	matched, err := json.Marshal(d.MatchedSignals)
	if err != nil {
		return fmt.Errorf("encode matched signals: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO decisions (id, session_id, strategy, confidence, matched_signals, rationale, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.SessionID, string(d.Strategy), d.Confidence, string(matched), d.Rationale, d.DecidedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("append decision %s: %w", d.ID, err)
	}
	logging.StoreDebug("archived decision %s strategy=%s", d.ID, d.Strategy)
	return nil
}

// Recent returns up to limit decisions, newest first.
func (s *DecisionStore) Recent(limit int) ([]*types.RoutingDecision, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, strategy, confidence, matched_signals, rationale, decided_at
		 FROM decisions ORDER BY decided_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []*types.RoutingDecision
	for rows.Next() {
		var (
			d       types.RoutingDecision
			strat   string
			matched string
			decided int64
		)
		if err := rows.Scan(&d.ID, &d.SessionID, &strat, &d.Confidence, &matched, &d.Rationale, &decided); err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		d.Strategy = types.Strategy(strat)
		d.DecidedAt = time.UnixMilli(decided)
		if err := json.Unmarshal([]byte(matched), &d.MatchedSignals); err != nil {
			// An unreadable signal list should not hide the decision itself.
			d.MatchedSignals = []string{matched}
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Count returns the total number of archived decisions.
func (s *DecisionStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM decisions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count decisions: %w", err)
	}
	return n, nil
}

// Path returns the archive file location.
func (s *DecisionStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *DecisionStore) Close() error {
	return s.db.Close()
}
