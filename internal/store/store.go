// Package store provides an explicit, sqlite-backed checkpoint surface
// for RNG and scheduler state. It never runs automatically: checkpoints
// happen only when Checkpoint is called, matching the deterministic
// core's "no intrinsic persistence" contract.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"terrasim/internal/rng"
	"terrasim/internal/scheduler"
)

// Store wraps the sqlite checkpoint database.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if necessary) the sqlite checkpoint database at
// dbPath and runs any pending migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint store: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping checkpoint store: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate checkpoint store: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		applied, err := s.isMigrationApplied(m.id)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := s.runMigration(m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.id, m.name, err)
		}
	}
	return nil
}

func (s *Store) isMigrationApplied(id int) (bool, error) {
	var count int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM migrations WHERE id = ?", id).Scan(&count)
	return count > 0, err
}

func (s *Store) runMigration(m migration) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (id, name) VALUES (?, ?)", m.id, m.name); err != nil {
		return err
	}
	return tx.Commit()
}

// Checkpoint writes a new row capturing mgr's and sched's current
// state, returning the new checkpoint's id.
func (s *Store) Checkpoint(mgr *rng.Manager, sched *scheduler.Scheduler) (int64, error) {
	rngJSON, err := json.Marshal(mgr.GetState())
	if err != nil {
		return 0, fmt.Errorf("marshaling rng state: %w", err)
	}
	schedJSON, err := json.Marshal(sched.GetState())
	if err != nil {
		return 0, fmt.Errorf("marshaling scheduler state: %w", err)
	}

	res, err := s.conn.Exec(
		"INSERT INTO checkpoints (rng_state_json, scheduler_state_json) VALUES (?, ?)",
		string(rngJSON), string(schedJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting checkpoint: %w", err)
	}
	return res.LastInsertId()
}

// Restore reads back checkpoint id's RNG and scheduler state.
func (s *Store) Restore(id int64) (rng.State, scheduler.State, error) {
	var rngJSON, schedJSON string
	err := s.conn.QueryRow(
		"SELECT rng_state_json, scheduler_state_json FROM checkpoints WHERE id = ?", id,
	).Scan(&rngJSON, &schedJSON)
	if err != nil {
		return rng.State{}, scheduler.State{}, fmt.Errorf("loading checkpoint %d: %w", id, err)
	}

	var rngState rng.State
	if err := json.Unmarshal([]byte(rngJSON), &rngState); err != nil {
		return rng.State{}, scheduler.State{}, fmt.Errorf("unmarshaling rng state: %w", err)
	}
	var schedState scheduler.State
	if err := json.Unmarshal([]byte(schedJSON), &schedState); err != nil {
		return rng.State{}, scheduler.State{}, fmt.Errorf("unmarshaling scheduler state: %w", err)
	}

	return rngState, schedState, nil
}
