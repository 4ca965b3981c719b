// Package sqlite implements the ability to read and write the ledger to a
// SQLite database file.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

const maxBusyTimeoutMs = 5000

// SQLite represents the serialization implementation for reading and storing
// the ledger in a single row table. The row holds the same two JSON documents
// the disk storage writes to its lines. This implements the database.Storage
// interface.
type SQLite struct {
	db *sql.DB
}

// New opens or creates the database file and makes sure the schema exists.
func New(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(dbPath)))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS ledger (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		chain   TEXT NOT NULL,
		pending TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Write replaces the stored ledger with the snapshot inside a transaction.
func (s *SQLite) Write(snapshot database.Snapshot) error {
	pending := snapshot.Pending
	if pending == nil {
		pending = []database.Tx{}
	}

	chainJSON, err := json.Marshal(snapshot.Chain)
	if err != nil {
		return err
	}

	pendingJSON, err := json.Marshal(pending)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}

	const q = `INSERT INTO ledger (id, chain, pending) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET chain = excluded.chain, pending = excluded.pending`
	if _, err := tx.Exec(q, string(chainJSON), string(pendingJSON)); err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}

	return nil
}

// Read loads the stored ledger. If nothing has been written the error will
// match fs.ErrNotExist, if the contents can't be decoded the error will
// match database.ErrMalformed.
func (s *SQLite) Read() (database.Snapshot, error) {
	var chainJSON, pendingJSON string

	row := s.db.QueryRow(`SELECT chain, pending FROM ledger WHERE id = 1`)
	if err := row.Scan(&chainJSON, &pendingJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Snapshot{}, fs.ErrNotExist
		}
		return database.Snapshot{}, fmt.Errorf("select ledger: %w", err)
	}

	var snapshot database.Snapshot
	if err := json.Unmarshal([]byte(chainJSON), &snapshot.Chain); err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: chain: %s", database.ErrMalformed, err)
	}

	if err := json.Unmarshal([]byte(pendingJSON), &snapshot.Pending); err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: pending: %s", database.ErrMalformed, err)
	}

	if err := snapshot.Validate(); err != nil {
		return database.Snapshot{}, err
	}

	return snapshot, nil
}

// Reset will clear out the stored ledger.
func (s *SQLite) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM ledger`); err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}

	return nil
}
