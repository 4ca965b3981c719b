// Package disk implements the ability to read and write the ledger to a
// single text file on disk.
package disk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Disk represents the serialization implementation for reading and storing
// the ledger in a file with two lines. The first line holds the chain and
// the second line holds the pending transactions. This implements the
// database.Storage interface.
type Disk struct {
	mu     sync.Mutex
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since the file is
// written and closed on every call to Write.
func (d *Disk) Close() error {
	return nil
}

// Write replaces the file on disk with the specified snapshot. The data is
// written to a temporary file first and then renamed over the existing file
// so a failed write never leaves a partial ledger behind.
func (d *Disk) Write(snapshot database.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := encode(snapshot)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(d.dbPath), filepath.Base(d.dbPath)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, d.dbPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}

// Read loads the snapshot from disk. If the file doesn't exist the error
// will match fs.ErrNotExist, if the contents can't be decoded the error will
// match database.ErrMalformed.
func (d *Disk) Read() (database.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.dbPath)
	if err != nil {
		return database.Snapshot{}, err
	}

	return decode(data)
}

// Reset will remove the ledger file from disk.
func (d *Disk) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.dbPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// =============================================================================

// encode marshals the chain and the pending transactions on their own lines.
func encode(snapshot database.Snapshot) ([]byte, error) {
	pending := snapshot.Pending
	if pending == nil {
		pending = []database.Tx{}
	}

	chainJSON, err := json.Marshal(snapshot.Chain)
	if err != nil {
		return nil, err
	}

	pendingJSON, err := json.Marshal(pending)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(chainJSON)
	buf.WriteByte('\n')
	buf.Write(pendingJSON)
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// decode unmarshals the two lines of the file back into a snapshot.
func decode(data []byte) (database.Snapshot, error) {
	lines := bytes.Split(bytes.TrimRight(data, "\r\n"), []byte("\n"))
	if len(lines) != 2 {
		return database.Snapshot{}, fmt.Errorf("%w: expected 2 lines, got %d", database.ErrMalformed, len(lines))
	}

	var snapshot database.Snapshot
	if err := json.Unmarshal(lines[0], &snapshot.Chain); err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: chain: %s", database.ErrMalformed, err)
	}

	if err := json.Unmarshal(lines[1], &snapshot.Pending); err != nil {
		return database.Snapshot{}, fmt.Errorf("%w: pending: %s", database.ErrMalformed, err)
	}

	if err := snapshot.Validate(); err != nil {
		return database.Snapshot{}, err
	}

	return snapshot, nil
}
