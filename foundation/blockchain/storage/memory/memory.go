// Package memory implements the ability to read and write the ledger to
// memory.
package memory

import (
	"io/fs"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Memory represents the serialization implementation for reading and storing
// the ledger in memory. This implements the database.Storage interface.
type Memory struct {
	mu       sync.RWMutex
	snapshot *database.Snapshot
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write stores a copy of the snapshot in memory.
func (m *Memory) Write(snapshot database.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := database.NewSnapshot(snapshot.Chain, snapshot.Pending)
	m.snapshot = &cpy

	return nil
}

// Read returns a copy of the last snapshot written. If nothing has been
// written the error will match fs.ErrNotExist.
func (m *Memory) Read() (database.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return database.Snapshot{}, fs.ErrNotExist
	}

	return database.NewSnapshot(m.snapshot.Chain, m.snapshot.Pending), nil
}

// Reset will clear out the ledger in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = nil
	return nil
}
