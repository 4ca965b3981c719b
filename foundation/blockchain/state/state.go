// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler
}

// State manages the ledger. Accepting a transaction and mining a block are
// serialized by the mutex so a balance check always sees a consistent view.
type State struct {
	mu sync.RWMutex

	genesis      genesis.Genesis
	evHandler    EventHandler
	storage      database.Storage
	chain        []database.Block
	mempool      *mempool.Mempool
	participants map[string]struct{}
}

// New constructs the ledger from what is in storage. When storage is empty,
// can't be read, or holds a malformed ledger, a new ledger with only the
// genesis block is started.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if cfg.Genesis.Owner == "" {
		return nil, errors.New("genesis owner is required")
	}

	chain := []database.Block{database.Genesis()}
	var pending []database.Tx

	snapshot, err := cfg.Storage.Read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ev("state: New: no ledger in storage, starting from genesis")

	case err != nil:
		ev("state: New: WARNING: unable to read ledger, starting from genesis: %s", err)

	default:
		chain = snapshot.Chain
		pending = snapshot.Pending
		ev("state: New: loaded ledger: blocks[%d]: pending[%d]", len(chain), len(pending))
	}

	mp := mempool.New()
	mp.Load(pending)

	state := State{
		genesis:      cfg.Genesis,
		evHandler:    ev,
		storage:      cfg.Storage,
		chain:        chain,
		mempool:      mp,
		participants: make(map[string]struct{}),
	}

	// The participants are not stored, they are every name found in the
	// ledger along with the owner.
	state.addParticipants(cfg.Genesis.Owner)
	for _, block := range chain {
		for _, tx := range block.Transactions {
			state.addParticipants(tx.Sender, tx.Recipient)
		}
	}
	for _, tx := range pending {
		state.addParticipants(tx.Sender, tx.Recipient)
	}

	// An invalid chain is reported but kept so the caller can decide
	// what to do with it.
	if err := database.VerifyChain(cfg.Genesis.Difficulty, chain); err != nil {
		ev("state: New: WARNING: loaded chain is invalid: %s", err)
	}

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.storage.Close()
}

// =============================================================================

// addParticipants records the names as participants of the ledger.
func (s *State) addParticipants(names ...string) {
	for _, name := range names {
		if name != "" {
			s.participants[name] = struct{}{}
		}
	}
}

// persist writes the full ledger to storage. The in-memory ledger stays
// authoritative when this fails. The caller must hold the write lock.
func (s *State) persist() error {
	snapshot := database.NewSnapshot(s.chain, s.mempool.Copy())

	if err := s.storage.Write(snapshot); err != nil {
		s.evHandler("state: persist: ERROR: %s", err)
		return fmt.Errorf("%w: %w", database.ErrPersistenceWrite, err)
	}

	return nil
}
