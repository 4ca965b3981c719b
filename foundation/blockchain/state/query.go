package state

import (
	"maps"
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Balance returns the balance for the participant.
func (s *State) Balance(participant string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance.Of(participant, s.chain, s.mempool.Copy())
}

// Balances returns the balance of every known participant.
func (s *State) Balances() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance.Sheet(slices.Collect(maps.Keys(s.participants)), s.chain, s.mempool.Copy())
}

// QueryBlocks returns a copy of the chain.
func (s *State) QueryBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.CopyChain(s.chain)
}

// QueryBlocksByParticipant returns the blocks holding a transaction sent or
// received by the participant. If the participant is empty, all blocks are
// returned.
func (s *State) QueryBlocksByParticipant(participant string) []database.Block {
	if participant == "" {
		return s.QueryBlocks()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.Block
	for _, block := range s.chain {
		for _, tx := range block.Transactions {
			if tx.Sender == participant || tx.Recipient == participant {
				out = append(out, block.Copy())
				break
			}
		}
	}

	return out
}

// QueryParticipants returns the sorted set of participants.
func (s *State) QueryParticipants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.participants))
}

// QueryPending returns a copy of the pending transactions.
func (s *State) QueryPending() []database.Tx {
	return s.mempool.Copy()
}

// QueryPendingLength returns the current number of pending transactions.
func (s *State) QueryPendingLength() int {
	return s.mempool.Count()
}
