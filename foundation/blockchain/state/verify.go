package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// VerifyChain validates the hash linkage and proof of work of every block.
// The error returned is a *database.ChainError naming the first bad block.
func (s *State) VerifyChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := database.VerifyChain(s.genesis.Difficulty, s.chain); err != nil {
		s.evHandler("state: VerifyChain: INVALID: %s", err)
		return err
	}

	return nil
}

// VerifyPending validates every pending transaction is still covered by
// its sender's balance. The error returned is a *database.PendingError.
func (s *State) VerifyPending() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := balance.VerifyPending(s.chain, s.mempool.Copy()); err != nil {
		s.evHandler("state: VerifyPending: INVALID: %s", err)
		return err
	}

	return nil
}

// Tamper replaces the transactions of the genesis block with the specified
// transaction. This breaks the link to the next block and exists so the
// detection of a manipulated chain can be demonstrated. The change is only
// written to storage along with the next accepted transaction or block.
func (s *State) Tamper(tx database.Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: Tamper: WARNING: genesis transactions replaced: tx[%s]", tx)

	s.chain[0].Transactions = []database.Tx{tx}
	s.addParticipants(tx.Sender, tx.Recipient)
}
