package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// NewTx constructs a transaction using the owner as the sender and the
// default amount when those are not provided.
func (s *State) NewTx(sender string, recipient string, amount *float64) database.Tx {
	if sender == "" {
		sender = s.genesis.Owner
	}

	amt := s.genesis.DefaultAmount
	if amount != nil {
		amt = *amount
	}

	return database.NewTx(sender, recipient, amt)
}

// SubmitTransaction accepts a transaction for inclusion in the next block.
// The transaction is rejected without changing the ledger if it's not well
// formed or the sender's balance doesn't cover the amount. If the ledger
// can't be persisted afterwards, the transaction stays pending and an error
// matching database.ErrPersistenceWrite is returned.
func (s *State) SubmitTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SubmitTransaction: started: tx[%s]", tx)
	defer s.evHandler("state: SubmitTransaction: completed")

	if err := tx.Validate(); err != nil {
		return err
	}

	if tx.IsReward() {
		return fmt.Errorf("%w: %q is reserved for mining rewards", database.ErrInvalidTx, database.RewardSender)
	}

	bal := balance.Of(tx.Sender, s.chain, s.mempool.Copy())
	if err := database.VerifyTx(tx, bal); err != nil {
		s.evHandler("state: SubmitTransaction: REJECTED: %s", err)
		return err
	}

	n := s.mempool.Add(tx)
	s.addParticipants(tx.Sender, tx.Recipient)

	s.evHandler("state: SubmitTransaction: ACCEPTED: pending[%d]", n)
	s.evHandler(`viewer: tx: {"sender":%q,"recipient":%q,"amount":%v}`, tx.Sender, tx.Recipient, tx.Amount)

	return s.persist()
}
