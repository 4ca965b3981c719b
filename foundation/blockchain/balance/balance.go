// Package balance computes participant balances by replaying the ledger.
package balance

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Of returns the balance for the participant. Amounts received are only
// counted from confirmed blocks while amounts sent are counted from the
// confirmed blocks and the pending transactions.
func Of(participant string, chain []database.Block, pending []database.Tx) float64 {
	var received float64
	var sent float64

	for _, block := range chain {
		for _, tx := range block.Transactions {
			if tx.Recipient == participant {
				received += tx.Amount
			}
			if tx.Sender == participant {
				sent += tx.Amount
			}
		}
	}

	for _, tx := range pending {
		if tx.Sender == participant {
			sent += tx.Amount
		}
	}

	return received - sent
}

// Sheet returns the balance of every specified participant.
func Sheet(participants []string, chain []database.Block, pending []database.Tx) map[string]float64 {
	sheet := make(map[string]float64, len(participants))
	for _, participant := range participants {
		sheet[participant] = Of(participant, chain, pending)
	}

	return sheet
}

// VerifyPending checks every pending transaction is still covered by its
// sender's balance as it was when the transaction was accepted. That balance
// is the confirmed chain minus what the sender already queued ahead of it,
// so a pool whose sends are each affordable alone but not together fails
// here even though every send is covered by the confirmed chain. The error
// returned is a *database.PendingError naming the first failure.
func VerifyPending(chain []database.Block, pending []database.Tx) error {
	for i, tx := range pending {
		bal := Of(tx.Sender, chain, pending[:i])
		if err := database.VerifyTx(tx, bal); err != nil {
			return &database.PendingError{Position: i, Tx: tx, Err: err}
		}
	}

	return nil
}
