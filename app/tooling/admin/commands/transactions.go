package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Transactions writes every transaction in the chain and the pending pool.
// When the participant is specified, only their transactions are written.
func Transactions(w io.Writer, snapshot database.Snapshot, participant string) error {
	match := func(tx database.Tx) bool {
		return participant == "" || tx.Sender == participant || tx.Recipient == participant
	}

	for _, block := range snapshot.Chain {
		for _, tx := range block.Transactions {
			if match(tx) {
				fmt.Fprintf(w, "Block: %d  Tx: %s\n", block.Index, tx)
			}
		}
	}

	for i, tx := range snapshot.Pending {
		if match(tx) {
			fmt.Fprintf(w, "Pending: %d  Tx: %s\n", i, tx)
		}
	}

	return nil
}
