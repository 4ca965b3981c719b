package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Verify checks the chain and the pending transactions, writing the result
// of each check. The first failure is returned.
func Verify(w io.Writer, difficulty uint, snapshot database.Snapshot) error {
	if err := database.VerifyChain(difficulty, snapshot.Chain); err != nil {
		fmt.Fprintf(w, "Chain: INVALID: %s\n", err)
		return err
	}
	fmt.Fprintf(w, "Chain: valid: blocks[%d]\n", len(snapshot.Chain))

	if err := balance.VerifyPending(snapshot.Chain, snapshot.Pending); err != nil {
		fmt.Fprintf(w, "Pending: INVALID: %s\n", err)
		return err
	}
	fmt.Fprintf(w, "Pending: valid: pending[%d]\n", len(snapshot.Pending))

	return nil
}
