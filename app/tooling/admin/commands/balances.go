// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Balances writes the current set of balances. When the participant is
// specified, only that balance is written.
func Balances(w io.Writer, snapshot database.Snapshot, owner string, participant string) error {
	latest := snapshot.Chain[len(snapshot.Chain)-1]
	fmt.Fprintf(w, "LatestBlockHash: %s\n\n", latest.Hash())

	participants := []string{participant}
	if participant == "" {
		participants = Participants(snapshot, owner)
	}

	bals := balance.Sheet(participants, snapshot.Chain, snapshot.Pending)
	for _, p := range participants {
		fmt.Fprintf(w, "Participant: %s  Balance: %v\n", p, bals[p])
	}

	return nil
}

// Participants returns the sorted set of names found in the ledger. The
// owner is always a participant, even before it shows up in a transaction.
func Participants(snapshot database.Snapshot, owner string) []string {
	names := []string{owner}
	add := func(trans []database.Tx) {
		for _, tx := range trans {
			names = append(names, tx.Sender, tx.Recipient)
		}
	}

	for _, block := range snapshot.Chain {
		add(block.Transactions)
	}
	add(snapshot.Pending)

	slices.Sort(names)
	return slices.Compact(names)
}
