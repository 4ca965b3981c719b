// Package database handles the data model of the ledger, the proof of work
// rules, and the validation of the chain.
package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the ledger.
type Storage interface {
	Write(snapshot Snapshot) error
	Read() (Snapshot, error)
	Reset() error
	Close() error
}

// Snapshot represents the full state of the ledger that is persisted
// after every change.
type Snapshot struct {
	Chain   []Block `json:"chain"`
	Pending []Tx    `json:"pending"`
}

// NewSnapshot constructs a deep copy of the chain and pending transactions
// for storage.
func NewSnapshot(chain []Block, pending []Tx) Snapshot {
	return Snapshot{
		Chain:   CopyChain(chain),
		Pending: copyTrans(pending),
	}
}

// Validate checks the snapshot holds a usable chain. It does not verify
// the hashes or proofs of the blocks.
func (s Snapshot) Validate() error {
	if len(s.Chain) == 0 || s.Chain[0].Index != 0 {
		return ErrMalformed
	}

	for i, block := range s.Chain {
		if block.Index != uint64(i) {
			return ErrMalformed
		}
	}

	return nil
}
