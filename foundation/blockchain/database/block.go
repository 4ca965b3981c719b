package database

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// GenesisProof is the fixed proof recorded on the genesis block. The genesis
// block is never mined so the value is never checked.
const GenesisProof = 100

// =============================================================================

// Block represents a group of transactions batched together. The field order
// is significant since it's the order used when hashing a block.
type Block struct {
	Index        uint64 `json:"index"`         // Position of the block in the chain.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	Transactions []Tx   `json:"transactions"`  // Confirmed transactions, reward last.
	Proof        uint64 `json:"proof"`         // Nonce that solves the proof of work.
	TimeStamp    uint64 `json:"timestamp"`     // Time the block was mined.
}

// NewBlock constructs a block. A zero timestamp is replaced with the
// current time.
func NewBlock(index uint64, prevHash string, trans []Tx, proof uint64, timeStamp uint64) Block {
	if timeStamp == 0 {
		timeStamp = uint64(time.Now().UTC().Unix())
	}

	return Block{
		Index:        index,
		PreviousHash: prevHash,
		Transactions: copyTrans(trans),
		Proof:        proof,
		TimeStamp:    timeStamp,
	}
}

// Genesis returns the first block of every chain.
func Genesis() Block {
	return Block{
		Index:        0,
		PreviousHash: "",
		Transactions: []Tx{},
		Proof:        GenesisProof,
		TimeStamp:    0,
	}
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return digest.Hash(b)
}

// WorkTrans returns the transactions that were known when the proof of work
// was searched for. The reward transaction is added after the search and so
// is not part of it.
func (b Block) WorkTrans() []Tx {
	if len(b.Transactions) == 0 {
		return []Tx{}
	}

	return copyTrans(b.Transactions[:len(b.Transactions)-1])
}

// Copy returns a deep copy of the block.
func (b Block) Copy() Block {
	b.Transactions = copyTrans(b.Transactions)
	return b
}

// CopyChain returns a deep copy of the chain.
func CopyChain(chain []Block) []Block {
	cpy := make([]Block, len(chain))
	for i, block := range chain {
		cpy[i] = block.Copy()
	}
	return cpy
}
