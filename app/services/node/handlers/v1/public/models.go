package public

import (
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// NewTx is what a client provides to submit a transaction. An empty sender
// means the owner and a missing amount means the default amount.
type NewTx struct {
	Sender    string   `json:"sender"`
	Recipient string   `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// Validate checks the data in the model is considered clean.
func (ntx NewTx) Validate() error {
	return validate.Check(ntx)
}

type balance struct {
	Participant string  `json:"participant"`
	Balance     float64 `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

type tx struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Reward    bool    `json:"reward,omitempty"`
}

type block struct {
	Index        uint64 `json:"index"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	Proof        uint64 `json:"proof"`
	TimeStamp    uint64 `json:"timestamp"`
	Transactions []tx   `json:"transactions"`
}

type verify struct {
	Valid  bool `json:"valid"`
	Blocks int  `json:"blocks,omitempty"`
	Count  int  `json:"pending,omitempty"`
}

type status struct {
	Status  string `json:"status"`
	Pending int    `json:"pending"`
}

// =============================================================================

func toTx(dbTx database.Tx) tx {
	return tx{
		Sender:    dbTx.Sender,
		Recipient: dbTx.Recipient,
		Amount:    dbTx.Amount,
		Reward:    dbTx.IsReward(),
	}
}

func toTxs(dbTxs []database.Tx) []tx {
	trans := make([]tx, len(dbTxs))
	for i, dbTx := range dbTxs {
		trans[i] = toTx(dbTx)
	}
	return trans
}

func toBlock(dbBlock database.Block) block {
	return block{
		Index:        dbBlock.Index,
		Hash:         dbBlock.Hash(),
		PreviousHash: dbBlock.PreviousHash,
		Proof:        dbBlock.Proof,
		TimeStamp:    dbBlock.TimeStamp,
		Transactions: toTxs(dbBlock.Transactions),
	}
}
