package database

import (
	"encoding/json"
	"fmt"
	"math"
)

// RewardSender is the sender recorded on the transaction that pays the
// miner for a block.
const RewardSender = "MINING"

// =============================================================================

// Tx is the transactional information between two parties. The field order
// is significant since it's the order used when hashing a transaction.
type Tx struct {
	Sender    string  `json:"sender"`    // Participant the amount is taken from.
	Recipient string  `json:"recipient"` // Participant receiving the amount.
	Amount    float64 `json:"amount"`    // Non-negative amount moved between the two.
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// NewRewardTx constructs the transaction paying the beneficiary for
// mining a block.
func NewRewardTx(beneficiary string, reward float64) Tx {
	return NewTx(RewardSender, beneficiary, reward)
}

// IsReward tests if the transaction is associated with a mining reward.
func (tx Tx) IsReward() bool {
	return tx.Sender == RewardSender
}

// Validate checks the transaction is well formed. It does not check if the
// sender can afford it.
func (tx Tx) Validate() error {
	if tx.Sender == "" {
		return fmt.Errorf("%w: sender is missing", ErrInvalidTx)
	}

	if tx.Recipient == "" {
		return fmt.Errorf("%w: recipient is missing", ErrInvalidTx)
	}

	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return fmt.Errorf("%w: amount %v is not a number", ErrInvalidTx, tx.Amount)
	}

	if tx.Amount < 0 {
		return fmt.Errorf("%w: amount %v is negative", ErrInvalidTx, tx.Amount)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Recipient, tx.Amount)
}

// =============================================================================

// canonicalTrans returns the JSON form of the transactions used by the proof
// of work predicate. A nil list encodes the same as an empty one.
func canonicalTrans(trans []Tx) ([]byte, error) {
	if trans == nil {
		trans = []Tx{}
	}

	return json.Marshal(trans)
}

// copyTrans returns a copy of the transactions that is never nil.
func copyTrans(trans []Tx) []Tx {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
