package database

import "fmt"

// VerifyChain checks the hash linkage and the proof of work of every block
// after the genesis block. The error returned is a *ChainError naming the
// first block that failed.
func VerifyChain(difficulty uint, chain []Block) error {
	if len(chain) == 0 || chain[0].Index != 0 {
		return &ChainError{Index: 0, Err: ErrMissingGenesis}
	}

	for i := 1; i < len(chain); i++ {
		block := chain[i]

		if block.PreviousHash != chain[i-1].Hash() {
			return &ChainError{Index: uint64(i), Err: ErrInvalidLinkage}
		}

		if !IsValidProof(difficulty, block.WorkTrans(), block.PreviousHash, block.Proof) {
			return &ChainError{Index: uint64(i), Err: ErrInvalidProof}
		}
	}

	return nil
}

// VerifyTx checks the sender's balance covers the amount of the transaction.
func VerifyTx(tx Tx, balance float64) error {
	if balance < tx.Amount {
		return fmt.Errorf("%w: sender %q, bal %v, needed %v", ErrInsufficientBalance, tx.Sender, balance, tx.Amount)
	}

	return nil
}
