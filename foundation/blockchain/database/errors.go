package database

import (
	"errors"
	"fmt"
)

// Set of error variables for the ledger.
var (
	ErrInvalidTx           = errors.New("transaction invalid")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidLinkage      = errors.New("previous hash doesn't match the parent block")
	ErrInvalidProof        = errors.New("proof of work is not solved")
	ErrMissingGenesis      = errors.New("chain doesn't start with the genesis block")
	ErrProofNotFound       = errors.New("proof of work not found within max attempts")
	ErrMalformed           = errors.New("persisted ledger is malformed")
	ErrPersistenceWrite    = errors.New("unable to persist ledger")
)

// =============================================================================

// ChainError identifies the first block in the chain that failed validation.
type ChainError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ce *ChainError) Error() string {
	return fmt.Sprintf("block %d: %s", ce.Index, ce.Err)
}

// Unwrap provides support for errors.Is against the kind of failure.
func (ce *ChainError) Unwrap() error {
	return ce.Err
}

// PendingError identifies the first pending transaction that is no longer
// covered by its sender's balance.
type PendingError struct {
	Position int
	Tx       Tx
	Err      error
}

// Error implements the error interface.
func (pe *PendingError) Error() string {
	return fmt.Sprintf("pending tx %d [%s]: %s", pe.Position, pe.Tx, pe.Err)
}

// Unwrap provides support for errors.Is against the kind of failure.
func (pe *PendingError) Unwrap() error {
	return pe.Err
}
