// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Block    *uint64           `json:"block,omitempty"`
	Position *int              `json:"position,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// FromLedger classifies an error returned by the ledger into a trusted
// error with the matching status. Errors the ledger doesn't define are
// returned as is.
func FromLedger(err error) error {
	switch {
	case errors.Is(err, database.ErrInvalidTx),
		errors.Is(err, database.ErrInsufficientBalance):
		return NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, database.ErrInvalidLinkage),
		errors.Is(err, database.ErrInvalidProof),
		errors.Is(err, database.ErrMissingGenesis):
		return NewTrusted(err, http.StatusConflict)

	case errors.Is(err, database.ErrProofNotFound):
		return NewTrusted(err, http.StatusServiceUnavailable)

	case errors.Is(err, database.ErrPersistenceWrite):
		return NewTrusted(err, http.StatusInternalServerError)
	}

	return err
}

// NewResponse constructs the response for a trusted error, pulling out the
// position of a bad block or pending transaction when there is one.
func NewResponse(err error) Response {
	resp := Response{
		Error: err.Error(),
	}

	var ce *database.ChainError
	if errors.As(err, &ce) {
		idx := ce.Index
		resp.Block = &idx
	}

	var pe *database.PendingError
	if errors.As(err, &pe) {
		pos := pe.Position
		resp.Position = &pos
	}

	return resp
}
