// Package core implements Veda's write path: the transaction executor, the
// block applier, and block validation, per spec.md §4.4-§4.6. Grounded on
// the teacher's core/tx_executor.go and core/revm_state_processor.go.
package core

import "errors"

// ValidationError wraps a pre-execution failure: a header mismatch, a
// malformed sync descriptor, a bad nonce, a length mismatch. Per spec.md
// §7, a transaction-level ValidationError drops that transaction silently
// (it never enters the block); a block-descriptor-level ValidationError
// aborts the whole sync call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

// NewValidationError constructs a ValidationError with the given reason.
func NewValidationError(reason string) error { return &ValidationError{Reason: reason} }

// EVMMissingData wraps trie.ErrMissingNode once it propagates out of the
// block applier: a corrupt DB is fatal for the in-flight block, per
// spec.md §7 and scenario F.
type EVMMissingData struct {
	Cause error
}

func (e *EVMMissingData) Error() string { return "missing trie data: " + e.Cause.Error() }
func (e *EVMMissingData) Unwrap() error { return e.Cause }

// NotFoundError is raised by chain-DB lookups for an identifier not present
// in the canonical chain (spec.md §7's "KeyError / NotFound").
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return e.What + " is not in the canonical chain" }

var (
	// ErrNonceMismatch is a ValidationError cause: tx.Nonce != state.GetNonce(sender).
	ErrNonceMismatch = errors.New("nonce mismatch")
	// ErrIntrinsicGas is a ValidationError cause: gas limit below intrinsic cost.
	ErrIntrinsicGas = errors.New("intrinsic gas exceeds gas limit")
)
