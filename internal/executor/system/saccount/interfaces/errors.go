package interfaces

import (
	"github.com/pkg/errors"
)

var (
	ErrUnauthorized           = errors.New("unauthorized caller")
	ErrInvalidNonce           = errors.New("AA25 invalid account nonce")
	ErrPrefundFailed          = errors.New("AA21 didn't pay prefund")
	ErrInvalidTarget          = errors.New("invalid target")
	ErrArrayLengthMismatch    = errors.New("array length mismatch")
	ErrInsufficientDeposit    = errors.New("insufficient deposit")
	ErrTransferFailed         = errors.New("transfer failed")
	ErrZeroDeposit            = errors.New("deposit amount is zero")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrExecutionFailed        = errors.New("execution failed")
)

// ExecutionError carries the reason a call made by an account failed with
type ExecutionError struct {
	Reason string
}

func ExecutionFailed(reason string) error {
	return &ExecutionError{Reason: reason}
}

func (e *ExecutionError) Error() string {
	return ErrExecutionFailed.Error() + ": " + e.Reason
}

func (e *ExecutionError) Unwrap() error {
	return ErrExecutionFailed
}
