package aa

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
)

var (
	ErrNoUserOperation = errors.New("no user operation")

	ErrInvalidRange = errors.New("invalid log range")
)

// revertError is an API error that encompassas a call revertal with JSON error
// code and a binary data blob.
type revertError struct {
	error
	reason string // revert reason hex encoded
}

// ErrorCode returns the JSON error code for a revertal.
func (e *revertError) ErrorCode() int {
	return 3
}

// ErrorData returns the hex encoded revert reason.
func (e *revertError) ErrorData() any {
	return e.reason
}

func newRevertError(cause error, data []byte) error {
	if len(data) == 0 {
		return cause
	}
	err := errors.New("execution reverted")
	if reason, ok := unpackRevert(data); ok {
		err = fmt.Errorf("execution reverted: %v", reason)
	}
	return &revertError{
		error:  err,
		reason: hexutil.Encode(data),
	}
}

// unpackRevert decodes both Error(string) and FailedOp(uint256,string) revert data
func unpackRevert(data []byte) (string, bool) {
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason, true
	}
	failedOp, ok := saccount.EntryPointBuildConfig.Abi().Errors["FailedOp"]
	if !ok || len(data) < 4 || !bytes.Equal(data[:4], failedOp.ID[:4]) {
		return "", false
	}
	values, err := failedOp.Inputs.Unpack(data[4:])
	if err != nil || len(values) != 2 {
		return "", false
	}
	return fmt.Sprintf("FailedOp(%v, %v)", values[0], values[1]), true
}
