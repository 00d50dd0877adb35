package common

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
)

var (
	ErrNotExistSystemContract         = errors.New("not exist this system contract")
	ErrNotExistMethodName             = errors.New("not exist method name of this system contract")
	ErrNotImplementFuncSystemContract = errors.New("not implement the function for this system contract")
	ErrInsufficientBalance            = errors.New("insufficient balance for transfer")
	ErrMaxCallDepth                   = errors.New("max call depth exceeded")
)

// NewRevertError builds a custom solidity error revert, name(args...) encoded with inputs
func NewRevertError(name string, inputs abi.Arguments, args []any) error {
	abiErr := abi.NewError(name, inputs)
	selector := ethcommon.CopyBytes(abiErr.ID.Bytes()[:4])
	packed, err := inputs.Pack(args...)
	if err != nil {
		return errors.Wrapf(err, "pack revert error %s", name)
	}
	return &packer.RevertError{
		Err:  vm.ErrExecutionReverted,
		Data: append(selector, packed...),
		Str:  fmt.Sprintf("%s, args: %v", abiErr.String(), args),
	}
}

// NewRevertStringError builds a solidity Error(string) revert
func NewRevertStringError(msg string) error {
	return packer.NewRevertStringError(msg)
}

// MethodSelector returns the 4 bytes selector of a solidity signature such as "depositTo(address)"
func MethodSelector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}
