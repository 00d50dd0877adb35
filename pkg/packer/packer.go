package packer

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// revertSelector is the selector of solidity Error(string)
var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

var stringArgs = abi.Arguments{{Type: lo.Must(abi.NewType("string", "", nil))}}

type EvmLog struct {
	Topics  []common.Hash
	Data    []byte
	Removed bool
}

type Event interface {
	Pack(abi abi.ABI) (*EvmLog, error)
}

type Error interface {
	Pack(abi abi.ABI) error
}

func PackEvent(eventStruct any, event abi.Event) (*EvmLog, error) {
	if eventStruct == nil {
		return nil, errors.New("event struct is nil")
	}
	// references: https://medium.com/mycrypto/understanding-event-logs-on-the-ethereum-blockchain-f4ae7ba50378
	var noIndexedArgs []any
	topicArgs := [][]any{
		{event.ID},
	}
	v := reflect.ValueOf(eventStruct).Elem()
	for _, input := range event.Inputs {
		if !input.Indexed {
			noIndexedArgs = append(noIndexedArgs, v.FieldByName(abi.ToCamelCase(input.Name)).Interface())
		} else {
			topicArgs = append(topicArgs, []any{v.FieldByName(abi.ToCamelCase(input.Name)).Interface()})
		}
	}

	topics, err := abi.MakeTopics(topicArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "event %s make topics error", event.Name)
	}

	packedData, err := event.Inputs.NonIndexed().Pack(noIndexedArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "event %s pack args error", event.Name)
	}

	return &EvmLog{
		Topics: lo.Map(topics, func(t []common.Hash, i int) common.Hash {
			return t[0]
		}),
		Data:    packedData,
		Removed: false,
	}, nil
}

type RevertError struct {
	Err error

	// Data is encoded reverted reason, or result
	Data []byte

	// reverted result
	Str string
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("%s errdata %s", e.Err.Error(), e.Str)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

func PackError(errStruct any, abiErr abi.Error) error {
	if errStruct == nil {
		return errors.New("error struct is nil")
	}
	selector := common.CopyBytes(abiErr.ID.Bytes()[:4])
	var args []any
	v := reflect.ValueOf(errStruct).Elem()
	for _, input := range abiErr.Inputs {
		args = append(args, v.FieldByName(abi.ToCamelCase(input.Name)).Interface())
	}
	packed, err := abiErr.Inputs.Pack(args...)
	if err != nil {
		return err
	}

	return &RevertError{
		Err:  vm.ErrExecutionReverted,
		Data: append(selector, packed...),
		Str:  fmt.Sprintf("%s, args: %v", abiErr.String(), args),
	}
}

// NewRevertStringError builds a revert carrying a solidity Error(string) payload.
func NewRevertStringError(msg string) error {
	packed, err := stringArgs.Pack(msg)
	if err != nil {
		return &RevertError{Err: vm.ErrExecutionReverted, Str: msg}
	}
	return &RevertError{
		Err:  vm.ErrExecutionReverted,
		Data: append(common.CopyBytes(revertSelector), packed...),
		Str:  msg,
	}
}

// RevertData returns the revert payload of err. Errors that are not reverts are
// encoded as Error(string) with their message.
func RevertData(err error) []byte {
	if err == nil {
		return nil
	}
	var revertErr *RevertError
	if errors.As(err, &revertErr) && len(revertErr.Data) != 0 {
		return revertErr.Data
	}
	packed, packErr := stringArgs.Pack(err.Error())
	if packErr != nil {
		return nil
	}
	return append(common.CopyBytes(revertSelector), packed...)
}

// DecodeRevertReason returns the Error(string) message of data, or a hex dump of the
// raw bytes when data is not a string revert.
func DecodeRevertReason(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	reason, err := abi.UnpackRevert(data)
	if err == nil {
		return reason
	}
	return fmt.Sprintf("%x", data)
}
