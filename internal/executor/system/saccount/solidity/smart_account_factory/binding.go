package smart_account_factory

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
)

// Reference imports to suppress errors if they are not otherwise used.
var (
	_ = big.NewInt
	_ = common.Big1
	_ = abi.ConvertType
	_ = packer.RevertError{}
)

// BindingContractMetaData contains all meta data concerning the BindingContract contract.
var BindingContractMetaData = &bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"createAccount\",\"inputs\":[{\"name\":\"owner\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"salt\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"ret\",\"type\":\"address\",\"internalType\":\"address\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"getAddress\",\"inputs\":[{\"name\":\"owner\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"entryPoint\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"salt\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"outputs\":[{\"name\":\"\",\"type\":\"address\",\"internalType\":\"address\"}],\"stateMutability\":\"view\"},{\"type\":\"event\",\"name\":\"AccountCreated\",\"inputs\":[{\"name\":\"account\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"owner\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":true},{\"name\":\"entryPoint\",\"type\":\"address\",\"internalType\":\"address\",\"indexed\":false},{\"name\":\"salt\",\"type\":\"uint256\",\"internalType\":\"uint256\",\"indexed\":false}],\"anonymous\":false}]",
}

// EventAccountCreated represents a AccountCreated event raised by the SmartAccountFactory contract.
type EventAccountCreated struct {
	Account    common.Address
	Owner      common.Address
	EntryPoint common.Address
	Salt       *big.Int
}

func (_event *EventAccountCreated) Pack(abi abi.ABI) (log *packer.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["AccountCreated"])
}
