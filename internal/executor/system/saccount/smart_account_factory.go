package saccount

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/solidity/smart_account_factory"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

var SmartAccountFactoryBuildConfig = &common.SystemContractBuildConfig[*SmartAccountFactory]{
	Name:    "saccount_account_factory",
	Address: repo.DefaultAccountFactoryAddr,
	AbiStr:  smart_account_factory.BindingContractMetaData.ABI,
	Constructor: func(systemContractBase common.SystemContractBase) *SmartAccountFactory {
		return &SmartAccountFactory{
			SystemContractBase: systemContractBase,
		}
	},
}

var accountSaltArgs = abi.Arguments{
	{Name: "owner", Type: common.AddressType},
	{Name: "entryPoint", Type: common.AddressType},
}

/**
 * A factory of single owner smart accounts.
 * A UserOperations "initCode" holds the address of the factory, and a method call (to createAccount).
 * The factory's createAccount returns the target account address even if it is already installed.
 * This way, the entryPoint.getSenderAddress() can be called either before or after the account is created.
 */
type SmartAccountFactory struct {
	common.SystemContractBase
}

// CreateAccount creates an account of owner trusting the calling entry point
func (factory *SmartAccountFactory) CreateAccount(owner ethcommon.Address, salt *big.Int) (ethcommon.Address, error) {
	return factory.CreateAccountFor(owner, factory.Ctx.From, salt)
}

// CreateAccountFor deploys the account at its deterministic address, an existing account is returned as is
func (factory *SmartAccountFactory) CreateAccountFor(owner, entryPoint ethcommon.Address, salt *big.Int) (ethcommon.Address, error) {
	if owner == (ethcommon.Address{}) {
		return ethcommon.Address{}, errors.New("owner is zero address")
	}
	if salt == nil {
		salt = big.NewInt(0)
	}
	addr, err := factory.GetAddress(owner, entryPoint, salt)
	if err != nil {
		return ethcommon.Address{}, err
	}
	if len(factory.Ctx.StateLedger.GetCode(addr)) != 0 {
		return addr, nil
	}

	factory.Ctx.StateLedger.SetCode(addr, SmartAccountBuildConfig.Code())
	sa := SmartAccountBuildConfig.BuildAt(factory.CrossCallSystemContractContext(), addr)
	if err := sa.initialize(owner, entryPoint); err != nil {
		return ethcommon.Address{}, err
	}
	factory.EmitEvent(&smart_account_factory.EventAccountCreated{
		Account:    addr,
		Owner:      owner,
		EntryPoint: entryPoint,
		Salt:       salt,
	})
	factory.Logger.WithFields(logrus.Fields{
		"account":     addr,
		"owner":       owner,
		"entry_point": entryPoint,
	}).Info("smart account created")
	return addr, nil
}

// GetAddress predicts the account address of owner, entryPoint and salt
func (factory *SmartAccountFactory) GetAddress(owner, entryPoint ethcommon.Address, salt *big.Int) (ethcommon.Address, error) {
	return PredictAddress(factory.EthAddress, owner, entryPoint, salt)
}

// PredictAddress is CREATE2(factory, salt, keccak(abi.encode(owner, entryPoint)))
func PredictAddress(factory, owner, entryPoint ethcommon.Address, salt *big.Int) (ethcommon.Address, error) {
	if salt == nil {
		salt = big.NewInt(0)
	}
	if salt.Sign() < 0 || salt.BitLen() > 256 {
		return ethcommon.Address{}, errors.Errorf("invalid salt %s", salt)
	}
	encoded, err := accountSaltArgs.Pack(owner, entryPoint)
	if err != nil {
		return ethcommon.Address{}, err
	}
	var saltBytes [32]byte
	salt.FillBytes(saltBytes[:])
	return crypto.CreateAddress2(factory, saltBytes, crypto.Keccak256(encoded)), nil
}
