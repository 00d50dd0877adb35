package saccount

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/solidity/smart_account"
	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
)

const (
	ownerKey      = "owner"
	entryPointKey = "entry_point"
)

// SmartAccountBuildConfig has no fixed address, accounts are created by the factory
// and run by the vm through their code marker.
var SmartAccountBuildConfig = &common.SystemContractBuildConfig[*SmartAccount]{
	Name:   "saccount_account",
	AbiStr: smart_account.BindingContractMetaData.ABI,
	Constructor: func(systemContractBase common.SystemContractBase) *SmartAccount {
		return &SmartAccount{
			SystemContractBase: systemContractBase,
		}
	},
}

var _ interfaces.IAccount = (*SmartAccount)(nil)

// SmartAccount is a single owner account trusting exactly one entry point
type SmartAccount struct {
	common.SystemContractBase

	owner      *common.VMSlot[ethcommon.Address]
	entryPoint *common.VMSlot[ethcommon.Address]
	*NonceManager
}

func (sa *SmartAccount) SetContext(context *common.VMContext) {
	sa.SystemContractBase.SetContext(context)

	sa.owner = common.NewVMSlot[ethcommon.Address](sa.StateAccount, ownerKey)
	sa.entryPoint = common.NewVMSlot[ethcommon.Address](sa.StateAccount, entryPointKey)
	sa.NonceManager = NewNonceManager(sa.StateAccount)
}

// initialize stores the immutable identities of the account, later calls are no-ops
func (sa *SmartAccount) initialize(owner, entryPoint ethcommon.Address) error {
	if sa.owner.Has() {
		return nil
	}
	if err := sa.owner.Put(owner); err != nil {
		return err
	}
	if err := sa.entryPoint.Put(entryPoint); err != nil {
		return err
	}
	sa.EmitEvent(&smart_account.EventSmartAccountInitialized{
		EntryPoint: entryPoint,
		Owner:      owner,
	})
	sa.Logger.WithField("account", sa.EthAddress).Debugf("smart account initialized, owner: %s", owner)
	return nil
}

func (sa *SmartAccount) Owner() (ethcommon.Address, error) {
	return sa.owner.MustGet()
}

func (sa *SmartAccount) EntryPoint() (ethcommon.Address, error) {
	return sa.entryPoint.MustGet()
}

// Receive accepts plain value transfers
func (sa *SmartAccount) Receive() error {
	return nil
}

func (sa *SmartAccount) onlyEntryPoint() (ethcommon.Address, error) {
	entryPoint, err := sa.EntryPoint()
	if err != nil {
		return ethcommon.Address{}, err
	}
	if sa.Ctx.From != entryPoint {
		return ethcommon.Address{}, errors.Wrapf(interfaces.ErrUnauthorized, "caller %s is not entry point %s", sa.Ctx.From, entryPoint)
	}
	return entryPoint, nil
}

// ValidateUserOp checks nonce then signature, pays missingAccountFunds to the entry point
// and consumes the nonce. A signature mismatch is reported through the returned
// validation data and leaves the account untouched.
func (sa *SmartAccount) ValidateUserOp(userOp interfaces.UserOperation, userOpHash [32]byte, missingAccountFunds *big.Int) (*big.Int, error) {
	validation, err := sa.validateUserOp(&userOp, userOpHash, missingAccountFunds)
	if err != nil {
		return nil, err
	}
	return interfaces.PackValidationData(validation), nil
}

func (sa *SmartAccount) validateUserOp(userOp *interfaces.UserOperation, userOpHash [32]byte, missingAccountFunds *big.Int) (*interfaces.Validation, error) {
	entryPoint, err := sa.onlyEntryPoint()
	if err != nil {
		return nil, err
	}

	if err := sa.validateNonce(userOp.Nonce); err != nil {
		return nil, err
	}

	owner, err := sa.Owner()
	if err != nil {
		return nil, err
	}
	if VerifySignature(owner, userOpHash, userOp.Signature) != interfaces.SigValidationSucceeded {
		sa.Logger.WithField("account", sa.EthAddress).Warnf("userOp signature is not from owner %s", owner)
		return &interfaces.Validation{SigValidation: interfaces.SigValidationFailed}, nil
	}

	if missingAccountFunds != nil && missingAccountFunds.Sign() > 0 {
		if err := sa.payPrefund(entryPoint, missingAccountFunds); err != nil {
			return nil, err
		}
	}

	if err := sa.incrementNonce(); err != nil {
		return nil, err
	}
	return &interfaces.Validation{SigValidation: interfaces.SigValidationSucceeded}, nil
}

// payPrefund deposits missingAccountFunds for this account at the entry point
func (sa *SmartAccount) payPrefund(entryPoint ethcommon.Address, missingAccountFunds *big.Int) error {
	input, err := EntryPointBuildConfig.Abi().Pack("depositTo", sa.EthAddress)
	if err != nil {
		return err
	}
	if _, err := sa.Ctx.VM.Call(sa.EthAddress, entryPoint, missingAccountFunds, input); err != nil {
		return errors.Wrapf(interfaces.ErrPrefundFailed, "pay %s: %v", missingAccountFunds, err)
	}
	return nil
}

// Execute calls dest with value and callFunc on behalf of the owner
func (sa *SmartAccount) Execute(dest ethcommon.Address, value *big.Int, callFunc []byte) error {
	guard := sa.Ctx.VM.Guard(sa.EthAddress)
	if err := guard.Enter(); err != nil {
		return err
	}
	defer guard.Exit()

	if _, err := sa.onlyEntryPoint(); err != nil {
		return err
	}
	return sa.call(dest, value, callFunc)
}

// ExecuteBatch runs every call in order, all of them are reverted when one fails.
// An empty value list means no value is attached to any call.
func (sa *SmartAccount) ExecuteBatch(dest []ethcommon.Address, value []*big.Int, callFunc [][]byte) error {
	guard := sa.Ctx.VM.Guard(sa.EthAddress)
	if err := guard.Enter(); err != nil {
		return err
	}
	defer guard.Exit()

	if _, err := sa.onlyEntryPoint(); err != nil {
		return err
	}
	if len(dest) != len(callFunc) || (len(value) != 0 && len(value) != len(dest)) {
		return errors.Wrapf(interfaces.ErrArrayLengthMismatch, "dest %d, value %d, func %d", len(dest), len(value), len(callFunc))
	}
	for i, target := range dest {
		if target == (ethcommon.Address{}) {
			return errors.Wrapf(interfaces.ErrInvalidTarget, "dest[%d] is zero address", i)
		}
	}

	snapshot := sa.Ctx.StateLedger.Snapshot()
	for i := range dest {
		v := big.NewInt(0)
		if len(value) != 0 && value[i] != nil {
			v = value[i]
		}
		if err := sa.call(dest[i], v, callFunc[i]); err != nil {
			sa.Ctx.StateLedger.RevertToSnapshot(snapshot)
			return err
		}
	}
	return nil
}

func (sa *SmartAccount) call(dest ethcommon.Address, value *big.Int, callFunc []byte) error {
	if value == nil {
		value = big.NewInt(0)
	}
	ret, err := sa.Ctx.VM.Call(sa.EthAddress, dest, value, callFunc)
	if err != nil {
		reason := packer.DecodeRevertReason(ret)
		if reason == "" {
			reason = err.Error()
		}
		sa.Logger.WithField("account", sa.EthAddress).Debugf("call %s failed: %s", dest, reason)
		return interfaces.ExecutionFailed(reason)
	}
	sa.EmitEvent(&smart_account.EventExecuted{
		Target: dest,
		Value:  value,
	})
	return nil
}
