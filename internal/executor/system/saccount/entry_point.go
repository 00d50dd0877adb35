package saccount

import (
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/solidity/entry_point"
	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

const (
	CreateAccountGas        = 10000
	RecoveryAccountOwnerGas = 10000
)

var EntryPointBuildConfig = &common.SystemContractBuildConfig[*EntryPoint]{
	Name:    "saccount_entry_point",
	Address: repo.DefaultEntryPointAddr,
	AbiStr:  entry_point.BindingContractMetaData.ABI,
	Constructor: func(systemContractBase common.SystemContractBase) *EntryPoint {
		return &EntryPoint{
			StakeManager: NewStakeManager(systemContractBase),
		}
	},
}

// bit length limit of every gas field, keeps the prefund arithmetic far below 256 bits
const maxGasValueBits = 128

type MemoryUserOp struct {
	Sender               ethcommon.Address
	Nonce                *big.Int
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	Paymaster            ethcommon.Address
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

type UserOpInfo struct {
	MUserOp    MemoryUserOp
	UserOpHash [32]byte
	Prefund    *big.Int
	PreOpGas   *big.Int
	Validation *interfaces.Validation
}

// failedOp is the reason a user operation was rejected, it never aborts the batch
type failedOp struct {
	opIndex int
	reason  string
}

func (e *failedOp) Error() string {
	return fmt.Sprintf("FailedOp(%d, %s)", e.opIndex, e.reason)
}

func newFailedOp(opIndex int, format string, args ...any) error {
	return &failedOp{opIndex: opIndex, reason: fmt.Sprintf(format, args...)}
}

func reasonOf(err error) string {
	var e *failedOp
	if errors.As(err, &e) {
		return e.reason
	}
	return err.Error()
}

var _ interfaces.IEntryPoint = (*EntryPoint)(nil)

type EntryPoint struct {
	*StakeManager
}

func (ep *EntryPoint) SetContext(context *common.VMContext) {
	ep.StakeManager.SetContext(context)
}

// Receive deposits the attached value for the caller
func (ep *EntryPoint) Receive() error {
	return ep.DepositTo(ep.Ctx.From)
}

// HandleOps execute a batch of UserOperations in order, fees are paid to beneficiary.
// A rejected or reverted operation is reported by events and never stops the batch.
// Attention: HandleOps must keep non reentrant
func (ep *EntryPoint) HandleOps(ops []interfaces.UserOperation, beneficiary ethcommon.Address) error {
	start := time.Now()
	guard := ep.Ctx.VM.Guard(ep.EthAddress)
	if err := guard.Enter(); err != nil {
		return err
	}
	defer guard.Exit()

	if beneficiary == (ethcommon.Address{}) {
		return common.NewRevertStringError("AA90 invalid beneficiary")
	}

	var (
		collected       = big.NewInt(0)
		beforeExecution bool
		executed        int
	)
	for i := range ops {
		opInfo, err := ep.validateOp(i, &ops[i])
		if err != nil {
			ep.Logger.WithFields(logrus.Fields{
				"index":  i,
				"sender": ops[i].Sender,
			}).Debugf("user operation rejected: %s", reasonOf(err))
			ep.emitUserOperationRevertReason(opInfo.UserOpHash, ops[i].Sender, ops[i].Nonce, packer.RevertData(common.NewRevertStringError(reasonOf(err))))
			userOpCounter.WithLabelValues(opResultRejected).Inc()
			continue
		}

		if !beforeExecution {
			ep.EmitEvent(&entry_point.EventBeforeExecution{})
			beforeExecution = true
		}
		actualGasCost, err := ep.executeUserOp(i, &ops[i], opInfo)
		if err != nil {
			return err
		}
		collected.Add(collected, actualGasCost)
		executed++
	}

	if err := ep.compensate(beneficiary, collected); err != nil {
		return err
	}
	handleOpsDuration.Observe(time.Since(start).Seconds())
	ep.Logger.WithFields(logrus.Fields{
		"ops":         len(ops),
		"executed":    executed,
		"collected":   collected,
		"beneficiary": beneficiary,
	}).Info("handle ops")
	return nil
}

func (ep *EntryPoint) compensate(beneficiary ethcommon.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if _, err := ep.Ctx.VM.Call(ep.EthAddress, beneficiary, amount, nil); err != nil {
		return common.NewRevertStringError(fmt.Sprintf("AA91 failed send to beneficiary: %v", err))
	}
	collected, _ := new(big.Float).SetInt(amount).Float64()
	collectedGasCostCounter.Add(collected)
	return nil
}

// validateOp runs the validation of one operation in its own snapshot, nothing of a
// rejected operation is kept
func (ep *EntryPoint) validateOp(opIndex int, userOp *interfaces.UserOperation) (*UserOpInfo, error) {
	snapshot := ep.Ctx.StateLedger.Snapshot()
	opInfo := &UserOpInfo{}
	err := ep.validatePrepayment(opIndex, userOp, opInfo)
	if err == nil && opInfo.Validation.SigFailed() {
		err = newFailedOp(opIndex, "AA24 signature error")
	}
	if err != nil {
		ep.Ctx.StateLedger.RevertToSnapshot(snapshot)
		return opInfo, err
	}
	return opInfo, nil
}

// SimulateValidation runs the validation of userOp and discards every change
func (ep *EntryPoint) SimulateValidation(userOp interfaces.UserOperation) (*interfaces.ValidationResult, error) {
	snapshot := ep.Ctx.StateLedger.Snapshot()
	defer ep.Ctx.StateLedger.RevertToSnapshot(snapshot)

	var opInfo UserOpInfo
	if err := ep.validatePrepayment(0, &userOp, &opInfo); err != nil {
		return nil, ep.Revert(&entry_point.ErrorFailedOp{
			OpIndex: big.NewInt(0),
			Reason:  reasonOf(err),
		})
	}

	estimatedGas := new(big.Int).Set(opInfo.PreOpGas)
	if len(userOp.CallData) > 0 {
		estimatedGas.Add(estimatedGas, new(big.Int).SetUint64(common.CalculateDynamicGas(userOp.CallData)))
	}
	return &interfaces.ValidationResult{
		ReturnInfo: interfaces.ReturnInfo{
			PreOpGas:     opInfo.PreOpGas,
			Prefund:      opInfo.Prefund,
			SigFailed:    opInfo.Validation.SigFailed(),
			ValidAfter:   new(big.Int).SetUint64(opInfo.Validation.ValidAfter),
			ValidUntil:   new(big.Int).SetUint64(opInfo.Validation.ValidUntil),
			EstimatedGas: estimatedGas,
		},
		SenderInfo:    ep.getStakeInfo(opInfo.MUserOp.Sender),
		FactoryInfo:   ep.getStakeInfo(userOp.Factory()),
		PaymasterInfo: ep.getStakeInfo(opInfo.MUserOp.Paymaster),
	}, nil
}

// validatePrepayment creates the sender if needed, validates the account and takes the
// required prefund from its deposit.
// this method is called off-chain (simulateValidation()) and on-chain (from handleOps)
// @param opIndex the index of this userOp into the batch
// @param userOp the userOp to validate
func (ep *EntryPoint) validatePrepayment(opIndex int, userOp *interfaces.UserOperation, outOpInfo *UserOpInfo) error {
	mUserOp := &outOpInfo.MUserOp
	if err := copyUserOpToMemory(userOp, mUserOp); err != nil {
		return newFailedOp(opIndex, "%s", err.Error())
	}
	outOpInfo.UserOpHash = ep.getUserOpHash(userOp)

	requiredPrefund := getRequiredPrefund(mUserOp)
	verificationGas, err := ep.createSenderIfNeeded(opIndex, outOpInfo, userOp.InitCode)
	if err != nil {
		return err
	}
	if !ep.Ctx.VM.IsSystemContract(mUserOp.Sender) {
		return newFailedOp(opIndex, "AA20 account not deployed")
	}

	deposit, err := ep.BalanceOf(mUserOp.Sender)
	if err != nil {
		return err
	}
	missingAccountFunds := big.NewInt(0)
	if requiredPrefund.Cmp(deposit) > 0 {
		missingAccountFunds.Sub(requiredPrefund, deposit)
	}
	validationData, err := ep.callValidateUserOp(opIndex, userOp, outOpInfo.UserOpHash, missingAccountFunds)
	if err != nil {
		return err
	}
	outOpInfo.Validation = interfaces.ParseValidationData(validationData)

	verificationGas += RecoveryAccountOwnerGas
	if mUserOp.VerificationGasLimit.Cmp(new(big.Int).SetUint64(verificationGas)) < 0 {
		return newFailedOp(opIndex, "AA40 over verificationGasLimit")
	}
	outOpInfo.Prefund = requiredPrefund
	outOpInfo.PreOpGas = new(big.Int).Add(new(big.Int).SetUint64(verificationGas), mUserOp.PreVerificationGas)
	if outOpInfo.Validation.SigFailed() {
		return nil
	}

	if err := ep.decrementDeposit(mUserOp.Sender, requiredPrefund); err != nil {
		if errors.Is(err, interfaces.ErrInsufficientDeposit) {
			return newFailedOp(opIndex, "%s", interfaces.ErrPrefundFailed.Error())
		}
		return err
	}
	return nil
}

// callValidateUserOp calls the account, its fatal errors are mapped to the AA2x reasons
func (ep *EntryPoint) callValidateUserOp(opIndex int, userOp *interfaces.UserOperation, userOpHash [32]byte, missingAccountFunds *big.Int) (*big.Int, error) {
	accountAbi := SmartAccountBuildConfig.Abi()
	input, err := accountAbi.Pack("validateUserOp", *userOp.Normalize(), userOpHash, missingAccountFunds)
	if err != nil {
		return nil, newFailedOp(opIndex, "AA23 reverted: %v", err)
	}
	ret, err := ep.Ctx.VM.Call(ep.EthAddress, userOp.Sender, big.NewInt(0), input)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrInvalidNonce):
			return nil, newFailedOp(opIndex, "%s", interfaces.ErrInvalidNonce.Error())
		case errors.Is(err, interfaces.ErrPrefundFailed):
			return nil, newFailedOp(opIndex, "%s", interfaces.ErrPrefundFailed.Error())
		default:
			return nil, newFailedOp(opIndex, "AA23 reverted: %s", packer.DecodeRevertReason(ret))
		}
	}

	values, err := accountAbi.Unpack("validateUserOp", ret)
	if err != nil || len(values) != 1 {
		return nil, newFailedOp(opIndex, "AA23 reverted: invalid validation data %x", ret)
	}
	validationData, ok := values[0].(*big.Int)
	if !ok {
		return nil, newFailedOp(opIndex, "AA23 reverted: invalid validation data %x", ret)
	}
	return validationData, nil
}

// executeUserOp execute a user op
// @param opIndex index into the batch
// @param userOp the userOp to execute
// @param opInfo the opInfo filled by validatePrepayment for this userOp.
// @return actualGasCost the total amount this userOp paid.
func (ep *EntryPoint) executeUserOp(opIndex int, userOp *interfaces.UserOperation, opInfo *UserOpInfo) (*big.Int, error) {
	mUserOp := opInfo.MUserOp
	success := true
	executionGas := big.NewInt(0)
	if len(userOp.CallData) > 0 {
		var revertData []byte
		executionGas.SetUint64(common.CalculateDynamicGas(userOp.CallData))
		if executionGas.Cmp(mUserOp.CallGasLimit) > 0 {
			executionGas.Set(mUserOp.CallGasLimit)
			success = false
			revertData = packer.RevertData(common.NewRevertStringError("out of gas"))
		} else {
			ret, err := ep.Ctx.VM.Call(ep.EthAddress, mUserOp.Sender, big.NewInt(0), userOp.CallData)
			if err != nil {
				success = false
				revertData = ret
			}
		}
		if !success {
			ep.emitUserOperationRevertReason(opInfo.UserOpHash, mUserOp.Sender, mUserOp.Nonce, revertData)
		}
	}

	ep.Logger.WithFields(logrus.Fields{
		"index":         opIndex,
		"success":       success,
		"execution_gas": executionGas,
		"pre_op_gas":    opInfo.PreOpGas,
	}).Debug("execute user operation")
	actualGas := new(big.Int).Add(opInfo.PreOpGas, executionGas)
	return ep.handlePostOp(opIndex, success, userOp, opInfo, actualGas)
}

// handlePostOp refunds the unused prefund to the deposit of the sender and reports the operation.
func (ep *EntryPoint) handlePostOp(opIndex int, success bool, userOp *interfaces.UserOperation, opInfo *UserOpInfo, actualGas *big.Int) (*big.Int, error) {
	mUserOp := opInfo.MUserOp
	gasPrice := interfaces.GetGasPrice(userOp, ep.Ctx.VM.BaseFee())
	actualGasCost := new(big.Int).Mul(actualGas, gasPrice)
	if opInfo.Prefund.Cmp(actualGasCost) < 0 {
		ep.Logger.Errorf("prefund is below actual gas cost, prefund: %s, actual gas cost: %s, actual gas: %s, gas price: %s", opInfo.Prefund, actualGasCost, actualGas, gasPrice)
		return nil, common.NewRevertStringError(fmt.Sprintf("FailedOp(%d, AA51 prefund below actualGasCost)", opIndex))
	}
	refund := new(big.Int).Sub(opInfo.Prefund, actualGasCost)
	if refund.Sign() > 0 {
		if _, err := ep.incrementDeposit(mUserOp.Sender, refund); err != nil {
			return nil, err
		}
	}

	ep.EmitEvent(&entry_point.EventUserOperationEvent{
		UserOpHash:    opInfo.UserOpHash,
		Sender:        mUserOp.Sender,
		Paymaster:     mUserOp.Paymaster,
		Nonce:         mUserOp.Nonce,
		Success:       success,
		ActualGasCost: actualGasCost,
		ActualGasUsed: actualGas,
	})
	if success {
		userOpCounter.WithLabelValues(opResultSucceeded).Inc()
	} else {
		userOpCounter.WithLabelValues(opResultReverted).Inc()
	}
	return actualGasCost, nil
}

func (ep *EntryPoint) GetNonce(sender ethcommon.Address) (*big.Int, error) {
	account := ep.Ctx.StateLedger.GetAccount(sender)
	if account == nil {
		return big.NewInt(0), nil
	}
	return NewNonceManager(account).GetNonce()
}

func (ep *EntryPoint) GetUserOpHash(userOp interfaces.UserOperation) ([32]byte, error) {
	if err := checkUserOpValues(&userOp); err != nil {
		return [32]byte{}, common.NewRevertStringError(err.Error())
	}
	return ep.getUserOpHash(&userOp), nil
}

func (ep *EntryPoint) getUserOpHash(userOp *interfaces.UserOperation) [32]byte {
	return interfaces.GetUserOpHash(userOp, ep.EthAddress, ep.Ctx.VM.ChainID())
}

func (ep *EntryPoint) createSenderIfNeeded(opIndex int, opInfo *UserOpInfo, initCode []byte) (uint64, error) {
	if len(initCode) == 0 {
		return 0, nil
	}
	sender := opInfo.MUserOp.Sender
	if len(ep.Ctx.StateLedger.GetCode(sender)) != 0 {
		return 0, newFailedOp(opIndex, "AA10 sender already constructed")
	}
	if len(initCode) < ethcommon.AddressLength || opInfo.MUserOp.VerificationGasLimit.Cmp(big.NewInt(CreateAccountGas)) < 0 {
		return 0, newFailedOp(opIndex, "AA13 initCode failed or OOG")
	}

	sender1, err := ep.createSender(initCode)
	if err != nil {
		ep.Logger.Debugf("create sender failed: %v", err)
		return CreateAccountGas, newFailedOp(opIndex, "AA13 initCode failed or OOG")
	}
	if sender1 != sender {
		return CreateAccountGas, newFailedOp(opIndex, "AA14 initCode must return sender")
	}
	if len(ep.Ctx.StateLedger.GetCode(sender)) == 0 {
		return CreateAccountGas, newFailedOp(opIndex, "AA15 initCode must create sender")
	}

	// post AccountDeployed event
	ep.EmitEvent(&entry_point.EventAccountDeployed{
		UserOpHash: opInfo.UserOpHash,
		Sender:     sender,
		Factory:    ethcommon.BytesToAddress(initCode[:ethcommon.AddressLength]),
		Paymaster:  opInfo.MUserOp.Paymaster,
	})
	return CreateAccountGas, nil
}

// createSender calls the factory named by the first 20 bytes of initCode with the rest as input
func (ep *EntryPoint) createSender(initCode []byte) (ethcommon.Address, error) {
	factory := ethcommon.BytesToAddress(initCode[:ethcommon.AddressLength])
	ret, err := ep.Ctx.VM.Call(ep.EthAddress, factory, big.NewInt(0), initCode[ethcommon.AddressLength:])
	if err != nil {
		return ethcommon.Address{}, err
	}
	if len(ret) < 32 {
		return ethcommon.Address{}, errors.Errorf("factory %s returned %d bytes", factory, len(ret))
	}
	return ethcommon.BytesToAddress(ret[12:32]), nil
}

// GetSenderAddress returns the account address initCode would create, nothing is deployed
func (ep *EntryPoint) GetSenderAddress(initCode []byte) (ethcommon.Address, error) {
	if len(initCode) < ethcommon.AddressLength {
		return ethcommon.Address{}, common.NewRevertStringError("AA13 initCode failed or OOG")
	}
	snapshot := ep.Ctx.StateLedger.Snapshot()
	defer ep.Ctx.StateLedger.RevertToSnapshot(snapshot)

	sender, err := ep.createSender(initCode)
	if err != nil {
		return ethcommon.Address{}, common.NewRevertStringError(fmt.Sprintf("AA13 initCode failed or OOG: %v", err))
	}
	return sender, nil
}

func (ep *EntryPoint) emitUserOperationRevertReason(userOpHash [32]byte, sender ethcommon.Address, nonce *big.Int, revertReason []byte) {
	if nonce == nil || nonce.Sign() < 0 {
		nonce = big.NewInt(0)
	}
	ep.EmitEvent(&entry_point.EventUserOperationRevertReason{
		UserOpHash:   userOpHash,
		Sender:       sender,
		Nonce:        nonce,
		RevertReason: revertReason,
	})
}

// checkUserOpValues rejects values no abi encoded operation can carry
func checkUserOpValues(userOp *interfaces.UserOperation) error {
	op := userOp.Normalize()
	for _, v := range []*big.Int{op.Nonce, op.CallGasLimit, op.VerificationGasLimit, op.PreVerificationGas, op.MaxFeePerGas, op.MaxPriorityFeePerGas} {
		if v.Sign() < 0 || v.BitLen() > 256 {
			return errors.New("AA94 gas values overflow")
		}
	}
	return nil
}

func copyUserOpToMemory(userOp *interfaces.UserOperation, mUserOp *MemoryUserOp) error {
	if err := checkUserOpValues(userOp); err != nil {
		return err
	}
	op := userOp.Normalize()
	// validate all gas values are well below 128 bit, so they can safely be added and multiplied
	for _, v := range []*big.Int{op.CallGasLimit, op.VerificationGasLimit, op.PreVerificationGas, op.MaxFeePerGas, op.MaxPriorityFeePerGas} {
		if v.BitLen() > maxGasValueBits {
			return errors.New("AA94 gas values overflow")
		}
	}

	mUserOp.Sender = op.Sender
	mUserOp.Nonce = op.Nonce
	mUserOp.CallGasLimit = op.CallGasLimit
	mUserOp.VerificationGasLimit = op.VerificationGasLimit
	mUserOp.PreVerificationGas = op.PreVerificationGas
	mUserOp.MaxFeePerGas = op.MaxFeePerGas
	mUserOp.MaxPriorityFeePerGas = op.MaxPriorityFeePerGas
	// paymasterAndData is opaque, its address prefix is only reported in events
	mUserOp.Paymaster = op.Paymaster()
	return nil
}

func getRequiredPrefund(mUserOp *MemoryUserOp) *big.Int {
	// requiredGas = mUserOp.callGasLimit + mUserOp.verificationGasLimit + mUserOp.preVerificationGas
	requiredGas := new(big.Int).Add(mUserOp.CallGasLimit, mUserOp.VerificationGasLimit)
	requiredGas.Add(requiredGas, mUserOp.PreVerificationGas)
	return new(big.Int).Mul(requiredGas, mUserOp.MaxFeePerGas)
}
