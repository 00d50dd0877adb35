package aa

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	rpctypes "github.com/samarabdelhameed/aawallet-test/api/jsonrpc/types"
	"github.com/samarabdelhameed/aawallet-test/internal/executor"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

// max logs returned by one aa_getLogs request
const maxLogsRange = 1000

// AAAPI provides the entry point to relayers and wallets
type AAAPI struct {
	rep    *repo.Repo
	exec   executor.Executor
	logger logrus.FieldLogger
}

func NewAAAPI(rep *repo.Repo, exec executor.Executor, logger logrus.FieldLogger) *AAAPI {
	return &AAAPI{rep: rep, exec: exec, logger: logger}
}

// ChainId returns the chain id bound into every user operation hash
func (api *AAAPI) ChainId() (ret *hexutil.Big, err error) { // nolint
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
	}(time.Now())

	api.logger.Debug("aa_chainId")
	return (*hexutil.Big)(api.exec.ChainID()), nil
}

func (api *AAAPI) SupportedEntryPoints() []common.Address {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
	}(time.Now())

	return []common.Address{api.exec.Addresses().EntryPoint}
}

func (api *AAAPI) GetUserOpHash(op rpctypes.UserOperation) (ret common.Hash, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	userOp, err := op.ToUserOperation()
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "invalid user operation")
	}
	api.logger.WithField("sender", userOp.Sender).Debug("aa_getUserOpHash")
	return interfaces.GetUserOpHash(userOp, api.exec.Addresses().EntryPoint, api.exec.ChainID()), nil
}

func (api *AAAPI) GetNonce(ctx context.Context, sender common.Address) (ret *hexutil.Big, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	api.logger.WithField("sender", sender).Debug("aa_getNonce")
	values, err := api.callEntryPoint(ctx, "getNonce", sender)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(abi.ConvertType(values[0], new(big.Int)).(*big.Int)), nil
}

// BalanceOf returns the deposit of account held by the entry point
func (api *AAAPI) BalanceOf(ctx context.Context, account common.Address) (ret *hexutil.Big, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	api.logger.WithField("account", account).Debug("aa_balanceOf")
	values, err := api.callEntryPoint(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(abi.ConvertType(values[0], new(big.Int)).(*big.Int)), nil
}

// GetBalance returns the native balance of account
func (api *AAAPI) GetBalance(account common.Address) *hexutil.Big {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
	}(time.Now())

	return (*hexutil.Big)(api.exec.GetBalance(account))
}

func (api *AAAPI) GetDepositInfo(ctx context.Context, account common.Address) (ret *rpctypes.DepositInfo, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	api.logger.WithField("account", account).Debug("aa_getDepositInfo")
	values, err := api.callEntryPoint(ctx, "getDepositInfo", account)
	if err != nil {
		return nil, err
	}
	info := abi.ConvertType(values[0], new(interfaces.DepositInfo)).(*interfaces.DepositInfo)
	return rpctypes.NewDepositInfo(info), nil
}

func (api *AAAPI) GetSenderAddress(ctx context.Context, initCode hexutil.Bytes) (ret common.Address, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	values, err := api.callEntryPoint(ctx, "getSenderAddress", []byte(initCode))
	if err != nil {
		return common.Address{}, err
	}
	return values[0].(common.Address), nil
}

// GetAccountAddress returns the account the factory creates for owner and salt, which
// is trusting the entry point of this node
func (api *AAAPI) GetAccountAddress(owner common.Address, salt *hexutil.Big) (ret common.Address, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	addrs := api.exec.Addresses()
	return saccount.PredictAddress(addrs.AccountFactory, owner, addrs.EntryPoint, (*big.Int)(salt))
}

func (api *AAAPI) SimulateValidation(ctx context.Context, op rpctypes.UserOperation) (ret *rpctypes.ValidationResult, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	userOp, err := op.ToUserOperation()
	if err != nil {
		return nil, errors.Wrap(err, "invalid user operation")
	}
	api.logger.WithFields(logrus.Fields{
		"sender": userOp.Sender,
		"nonce":  userOp.Nonce,
	}).Debug("aa_simulateValidation")

	values, err := api.callEntryPoint(ctx, "simulateValidation", userOp)
	if err != nil {
		return nil, err
	}
	result := abi.ConvertType(values[0], new(interfaces.ValidationResult)).(*interfaces.ValidationResult)
	return rpctypes.NewValidationResult(result), nil
}

// HandleOps runs a batch of user operations, fees are paid to beneficiary
func (api *AAAPI) HandleOps(ctx context.Context, ops []rpctypes.UserOperation, beneficiary common.Address) (ret *rpctypes.HandleOpsResult, err error) {
	defer func(start time.Time) {
		invokeSendDuration.Observe(time.Since(start).Seconds())
		sendTotalCounter.Inc()
		if err != nil {
			sendFailedCounter.Inc()
		}
	}(time.Now())

	if len(ops) == 0 {
		return nil, ErrNoUserOperation
	}
	if maxSize := api.rep.Config.JsonRPC.MaxBatchSize; maxSize > 0 && len(ops) > maxSize {
		return nil, errors.Errorf("batch of %d user operations exceeds the limit %d", len(ops), maxSize)
	}
	userOps := make([]interfaces.UserOperation, 0, len(ops))
	for i, op := range ops {
		userOp, err := op.ToUserOperation()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid user operation %d", i)
		}
		userOps = append(userOps, *userOp)
	}

	input, err := saccount.EntryPointBuildConfig.Abi().Pack("handleOps", userOps, beneficiary)
	if err != nil {
		return nil, err
	}
	receipt, err := api.exec.ApplyCall(ctx, &executor.Message{
		From:  beneficiary,
		To:    api.exec.Addresses().EntryPoint,
		Value: big.NewInt(0),
		Data:  input,
	})
	if err != nil {
		return nil, err
	}
	if receipt.Failed() {
		return nil, newRevertError(receipt.Err, receipt.Ret)
	}

	results := parseOpResults(receipt.Logs)
	api.logger.WithFields(logrus.Fields{
		"ops":         len(ops),
		"executed":    len(lo.Filter(results, func(r *rpctypes.OpResult, _ int) bool { return r.Executed })),
		"beneficiary": beneficiary,
		"version":     receipt.Version,
	}).Info("aa_handleOps")
	return &rpctypes.HandleOpsResult{
		Version: hexutil.Uint64(receipt.Version),
		Results: results,
		Logs:    receipt.Logs,
	}, nil
}

// GetCallNonce returns the nonce the next signed deposit or withdrawal of from must carry
func (api *AAAPI) GetCallNonce(from common.Address) hexutil.Uint64 {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
	}(time.Now())

	return hexutil.Uint64(api.exec.GetCallNonce(from))
}

// DepositTo moves value from the native balance of from into the deposit of account,
// signature is the personal signature of from over the call hash with nonce
func (api *AAAPI) DepositTo(ctx context.Context, from common.Address, account common.Address, value *hexutil.Big, nonce hexutil.Uint64, signature hexutil.Bytes) (ret *rpctypes.CallResult, err error) {
	defer func(start time.Time) {
		invokeSendDuration.Observe(time.Since(start).Seconds())
		sendTotalCounter.Inc()
		if err != nil {
			sendFailedCounter.Inc()
		}
	}(time.Now())

	if value == nil {
		return nil, errors.New("missing deposit value")
	}
	input, err := saccount.EntryPointBuildConfig.Abi().Pack("depositTo", account)
	if err != nil {
		return nil, err
	}
	return api.applySignedCall(ctx, "depositTo", &executor.SignedMessage{
		Message: executor.Message{
			From:  from,
			To:    api.exec.Addresses().EntryPoint,
			Value: value.ToInt(),
			Data:  input,
		},
		Nonce:     uint64(nonce),
		Signature: signature,
	})
}

// WithdrawTo withdraws amount from the deposit of from to withdrawAddress,
// signature is the personal signature of from over the call hash with nonce
func (api *AAAPI) WithdrawTo(ctx context.Context, from common.Address, withdrawAddress common.Address, amount *hexutil.Big, nonce hexutil.Uint64, signature hexutil.Bytes) (ret *rpctypes.CallResult, err error) {
	defer func(start time.Time) {
		invokeSendDuration.Observe(time.Since(start).Seconds())
		sendTotalCounter.Inc()
		if err != nil {
			sendFailedCounter.Inc()
		}
	}(time.Now())

	if amount == nil {
		return nil, errors.New("missing withdraw amount")
	}
	input, err := saccount.EntryPointBuildConfig.Abi().Pack("withdrawTo", withdrawAddress, amount.ToInt())
	if err != nil {
		return nil, err
	}
	return api.applySignedCall(ctx, "withdrawTo", &executor.SignedMessage{
		Message: executor.Message{
			From:  from,
			To:    api.exec.Addresses().EntryPoint,
			Value: big.NewInt(0),
			Data:  input,
		},
		Nonce:     uint64(nonce),
		Signature: signature,
	})
}

// CreateAccount deploys the account of owner and salt, it is a no-op when already deployed
func (api *AAAPI) CreateAccount(ctx context.Context, owner common.Address, salt *hexutil.Big) (ret common.Address, err error) {
	defer func(start time.Time) {
		invokeSendDuration.Observe(time.Since(start).Seconds())
		sendTotalCounter.Inc()
		if err != nil {
			sendFailedCounter.Inc()
		}
	}(time.Now())

	saltInt := big.NewInt(0)
	if salt != nil {
		saltInt = salt.ToInt()
	}
	addrs := api.exec.Addresses()
	// the factory binds the account to its caller
	res, err := api.applyCall(ctx, addrs.EntryPoint, addrs.AccountFactory, big.NewInt(0), saccount.SmartAccountFactoryBuildConfig.Abi(), "createAccount", owner, saltInt)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(res.Return), nil
}

// GetLogs returns the committed logs whose index is in [from, to]
func (api *AAAPI) GetLogs(from hexutil.Uint64, to hexutil.Uint64) (ret []*ethtypes.Log, err error) {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
		if err != nil {
			queryFailedCounter.Inc()
		}
	}(time.Now())

	if from > to {
		return nil, ErrInvalidRange
	}
	if to-from >= maxLogsRange {
		return nil, errors.Wrapf(ErrInvalidRange, "at most %d logs per request", maxLogsRange)
	}
	return api.exec.GetLogs(uint64(from), uint64(to))
}

// LogCount returns the number of committed logs
func (api *AAAPI) LogCount() hexutil.Uint64 {
	defer func(start time.Time) {
		invokeReadOnlyDuration.Observe(time.Since(start).Seconds())
		queryTotalCounter.Inc()
	}(time.Now())

	return hexutil.Uint64(api.exec.LogCount())
}

func (api *AAAPI) callEntryPoint(ctx context.Context, method string, args ...any) ([]any, error) {
	epAbi := saccount.EntryPointBuildConfig.Abi()
	input, err := epAbi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	ret, err := api.exec.StaticCall(ctx, &executor.Message{
		To:    api.exec.Addresses().EntryPoint,
		Value: big.NewInt(0),
		Data:  input,
	})
	if err != nil {
		return nil, newRevertError(err, ret)
	}
	values, err := epAbi.Unpack(method, ret)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s result", method)
	}
	if len(values) == 0 {
		return nil, errors.Errorf("empty %s result", method)
	}
	return values, nil
}

func (api *AAAPI) applyCall(ctx context.Context, from, to common.Address, value *big.Int, contractAbi abi.ABI, method string, args ...any) (*rpctypes.CallResult, error) {
	input, err := contractAbi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	receipt, err := api.exec.ApplyCall(ctx, &executor.Message{
		From:  from,
		To:    to,
		Value: value,
		Data:  input,
	})
	if err != nil {
		return nil, err
	}
	return api.callResult(method, from, receipt)
}

func (api *AAAPI) applySignedCall(ctx context.Context, method string, msg *executor.SignedMessage) (*rpctypes.CallResult, error) {
	receipt, err := api.exec.ApplySignedCall(ctx, msg)
	if err != nil {
		return nil, err
	}
	return api.callResult(method, msg.From, receipt)
}

func (api *AAAPI) callResult(method string, from common.Address, receipt *executor.Receipt) (*rpctypes.CallResult, error) {
	if receipt.Failed() {
		return nil, newRevertError(receipt.Err, receipt.Ret)
	}
	api.logger.WithFields(logrus.Fields{
		"from":    from,
		"method":  method,
		"version": receipt.Version,
	}).Debug("apply call")
	return &rpctypes.CallResult{
		Version: hexutil.Uint64(receipt.Version),
		Return:  receipt.Ret,
		Logs:    receipt.Logs,
	}, nil
}

// parseOpResults rebuilds the outcome of every operation of a batch from its logs.
// An execution failure is reported by a revert reason log right before the failed
// operation event, any other revert reason belongs to an operation rejected in validation.
func parseOpResults(logs []*ethtypes.Log) []*rpctypes.OpResult {
	epAbi := saccount.EntryPointBuildConfig.Abi()
	opEvent := epAbi.Events["UserOperationEvent"]
	revertEvent := epAbi.Events["UserOperationRevertReason"]

	results := make([]*rpctypes.OpResult, 0)
	// result of the revert reason log right before the current log
	var reverted *rpctypes.OpResult
	for _, log := range logs {
		prev := reverted
		reverted = nil
		if len(log.Topics) < 3 {
			continue
		}
		switch log.Topics[0] {
		case revertEvent.ID:
			values, err := revertEvent.Inputs.NonIndexed().Unpack(log.Data)
			if err != nil || len(values) != 2 {
				continue
			}
			reverted = &rpctypes.OpResult{
				UserOpHash:   log.Topics[1],
				Sender:       common.BytesToAddress(log.Topics[2].Bytes()),
				Nonce:        (*hexutil.Big)(values[0].(*big.Int)),
				RevertReason: packer.DecodeRevertReason(values[1].([]byte)),
			}
			results = append(results, reverted)
		case opEvent.ID:
			if len(log.Topics) < 4 {
				continue
			}
			values, err := opEvent.Inputs.NonIndexed().Unpack(log.Data)
			if err != nil || len(values) != 4 {
				continue
			}
			sender := common.BytesToAddress(log.Topics[2].Bytes())
			success := values[1].(bool)
			result := prev
			if result == nil || success || result.UserOpHash != log.Topics[1] || result.Sender != sender {
				result = &rpctypes.OpResult{
					UserOpHash: log.Topics[1],
					Sender:     sender,
				}
				results = append(results, result)
			}
			result.Paymaster = common.BytesToAddress(log.Topics[3].Bytes())
			result.Nonce = (*hexutil.Big)(values[0].(*big.Int))
			result.Executed = true
			result.Success = success
			result.ActualGasCost = (*hexutil.Big)(values[2].(*big.Int))
			result.ActualGasUsed = (*hexutil.Big)(values[3].(*big.Int))
		}
	}
	return results
}
