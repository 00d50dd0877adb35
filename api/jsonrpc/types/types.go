package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
)

var validate = validator.New()

// UserOperation is the json form of a user operation, numbers are hex encoded
type UserOperation struct {
	Sender               *common.Address `json:"sender" validate:"required"`
	Nonce                *hexutil.Big    `json:"nonce" validate:"required"`
	InitCode             hexutil.Bytes   `json:"initCode"`
	CallData             hexutil.Bytes   `json:"callData"`
	CallGasLimit         *hexutil.Big    `json:"callGasLimit" validate:"required"`
	VerificationGasLimit *hexutil.Big    `json:"verificationGasLimit" validate:"required"`
	PreVerificationGas   *hexutil.Big    `json:"preVerificationGas" validate:"required"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas" validate:"required"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas" validate:"required"`
	PaymasterAndData     hexutil.Bytes   `json:"paymasterAndData"`
	Signature            hexutil.Bytes   `json:"signature"`
}

func (op *UserOperation) Validate() error {
	return validate.Struct(op)
}

// ToUserOperation converts op after checking the required fields are present
func (op *UserOperation) ToUserOperation() (*interfaces.UserOperation, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return &interfaces.UserOperation{
		Sender:               *op.Sender,
		Nonce:                op.Nonce.ToInt(),
		InitCode:             op.InitCode,
		CallData:             op.CallData,
		CallGasLimit:         op.CallGasLimit.ToInt(),
		VerificationGasLimit: op.VerificationGasLimit.ToInt(),
		PreVerificationGas:   op.PreVerificationGas.ToInt(),
		MaxFeePerGas:         op.MaxFeePerGas.ToInt(),
		MaxPriorityFeePerGas: op.MaxPriorityFeePerGas.ToInt(),
		PaymasterAndData:     op.PaymasterAndData,
		Signature:            op.Signature,
	}, nil
}

func NewUserOperation(op *interfaces.UserOperation) *UserOperation {
	sender := op.Sender
	op = op.Normalize()
	return &UserOperation{
		Sender:               &sender,
		Nonce:                (*hexutil.Big)(op.Nonce),
		InitCode:             op.InitCode,
		CallData:             op.CallData,
		CallGasLimit:         (*hexutil.Big)(op.CallGasLimit),
		VerificationGasLimit: (*hexutil.Big)(op.VerificationGasLimit),
		PreVerificationGas:   (*hexutil.Big)(op.PreVerificationGas),
		MaxFeePerGas:         (*hexutil.Big)(op.MaxFeePerGas),
		MaxPriorityFeePerGas: (*hexutil.Big)(op.MaxPriorityFeePerGas),
		PaymasterAndData:     op.PaymasterAndData,
		Signature:            op.Signature,
	}
}

// OpResult is the outcome of one operation of a handled batch
type OpResult struct {
	UserOpHash    common.Hash    `json:"userOpHash"`
	Sender        common.Address `json:"sender"`
	Paymaster     common.Address `json:"paymaster"`
	Nonce         *hexutil.Big   `json:"nonce"`
	Executed      bool           `json:"executed"`
	Success       bool           `json:"success"`
	ActualGasCost *hexutil.Big   `json:"actualGasCost,omitempty"`
	ActualGasUsed *hexutil.Big   `json:"actualGasUsed,omitempty"`
	RevertReason  string         `json:"revertReason,omitempty"`
}

type HandleOpsResult struct {
	Version hexutil.Uint64  `json:"version"`
	Results []*OpResult     `json:"results"`
	Logs    []*ethtypes.Log `json:"logs"`
}

// CallResult is returned by the calls changing state outside of a batch
type CallResult struct {
	Version hexutil.Uint64  `json:"version"`
	Return  hexutil.Bytes   `json:"return"`
	Logs    []*ethtypes.Log `json:"logs"`
}

type ReturnInfo struct {
	PreOpGas     *hexutil.Big `json:"preOpGas"`
	Prefund      *hexutil.Big `json:"prefund"`
	SigFailed    bool         `json:"sigFailed"`
	ValidAfter   *hexutil.Big `json:"validAfter"`
	ValidUntil   *hexutil.Big `json:"validUntil"`
	EstimatedGas *hexutil.Big `json:"estimatedGas"`
}

type StakeInfo struct {
	Stake           *hexutil.Big `json:"stake"`
	UnstakeDelaySec *hexutil.Big `json:"unstakeDelaySec"`
}

type ValidationResult struct {
	ReturnInfo    ReturnInfo `json:"returnInfo"`
	SenderInfo    StakeInfo  `json:"senderInfo"`
	FactoryInfo   StakeInfo  `json:"factoryInfo"`
	PaymasterInfo StakeInfo  `json:"paymasterInfo"`
}

func NewValidationResult(result *interfaces.ValidationResult) *ValidationResult {
	stakeInfo := func(info interfaces.StakeInfo) StakeInfo {
		return StakeInfo{
			Stake:           bigOrZero(info.Stake),
			UnstakeDelaySec: bigOrZero(info.UnstakeDelaySec),
		}
	}
	return &ValidationResult{
		ReturnInfo: ReturnInfo{
			PreOpGas:     bigOrZero(result.ReturnInfo.PreOpGas),
			Prefund:      bigOrZero(result.ReturnInfo.Prefund),
			SigFailed:    result.ReturnInfo.SigFailed,
			ValidAfter:   bigOrZero(result.ReturnInfo.ValidAfter),
			ValidUntil:   bigOrZero(result.ReturnInfo.ValidUntil),
			EstimatedGas: bigOrZero(result.ReturnInfo.EstimatedGas),
		},
		SenderInfo:    stakeInfo(result.SenderInfo),
		FactoryInfo:   stakeInfo(result.FactoryInfo),
		PaymasterInfo: stakeInfo(result.PaymasterInfo),
	}
}

type DepositInfo struct {
	Deposit         *hexutil.Big   `json:"deposit"`
	Staked          bool           `json:"staked"`
	Stake           *hexutil.Big   `json:"stake"`
	UnstakeDelaySec hexutil.Uint64 `json:"unstakeDelaySec"`
	WithdrawTime    *hexutil.Big   `json:"withdrawTime"`
}

func NewDepositInfo(info *interfaces.DepositInfo) *DepositInfo {
	return &DepositInfo{
		Deposit:         bigOrZero(info.Deposit),
		Staked:          info.Staked,
		Stake:           bigOrZero(info.Stake),
		UnstakeDelaySec: hexutil.Uint64(info.UnstakeDelaySec),
		WithdrawTime:    bigOrZero(info.WithdrawTime),
	}
}

func bigOrZero(v *big.Int) *hexutil.Big {
	if v == nil {
		return (*hexutil.Big)(big.NewInt(0))
	}
	return (*hexutil.Big)(new(big.Int).Set(v))
}
