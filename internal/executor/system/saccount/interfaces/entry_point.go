package interfaces

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
)

type ReturnInfo struct {
	PreOpGas     *big.Int `json:"preOpGas"`
	Prefund      *big.Int `json:"prefund"`
	SigFailed    bool     `json:"sigFailed"`
	ValidAfter   *big.Int `json:"validAfter"`
	ValidUntil   *big.Int `json:"validUntil"`
	EstimatedGas *big.Int `json:"estimatedGas"`
}

// ValidationResult is returned by simulateValidation
type ValidationResult struct {
	ReturnInfo    ReturnInfo `json:"returnInfo"`
	SenderInfo    StakeInfo  `json:"senderInfo"`
	FactoryInfo   StakeInfo  `json:"factoryInfo"`
	PaymasterInfo StakeInfo  `json:"paymasterInfo"`
}

type IEntryPoint interface {
	common.SystemContract
	IStakeManager

	// HandleOps execute a batch of UserOperations, fees are paid to beneficiary
	HandleOps(ops []UserOperation, beneficiary ethcommon.Address) error

	// SimulateValidation run the validation of userOp and discard every change
	SimulateValidation(userOp UserOperation) (*ValidationResult, error)

	GetNonce(sender ethcommon.Address) (*big.Int, error)

	GetUserOpHash(userOp UserOperation) ([32]byte, error)

	GetSenderAddress(initCode []byte) (ethcommon.Address, error)
}
