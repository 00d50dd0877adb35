package interfaces

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
)

type UserOperation struct {
	Sender               ethcommon.Address `json:"sender"`
	Nonce                *big.Int          `json:"nonce"`
	InitCode             []byte            `json:"initCode"`
	CallData             []byte            `json:"callData"`
	CallGasLimit         *big.Int          `json:"callGasLimit"`
	VerificationGasLimit *big.Int          `json:"verificationGasLimit"`
	PreVerificationGas   *big.Int          `json:"preVerificationGas"`
	MaxFeePerGas         *big.Int          `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *big.Int          `json:"maxPriorityFeePerGas"`
	PaymasterAndData     []byte            `json:"paymasterAndData"`
	Signature            []byte            `json:"signature"`
}

var packForSignatureArgs = abi.Arguments{
	{Name: "sender", Type: common.AddressType},
	{Name: "nonce", Type: common.BigIntType},
	{Name: "initCode", Type: common.Bytes32Type},
	{Name: "callData", Type: common.Bytes32Type},
	{Name: "callGasLimit", Type: common.BigIntType},
	{Name: "verificationGasLimit", Type: common.BigIntType},
	{Name: "preVerificationGas", Type: common.BigIntType},
	{Name: "maxFeePerGas", Type: common.BigIntType},
	{Name: "maxPriorityFeePerGas", Type: common.BigIntType},
	{Name: "paymasterAndData", Type: common.Bytes32Type},
}

// Normalize returns a copy of userOp with every nil integer replaced by zero
func (userOp *UserOperation) Normalize() *UserOperation {
	return &UserOperation{
		Sender:               userOp.Sender,
		Nonce:                orZero(userOp.Nonce),
		InitCode:             userOp.InitCode,
		CallData:             userOp.CallData,
		CallGasLimit:         orZero(userOp.CallGasLimit),
		VerificationGasLimit: orZero(userOp.VerificationGasLimit),
		PreVerificationGas:   orZero(userOp.PreVerificationGas),
		MaxFeePerGas:         orZero(userOp.MaxFeePerGas),
		MaxPriorityFeePerGas: orZero(userOp.MaxPriorityFeePerGas),
		PaymasterAndData:     userOp.PaymasterAndData,
		Signature:            userOp.Signature,
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// PackForSignature encodes every field except the signature, variable length fields are digested first
func PackForSignature(userOp *UserOperation) []byte {
	op := userOp.Normalize()
	packed, err := packForSignatureArgs.Pack(
		op.Sender,
		op.Nonce,
		crypto.Keccak256Hash(op.InitCode),
		crypto.Keccak256Hash(op.CallData),
		op.CallGasLimit,
		op.VerificationGasLimit,
		op.PreVerificationGas,
		op.MaxFeePerGas,
		op.MaxPriorityFeePerGas,
		crypto.Keccak256Hash(op.PaymasterAndData),
	)
	if err != nil {
		// only negative or wider than 256 bits integers fail, both are malformed operations
		panic(err)
	}

	return packed
}

// GetUserOpHash returns the hash of the userOp + entryPoint address + chainID.
func GetUserOpHash(userOp *UserOperation, entryPoint ethcommon.Address, chainID *big.Int) ethcommon.Hash {
	return crypto.Keccak256Hash(
		crypto.Keccak256(PackForSignature(userOp)),
		ethcommon.LeftPadBytes(entryPoint.Bytes(), 32),
		ethcommon.LeftPadBytes(orZero(chainID).Bytes(), 32),
	)
}

// GetGasPrice returns min(maxFeePerGas, maxPriorityFeePerGas + baseFee)
func GetGasPrice(userOp *UserOperation, baseFee *big.Int) *big.Int {
	maxFeePerGas := orZero(userOp.MaxFeePerGas)
	maxPriorityFeePerGas := orZero(userOp.MaxPriorityFeePerGas)
	if maxFeePerGas.Cmp(maxPriorityFeePerGas) == 0 {
		// legacy mode (for networks that don't support basefee opcode)
		return maxFeePerGas
	}
	return math.BigMin(maxFeePerGas, new(big.Int).Add(maxPriorityFeePerGas, orZero(baseFee)))
}

// Paymaster returns the address prefix of paymasterAndData, zero when it is shorter than an address
func (userOp *UserOperation) Paymaster() ethcommon.Address {
	if len(userOp.PaymasterAndData) < ethcommon.AddressLength {
		return ethcommon.Address{}
	}
	return ethcommon.BytesToAddress(userOp.PaymasterAndData[:ethcommon.AddressLength])
}

// Factory returns the address prefix of initCode, zero when it is empty
func (userOp *UserOperation) Factory() ethcommon.Address {
	if len(userOp.InitCode) < ethcommon.AddressLength {
		return ethcommon.Address{}
	}
	return ethcommon.BytesToAddress(userOp.InitCode[:ethcommon.AddressLength])
}
