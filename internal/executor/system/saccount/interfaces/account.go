package interfaces

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
)

const (
	SigValidationSucceeded = 0
	SigValidationFailed    = 1
)

var (
	MaxUint160, _ = new(big.Int).SetString("ffffffffffffffffffffffffffffffffffffffff", 16)
	MaxUint48, _  = new(big.Int).SetString("ffffffffffff", 16)
)

type Validation struct {
	// signature validation result
	SigValidation uint

	// valid time range, zero ValidUntil means no expiry
	ValidUntil uint64

	ValidAfter uint64
}

func (v *Validation) SigFailed() bool {
	return v.SigValidation == SigValidationFailed
}

type IAccount interface {
	common.SystemContract

	// ValidateUserOp validate user's signature and nonce
	// the entryPoint will make the call to the recipient only if this validation call returns successfully.
	// signature failure should be reported by returning SIG_VALIDATION_FAILED (1).
	// This allows making a "simulation call" without a valid signature
	// Other failures (e.g. nonce mismatch, or invalid signature format) should still revert to signal failure.
	ValidateUserOp(userOp UserOperation, userOpHash [32]byte, missingAccountFunds *big.Int) (validationData *big.Int, err error)

	Execute(dest ethcommon.Address, value *big.Int, callFunc []byte) error

	ExecuteBatch(dest []ethcommon.Address, value []*big.Int, callFunc [][]byte) error
}

// ParseValidationData extract validation
// keep compatibility with eth abstract account
//
//	struct ValidationData {
//		address aggregator;
//		uint48 validAfter;
//		uint48 validUntil;
//	}
func ParseValidationData(validationData *big.Int) *Validation {
	if validationData == nil {
		return nil
	}

	sigValidation := new(big.Int).And(validationData, MaxUint160)
	validUntil := new(big.Int).And(new(big.Int).Rsh(validationData, 160), MaxUint48)
	if validUntil.Sign() == 0 {
		validUntil = new(big.Int).Set(MaxUint48)
	}

	validAfter := new(big.Int).And(new(big.Int).Rsh(validationData, 160+48), MaxUint48)
	return &Validation{
		SigValidation: uint(sigValidation.Uint64()),
		ValidUntil:    validUntil.Uint64(),
		ValidAfter:    validAfter.Uint64(),
	}
}

// PackValidationData keep compatibility with eth abstract account
func PackValidationData(validation *Validation) *big.Int {
	if validation == nil {
		return nil
	}

	return new(big.Int).Or(
		new(big.Int).Or(
			new(big.Int).SetUint64(uint64(validation.SigValidation)),
			new(big.Int).Lsh(new(big.Int).SetUint64(validation.ValidUntil), 160),
		),
		new(big.Int).Lsh(new(big.Int).SetUint64(validation.ValidAfter), 160+48),
	)
}
