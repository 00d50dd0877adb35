package interfaces

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

type DepositInfo struct {
	Deposit         *big.Int `json:"deposit"`
	Staked          bool     `json:"staked"`
	Stake           *big.Int `json:"stake"`
	UnstakeDelaySec uint32   `json:"unstakeDelaySec"`
	WithdrawTime    *big.Int `json:"withdrawTime"`
}

type StakeInfo struct {
	Stake           *big.Int `json:"stake"`
	UnstakeDelaySec *big.Int `json:"unstakeDelaySec"`
}

// IStakeManager manage deposits of accounts, funds are held by the entry point
type IStakeManager interface {
	GetDepositInfo(account ethcommon.Address) (*DepositInfo, error)

	BalanceOf(account ethcommon.Address) (*big.Int, error)

	// DepositTo add the attached value to the deposit of account
	DepositTo(account ethcommon.Address) error

	// WithdrawTo withdraw from the deposit of the caller
	WithdrawTo(withdrawAddress ethcommon.Address, withdrawAmount *big.Int) error
}
