package common

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	NOT_ENTERED = 1
	ENTERED     = 2
)

// ReentrancyGuard rejects nested entry into a contract while an outer call is still running.
// The vm keeps one guard per contract address for the lifetime of the vm.
type ReentrancyGuard struct {
	status uint
}

func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{status: NOT_ENTERED}
}

func (rg *ReentrancyGuard) Enter() error {
	if rg.status == ENTERED {
		return ReentrancyGuardReentrantCall()
	}

	rg.status = ENTERED
	return nil
}

func (rg *ReentrancyGuard) Exit() {
	rg.status = NOT_ENTERED
}

func ReentrancyGuardReentrantCall() error {
	return NewRevertError("ReentrancyGuardReentrantCall", abi.Arguments{}, nil)
}
