package saccount

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/solidity/entry_point"
)

const depositsKey = "deposits"

var _ interfaces.IStakeManager = (*StakeManager)(nil)

// StakeManager keeps the deposit of every account, the funds themselves are the
// native balance of the contract account.
type StakeManager struct {
	common.SystemContractBase

	deposits *common.VMMap[ethcommon.Address, *big.Int]
}

func NewStakeManager(systemContractBase common.SystemContractBase) *StakeManager {
	return &StakeManager{
		SystemContractBase: systemContractBase,
	}
}

func (sm *StakeManager) SetContext(context *common.VMContext) {
	sm.SystemContractBase.SetContext(context)

	sm.deposits = common.NewVMMap[ethcommon.Address, *big.Int](sm.StateAccount, depositsKey, func(key ethcommon.Address) string {
		return key.Hex()
	})
}

func (sm *StakeManager) GetDepositInfo(account ethcommon.Address) (*interfaces.DepositInfo, error) {
	deposit, err := sm.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	return &interfaces.DepositInfo{
		Deposit:      deposit,
		Staked:       false,
		Stake:        big.NewInt(0),
		WithdrawTime: big.NewInt(0),
	}, nil
}

// getStakeInfo always reports an unstaked entity, staking is not supported
func (sm *StakeManager) getStakeInfo(ethcommon.Address) interfaces.StakeInfo {
	return interfaces.StakeInfo{
		Stake:           big.NewInt(0),
		UnstakeDelaySec: big.NewInt(0),
	}
}

func (sm *StakeManager) BalanceOf(account ethcommon.Address) (*big.Int, error) {
	return sm.deposits.GetOrDefault(account, big.NewInt(0))
}

// DepositTo credits the value attached to the call to account
func (sm *StakeManager) DepositTo(account ethcommon.Address) error {
	amount := sm.Ctx.Value
	if amount == nil || amount.Sign() == 0 {
		return interfaces.ErrZeroDeposit
	}
	total, err := sm.incrementDeposit(account, amount)
	if err != nil {
		return err
	}
	sm.EmitEvent(&entry_point.EventDeposited{
		Account:      account,
		TotalDeposit: total,
	})
	return nil
}

// WithdrawTo withdraws from the deposit of the caller, the debit is undone when the transfer fails
func (sm *StakeManager) WithdrawTo(withdrawAddress ethcommon.Address, withdrawAmount *big.Int) error {
	account := sm.Ctx.From
	if withdrawAmount == nil {
		withdrawAmount = big.NewInt(0)
	}
	if withdrawAmount.Sign() < 0 {
		return errors.Errorf("negative withdraw amount %s", withdrawAmount)
	}
	deposit, err := sm.BalanceOf(account)
	if err != nil {
		return err
	}
	if withdrawAmount.Cmp(deposit) > 0 {
		return errors.Wrapf(interfaces.ErrInsufficientDeposit, "deposit %s, withdraw %s", deposit, withdrawAmount)
	}

	snapshot := sm.Ctx.StateLedger.Snapshot()
	if err := sm.deposits.Put(account, new(big.Int).Sub(deposit, withdrawAmount)); err != nil {
		sm.Ctx.StateLedger.RevertToSnapshot(snapshot)
		return err
	}
	sm.EmitEvent(&entry_point.EventWithdrawn{
		Account:         account,
		WithdrawAddress: withdrawAddress,
		Amount:          withdrawAmount,
	})
	if _, err := sm.Ctx.VM.Call(sm.EthAddress, withdrawAddress, withdrawAmount, nil); err != nil {
		sm.Ctx.StateLedger.RevertToSnapshot(snapshot)
		return errors.Wrapf(interfaces.ErrTransferFailed, "withdraw to %s: %v", withdrawAddress, err)
	}
	return nil
}

func (sm *StakeManager) incrementDeposit(account ethcommon.Address, amount *big.Int) (*big.Int, error) {
	deposit, err := sm.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Add(deposit, amount)
	if err := sm.deposits.Put(account, total); err != nil {
		return nil, err
	}
	return total, nil
}

// decrementDeposit debits amount, the deposit is checked by the caller
func (sm *StakeManager) decrementDeposit(account ethcommon.Address, amount *big.Int) error {
	deposit, err := sm.BalanceOf(account)
	if err != nil {
		return err
	}
	if deposit.Cmp(amount) < 0 {
		return errors.Wrapf(interfaces.ErrInsufficientDeposit, "deposit %s, debit %s", deposit, amount)
	}
	return sm.deposits.Put(account, new(big.Int).Sub(deposit, amount))
}
