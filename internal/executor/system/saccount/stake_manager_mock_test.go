package saccount

import (
	"errors"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common/mock_common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
)

func TestStakeManager_WithdrawCallFailed(t *testing.T) {
	env := newTestEnv(t)
	user := ethcommon.HexToAddress("0x5000000000000000000000000000000000000021")
	dest := ethcommon.HexToAddress("0x5000000000000000000000000000000000000022")
	env.nvm.Fund(user, big.NewInt(1000))
	require.Nil(t, callEntryPoint(t, env, user, big.NewInt(400), "depositTo", user))
	env.nvm.StateLedger.Finalise()
	logCount := len(env.nvm.StateLedger.Logs())

	ctrl := gomock.NewController(t)
	mockVM := mock_common.NewMockVirtualMachine(ctrl)
	mockVM.EXPECT().Call(env.entryPoint, dest, big.NewInt(150), gomock.Nil()).
		Return([]byte{}, errors.New("transfer rejected")).Times(1)

	ep := EntryPointBuildConfig.BuildAt(common.NewVMContext(env.nvm.StateLedger, mockVM, user, big.NewInt(0)), env.entryPoint)
	err := ep.WithdrawTo(dest, big.NewInt(150))
	assert.ErrorIs(t, err, interfaces.ErrTransferFailed)
	assert.ErrorContains(t, err, "transfer rejected")

	balance, err := ep.BalanceOf(user)
	require.Nil(t, err)
	assert.EqualValues(t, 400, balance.Int64())
	assert.Len(t, env.nvm.StateLedger.Logs(), logCount)

	// nothing reaches the vm when the deposit is short
	err = ep.WithdrawTo(dest, big.NewInt(401))
	assert.ErrorIs(t, err, interfaces.ErrInsufficientDeposit)
}
