package aa

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/solidity/entry_point"
	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
)

var (
	senderA = common.HexToAddress("0x7000000000000000000000000000000000000011")
	senderB = common.HexToAddress("0x7000000000000000000000000000000000000012")
)

func toLog(t *testing.T, ev packer.Event) *ethtypes.Log {
	evmLog, err := ev.Pack(saccount.EntryPointBuildConfig.Abi())
	require.Nil(t, err)
	return &ethtypes.Log{Topics: evmLog.Topics, Data: evmLog.Data}
}

func TestParseOpResults(t *testing.T) {
	hashA := common.Hash{0xa}
	hashB := common.Hash{0xb}
	hashC := common.Hash{0xc}

	logs := []*ethtypes.Log{
		// executed and succeeded
		toLog(t, &entry_point.EventUserOperationEvent{
			UserOpHash:    hashA,
			Sender:        senderA,
			Nonce:         big.NewInt(0),
			Success:       true,
			ActualGasCost: big.NewInt(100),
			ActualGasUsed: big.NewInt(10),
		}),
		// execution reverted
		toLog(t, &entry_point.EventUserOperationRevertReason{
			UserOpHash:   hashB,
			Sender:       senderB,
			Nonce:        big.NewInt(1),
			RevertReason: packer.RevertData(errors.New("target failed")),
		}),
		toLog(t, &entry_point.EventUserOperationEvent{
			UserOpHash:    hashB,
			Sender:        senderB,
			Nonce:         big.NewInt(1),
			Success:       false,
			ActualGasCost: big.NewInt(200),
			ActualGasUsed: big.NewInt(20),
		}),
		// skipped in validation
		toLog(t, &entry_point.EventUserOperationRevertReason{
			UserOpHash:   hashC,
			Sender:       senderA,
			Nonce:        big.NewInt(1),
			RevertReason: packer.RevertData(packer.NewRevertStringError("AA24 signature error")),
		}),
		// not an operation log
		{Topics: []common.Hash{{0x1}}},
	}

	results := parseOpResults(logs)
	require.Len(t, results, 3)

	assert.Equal(t, hashA, results[0].UserOpHash)
	assert.Equal(t, senderA, results[0].Sender)
	assert.True(t, results[0].Executed)
	assert.True(t, results[0].Success)
	assert.EqualValues(t, 100, results[0].ActualGasCost.ToInt().Int64())
	assert.EqualValues(t, 10, results[0].ActualGasUsed.ToInt().Int64())
	assert.Empty(t, results[0].RevertReason)

	assert.Equal(t, hashB, results[1].UserOpHash)
	assert.True(t, results[1].Executed)
	assert.False(t, results[1].Success)
	assert.Equal(t, "target failed", results[1].RevertReason)
	assert.EqualValues(t, 200, results[1].ActualGasCost.ToInt().Int64())

	assert.Equal(t, hashC, results[2].UserOpHash)
	assert.False(t, results[2].Executed)
	assert.Equal(t, "AA24 signature error", results[2].RevertReason)
	assert.EqualValues(t, 1, results[2].Nonce.ToInt().Int64())
	assert.Nil(t, results[2].ActualGasCost)
}

func TestParseOpResults_SameHash(t *testing.T) {
	hash := common.Hash{0xd}
	rejected := toLog(t, &entry_point.EventUserOperationRevertReason{
		UserOpHash:   hash,
		Sender:       senderA,
		Nonce:        big.NewInt(3),
		RevertReason: packer.RevertData(packer.NewRevertStringError("AA25 invalid account nonce")),
	})

	// a rejected operation followed by an executed one sharing its hash
	results := parseOpResults([]*ethtypes.Log{
		rejected,
		toLog(t, &entry_point.EventUserOperationEvent{
			UserOpHash:    hash,
			Sender:        senderA,
			Nonce:         big.NewInt(3),
			Success:       true,
			ActualGasCost: big.NewInt(100),
			ActualGasUsed: big.NewInt(10),
		}),
	})
	require.Len(t, results, 2)
	assert.False(t, results[0].Executed)
	assert.Equal(t, "AA25 invalid account nonce", results[0].RevertReason)
	assert.True(t, results[1].Executed)
	assert.True(t, results[1].Success)
	assert.Empty(t, results[1].RevertReason)

	// the executed one fails, only the reason right before its event is its own
	results = parseOpResults([]*ethtypes.Log{
		rejected,
		toLog(t, &entry_point.EventUserOperationRevertReason{
			UserOpHash:   hash,
			Sender:       senderA,
			Nonce:        big.NewInt(3),
			RevertReason: packer.RevertData(errors.New("target failed")),
		}),
		toLog(t, &entry_point.EventUserOperationEvent{
			UserOpHash:    hash,
			Sender:        senderA,
			Nonce:         big.NewInt(3),
			Success:       false,
			ActualGasCost: big.NewInt(200),
			ActualGasUsed: big.NewInt(20),
		}),
	})
	require.Len(t, results, 2)
	assert.False(t, results[0].Executed)
	assert.Equal(t, "AA25 invalid account nonce", results[0].RevertReason)
	assert.True(t, results[1].Executed)
	assert.False(t, results[1].Success)
	assert.Equal(t, "target failed", results[1].RevertReason)

	// a log in between breaks the pairing
	results = parseOpResults([]*ethtypes.Log{
		rejected,
		{Topics: []common.Hash{{0x1}, {0x2}, {0x3}}},
		toLog(t, &entry_point.EventUserOperationEvent{
			UserOpHash:    hash,
			Sender:        senderA,
			Nonce:         big.NewInt(3),
			Success:       false,
			ActualGasCost: big.NewInt(200),
			ActualGasUsed: big.NewInt(20),
		}),
	})
	require.Len(t, results, 2)
	assert.False(t, results[0].Executed)
	assert.True(t, results[1].Executed)
	assert.Empty(t, results[1].RevertReason)
}

func TestNewRevertError(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, cause, newRevertError(cause, nil))

	err := newRevertError(cause, packer.RevertData(packer.NewRevertStringError("AA90 invalid beneficiary")))
	var revertErr *revertError
	require.True(t, errors.As(err, &revertErr))
	assert.Equal(t, 3, revertErr.ErrorCode())
	assert.Equal(t, "execution reverted: AA90 invalid beneficiary", err.Error())
	assert.NotEmpty(t, revertErr.ErrorData())

	failedOp := (&entry_point.ErrorFailedOp{OpIndex: big.NewInt(2), Reason: "AA25 invalid account nonce"}).Pack(saccount.EntryPointBuildConfig.Abi())
	err = newRevertError(failedOp, packer.RevertData(failedOp))
	assert.Equal(t, "execution reverted: FailedOp(2, AA25 invalid account nonce)", err.Error())

	err = newRevertError(cause, []byte{0x1, 0x2})
	assert.Equal(t, "execution reverted", err.Error())
}
