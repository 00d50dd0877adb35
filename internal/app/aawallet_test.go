package app

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarabdelhameed/aawallet-test/internal/executor"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

var funded = ethcommon.HexToAddress("0x7000000000000000000000000000000000000001")

func mockRepo(t *testing.T, kvType string) *repo.Repo {
	rep := repo.MockRepo(t)
	rep.Config.Storage.KvType = kvType
	rep.Config.Port.JsonRpc = 0
	rep.Config.Genesis.Accounts = []repo.GenesisAccount{
		{Address: funded.String(), Balance: "1000000000000000000"},
	}
	return rep
}

func newAAWallet(t *testing.T, rep *repo.Repo) *AAWallet {
	ctx, cancel := context.WithCancel(context.Background())
	aa, err := NewAAWallet(rep, ctx, cancel)
	require.Nil(t, err)
	return aa
}

func TestAAWallet_StartStop(t *testing.T) {
	aa := newAAWallet(t, mockRepo(t, repo.KVStorageTypeMemory))
	require.Nil(t, aa.Start())
	assert.Error(t, aa.Start())

	assert.EqualValues(t, 1, aa.Executor.Version())
	assert.Equal(t, big.NewInt(1000000000000000000), aa.Executor.GetBalance(funded))

	client, err := rpc.Dial(fmt.Sprintf("http://%s", aa.Jsonrpc.Addr().String()))
	require.Nil(t, err)
	defer client.Close()
	var chainID hexutil.Big
	require.Nil(t, client.Call(&chainID, "aa_chainId"))
	assert.EqualValues(t, repo.DefaultChainID, chainID.ToInt().Int64())

	require.Nil(t, aa.Stop())
	require.Nil(t, aa.Stop())
	assert.Error(t, aa.Ctx.Err())
}

func TestAAWallet_ReportLogs(t *testing.T) {
	aa := newAAWallet(t, mockRepo(t, repo.KVStorageTypeMemory))
	require.Nil(t, aa.Start())
	t.Cleanup(func() {
		assert.Nil(t, aa.Stop())
	})

	before := testutil.ToFloat64(emittedEventCounter.WithLabelValues("Deposited"))
	input, err := saccount.EntryPointBuildConfig.Abi().Pack("depositTo", funded)
	require.Nil(t, err)
	receipt, err := aa.Executor.ApplyCall(context.Background(), &executor.Message{
		From:  funded,
		To:    aa.Executor.Addresses().EntryPoint,
		Value: big.NewInt(1000),
		Data:  input,
	})
	require.Nil(t, err)
	require.False(t, receipt.Failed())

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(emittedEventCounter.WithLabelValues("Deposited")) == before+1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestAAWallet_Restart(t *testing.T) {
	rep := mockRepo(t, repo.KVStorageTypeLeveldb)

	aa := newAAWallet(t, rep)
	require.Nil(t, aa.Start())
	input, err := saccount.EntryPointBuildConfig.Abi().Pack("depositTo", funded)
	require.Nil(t, err)
	receipt, err := aa.Executor.ApplyCall(context.Background(), &executor.Message{
		From:  funded,
		To:    aa.Executor.Addresses().EntryPoint,
		Value: big.NewInt(1000),
		Data:  input,
	})
	require.Nil(t, err)
	require.False(t, receipt.Failed())
	require.Nil(t, aa.Stop())

	// a changed genesis is ignored once the ledger is initialized
	rep.Config.Genesis.Accounts = nil
	aa = newAAWallet(t, rep)
	t.Cleanup(func() {
		assert.Nil(t, aa.Stop())
	})
	require.Nil(t, aa.Start())
	assert.EqualValues(t, 2, aa.Executor.Version())
	assert.EqualValues(t, 1, aa.Executor.LogCount())
	assert.Equal(t, big.NewInt(1000000000000000000-1000), aa.Executor.GetBalance(funded))
	require.Len(t, rep.Config.Genesis.Accounts, 1)
	assert.Equal(t, funded.String(), rep.Config.Genesis.Accounts[0].Address)
}

func TestEventName(t *testing.T) {
	names := eventNames()
	deposited := saccount.EntryPointBuildConfig.Abi().Events["Deposited"]
	assert.Equal(t, "Deposited", eventName(names, &ethtypes.Log{Topics: []ethcommon.Hash{deposited.ID}}))
	assert.Equal(t, unknownEvent, eventName(names, &ethtypes.Log{}))
	assert.Equal(t, unknownEvent, eventName(names, &ethtypes.Log{Topics: []ethcommon.Hash{{0x1}}}))
}
