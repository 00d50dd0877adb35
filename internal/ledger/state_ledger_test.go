package ledger

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

var (
	addr1 = ethcommon.HexToAddress("0x1000000000000000000000000000000000000001")
	addr2 = ethcommon.HexToAddress("0x1000000000000000000000000000000000000002")
)

func newTestStateLedger(t *testing.T, store kv.Storage) StateLedger {
	lg, err := NewLedgerWithStores(repo.MockRepo(t), store)
	require.Nil(t, err)
	return lg.StateLedger
}

func TestStateLedger_Balance(t *testing.T) {
	sl := newTestStateLedger(t, kv.NewMemory())

	assert.Equal(t, int64(0), sl.GetBalance(addr1).Int64())
	assert.False(t, sl.Exist(addr1))

	sl.AddBalance(addr1, big.NewInt(100))
	sl.SubBalance(addr1, big.NewInt(30))
	assert.Equal(t, int64(70), sl.GetBalance(addr1).Int64())
	assert.True(t, sl.Exist(addr1))
	assert.False(t, sl.Empty(addr1))

	sl.SetBalance(addr1, big.NewInt(5))
	assert.Equal(t, int64(5), sl.GetBalance(addr1).Int64())

	// zero amount is a no-op
	sl.AddBalance(addr1, big.NewInt(0))
	assert.Equal(t, int64(5), sl.GetBalance(addr1).Int64())
}

func TestStateLedger_Snapshot(t *testing.T) {
	sl := newTestStateLedger(t, kv.NewMemory())

	sl.AddBalance(addr1, big.NewInt(10))
	sl.SetState(addr1, []byte("k"), []byte("v1"))

	snap := sl.Snapshot()
	sl.AddBalance(addr1, big.NewInt(10))
	sl.SetState(addr1, []byte("k"), []byte("v2"))
	sl.SetState(addr1, []byte("k2"), []byte("v"))
	sl.SetCode(addr1, []byte{0x1})
	sl.AddBalance(addr2, big.NewInt(1))
	sl.AddLog(&ethtypes.Log{Address: addr1})

	inner := sl.Snapshot()
	sl.SetState(addr1, []byte("k"), []byte("v3"))
	sl.RevertToSnapshot(inner)
	_, v := sl.GetState(addr1, []byte("k"))
	assert.Equal(t, []byte("v2"), v)

	sl.RevertToSnapshot(snap)
	assert.Equal(t, int64(10), sl.GetBalance(addr1).Int64())
	exist, v := sl.GetState(addr1, []byte("k"))
	assert.True(t, exist)
	assert.Equal(t, []byte("v1"), v)
	exist, _ = sl.GetState(addr1, []byte("k2"))
	assert.False(t, exist)
	assert.Nil(t, sl.GetCode(addr1))
	assert.False(t, sl.Exist(addr2))
	assert.Len(t, sl.Logs(), 0)

	// reverted revision can not be used again
	assert.Panics(t, func() {
		sl.RevertToSnapshot(inner)
	})
}

func TestStateLedger_Finalise(t *testing.T) {
	sl := newTestStateLedger(t, kv.NewMemory())

	snap := sl.Snapshot()
	sl.AddBalance(addr1, big.NewInt(10))
	sl.Finalise()
	assert.Panics(t, func() {
		sl.RevertToSnapshot(snap)
	})
	assert.Equal(t, int64(10), sl.GetBalance(addr1).Int64())
}

func TestStateLedger_Commit(t *testing.T) {
	store := kv.NewMemory()
	sl := newTestStateLedger(t, store)

	code := []byte("native-contract")
	sl.AddBalance(addr1, big.NewInt(42))
	sl.SetState(addr1, []byte("k"), []byte("v"))
	sl.SetState(addr1, []byte("deleted"), []byte("v"))
	sl.SetCode(addr1, code)
	sl.AddLog(&ethtypes.Log{Address: addr1, Topics: []ethcommon.Hash{{0x1}}, Data: []byte{0x2}})
	sl.AddLog(&ethtypes.Log{Address: addr2})

	version, err := sl.Commit()
	require.Nil(t, err)
	assert.Equal(t, uint64(1), version)
	assert.Equal(t, uint64(2), sl.LogCount())
	assert.Len(t, sl.Logs(), 0)

	sl.SetState(addr1, []byte("deleted"), nil)
	sl.AddLog(&ethtypes.Log{Address: addr1})
	version, err = sl.Commit()
	require.Nil(t, err)
	assert.Equal(t, uint64(2), version)

	// reload from the same storage
	reloaded := newTestStateLedger(t, store)
	assert.Equal(t, uint64(2), reloaded.Version())
	assert.Equal(t, uint64(3), reloaded.LogCount())
	assert.Equal(t, int64(42), reloaded.GetBalance(addr1).Int64())
	assert.Equal(t, code, reloaded.GetCode(addr1))
	exist, v := reloaded.GetState(addr1, []byte("k"))
	assert.True(t, exist)
	assert.Equal(t, []byte("v"), v)
	exist, _ = reloaded.GetState(addr1, []byte("deleted"))
	assert.False(t, exist)

	logs, err := reloaded.GetLogs(0, 100)
	require.Nil(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, addr1, logs[0].Address)
	assert.Equal(t, []byte{0x2}, logs[0].Data)
	assert.Equal(t, uint64(1), logs[0].BlockNumber)
	assert.Equal(t, uint(1), logs[1].Index)
	assert.Equal(t, uint64(2), logs[2].BlockNumber)

	logs, err = reloaded.GetLogs(2, 1)
	require.Nil(t, err)
	assert.Len(t, logs, 0)
}

func TestSimpleAccount(t *testing.T) {
	lg, err := NewMemory(repo.MockRepo(t))
	require.Nil(t, err)
	account := lg.StateLedger.GetOrCreateAccount(addr1)

	assert.True(t, account.IsEmpty())
	assert.Equal(t, addr1, account.GetAddress())
	assert.Nil(t, account.CodeHash())

	account.SetCodeAndHash([]byte{0x1, 0x2})
	assert.Len(t, account.CodeHash(), 32)
	assert.Equal(t, []byte{0x1, 0x2}, account.Code())
	assert.False(t, account.IsEmpty())
	assert.Contains(t, account.String(), addr1.String())
}
