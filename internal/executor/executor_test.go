package executor

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/genesis"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

var (
	funded = ethcommon.HexToAddress("0x7000000000000000000000000000000000000001")

	signerKey = lo.Must(crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"))
	signer    = crypto.PubkeyToAddress(signerKey.PublicKey)
)

func newTestExecutor(t *testing.T) *CallExecutor {
	rep := repo.MockRepo(t)
	rep.Config.Genesis.Accounts = []repo.GenesisAccount{
		{Address: funded.String(), Balance: "1000000000000000000"},
		{Address: signer.String(), Balance: "1000000000000000000"},
	}
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)

	exec, err := New(rep, lg)
	require.Nil(t, err)
	require.Nil(t, genesis.Initialize(&rep.Config.Genesis, lg))
	require.Nil(t, exec.Start())
	t.Cleanup(func() {
		_ = exec.Stop()
	})
	return exec
}

func entryPointInput(t *testing.T, method string, args ...any) []byte {
	input, err := saccount.EntryPointBuildConfig.Abi().Pack(method, args...)
	require.Nil(t, err)
	return input
}

func TestCallExecutor_ApplyCall(t *testing.T) {
	exec := newTestExecutor(t)
	assert.EqualValues(t, 1, exec.Version())
	assert.EqualValues(t, 0, exec.LogCount())

	logsC := make(chan []*ethtypes.Log, 1)
	sub := exec.SubscribeLogsEvent(logsC)
	defer sub.Unsubscribe()

	ctx := context.Background()
	entryPoint := exec.Addresses().EntryPoint
	receipt, err := exec.ApplyCall(ctx, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(1000),
		Data:  entryPointInput(t, "depositTo", funded),
	})
	require.Nil(t, err)
	assert.False(t, receipt.Failed())
	assert.Nil(t, receipt.Err)
	assert.EqualValues(t, 2, receipt.Version)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, saccount.EntryPointBuildConfig.Abi().Events["Deposited"].ID, receipt.Logs[0].Topics[0])
	assert.EqualValues(t, 1000, exec.GetBalance(entryPoint).Int64())

	select {
	case logs := <-logsC:
		assert.Equal(t, receipt.Logs, logs)
	case <-time.After(time.Second):
		t.Fatal("logs event not received")
	}

	assert.EqualValues(t, 1, exec.LogCount())
	logs, err := exec.GetLogs(0, 10)
	require.Nil(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entryPoint, logs[0].Address)
	assert.EqualValues(t, 2, logs[0].BlockNumber)

	// withdraw more than the deposit, nothing is committed
	receipt, err = exec.ApplyCall(ctx, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(0),
		Data:  entryPointInput(t, "withdrawTo", funded, big.NewInt(1001)),
	})
	require.Nil(t, err)
	assert.True(t, receipt.Failed())
	assert.ErrorIs(t, receipt.Err, interfaces.ErrInsufficientDeposit)
	assert.NotEmpty(t, receipt.Ret)
	assert.EqualValues(t, 2, receipt.Version)
	assert.EqualValues(t, 2, exec.Version())
	assert.EqualValues(t, 1000, exec.GetBalance(entryPoint).Int64())
}

func TestCallExecutor_StaticCall(t *testing.T) {
	exec := newTestExecutor(t)
	ctx := context.Background()
	entryPoint := exec.Addresses().EntryPoint

	_, err := exec.ApplyCall(ctx, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(500),
		Data:  entryPointInput(t, "depositTo", funded),
	})
	require.Nil(t, err)
	version := exec.Version()

	ret, err := exec.StaticCall(ctx, &Message{
		From: funded,
		To:   entryPoint,
		Data: entryPointInput(t, "balanceOf", funded),
	})
	require.Nil(t, err)
	assert.EqualValues(t, 500, new(big.Int).SetBytes(ret).Int64())

	// state changing calls are dropped
	_, err = exec.StaticCall(ctx, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(100),
		Data:  entryPointInput(t, "depositTo", funded),
	})
	require.Nil(t, err)
	assert.Equal(t, version, exec.Version())
	assert.EqualValues(t, 500, exec.GetBalance(entryPoint).Int64())

	_, err = exec.StaticCall(ctx, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(0),
		Data:  entryPointInput(t, "withdrawTo", funded, big.NewInt(501)),
	})
	assert.ErrorIs(t, err, interfaces.ErrInsufficientDeposit)
	assert.EqualValues(t, 1, exec.LogCount())
}

func TestCallExecutor_Stop(t *testing.T) {
	exec := newTestExecutor(t)
	require.Nil(t, exec.Stop())

	_, err := exec.ApplyCall(context.Background(), &Message{From: funded, To: funded, Value: big.NewInt(1)})
	assert.ErrorIs(t, err, ErrStopped)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exec.StaticCall(ctx, &Message{From: funded, To: funded})
	assert.Error(t, err)
}

func signCall(t *testing.T, exec *CallExecutor, msg *Message, nonce uint64, key *ecdsa.PrivateKey) *SignedMessage {
	sig, err := saccount.SignUserOpHash(SignedCallHash(msg, exec.ChainID(), nonce), key)
	require.Nil(t, err)
	return &SignedMessage{Message: *msg, Nonce: nonce, Signature: sig}
}

func TestCallExecutor_ApplySignedCall(t *testing.T) {
	exec := newTestExecutor(t)
	ctx := context.Background()
	entryPoint := exec.Addresses().EntryPoint
	assert.EqualValues(t, 0, exec.GetCallNonce(signer))

	deposit := &Message{
		From:  signer,
		To:    entryPoint,
		Value: big.NewInt(1000),
		Data:  entryPointInput(t, "depositTo", signer),
	}
	signed := signCall(t, exec, deposit, 0, signerKey)
	receipt, err := exec.ApplySignedCall(ctx, signed)
	require.Nil(t, err)
	require.False(t, receipt.Failed())
	assert.EqualValues(t, 1, exec.GetCallNonce(signer))
	assert.EqualValues(t, 1000, exec.GetBalance(entryPoint).Int64())

	// replay
	receipt, err = exec.ApplySignedCall(ctx, signed)
	require.Nil(t, err)
	assert.True(t, receipt.Failed())
	assert.ErrorIs(t, receipt.Err, ErrInvalidCallNonce)
	assert.Empty(t, receipt.Ret)
	assert.EqualValues(t, 2, exec.Version())

	// withdraw the deposit of another account
	_, err = exec.ApplyCall(ctx, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(500),
		Data:  entryPointInput(t, "depositTo", funded),
	})
	require.Nil(t, err)
	version := exec.Version()
	foreign := signCall(t, exec, &Message{
		From:  funded,
		To:    entryPoint,
		Value: big.NewInt(0),
		Data:  entryPointInput(t, "withdrawTo", signer, big.NewInt(500)),
	}, 0, signerKey)
	receipt, err = exec.ApplySignedCall(ctx, foreign)
	require.Nil(t, err)
	assert.True(t, receipt.Failed())
	assert.ErrorIs(t, receipt.Err, ErrInvalidCallSignature)
	assert.Equal(t, version, exec.Version())
	assert.EqualValues(t, 0, exec.GetCallNonce(funded))
	assert.EqualValues(t, 1500, exec.GetBalance(entryPoint).Int64())

	withdraw := &Message{
		From:  signer,
		To:    entryPoint,
		Value: big.NewInt(0),
		Data:  entryPointInput(t, "withdrawTo", signer, big.NewInt(1001)),
	}

	// signed for another chain
	otherChain, err := saccount.SignUserOpHash(SignedCallHash(withdraw, big.NewInt(0).Add(exec.ChainID(), big.NewInt(1)), 1), signerKey)
	require.Nil(t, err)
	receipt, err = exec.ApplySignedCall(ctx, &SignedMessage{Message: *withdraw, Nonce: 1, Signature: otherChain})
	require.Nil(t, err)
	assert.ErrorIs(t, receipt.Err, ErrInvalidCallSignature)

	// a reverted call does not consume the nonce
	receipt, err = exec.ApplySignedCall(ctx, signCall(t, exec, withdraw, 1, signerKey))
	require.Nil(t, err)
	assert.True(t, receipt.Failed())
	assert.ErrorIs(t, receipt.Err, interfaces.ErrInsufficientDeposit)
	assert.EqualValues(t, 1, exec.GetCallNonce(signer))

	withdraw.Data = entryPointInput(t, "withdrawTo", signer, big.NewInt(1000))
	receipt, err = exec.ApplySignedCall(ctx, signCall(t, exec, withdraw, 1, signerKey))
	require.Nil(t, err)
	require.False(t, receipt.Failed())
	assert.EqualValues(t, 2, exec.GetCallNonce(signer))
	assert.EqualValues(t, 500, exec.GetBalance(entryPoint).Int64())
}

func TestSignedCallHash(t *testing.T) {
	msg := &Message{From: signer, To: funded, Value: big.NewInt(1), Data: []byte{1}}
	hash := SignedCallHash(msg, big.NewInt(1), 0)
	assert.NotEqual(t, ethcommon.Hash{}, hash)
	assert.NotEqual(t, hash, SignedCallHash(msg, big.NewInt(1), 1))
	assert.NotEqual(t, hash, SignedCallHash(msg, big.NewInt(2), 0))
	assert.NotEqual(t, hash, SignedCallHash(&Message{From: funded, To: funded, Value: big.NewInt(1), Data: []byte{1}}, big.NewInt(1), 0))
	assert.NotEqual(t, hash, SignedCallHash(&Message{From: signer, To: funded, Value: big.NewInt(1), Data: []byte{2}}, big.NewInt(1), 0))
	assert.Equal(t, SignedCallHash(&Message{From: signer, To: funded}, big.NewInt(1), 0), SignedCallHash(&Message{From: signer, To: funded, Value: big.NewInt(0)}, big.NewInt(1), 0))
}

func TestCallExecutor_StopWaitsForCall(t *testing.T) {
	exec := newTestExecutor(t)

	// the call is taken by the executor and waits for the lock
	exec.lock.Lock()
	req := &callRequest{
		msg: &Message{
			From:  funded,
			To:    exec.Addresses().EntryPoint,
			Value: big.NewInt(1),
			Data:  entryPointInput(t, "depositTo", funded),
		},
		resC: make(chan *Receipt, 1),
	}
	exec.callC <- req
	assert.Eventually(t, func() bool {
		return len(exec.callC) == 0
	}, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		assert.Nil(t, exec.Stop())
		close(stopped)
	}()
	isStopped := func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}
	assert.Never(t, isStopped, 200*time.Millisecond, 10*time.Millisecond)

	exec.lock.Unlock()
	assert.Eventually(t, isStopped, time.Second, 10*time.Millisecond)
	receipt := <-req.resC
	assert.False(t, receipt.Failed())
	assert.EqualValues(t, 2, exec.Version())
}

func TestNew_InvalidAddresses(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.Config.EntryPoint.AccountFactory = rep.Config.EntryPoint.Address
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)

	_, err = New(rep, lg)
	assert.ErrorContains(t, err, "same address")
}
