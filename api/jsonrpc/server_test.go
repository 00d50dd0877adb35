package jsonrpc

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpctypes "github.com/samarabdelhameed/aawallet-test/api/jsonrpc/types"
	"github.com/samarabdelhameed/aawallet-test/internal/executor"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/genesis"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

var (
	fundedKey   = lo.Must(crypto.HexToECDSA("8f2a55949038a9610f50fb23b5883af3b4ecb3c3bb792cbcefbd1542c692be63"))
	funded      = crypto.PubkeyToAddress(fundedKey.PublicKey)
	beneficiary = common.HexToAddress("0x7000000000000000000000000000000000000002")
	target      = common.HexToAddress("0x7000000000000000000000000000000000000003")
)

func startTestService(t *testing.T) (*rpc.Client, *executor.CallExecutor, string) {
	rep := repo.MockRepo(t)
	rep.Config.Port.JsonRpc = 0
	rep.Config.Monitor.Enable = true
	rep.Config.JsonRPC.MaxBatchSize = 2
	rep.Config.Genesis.Accounts = []repo.GenesisAccount{
		{Address: funded.String(), Balance: "1000000000000000000"},
	}
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)
	exec, err := executor.New(rep, lg)
	require.Nil(t, err)
	require.Nil(t, genesis.Initialize(&rep.Config.Genesis, lg))
	require.Nil(t, exec.Start())

	cbs, err := NewChainBrokerService(exec, rep)
	require.Nil(t, err)
	require.Nil(t, cbs.Start())
	url := fmt.Sprintf("http://%s", cbs.Addr().String())
	client, err := rpc.Dial(url)
	require.Nil(t, err)

	t.Cleanup(func() {
		client.Close()
		assert.Nil(t, cbs.Stop())
		assert.Nil(t, exec.Stop())
	})
	return client, exec, url
}

func executeInput(t *testing.T, dest common.Address) []byte {
	input, err := saccount.SmartAccountBuildConfig.Abi().Pack("execute", dest, big.NewInt(0), []byte{})
	require.Nil(t, err)
	return input
}

// signCall signs a call of the entry point made by from for its next call nonce
func signCall(t *testing.T, client *rpc.Client, exec *executor.CallExecutor, key *ecdsa.PrivateKey, from common.Address, value *big.Int, method string, args ...any) (hexutil.Uint64, hexutil.Bytes) {
	var nonce hexutil.Uint64
	require.Nil(t, client.CallContext(context.Background(), &nonce, "aa_getCallNonce", from))
	input, err := saccount.EntryPointBuildConfig.Abi().Pack(method, args...)
	require.Nil(t, err)
	hash := executor.SignedCallHash(&executor.Message{
		From:  from,
		To:    exec.Addresses().EntryPoint,
		Value: value,
		Data:  input,
	}, exec.ChainID(), uint64(nonce))
	sig, err := saccount.SignUserOpHash(hash, key)
	require.Nil(t, err)
	return nonce, sig
}

func newUserOp(sender common.Address, nonce int64, callData []byte) *interfaces.UserOperation {
	return &interfaces.UserOperation{
		Sender:               sender,
		Nonce:                big.NewInt(nonce),
		CallData:             callData,
		CallGasLimit:         big.NewInt(100000),
		VerificationGasLimit: big.NewInt(100000),
		PreVerificationGas:   big.NewInt(21000),
		MaxFeePerGas:         big.NewInt(10),
		MaxPriorityFeePerGas: big.NewInt(10),
	}
}

func TestChainBrokerService_HandleOps(t *testing.T) {
	client, exec, _ := startTestService(t)
	ctx := context.Background()

	var chainID hexutil.Big
	require.Nil(t, client.CallContext(ctx, &chainID, "aa_chainId"))
	assert.EqualValues(t, repo.DefaultChainID, chainID.ToInt().Int64())

	var entryPoints []common.Address
	require.Nil(t, client.CallContext(ctx, &entryPoints, "aa_supportedEntryPoints"))
	assert.Equal(t, []common.Address{exec.Addresses().EntryPoint}, entryPoints)

	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	var predicted, account common.Address
	require.Nil(t, client.CallContext(ctx, &predicted, "aa_getAccountAddress", owner, (*hexutil.Big)(big.NewInt(7))))
	require.Nil(t, client.CallContext(ctx, &account, "aa_createAccount", owner, (*hexutil.Big)(big.NewInt(7))))
	assert.Equal(t, predicted, account)

	var deposit rpctypes.CallResult
	nonce, sig := signCall(t, client, exec, fundedKey, funded, big.NewInt(1e16), "depositTo", account)
	require.Nil(t, client.CallContext(ctx, &deposit, "aa_depositTo", funded, account, (*hexutil.Big)(big.NewInt(1e16)), nonce, sig))
	require.Len(t, deposit.Logs, 1)

	var depositInfo rpctypes.DepositInfo
	require.Nil(t, client.CallContext(ctx, &depositInfo, "aa_getDepositInfo", account))
	assert.EqualValues(t, int64(1e16), depositInfo.Deposit.ToInt().Int64())
	assert.False(t, depositInfo.Staked)

	userOp := newUserOp(account, 0, executeInput(t, target))
	var hash common.Hash
	require.Nil(t, client.CallContext(ctx, &hash, "aa_getUserOpHash", rpctypes.NewUserOperation(userOp)))
	assert.Equal(t, interfaces.GetUserOpHash(userOp, exec.Addresses().EntryPoint, exec.ChainID()), hash)
	userOp.Signature, err = saccount.SignUserOpHash(hash, key)
	require.Nil(t, err)

	var validation rpctypes.ValidationResult
	require.Nil(t, client.CallContext(ctx, &validation, "aa_simulateValidation", rpctypes.NewUserOperation(userOp)))
	assert.False(t, validation.ReturnInfo.SigFailed)
	assert.EqualValues(t, 2210000, validation.ReturnInfo.Prefund.ToInt().Int64())

	badOp := newUserOp(account, 1, executeInput(t, target))
	badOp.Signature = []byte{0xde, 0xad, 0xbe, 0xef}

	var result rpctypes.HandleOpsResult
	require.Nil(t, client.CallContext(ctx, &result, "aa_handleOps",
		[]*rpctypes.UserOperation{rpctypes.NewUserOperation(userOp), rpctypes.NewUserOperation(badOp)}, beneficiary))
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].Executed)
	assert.True(t, result.Results[0].Success)
	assert.Equal(t, hash, result.Results[0].UserOpHash)
	assert.Equal(t, account, result.Results[0].Sender)
	assert.False(t, result.Results[1].Executed)
	assert.Equal(t, "AA24 signature error", result.Results[1].RevertReason)

	cost := result.Results[0].ActualGasCost.ToInt()
	var balance hexutil.Big
	require.Nil(t, client.CallContext(ctx, &balance, "aa_getBalance", beneficiary))
	assert.Zero(t, cost.Cmp(balance.ToInt()))

	var opNonce hexutil.Big
	require.Nil(t, client.CallContext(ctx, &opNonce, "aa_getNonce", account))
	assert.EqualValues(t, 1, opNonce.ToInt().Int64())

	var logCount hexutil.Uint64
	require.Nil(t, client.CallContext(ctx, &logCount, "aa_logCount"))
	assert.EqualValues(t, exec.LogCount(), logCount)
	var logs []map[string]any
	require.Nil(t, client.CallContext(ctx, &logs, "aa_getLogs", hexutil.Uint64(0), hexutil.Uint64(logCount-1)))
	assert.Len(t, logs, int(logCount))
}

func TestChainBrokerService_Errors(t *testing.T) {
	client, exec, url := startTestService(t)
	ctx := context.Background()

	// more than the deposit
	var res rpctypes.CallResult
	nonce, sig := signCall(t, client, exec, fundedKey, funded, big.NewInt(0), "withdrawTo", funded, big.NewInt(1))
	err := client.CallContext(ctx, &res, "aa_withdrawTo", funded, funded, (*hexutil.Big)(big.NewInt(1)), nonce, sig)
	require.Error(t, err)
	var rpcErr rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 3, rpcErr.ErrorCode())
	var dataErr rpc.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.NotEmpty(t, dataErr.ErrorData())

	// nonce mismatch is reported as FailedOp
	var validation rpctypes.ValidationResult
	err = client.CallContext(ctx, &validation, "aa_simulateValidation", rpctypes.NewUserOperation(newUserOp(funded, 5, nil)))
	assert.Error(t, err)

	// required fields
	err = client.CallContext(ctx, &validation, "aa_simulateValidation", map[string]any{"sender": funded})
	assert.ErrorContains(t, err, "invalid user operation")

	var result rpctypes.HandleOpsResult
	err = client.CallContext(ctx, &result, "aa_handleOps", []*rpctypes.UserOperation{}, funded)
	assert.ErrorContains(t, err, "no user operation")
	op := rpctypes.NewUserOperation(newUserOp(funded, 0, nil))
	err = client.CallContext(ctx, &result, "aa_handleOps", []*rpctypes.UserOperation{op, op, op}, funded)
	assert.ErrorContains(t, err, "exceeds the limit")

	// the zero beneficiary fails the whole batch
	err = client.CallContext(ctx, &result, "aa_handleOps", []*rpctypes.UserOperation{op}, common.Address{})
	assert.ErrorContains(t, err, "AA90")

	var logs []map[string]any
	err = client.CallContext(ctx, &logs, "aa_getLogs", hexutil.Uint64(2), hexutil.Uint64(1))
	assert.ErrorContains(t, err, "invalid log range")
	assert.EqualValues(t, 0, exec.LogCount())

	var callNonce hexutil.Uint64
	require.Nil(t, client.CallContext(ctx, &callNonce, "aa_getCallNonce", funded))
	assert.EqualValues(t, 0, callNonce)

	resp, err := http.Get(url + "/health")
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(url + "/metrics")
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestChainBrokerService_SignedCalls(t *testing.T) {
	client, exec, _ := startTestService(t)
	ctx := context.Background()

	var res rpctypes.CallResult
	nonce, sig := signCall(t, client, exec, fundedKey, funded, big.NewInt(1e16), "depositTo", funded)
	require.Nil(t, client.CallContext(ctx, &res, "aa_depositTo", funded, funded, (*hexutil.Big)(big.NewInt(1e16)), nonce, sig))

	// the same signature can not be used twice
	err := client.CallContext(ctx, &res, "aa_depositTo", funded, funded, (*hexutil.Big)(big.NewInt(1e16)), nonce, sig)
	assert.ErrorContains(t, err, "invalid call nonce")

	attackerKey, err := crypto.GenerateKey()
	require.Nil(t, err)
	attacker := crypto.PubkeyToAddress(attackerKey.PublicKey)

	// withdraw the deposit of funded with a signature of attacker
	nonce, sig = signCall(t, client, exec, attackerKey, funded, big.NewInt(0), "withdrawTo", attacker, big.NewInt(1e16))
	err = client.CallContext(ctx, &res, "aa_withdrawTo", funded, attacker, (*hexutil.Big)(big.NewInt(1e16)), nonce, sig)
	assert.ErrorContains(t, err, "invalid call signature")
	err = client.CallContext(ctx, &res, "aa_withdrawTo", funded, attacker, (*hexutil.Big)(big.NewInt(1e16)), hexutil.Uint64(1), hexutil.Bytes{})
	assert.ErrorContains(t, err, "invalid call signature")

	// move the native balance of funded into the deposit of attacker
	nonce, sig = signCall(t, client, exec, attackerKey, funded, big.NewInt(1e16), "depositTo", attacker)
	err = client.CallContext(ctx, &res, "aa_depositTo", funded, attacker, (*hexutil.Big)(big.NewInt(1e16)), nonce, sig)
	assert.ErrorContains(t, err, "invalid call signature")

	var deposit hexutil.Big
	require.Nil(t, client.CallContext(ctx, &deposit, "aa_balanceOf", funded))
	assert.EqualValues(t, int64(1e16), deposit.ToInt().Int64())
	require.Nil(t, client.CallContext(ctx, &deposit, "aa_balanceOf", attacker))
	assert.Zero(t, deposit.ToInt().Sign())
	assert.Zero(t, exec.GetBalance(attacker).Sign())

	// the owner withdraws to attacker
	nonce, sig = signCall(t, client, exec, fundedKey, funded, big.NewInt(0), "withdrawTo", attacker, big.NewInt(1e16))
	assert.EqualValues(t, 1, nonce)
	require.Nil(t, client.CallContext(ctx, &res, "aa_withdrawTo", funded, attacker, (*hexutil.Big)(big.NewInt(1e16)), nonce, sig))
	assert.EqualValues(t, int64(1e16), exec.GetBalance(attacker).Int64())
	var callNonce hexutil.Uint64
	require.Nil(t, client.CallContext(ctx, &callNonce, "aa_getCallNonce", funded))
	assert.EqualValues(t, 2, callNonce)
}
