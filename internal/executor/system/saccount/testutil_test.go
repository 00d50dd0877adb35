package saccount

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
)

const flagTargetAbi = `[
	{"type":"function","name":"setFlag","stateMutability":"payable","inputs":[],"outputs":[]},
	{"type":"function","name":"flag","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"fail","stateMutability":"nonpayable","inputs":[{"name":"reason","type":"string"}],"outputs":[]},
	{"type":"function","name":"reenter","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"}],"outputs":[]}
]`

// flagTarget is the call target of the tests, setFlag flips a persisted flag
type flagTarget struct {
	common.SystemContractBase
	flag *common.VMSlot[bool]
}

func (f *flagTarget) SetContext(ctx *common.VMContext) {
	f.SystemContractBase.SetContext(ctx)
	f.flag = common.NewVMSlot[bool](f.StateAccount, "flag")
}

func (f *flagTarget) SetFlag() error {
	return f.flag.Put(true)
}

func (f *flagTarget) Flag() (bool, error) {
	_, v, err := f.flag.Get()
	return v, err
}

// Receive rejects plain value transfers
func (f *flagTarget) Receive() error {
	return common.NewRevertStringError("plain transfer rejected")
}

func (f *flagTarget) Fail(reason string) error {
	return common.NewRevertStringError(reason)
}

// Reenter calls back into execute of account while the account is executing
func (f *flagTarget) Reenter(account ethcommon.Address) error {
	input, err := SmartAccountBuildConfig.Abi().Pack("execute", f.EthAddress, big.NewInt(0), mustFlagInput("setFlag"))
	if err != nil {
		return err
	}
	_, err = f.Ctx.VM.Call(f.EthAddress, account, big.NewInt(0), input)
	return err
}

var flagTargetBuildConfig = &common.SystemContractBuildConfig[*flagTarget]{
	Name:    "flag_target",
	Address: "0x0000000000000000000000000000000000003001",
	AbiStr:  flagTargetAbi,
	Constructor: func(systemContractBase common.SystemContractBase) *flagTarget {
		return &flagTarget{SystemContractBase: systemContractBase}
	},
}

func mustFlagInput(method string, args ...any) []byte {
	input, err := flagTargetBuildConfig.Abi().Pack(method, args...)
	if err != nil {
		panic(err)
	}
	return input
}

var (
	relayer     = ethcommon.HexToAddress("0x4000000000000000000000000000000000000001")
	beneficiary = ethcommon.HexToAddress("0x4000000000000000000000000000000000000002")

	accountFunds = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e18))
)

type testEnv struct {
	t   *testing.T
	nvm *common.TestNVM

	entryPoint ethcommon.Address
	factory    ethcommon.Address
	target     ethcommon.Address
}

func newTestEnv(t *testing.T) *testEnv {
	nvm := common.NewTestNVM(t)
	nvm.VM.Deploy(EntryPointBuildConfig.StaticConfig())
	nvm.VM.Deploy(SmartAccountFactoryBuildConfig.StaticConfig())
	nvm.VM.RegisterCode(SmartAccountBuildConfig.StaticConfig())
	nvm.VM.Deploy(flagTargetBuildConfig.StaticConfig())
	nvm.StateLedger.Finalise()

	return &testEnv{
		t:          t,
		nvm:        nvm,
		entryPoint: EntryPointBuildConfig.EthAddress(),
		factory:    SmartAccountFactoryBuildConfig.EthAddress(),
		target:     flagTargetBuildConfig.EthAddress(),
	}
}

// deployTarget deploys another flag target at addr
func (env *testEnv) deployTarget(addr ethcommon.Address) {
	cfg := flagTargetBuildConfig.StaticConfig()
	cfg.Address = addr
	env.nvm.VM.Deploy(cfg)
}

func (env *testEnv) entryPointContract(from ethcommon.Address) *EntryPoint {
	return EntryPointBuildConfig.Build(env.nvm.Context(from, nil))
}

func (env *testEnv) flagOf(addr ethcommon.Address) bool {
	flag, err := flagTargetBuildConfig.BuildAt(env.nvm.Context(ethcommon.Address{}, nil), addr).Flag()
	require.Nil(env.t, err)
	return flag
}

// newAccount creates a funded smart account trusting the entry point
func (env *testEnv) newAccount(salt int64) (ethcommon.Address, *ecdsa.PrivateKey) {
	key, err := crypto.GenerateKey()
	require.Nil(env.t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	input, err := SmartAccountFactoryBuildConfig.Abi().Pack("createAccount", owner, big.NewInt(salt))
	require.Nil(env.t, err)
	ret, err := env.nvm.VM.Call(env.entryPoint, env.factory, big.NewInt(0), input)
	require.Nil(env.t, err)
	require.Len(env.t, ret, 32)
	account := ethcommon.BytesToAddress(ret[12:])

	env.nvm.Fund(account, accountFunds)
	env.nvm.StateLedger.Finalise()
	return account, key
}

func (env *testEnv) newUserOp(sender ethcommon.Address, nonce int64, callData []byte) *interfaces.UserOperation {
	return &interfaces.UserOperation{
		Sender:               sender,
		Nonce:                big.NewInt(nonce),
		InitCode:             nil,
		CallData:             callData,
		CallGasLimit:         big.NewInt(100000),
		VerificationGasLimit: big.NewInt(100000),
		PreVerificationGas:   big.NewInt(21000),
		MaxFeePerGas:         big.NewInt(10),
		MaxPriorityFeePerGas: big.NewInt(10),
		PaymasterAndData:     nil,
	}
}

func (env *testEnv) sign(userOp *interfaces.UserOperation, key *ecdsa.PrivateKey) {
	hash := interfaces.GetUserOpHash(userOp, env.entryPoint, env.nvm.VM.ChainID())
	sig, err := SignUserOpHash(hash, key)
	require.Nil(env.t, err)
	userOp.Signature = sig
}

func executeInput(t *testing.T, target ethcommon.Address, value *big.Int, callFunc []byte) []byte {
	input, err := SmartAccountBuildConfig.Abi().Pack("execute", target, value, callFunc)
	require.Nil(t, err)
	return input
}

func (env *testEnv) handleOps(ops []interfaces.UserOperation, to ethcommon.Address) error {
	ep := env.entryPointContract(relayer)
	return env.nvm.RunSingleTX(ep, relayer, func() error {
		return ep.HandleOps(ops, to)
	})
}

// logsOf returns the logs of contract with the event topic, recorded after the first skip logs
func (env *testEnv) logsOf(skip int, contract ethcommon.Address, event string) []*ethtypes.Log {
	id := EntryPointBuildConfig.Abi().Events[event].ID
	var res []*ethtypes.Log
	for _, log := range env.nvm.StateLedger.Logs()[skip:] {
		if log.Address == contract && len(log.Topics) > 0 && log.Topics[0] == id {
			res = append(res, log)
		}
	}
	return res
}

func (env *testEnv) logCount() int {
	return len(env.nvm.StateLedger.Logs())
}

// unpackUserOperationEvent returns success, actualGasCost and actualGasUsed of the log
func (env *testEnv) unpackUserOperationEvent(log *ethtypes.Log) (bool, *big.Int, *big.Int) {
	values, err := EntryPointBuildConfig.Abi().Unpack("UserOperationEvent", log.Data)
	require.Nil(env.t, err)
	require.Len(env.t, values, 4)
	return values[1].(bool), values[2].(*big.Int), values[3].(*big.Int)
}

// unpackRevertReason returns the revert reason bytes of the log
func (env *testEnv) unpackRevertReason(log *ethtypes.Log) []byte {
	values, err := EntryPointBuildConfig.Abi().Unpack("UserOperationRevertReason", log.Data)
	require.Nil(env.t, err)
	require.Len(env.t, values, 2)
	return values[1].([]byte)
}
