package common

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
)

// native contract code is prefixed with the INVALID opcode so no evm could ever run it
const nativeCodePrefix = 0xfe

var (
	BigIntType, _  = abi.NewType("uint256", "", nil)
	AddressType, _ = abi.NewType("address", "", nil)
	Bytes32Type, _ = abi.NewType("bytes32", "", nil)
)

// VirtualMachine runs native contracts on top of a state ledger
//
//go:generate mockgen -destination mock_common/mock_common.go -package mock_common -source common.go
type VirtualMachine interface {
	// Call runs input against the contract deployed at to, value is transferred first.
	// All changes made by the call are reverted when it fails, the returned bytes are
	// the revert data in that case.
	Call(from, to ethcommon.Address, value *big.Int, input []byte) ([]byte, error)

	// Transfer moves native balance between two accounts
	Transfer(from, to ethcommon.Address, value *big.Int) error

	// Guard returns the reentrancy guard shared by every instance of the contract at addr
	Guard(addr ethcommon.Address) *ReentrancyGuard

	// IsSystemContract judge if addr holds a native contract
	IsSystemContract(addr ethcommon.Address) bool

	ChainID() *big.Int

	BaseFee() *big.Int
}

type VMContext struct {
	StateLedger ledger.StateLedger
	VM          VirtualMachine

	// caller of the current contract
	From ethcommon.Address

	// native value attached to the current call
	Value *big.Int
}

func NewVMContext(stateLedger ledger.StateLedger, vm VirtualMachine, from ethcommon.Address, value *big.Int) *VMContext {
	if value == nil {
		value = big.NewInt(0)
	}
	return &VMContext{
		StateLedger: stateLedger,
		VM:          vm,
		From:        from,
		Value:       value,
	}
}

// SystemContract must be implemented by all system contract
type SystemContract interface {
	SetContext(*VMContext)
}

type SystemContractBase struct {
	Ctx          *VMContext
	Logger       logrus.FieldLogger
	EthAddress   ethcommon.Address
	Abi          abi.ABI
	StateAccount ledger.IAccount
}

func (s *SystemContractBase) SetContext(ctx *VMContext) {
	s.Ctx = ctx
	s.StateAccount = ctx.StateLedger.GetOrCreateAccount(s.EthAddress)
}

// EmitEvent records the packed event as a log of the contract
func (s *SystemContractBase) EmitEvent(packEvent packer.Event) {
	log, err := packEvent.Pack(s.Abi)
	if err != nil {
		panic(err)
	}
	s.Ctx.StateLedger.AddLog(&ethtypes.Log{
		Address: s.EthAddress,
		Topics:  log.Topics,
		Data:    log.Data,
		Removed: log.Removed,
	})
}

func (s *SystemContractBase) Revert(err packer.Error) error {
	return err.Pack(s.Abi)
}

// CrossCallSystemContractContext returns the context used when this contract calls another one directly
func (s *SystemContractBase) CrossCallSystemContractContext() *VMContext {
	return NewVMContext(s.Ctx.StateLedger, s.Ctx.VM, s.EthAddress, big.NewInt(0))
}

// SystemContractStaticConfig is the type erased build config the vm registers
type SystemContractStaticConfig struct {
	Name        string
	Address     ethcommon.Address
	Abi         abi.ABI
	Code        []byte
	Constructor func(systemContractBase SystemContractBase) SystemContract
}

func (cfg *SystemContractStaticConfig) Build(ctx *VMContext, addr ethcommon.Address, logger logrus.FieldLogger) SystemContract {
	contract := cfg.Constructor(SystemContractBase{
		Logger:     logger,
		EthAddress: addr,
		Abi:        cfg.Abi,
	})
	contract.SetContext(ctx)
	return contract
}

type SystemContractBuildConfig[T SystemContract] struct {
	Name        string
	Address     string
	AbiStr      string
	Constructor func(systemContractBase SystemContractBase) T

	once       sync.Once
	abi        abi.ABI
	ethAddress ethcommon.Address
}

func (cfg *SystemContractBuildConfig[T]) init() {
	cfg.once.Do(func() {
		cfg.abi = lo.Must(abi.JSON(strings.NewReader(cfg.AbiStr)))
		if cfg.Address != "" {
			cfg.ethAddress = ethcommon.HexToAddress(cfg.Address)
		}
	})
}

func (cfg *SystemContractBuildConfig[T]) Abi() abi.ABI {
	cfg.init()
	return cfg.abi
}

func (cfg *SystemContractBuildConfig[T]) EthAddress() ethcommon.Address {
	cfg.init()
	return cfg.ethAddress
}

// Code is the marker stored as account code for accounts run by this contract
func (cfg *SystemContractBuildConfig[T]) Code() []byte {
	return NativeContractCode(cfg.Name)
}

// Build builds the contract at its default address
func (cfg *SystemContractBuildConfig[T]) Build(ctx *VMContext) T {
	return cfg.BuildAt(ctx, cfg.EthAddress())
}

// BuildAt builds the contract logic bound to the account at addr
func (cfg *SystemContractBuildConfig[T]) BuildAt(ctx *VMContext, addr ethcommon.Address) T {
	cfg.init()
	contract := cfg.Constructor(SystemContractBase{
		Logger:     loggers.Logger(loggers.SystemContract).WithField("contract", cfg.Name),
		EthAddress: addr,
		Abi:        cfg.abi,
	})
	contract.SetContext(ctx)
	return contract
}

func (cfg *SystemContractBuildConfig[T]) StaticConfig() *SystemContractStaticConfig {
	cfg.init()
	return &SystemContractStaticConfig{
		Name:    cfg.Name,
		Address: cfg.ethAddress,
		Abi:     cfg.abi,
		Code:    cfg.Code(),
		Constructor: func(systemContractBase SystemContractBase) SystemContract {
			return cfg.Constructor(systemContractBase)
		},
	}
}

func NativeContractCode(name string) []byte {
	return append([]byte{nativeCodePrefix}, []byte(name)...)
}

// CalculateDynamicGas returns the intrinsic gas of a call carrying data
func CalculateDynamicGas(data []byte) uint64 {
	gas, _ := core.IntrinsicGas(data, ethtypes.AccessList{}, false, true, true, true)
	return gas
}
