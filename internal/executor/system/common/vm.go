package common

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/packer"
)

const MaxCallDepth = 64

var _ VirtualMachine = (*NativeVM)(nil)

// NativeVM handle abi decoding for parameters and abi encoding for return data
// of the native contracts living in the state ledger. Not safe for concurrent use.
type NativeVM struct {
	logger      logrus.FieldLogger
	stateLedger ledger.StateLedger
	chainID     *big.Int
	baseFee     *big.Int

	// contract address mapping to contract build config
	addr2Contract map[ethcommon.Address]*SystemContractStaticConfig
	// account code mapping to contract build config, used by contracts deployed at runtime
	code2Contract map[string]*SystemContractStaticConfig

	guards map[ethcommon.Address]*ReentrancyGuard
	depth  int
}

func NewNativeVM(stateLedger ledger.StateLedger, chainID, baseFee *big.Int, logger logrus.FieldLogger) *NativeVM {
	if chainID == nil {
		chainID = big.NewInt(0)
	}
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	return &NativeVM{
		logger:        logger,
		stateLedger:   stateLedger,
		chainID:       new(big.Int).Set(chainID),
		baseFee:       new(big.Int).Set(baseFee),
		addr2Contract: make(map[ethcommon.Address]*SystemContractStaticConfig),
		code2Contract: make(map[string]*SystemContractStaticConfig),
		guards:        make(map[ethcommon.Address]*ReentrancyGuard),
	}
}

// Deploy binds cfg to its fixed address and writes the contract code marker if the account has none
func (nvm *NativeVM) Deploy(cfg *SystemContractStaticConfig) {
	if _, ok := nvm.addr2Contract[cfg.Address]; ok {
		panic(fmt.Sprintf("deploy system contract %s at %s repeated", cfg.Name, cfg.Address))
	}
	nvm.addr2Contract[cfg.Address] = cfg
	nvm.RegisterCode(cfg)

	if len(nvm.stateLedger.GetCode(cfg.Address)) == 0 {
		nvm.stateLedger.SetCode(cfg.Address, cfg.Code)
	}
	nvm.logger.WithFields(logrus.Fields{
		"name":    cfg.Name,
		"address": cfg.Address,
	}).Debug("deploy system contract")
}

// RegisterCode makes every account carrying the code of cfg run as cfg
func (nvm *NativeVM) RegisterCode(cfg *SystemContractStaticConfig) {
	nvm.code2Contract[string(cfg.Code)] = cfg
}

func (nvm *NativeVM) StateLedger() ledger.StateLedger {
	return nvm.stateLedger
}

func (nvm *NativeVM) ChainID() *big.Int {
	return new(big.Int).Set(nvm.chainID)
}

func (nvm *NativeVM) BaseFee() *big.Int {
	return new(big.Int).Set(nvm.baseFee)
}

func (nvm *NativeVM) Guard(addr ethcommon.Address) *ReentrancyGuard {
	guard, ok := nvm.guards[addr]
	if !ok {
		guard = NewReentrancyGuard()
		nvm.guards[addr] = guard
	}
	return guard
}

func (nvm *NativeVM) IsSystemContract(addr ethcommon.Address) bool {
	return nvm.resolve(addr) != nil
}

func (nvm *NativeVM) resolve(addr ethcommon.Address) *SystemContractStaticConfig {
	if cfg, ok := nvm.addr2Contract[addr]; ok {
		return cfg
	}
	code := nvm.stateLedger.GetCode(addr)
	if len(code) == 0 || code[0] != nativeCodePrefix {
		return nil
	}
	return nvm.code2Contract[string(code)]
}

func (nvm *NativeVM) Transfer(from, to ethcommon.Address, value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}
	if value.Sign() < 0 {
		return errors.Errorf("negative transfer value %s", value)
	}
	if nvm.stateLedger.GetBalance(from).Cmp(value) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "%s transfer %s to %s", from, value, to)
	}
	nvm.stateLedger.SubBalance(from, value)
	nvm.stateLedger.AddBalance(to, value)
	return nil
}

func (nvm *NativeVM) Call(from, to ethcommon.Address, value *big.Int, input []byte) (ret []byte, err error) {
	if nvm.depth >= MaxCallDepth {
		return packer.RevertData(ErrMaxCallDepth), ErrMaxCallDepth
	}
	nvm.depth++
	snapshot := nvm.stateLedger.Snapshot()
	defer func() {
		nvm.depth--
		if r := recover(); r != nil {
			nvm.logger.Errorf("call %s panic: %v", to, r)
			err = fmt.Errorf("%v", r)
		}
		if err != nil {
			nvm.stateLedger.RevertToSnapshot(snapshot)
			ret = packer.RevertData(err)
		}
	}()

	if err := nvm.Transfer(from, to, value); err != nil {
		return nil, err
	}

	cfg := nvm.resolve(to)
	if cfg == nil {
		if len(nvm.stateLedger.GetCode(to)) != 0 {
			return nil, errors.Wrapf(ErrNotExistSystemContract, "code at %s", to)
		}
		// plain account, value only
		return nil, nil
	}

	contract := cfg.Build(NewVMContext(nvm.stateLedger, nvm, from, value), to, nvm.logger.WithField("contract", cfg.Name))
	ret, err = CallSystemContract(contract, cfg.Abi, value, input)
	nvm.logger.WithFields(logrus.Fields{
		"from":     from,
		"to":       to,
		"contract": cfg.Name,
		"depth":    nvm.depth,
	}).Debugf("call system contract, err: %v", err)
	return ret, err
}

// Receiver is implemented by contracts accepting calls without input
type Receiver interface {
	Receive() error
}

// CallSystemContract decodes input with contractAbi, runs the matching exported method of
// contract and packs the results with the method outputs.
func CallSystemContract(contract SystemContract, contractAbi abi.ABI, value *big.Int, input []byte) ([]byte, error) {
	if len(input) == 0 {
		if receiver, ok := contract.(Receiver); ok {
			return nil, receiver.Receive()
		}
		return nil, nil
	}
	if len(input) < 4 {
		return nil, ErrNotExistMethodName
	}

	method, err := contractAbi.MethodById(input[:4])
	if err != nil {
		return nil, errors.Wrapf(ErrNotExistMethodName, "selector %x", input[:4])
	}
	if value != nil && value.Sign() > 0 && !method.IsPayable() {
		return nil, NewRevertStringError(fmt.Sprintf("method %s is not payable", method.Name))
	}

	// capitalize the first letter of a function
	funcName := method.Name
	if len(funcName) >= 1 {
		funcName = fmt.Sprintf("%s%s", strings.ToUpper(funcName[:1]), funcName[1:])
	}
	fn := reflect.ValueOf(contract).MethodByName(funcName)
	if !fn.IsValid() {
		return nil, errors.Wrapf(ErrNotImplementFuncSystemContract, "method %s", funcName)
	}

	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s args", method.Name)
	}
	fnType := fn.Type()
	if fnType.NumIn() != len(args) {
		return nil, errors.Errorf("method %s expects %d args, got %d", funcName, fnType.NumIn(), len(args))
	}
	inputs := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		inputs = append(inputs, convertArg(arg, fnType.In(i)))
	}

	results := fn.Call(inputs)

	var returnRes []any
	errorType := reflect.TypeOf((*error)(nil)).Elem()
	for i, result := range results {
		if fnType.Out(i) == errorType {
			if !result.IsNil() {
				return nil, result.Interface().(error)
			}
			continue
		}
		returnRes = append(returnRes, result.Interface())
	}

	if len(method.Outputs) == 0 {
		return nil, nil
	}
	return method.Outputs.Pack(returnRes...)
}

// convertArg turns the anonymous structs produced by abi unpacking into the declared param type
func convertArg(arg any, paramType reflect.Type) reflect.Value {
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(paramType) {
		return v
	}
	if paramType.Kind() == reflect.Ptr {
		return reflect.ValueOf(abi.ConvertType(arg, reflect.New(paramType.Elem()).Interface()))
	}
	return reflect.ValueOf(abi.ConvertType(arg, reflect.New(paramType).Interface())).Elem()
}
