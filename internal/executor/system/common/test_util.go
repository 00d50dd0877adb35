package common

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

type TestNVM struct {
	t           testing.TB
	Rep         *repo.Repo
	Ledger      *ledger.Ledger
	StateLedger ledger.StateLedger
	VM          *NativeVM
}

func NewTestNVM(t testing.TB) *TestNVM {
	rep := repo.MockRepo(t)
	lg, err := ledger.NewMemory(rep)
	assert.Nil(t, err)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return &TestNVM{
		t:           t,
		Rep:         rep,
		Ledger:      lg,
		StateLedger: lg.StateLedger,
		VM: NewNativeVM(lg.StateLedger, new(big.Int).SetUint64(rep.Config.EntryPoint.ChainID),
			new(big.Int).SetUint64(rep.Config.EntryPoint.BaseFee), logger),
	}
}

// Context builds a call context as if from had called a contract with value
func (nvm *TestNVM) Context(from ethcommon.Address, value *big.Int) *VMContext {
	return NewVMContext(nvm.StateLedger, nvm.VM, from, value)
}

// RunSingleTX runs executor against contract in its own snapshot, changes are kept only when executor succeeds
func (nvm *TestNVM) RunSingleTX(contract SystemContract, from ethcommon.Address, executor func() error) error {
	snapshot := nvm.StateLedger.Snapshot()
	contract.SetContext(nvm.Context(from, big.NewInt(0)))
	if err := executor(); err != nil {
		nvm.StateLedger.RevertToSnapshot(snapshot)
		return err
	}
	nvm.StateLedger.Finalise()
	return nil
}

// Call runs a read only executor, every change is discarded
func (nvm *TestNVM) Call(contract SystemContract, from ethcommon.Address, executor func()) {
	snapshot := nvm.StateLedger.Snapshot()
	contract.SetContext(nvm.Context(from, big.NewInt(0)))
	executor()
	nvm.StateLedger.RevertToSnapshot(snapshot)
}

// Fund credits addr with amount
func (nvm *TestNVM) Fund(addr ethcommon.Address, amount *big.Int) {
	nvm.StateLedger.AddBalance(addr, amount)
}
