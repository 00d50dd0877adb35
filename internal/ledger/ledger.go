package ledger

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr"
	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

// StateLedger manipulates the world state of accounts and the logs emitted while changing it.
type StateLedger interface {
	StateAccessor

	// AddLog records a log, it is dropped by RevertToSnapshot like any other change
	AddLog(log *ethtypes.Log)

	// Logs returns the logs recorded since the last commit
	Logs() []*ethtypes.Log

	// GetLogs returns committed logs whose index is in [from, to]
	GetLogs(from, to uint64) ([]*ethtypes.Log, error)

	// LogCount returns the number of committed logs
	LogCount() uint64

	// Finalise drops the journal, changes before this call can no longer be reverted
	Finalise()

	// Commit flushes all dirty accounts and pending logs into storage
	Commit() (uint64, error)

	// Version returns the number of commits
	Version() uint64

	// Close release resource
	Close()
}

// StateAccessor manipulates the state data
type StateAccessor interface {
	GetOrCreateAccount(ethcommon.Address) IAccount

	GetAccount(ethcommon.Address) IAccount

	GetBalance(ethcommon.Address) *big.Int

	SetBalance(ethcommon.Address, *big.Int)

	SubBalance(ethcommon.Address, *big.Int)

	AddBalance(ethcommon.Address, *big.Int)

	GetState(ethcommon.Address, []byte) (bool, []byte)

	SetState(ethcommon.Address, []byte, []byte)

	SetCode(ethcommon.Address, []byte)

	GetCode(ethcommon.Address) []byte

	// Exist reports whether the account is present in memory or storage
	Exist(ethcommon.Address) bool

	// Empty reports whether the account has no balance and no code
	Empty(ethcommon.Address) bool

	RevertToSnapshot(int)

	Snapshot() int
}

type IAccount interface {
	fmt.Stringer

	GetAddress() ethcommon.Address

	GetState(key []byte) (bool, []byte)

	SetState(key []byte, value []byte)

	SetCodeAndHash(code []byte)

	Code() []byte

	CodeHash() []byte

	GetBalance() *big.Int

	SetBalance(balance *big.Int)

	SubBalance(amount *big.Int)

	AddBalance(amount *big.Int)

	IsEmpty() bool
}

type Ledger struct {
	StateLedger StateLedger
}

func NewLedgerWithStores(rep *repo.Repo, store kv.Storage) (*Ledger, error) {
	stateLedger, err := newStateLedger(store, loggers.Logger(loggers.Ledger))
	if err != nil {
		return nil, errors.Wrap(err, "init state ledger failed")
	}
	stateLedgerVersionMetric.Set(float64(stateLedger.Version()))
	return &Ledger{
		StateLedger: stateLedger,
	}, nil
}

func NewMemory(rep *repo.Repo) (*Ledger, error) {
	return NewLedgerWithStores(rep, kv.NewMemory())
}

// NewLedger opens the ledger storage configured in the repo.
func NewLedger(rep *repo.Repo) (*Ledger, error) {
	store, err := storagemgr.Open(storagemgr.GetLedgerComponentPath(rep, storagemgr.Ledger))
	if err != nil {
		return nil, errors.Wrap(err, "open ledger storage failed")
	}
	return NewLedgerWithStores(rep, store)
}

func (l *Ledger) Close() {
	l.StateLedger.Close()
}
