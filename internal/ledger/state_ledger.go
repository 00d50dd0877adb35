package ledger

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
)

var _ StateLedger = (*StateLedgerImpl)(nil)

type revision struct {
	id           int
	changerIndex int
}

// StateLedgerImpl keeps every touched account in memory and writes the dirty ones
// back to the kv storage on Commit. Not safe for concurrent use, callers serialise access.
type StateLedgerImpl struct {
	logger  logrus.FieldLogger
	backend kv.Storage

	accounts map[ethcommon.Address]IAccount
	logs     []*ethtypes.Log

	version  uint64
	logCount uint64

	validRevisions []revision
	nextRevisionId int
	changer        *stateChanger

	closeOnce sync.Once
}

func newStateLedger(backend kv.Storage, logger logrus.FieldLogger) (*StateLedgerImpl, error) {
	l := &StateLedgerImpl{
		logger:   logger,
		backend:  backend,
		accounts: make(map[ethcommon.Address]IAccount),
		changer:  newChanger(),
	}
	l.version = bytesToUint64(backend.Get([]byte(versionKey)))
	l.logCount = bytesToUint64(backend.Get([]byte(logCountKey)))
	l.logger.WithFields(logrus.Fields{
		"version":   l.version,
		"log_count": l.logCount,
	}).Debug("load state ledger")
	return l, nil
}

// GetOrCreateAccount get the account, if not exist, create a new account
func (l *StateLedgerImpl) GetOrCreateAccount(addr ethcommon.Address) IAccount {
	start := time.Now()
	defer func() {
		getOrCreateAccountDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	}()

	account := l.GetAccount(addr)
	if account == nil {
		account = NewAccount(l.backend, addr, l.changer, l.logger)
		l.changer.append(createObjectChange{account: addr})
		l.accounts[addr] = account
		l.logger.Debugf("[GetOrCreateAccount] create account, addr: %v", addr)
	}
	return account
}

// GetAccount get account info using account Address, if not found, return nil
func (l *StateLedgerImpl) GetAccount(addr ethcommon.Address) IAccount {
	if value, ok := l.accounts[addr]; ok {
		return value
	}

	start := time.Now()
	data := l.backend.Get(compositeAccountKey(addr))
	accountReadDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	if data == nil {
		return nil
	}

	innerAccount := &InnerAccount{Balance: big.NewInt(0)}
	if err := json.Unmarshal(data, innerAccount); err != nil {
		panic(errors.Wrapf(err, "unmarshal account %s", addr))
	}
	if innerAccount.Balance == nil {
		innerAccount.Balance = big.NewInt(0)
	}

	account := NewAccount(l.backend, addr, l.changer, l.logger)
	account.originAccount = innerAccount
	l.accounts[addr] = account
	l.logger.Debugf("[GetAccount] load account from storage, addr: %v, account: %v", addr, innerAccount)
	return account
}

func (l *StateLedgerImpl) GetBalance(addr ethcommon.Address) *big.Int {
	account := l.GetAccount(addr)
	if account == nil {
		return big.NewInt(0)
	}
	return account.GetBalance()
}

func (l *StateLedgerImpl) SetBalance(addr ethcommon.Address, value *big.Int) {
	l.GetOrCreateAccount(addr).SetBalance(value)
}

func (l *StateLedgerImpl) SubBalance(addr ethcommon.Address, value *big.Int) {
	l.GetOrCreateAccount(addr).SubBalance(value)
}

func (l *StateLedgerImpl) AddBalance(addr ethcommon.Address, value *big.Int) {
	l.GetOrCreateAccount(addr).AddBalance(value)
}

func (l *StateLedgerImpl) GetState(addr ethcommon.Address, key []byte) (bool, []byte) {
	account := l.GetAccount(addr)
	if account == nil {
		return false, nil
	}
	return account.GetState(key)
}

func (l *StateLedgerImpl) SetState(addr ethcommon.Address, key []byte, value []byte) {
	l.GetOrCreateAccount(addr).SetState(key, value)
}

func (l *StateLedgerImpl) SetCode(addr ethcommon.Address, code []byte) {
	l.GetOrCreateAccount(addr).SetCodeAndHash(code)
}

func (l *StateLedgerImpl) GetCode(addr ethcommon.Address) []byte {
	account := l.GetAccount(addr)
	if account == nil {
		return nil
	}
	return account.Code()
}

func (l *StateLedgerImpl) Exist(addr ethcommon.Address) bool {
	return l.GetAccount(addr) != nil
}

func (l *StateLedgerImpl) Empty(addr ethcommon.Address) bool {
	account := l.GetAccount(addr)
	return account == nil || account.IsEmpty()
}

func (l *StateLedgerImpl) AddLog(log *ethtypes.Log) {
	log.Index = uint(l.logCount) + uint(len(l.logs))
	log.BlockNumber = l.version + 1
	if log.Topics == nil {
		log.Topics = []ethcommon.Hash{}
	}
	if log.Data == nil {
		log.Data = []byte{}
	}
	l.changer.append(addLogChange{})
	l.logs = append(l.logs, log)
}

func (l *StateLedgerImpl) Logs() []*ethtypes.Log {
	return l.logs
}

func (l *StateLedgerImpl) LogCount() uint64 {
	return l.logCount
}

func (l *StateLedgerImpl) GetLogs(from, to uint64) ([]*ethtypes.Log, error) {
	if to >= l.logCount {
		if l.logCount == 0 {
			return []*ethtypes.Log{}, nil
		}
		to = l.logCount - 1
	}
	if from > to {
		return []*ethtypes.Log{}, nil
	}

	logs := make([]*ethtypes.Log, 0, to-from+1)
	for i := from; i <= to; i++ {
		data := l.backend.Get(compositeLogKey(i))
		if data == nil {
			return nil, errors.Errorf("log %d not found", i)
		}
		log := &ethtypes.Log{}
		if err := log.UnmarshalJSON(data); err != nil {
			return nil, errors.Wrapf(err, "unmarshal log %d", i)
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// Snapshot returns an identifier for the current revision of the state.
func (l *StateLedgerImpl) Snapshot() int {
	id := l.nextRevisionId
	l.nextRevisionId++
	l.validRevisions = append(l.validRevisions, revision{id: id, changerIndex: l.changer.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (l *StateLedgerImpl) RevertToSnapshot(revid int) {
	idx := sort.Search(len(l.validRevisions), func(i int) bool {
		return l.validRevisions[i].id >= revid
	})
	if idx == len(l.validRevisions) || l.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snap := l.validRevisions[idx].changerIndex

	l.changer.revert(l, snap)
	l.validRevisions = l.validRevisions[:idx]
}

func (l *StateLedgerImpl) Finalise() {
	l.changer.reset()
	l.validRevisions = l.validRevisions[:0]
}

// Commit writes every dirty account and the pending logs in one batch.
func (l *StateLedgerImpl) Commit() (uint64, error) {
	start := time.Now()
	batch := l.backend.NewBatch()

	dirtyAccounts := lo.Filter(lo.Values(l.accounts), func(account IAccount, _ int) bool {
		return account.(*SimpleAccount).dirty()
	})
	for _, account := range dirtyAccounts {
		if err := account.(*SimpleAccount).flush(batch); err != nil {
			return 0, errors.Wrapf(err, "flush account %s", account.GetAddress())
		}
	}

	for _, log := range l.logs {
		data, err := log.MarshalJSON()
		if err != nil {
			return 0, errors.Wrap(err, "marshal log")
		}
		batch.Put(compositeLogKey(uint64(log.Index)), data)
	}
	logCount := l.logCount + uint64(len(l.logs))
	version := l.version + 1
	batch.Put([]byte(logCountKey), uint64ToBytes(logCount))
	batch.Put([]byte(versionKey), uint64ToBytes(version))
	batch.Commit()

	l.logger.WithFields(logrus.Fields{
		"version":        version,
		"dirty_accounts": len(dirtyAccounts),
		"logs":           len(l.logs),
	}).Debug("commit state ledger")

	l.logCount = logCount
	l.version = version
	l.logs = nil
	l.Finalise()

	dirtyAccountsCounter.Add(float64(len(dirtyAccounts)))
	stateLedgerVersionMetric.Set(float64(version))
	flushDirtyWorldStateDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	return version, nil
}

func (l *StateLedgerImpl) Version() uint64 {
	return l.version
}

func (l *StateLedgerImpl) Close() {
	l.closeOnce.Do(func() {
		if err := l.backend.Close(); err != nil {
			l.logger.WithError(err).Warn("close state ledger storage failed")
		}
	})
}
