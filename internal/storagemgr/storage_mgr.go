package storagemgr

import (
	"fmt"
	"sync"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv/leveldb"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

const (
	Ledger = "ledger"
)

var globalStorageMgr = &storageMgr{
	storageBuilderMap: make(map[string]func(p string) (kv.Storage, error)),
	storages:          make(map[string]kv.Storage),
	lock:              new(sync.Mutex),
}

func init() {
	memoryBuilder := func(p string) (kv.Storage, error) {
		return kv.NewMemory(), nil
	}

	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeMemory] = memoryBuilder
	// only for test
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = memoryBuilder
	globalStorageMgr.storageBuilderMap[""] = memoryBuilder
}

type storageMgr struct {
	storageBuilderMap map[string]func(p string) (kv.Storage, error)
	storages          map[string]kv.Storage
	defaultKVType     string
	defaultCacheSize  int
	lock              *sync.Mutex
}

func (m *storageMgr) open(typ string, p string) (kv.Storage, error) {
	builder, ok := m.storageBuilderMap[typ]
	if !ok {
		return nil, fmt.Errorf("unknow kv type %s, expect leveldb or memory", typ)
	}
	return builder(p)
}

func Initialize(defaultKVType string, defaultKvCacheSize int, sync bool) error {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()

	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = func(p string) (kv.Storage, error) {
		return leveldb.New(p, nil, sync)
	}
	_, ok := globalStorageMgr.storageBuilderMap[defaultKVType]
	if !ok {
		return fmt.Errorf("unknow kv type %s, expect leveldb or memory", defaultKVType)
	}
	globalStorageMgr.defaultKVType = defaultKVType
	globalStorageMgr.defaultCacheSize = defaultKvCacheSize
	return nil
}

// Open returns the cached storage at p, opening it with the default kv type on first use.
func Open(p string) (kv.Storage, error) {
	return OpenSpecifyType(globalStorageMgr.defaultKVType, p)
}

func OpenSpecifyType(typ string, p string) (kv.Storage, error) {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	s, ok := globalStorageMgr.storages[p]
	if !ok {
		raw, err := globalStorageMgr.open(typ, p)
		if err != nil {
			return nil, err
		}
		s = NewCachedStorage(raw, globalStorageMgr.defaultCacheSize)
		globalStorageMgr.storages[p] = s
		loggers.Logger(loggers.Storage).WithField("path", p).WithField("type", typ).Info("open kv storage")
	}
	return s, nil
}

// Close closes and forgets the storage opened at p.
func Close(p string) error {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	s, ok := globalStorageMgr.storages[p]
	if !ok {
		return nil
	}
	delete(globalStorageMgr.storages, p)
	return s.Close()
}

func GetLedgerComponentPath(rep *repo.Repo, component string) string {
	return repo.GetStoragePath(rep.RepoRoot, component)
}
