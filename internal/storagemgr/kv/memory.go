package kv

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

var _ Storage = (*memory)(nil)

type memory struct {
	db   map[string][]byte
	lock sync.RWMutex
}

func NewMemory() Storage {
	return &memory{
		db: make(map[string][]byte),
	}
}

func (m *memory) Put(key, value []byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.db[string(key)] = bytes.Clone(value)
}

func (m *memory) Delete(key []byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.db, string(key))
}

func (m *memory) Get(key []byte) []byte {
	m.lock.RLock()
	defer m.lock.RUnlock()
	v, ok := m.db[string(key)]
	if !ok {
		return nil
	}
	return bytes.Clone(v)
}

func (m *memory) Has(key []byte) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.db[string(key)]
	return ok
}

func (m *memory) Prefix(prefix []byte) Iterator {
	m.lock.RLock()
	defer m.lock.RUnlock()
	keys := lo.Filter(lo.Keys(m.db), func(k string, _ int) bool {
		return strings.HasPrefix(k, string(prefix))
	})
	sort.Strings(keys)
	values := lo.Map(keys, func(k string, _ int) []byte {
		return bytes.Clone(m.db[k])
	})
	return &memoryIterator{keys: keys, values: values, index: -1}
}

func (m *memory) NewBatch() Batch {
	return &memoryBatch{db: m}
}

func (m *memory) Close() error {
	return nil
}

type memoryIterator struct {
	keys   []string
	values [][]byte
	index  int
}

func (it *memoryIterator) Next() bool {
	if it.index+1 >= len(it.keys) {
		return false
	}
	it.index++
	return true
}

func (it *memoryIterator) Key() []byte {
	return []byte(it.keys[it.index])
}

func (it *memoryIterator) Value() []byte {
	return it.values[it.index]
}

func (it *memoryIterator) Release() {}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

type memoryBatch struct {
	db   *memory
	ops  []batchOp
	size int
}

func (b *memoryBatch) Put(key, value []byte) {
	b.ops = append(b.ops, batchOp{key: bytes.Clone(key), value: bytes.Clone(value)})
	b.size += len(key) + len(value)
}

func (b *memoryBatch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{key: bytes.Clone(key), delete: true})
	b.size += len(key)
}

func (b *memoryBatch) Commit() {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.db, string(op.key))
			continue
		}
		b.db.db[string(op.key)] = op.value
	}
}

func (b *memoryBatch) Size() int {
	return b.size
}

func (b *memoryBatch) Reset() {
	b.ops = nil
	b.size = 0
}
