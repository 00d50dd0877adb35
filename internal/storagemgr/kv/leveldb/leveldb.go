package leveldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
)

var _ kv.Storage = (*ldb)(nil)

type ldb struct {
	db           *leveldb.DB
	writeOptions *opt.WriteOptions
}

// New opens (or creates) a leveldb database at path. Read and write failures of an
// opened database are unrecoverable for the ledger and panic.
func New(path string, o *opt.Options, sync bool) (kv.Storage, error) {
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}

	return &ldb{
		db:           db,
		writeOptions: &opt.WriteOptions{Sync: sync},
	}, nil
}

func (l *ldb) Put(key, value []byte) {
	if err := l.db.Put(key, value, l.writeOptions); err != nil {
		panic(err)
	}
}

func (l *ldb) Delete(key []byte) {
	if err := l.db.Delete(key, l.writeOptions); err != nil {
		panic(err)
	}
}

func (l *ldb) Get(key []byte) []byte {
	val, err := l.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil
		}
		panic(err)
	}
	return val
}

func (l *ldb) Has(key []byte) bool {
	has, err := l.db.Has(key, nil)
	if err != nil {
		panic(err)
	}
	return has
}

func (l *ldb) Prefix(prefix []byte) kv.Iterator {
	return &iterator{it: l.db.NewIterator(util.BytesPrefix(prefix), nil)}
}

func (l *ldb) NewBatch() kv.Batch {
	return &batch{db: l.db, batch: &leveldb.Batch{}, writeOptions: l.writeOptions}
}

func (l *ldb) Close() error {
	return l.db.Close()
}

type iterator struct {
	it interface {
		Next() bool
		Key() []byte
		Value() []byte
		Release()
	}
}

func (i *iterator) Next() bool {
	return i.it.Next()
}

// Key and Value copy, the underlying buffers are reused by Next
func (i *iterator) Key() []byte {
	return append([]byte{}, i.it.Key()...)
}

func (i *iterator) Value() []byte {
	return append([]byte{}, i.it.Value()...)
}

func (i *iterator) Release() {
	i.it.Release()
}

type batch struct {
	db           *leveldb.DB
	batch        *leveldb.Batch
	writeOptions *opt.WriteOptions
}

func (b *batch) Put(key, value []byte) {
	b.batch.Put(key, value)
}

func (b *batch) Delete(key []byte) {
	b.batch.Delete(key)
}

func (b *batch) Commit() {
	if err := b.db.Write(b.batch, b.writeOptions); err != nil {
		panic(err)
	}
}

func (b *batch) Size() int {
	return len(b.batch.Dump())
}

func (b *batch) Reset() {
	b.batch.Reset()
}
