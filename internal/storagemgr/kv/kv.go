package kv

type Storage interface {
	Put(key, value []byte)
	Delete(key []byte)
	Get(key []byte) []byte
	Has(key []byte) bool

	// Prefix iterates all keys starting with prefix in ascending order
	Prefix(prefix []byte) Iterator

	NewBatch() Batch
	Close() error
}

type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Commit()
	Size() int
	Reset()
}

type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}
