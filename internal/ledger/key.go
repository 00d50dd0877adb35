package ledger

import (
	"encoding/binary"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	accountKey    = "acc-"
	storageKey    = "st-"
	codeKey       = "code-"
	logKey        = "log-"
	logCountKey   = "meta-log-count"
	versionKey    = "meta-version"
	uint64KeySize = 8
)

func compositeKey(prefix string, value []byte) []byte {
	key := make([]byte, 0, len(prefix)+len(value))
	key = append(key, prefix...)
	return append(key, value...)
}

func compositeAccountKey(addr ethcommon.Address) []byte {
	return compositeKey(accountKey, addr.Bytes())
}

func compositeStorageKey(addr ethcommon.Address, key []byte) []byte {
	return compositeKey(storageKey, append(addr.Bytes(), key...))
}

func compositeCodeKey(codeHash []byte) []byte {
	return compositeKey(codeKey, codeHash)
}

func compositeLogKey(index uint64) []byte {
	return compositeKey(logKey, uint64ToBytes(index))
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, uint64KeySize)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func bytesToUint64(b []byte) uint64 {
	if len(b) != uint64KeySize {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
