package common

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
)

// stored values carry a one byte marker, a deleted value keeps the marker only
const (
	valueDeleted byte = 0
	valuePresent byte = 1
)

func decodeStoredValue[V any](exist bool, data []byte) (bool, V, error) {
	var v V
	if !exist || len(data) == 0 || data[0] == valueDeleted {
		return false, v, nil
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return false, v, err
	}
	return true, v, nil
}

func encodeStoredValue[V any](v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte{valuePresent}, data...), nil
}

// VMMap is a typed mapping kept in the storage of a contract account
type VMMap[K, V any] struct {
	contractAccount ledger.IAccount
	mapName         string
	keyToString     func(key K) string
}

func NewVMMap[K, V any](contractAccount ledger.IAccount, mapName string, keyToString func(key K) string) *VMMap[K, V] {
	return &VMMap[K, V]{
		contractAccount: contractAccount,
		mapName:         mapName,
		keyToString:     keyToString,
	}
}

func (m *VMMap[K, V]) stateKey(key K) []byte {
	return []byte(fmt.Sprintf("%s_%s", m.mapName, m.keyToString(key)))
}

func (m *VMMap[K, V]) Get(k K) (exist bool, v V, err error) {
	return decodeStoredValue[V](m.contractAccount.GetState(m.stateKey(k)))
}

// GetOrDefault returns the stored value or def when the key is absent
func (m *VMMap[K, V]) GetOrDefault(k K, def V) (V, error) {
	exist, v, err := m.Get(k)
	if err != nil {
		return v, err
	}
	if !exist {
		return def, nil
	}
	return v, nil
}

func (m *VMMap[K, V]) MustGet(k K) (v V, err error) {
	exist, v, err := m.Get(k)
	if err != nil {
		return v, err
	}
	if !exist {
		return v, errors.Errorf("contract[%s] map[%s] key[%s] not exist", m.contractAccount.GetAddress(), m.mapName, m.keyToString(k))
	}
	return v, nil
}

func (m *VMMap[K, V]) Has(k K) bool {
	exist, data := m.contractAccount.GetState(m.stateKey(k))
	return exist && len(data) != 0 && data[0] != valueDeleted
}

func (m *VMMap[K, V]) Put(k K, v V) error {
	data, err := encodeStoredValue(v)
	if err != nil {
		return err
	}
	m.contractAccount.SetState(m.stateKey(k), data)
	return nil
}

func (m *VMMap[K, V]) Delete(k K) error {
	m.contractAccount.SetState(m.stateKey(k), []byte{valueDeleted})
	return nil
}

// VMSlot is a single typed value kept in the storage of a contract account
type VMSlot[V any] struct {
	contractAccount ledger.IAccount
	slotName        string
}

func NewVMSlot[V any](contractAccount ledger.IAccount, slotName string) *VMSlot[V] {
	return &VMSlot[V]{
		contractAccount: contractAccount,
		slotName:        slotName,
	}
}

func (s *VMSlot[V]) stateKey() []byte {
	return []byte(s.slotName)
}

func (s *VMSlot[V]) Get() (exist bool, v V, err error) {
	return decodeStoredValue[V](s.contractAccount.GetState(s.stateKey()))
}

func (s *VMSlot[V]) MustGet() (v V, err error) {
	exist, v, err := s.Get()
	if err != nil {
		return v, err
	}
	if !exist {
		return v, errors.Errorf("contract[%s] slot[%s] not exist", s.contractAccount.GetAddress(), s.slotName)
	}
	return v, nil
}

func (s *VMSlot[V]) Has() bool {
	exist, data := s.contractAccount.GetState(s.stateKey())
	return exist && len(data) != 0 && data[0] != valueDeleted
}

func (s *VMSlot[V]) Put(v V) error {
	data, err := encodeStoredValue(v)
	if err != nil {
		return err
	}
	s.contractAccount.SetState(s.stateKey(), data)
	return nil
}

func (s *VMSlot[V]) Delete() error {
	s.contractAccount.SetState(s.stateKey(), []byte{valueDeleted})
	return nil
}
