package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr/kv"
)

var _ IAccount = (*SimpleAccount)(nil)

type bytesLazyLogger struct {
	bytes []byte
}

func (l *bytesLazyLogger) String() string {
	return hexutil.Encode(l.bytes)
}

// InnerAccount is the persisted part of an account
type InnerAccount struct {
	Balance  *big.Int `json:"balance"`
	CodeHash []byte   `json:"code_hash"`
}

func (o *InnerAccount) String() string {
	return fmt.Sprintf("{balance: %v, code_hash: %x}", o.Balance, o.CodeHash)
}

func (o *InnerAccount) CopyOrNewIfEmpty() *InnerAccount {
	if o == nil {
		return &InnerAccount{Balance: big.NewInt(0)}
	}
	return &InnerAccount{
		Balance:  new(big.Int).Set(o.Balance),
		CodeHash: ethcommon.CopyBytes(o.CodeHash),
	}
}

func (o *InnerAccount) Changed(other *InnerAccount) bool {
	if o == nil {
		return other != nil
	}
	if other == nil {
		return true
	}
	return o.Balance.Cmp(other.Balance) != 0 || !bytes.Equal(o.CodeHash, other.CodeHash)
}

type SimpleAccount struct {
	logger        logrus.FieldLogger
	Addr          ethcommon.Address
	originAccount *InnerAccount
	dirtyAccount  *InnerAccount

	// the committed state loaded from backend
	originState map[string][]byte

	// state modified since the last commit, a nil value means deleted
	dirtyState map[string][]byte

	originCode []byte
	dirtyCode  []byte

	backend kv.Storage
	changer *stateChanger
}

func NewAccount(backend kv.Storage, addr ethcommon.Address, changer *stateChanger, logger logrus.FieldLogger) *SimpleAccount {
	return &SimpleAccount{
		logger:      logger,
		Addr:        addr,
		originState: make(map[string][]byte),
		dirtyState:  make(map[string][]byte),
		backend:     backend,
		changer:     changer,
	}
}

func NewMockAccount(addr ethcommon.Address, logger logrus.FieldLogger) *SimpleAccount {
	return NewAccount(kv.NewMemory(), addr, newChanger(), logger)
}

func (o *SimpleAccount) String() string {
	return fmt.Sprintf("{addr: %s, origin: %v, dirty: %v, code length: %v}", o.Addr, o.originAccount, o.dirtyAccount, len(o.Code()))
}

func (o *SimpleAccount) GetAddress() ethcommon.Address {
	return o.Addr
}

// GetState Get state from local cache, if not found, then get it from DB
func (o *SimpleAccount) GetState(key []byte) (bool, []byte) {
	if value, exist := o.dirtyState[string(key)]; exist {
		o.logger.Debugf("[GetState] get from dirty, addr: %v, key: %v, state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: value})
		return value != nil, value
	}

	if value, exist := o.originState[string(key)]; exist {
		o.logger.Debugf("[GetState] get from origin, addr: %v, key: %v, state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: value})
		return value != nil, value
	}

	start := time.Now()
	val := o.backend.Get(compositeStorageKey(o.Addr, key))
	stateReadDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	o.logger.Debugf("[GetState] get from storage, addr: %v, key: %v, state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: val})

	o.originState[string(key)] = val
	return val != nil, val
}

// SetState Set account state
func (o *SimpleAccount) SetState(key []byte, value []byte) {
	_, prev := o.GetState(key)
	o.changer.append(storageChange{
		account:  o.Addr,
		key:      ethcommon.CopyBytes(key),
		prevalue: ethcommon.CopyBytes(prev),
	})
	if o.dirtyAccount == nil {
		o.dirtyAccount = o.originAccount.CopyOrNewIfEmpty()
	}
	o.logger.Debugf("[SetState] addr: %v, key: %v, before state: %v, after state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: prev}, &bytesLazyLogger{bytes: value})
	o.setState(key, value)
}

func (o *SimpleAccount) setState(key []byte, value []byte) {
	o.dirtyState[string(key)] = value
}

// SetCodeAndHash Set the contract code and hash
func (o *SimpleAccount) SetCodeAndHash(code []byte) {
	o.changer.append(codeChange{
		account:  o.Addr,
		prevcode: ethcommon.CopyBytes(o.Code()),
	})
	o.logger.Debugf("[SetCodeAndHash] addr: %v, code length: %v", o.Addr, len(code))
	o.setCodeAndHash(code)
}

func (o *SimpleAccount) setCodeAndHash(code []byte) {
	if o.dirtyAccount == nil {
		o.dirtyAccount = o.originAccount.CopyOrNewIfEmpty()
	}
	if len(code) == 0 {
		o.dirtyAccount.CodeHash = nil
	} else {
		o.dirtyAccount.CodeHash = crypto.Keccak256(code)
	}
	o.dirtyCode = code
}

// Code return the contract code
func (o *SimpleAccount) Code() []byte {
	if o.dirtyCode != nil {
		return o.dirtyCode
	}
	if o.dirtyAccount != nil && o.dirtyAccount.CodeHash == nil {
		return nil
	}
	if o.originCode != nil {
		return o.originCode
	}

	codeHash := o.CodeHash()
	if len(codeHash) == 0 {
		return nil
	}

	start := time.Now()
	code := o.backend.Get(compositeCodeKey(codeHash))
	codeReadDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	o.originCode = code
	return code
}

func (o *SimpleAccount) CodeHash() []byte {
	if o.dirtyAccount != nil {
		return o.dirtyAccount.CodeHash
	}
	if o.originAccount != nil {
		return o.originAccount.CodeHash
	}
	return nil
}

// GetBalance Get the balance from the account
func (o *SimpleAccount) GetBalance() *big.Int {
	if o.dirtyAccount != nil {
		return o.dirtyAccount.Balance
	}
	if o.originAccount != nil {
		return o.originAccount.Balance
	}
	return new(big.Int).SetInt64(0)
}

// SetBalance Set the balance to the account
func (o *SimpleAccount) SetBalance(balance *big.Int) {
	o.changer.append(balanceChange{
		account: o.Addr,
		prev:    new(big.Int).Set(o.GetBalance()),
	})
	o.logger.Debugf("[SetBalance] addr: %v, before balance: %v, after balance: %v", o.Addr, o.GetBalance(), balance)
	o.setBalance(balance)
}

func (o *SimpleAccount) setBalance(balance *big.Int) {
	if o.dirtyAccount == nil {
		o.dirtyAccount = o.originAccount.CopyOrNewIfEmpty()
	}
	o.dirtyAccount.Balance = new(big.Int).Set(balance)
}

func (o *SimpleAccount) SubBalance(amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	o.logger.Debugf("[SubBalance] addr: %v, sub amount: %v", o.Addr, amount)
	o.SetBalance(new(big.Int).Sub(o.GetBalance(), amount))
}

func (o *SimpleAccount) AddBalance(amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	o.logger.Debugf("[AddBalance] addr: %v, add amount: %v", o.Addr, amount)
	o.SetBalance(new(big.Int).Add(o.GetBalance(), amount))
}

// IsEmpty reports whether the account has neither balance nor code nor state
func (o *SimpleAccount) IsEmpty() bool {
	return o.GetBalance().Sign() == 0 && len(o.CodeHash()) == 0 && o.originAccount == nil && len(o.dirtyState) == 0
}

func (o *SimpleAccount) dirty() bool {
	return o.originAccount.Changed(o.dirtyAccount) || len(o.dirtyState) != 0
}

// flush writes the dirty part of the account into batch and turns it into origin
func (o *SimpleAccount) flush(batch kv.Batch) error {
	if o.dirtyAccount != nil && o.originAccount.Changed(o.dirtyAccount) {
		data, err := json.Marshal(o.dirtyAccount)
		if err != nil {
			return err
		}
		batch.Put(compositeAccountKey(o.Addr), data)
		if o.dirtyCode != nil && len(o.dirtyAccount.CodeHash) != 0 {
			batch.Put(compositeCodeKey(o.dirtyAccount.CodeHash), o.dirtyCode)
		}
		o.originAccount = o.dirtyAccount.CopyOrNewIfEmpty()
	}
	if o.dirtyCode != nil {
		o.originCode = o.dirtyCode
	}

	for key, value := range o.dirtyState {
		if value == nil {
			batch.Delete(compositeStorageKey(o.Addr, []byte(key)))
		} else {
			batch.Put(compositeStorageKey(o.Addr, []byte(key)), value)
		}
		o.originState[key] = value
	}

	o.dirtyAccount = nil
	o.dirtyCode = nil
	o.dirtyState = make(map[string][]byte)
	return nil
}
