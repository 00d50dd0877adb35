package ledger

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

type stateChange interface {
	// revert undoes the state changes by this entry
	revert(*StateLedgerImpl)

	// dirtied returns the address modified by this state entry
	dirtied() *ethcommon.Address
}

type stateChanger struct {
	changes []stateChange
	dirties map[ethcommon.Address]int // dirty address and the number of changes
}

func newChanger() *stateChanger {
	return &stateChanger{
		dirties: make(map[ethcommon.Address]int),
	}
}

func (s *stateChanger) append(change stateChange) {
	s.changes = append(s.changes, change)
	if addr := change.dirtied(); addr != nil {
		s.dirties[*addr]++
	}
}

func (s *stateChanger) revert(ledger *StateLedgerImpl, snapshot int) {
	for i := len(s.changes) - 1; i >= snapshot; i-- {
		s.changes[i].revert(ledger)

		if addr := s.changes[i].dirtied(); addr != nil {
			if s.dirties[*addr]--; s.dirties[*addr] == 0 {
				delete(s.dirties, *addr)
			}
		}
	}

	s.changes = s.changes[:snapshot]
}

func (s *stateChanger) length() int {
	return len(s.changes)
}

func (s *stateChanger) reset() {
	s.changes = s.changes[:0]
	s.dirties = make(map[ethcommon.Address]int)
}

type (
	createObjectChange struct {
		account ethcommon.Address
	}

	balanceChange struct {
		account ethcommon.Address
		prev    *big.Int
	}

	storageChange struct {
		account  ethcommon.Address
		key      []byte
		prevalue []byte
	}

	codeChange struct {
		account  ethcommon.Address
		prevcode []byte
	}

	addLogChange struct{}
)

func (ch createObjectChange) revert(l *StateLedgerImpl) {
	delete(l.accounts, ch.account)
}

func (ch createObjectChange) dirtied() *ethcommon.Address {
	return &ch.account
}

func (ch balanceChange) revert(l *StateLedgerImpl) {
	l.GetOrCreateAccount(ch.account).(*SimpleAccount).setBalance(ch.prev)
}

func (ch balanceChange) dirtied() *ethcommon.Address {
	return &ch.account
}

func (ch storageChange) revert(l *StateLedgerImpl) {
	l.GetOrCreateAccount(ch.account).(*SimpleAccount).setState(ch.key, ch.prevalue)
}

func (ch storageChange) dirtied() *ethcommon.Address {
	return &ch.account
}

func (ch codeChange) revert(l *StateLedgerImpl) {
	l.GetOrCreateAccount(ch.account).(*SimpleAccount).setCodeAndHash(ch.prevcode)
}

func (ch codeChange) dirtied() *ethcommon.Address {
	return &ch.account
}

func (ch addLogChange) revert(l *StateLedgerImpl) {
	l.logs = l.logs[:len(l.logs)-1]
}

func (ch addLogChange) dirtied() *ethcommon.Address {
	return nil
}
