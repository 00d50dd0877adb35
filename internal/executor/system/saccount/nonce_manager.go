package saccount

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
)

const nonceKey = "nonce"

var _ interfaces.INonceManager = (*NonceManager)(nil)

// NonceManager keeps the sequence number of one smart account in its own storage
type NonceManager struct {
	nonce *common.VMSlot[*big.Int]
}

func NewNonceManager(account ledger.IAccount) *NonceManager {
	return &NonceManager{
		nonce: common.NewVMSlot[*big.Int](account, nonceKey),
	}
}

func (nm *NonceManager) GetNonce() (*big.Int, error) {
	exist, nonce, err := nm.nonce.Get()
	if err != nil {
		return nil, err
	}
	if !exist {
		return big.NewInt(0), nil
	}
	return nonce, nil
}

// validateNonce fails with ErrInvalidNonce unless nonce is the next sequence number
func (nm *NonceManager) validateNonce(nonce *big.Int) error {
	current, err := nm.GetNonce()
	if err != nil {
		return err
	}
	if nonce == nil || current.Cmp(nonce) != 0 {
		return errors.Wrapf(interfaces.ErrInvalidNonce, "expect %s, got %v", current, nonce)
	}
	return nil
}

func (nm *NonceManager) incrementNonce() error {
	nonce, err := nm.GetNonce()
	if err != nil {
		return err
	}
	return nm.nonce.Put(new(big.Int).Add(nonce, big.NewInt(1)))
}
