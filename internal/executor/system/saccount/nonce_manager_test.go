package saccount

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
)

func newTestNonceManager() *NonceManager {
	account := ledger.NewMockAccount(ethcommon.HexToAddress("0x82C6D3ed4cD33d8EC1E51d0B5Cc1d822Eaa0c3dC"), logrus.New())
	return NewNonceManager(account)
}

func TestNonceManager_GetNonce(t *testing.T) {
	nm := newTestNonceManager()

	nonce, err := nm.GetNonce()
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), nonce.Uint64())
}

func TestNonceManager_incrementNonce(t *testing.T) {
	nm := newTestNonceManager()

	for i := uint64(1); i <= 3; i++ {
		assert.Nil(t, nm.incrementNonce())
		nonce, err := nm.GetNonce()
		assert.Nil(t, err)
		assert.Equal(t, i, nonce.Uint64())
	}
}

func TestNonceManager_validateNonce(t *testing.T) {
	nm := newTestNonceManager()

	assert.Nil(t, nm.validateNonce(big.NewInt(0)))
	assert.ErrorIs(t, nm.validateNonce(big.NewInt(1)), interfaces.ErrInvalidNonce)
	assert.ErrorIs(t, nm.validateNonce(nil), interfaces.ErrInvalidNonce)

	// validation alone never consumes the nonce
	nonce, err := nm.GetNonce()
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), nonce.Uint64())
}
