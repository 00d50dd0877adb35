package interfaces

import (
	"math/big"
)

type INonceManager interface {
	// GetNonce return the next nonce of the account.
	// Nonce values are sequenced, starting with zero and incremented by one on each accepted userop.
	GetNonce() (nonce *big.Int, err error)
}
