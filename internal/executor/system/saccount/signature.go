package saccount

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
)

const signatureLength = crypto.SignatureLength

// RecoverSigner recovers the address that signed the personal message form of hash
func RecoverSigner(hash [32]byte, signature []byte) (ethcommon.Address, error) {
	if len(signature) != signatureLength {
		return ethcommon.Address{}, errors.Wrapf(interfaces.ErrInvalidSignatureLength, "got %d bytes", len(signature))
	}

	ethHash := accounts.TextHash(hash[:])
	// ethers js return r|s|v, v only 1 byte
	// golang return rid, v = rid +27
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	recoveredPub, err := crypto.Ecrecover(ethHash, sig)
	if err != nil {
		return ethcommon.Address{}, errors.Wrap(interfaces.ErrInvalidSignature, err.Error())
	}
	pubKey, err := crypto.UnmarshalPubkey(recoveredPub)
	if err != nil {
		return ethcommon.Address{}, errors.Wrap(interfaces.ErrInvalidSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// VerifySignature returns SigValidationSucceeded only when signature recovers to owner
func VerifySignature(owner ethcommon.Address, hash [32]byte, signature []byte) uint {
	signer, err := RecoverSigner(hash, signature)
	if err != nil || signer != owner {
		return interfaces.SigValidationFailed
	}
	return interfaces.SigValidationSucceeded
}

// SignUserOpHash signs hash as a personal message, v is 27 or 28
func SignUserOpHash(hash [32]byte, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}
