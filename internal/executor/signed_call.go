package executor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
)

var (
	ErrInvalidCallNonce     = errors.New("invalid call nonce")
	ErrInvalidCallSignature = errors.New("invalid call signature")
)

// stored in the account of the signer
var callNonceKey = []byte("call_nonce")

var signedCallArgs = abi.Arguments{
	{Name: "to", Type: common.AddressType},
	{Name: "chainId", Type: common.BigIntType},
	{Name: "from", Type: common.AddressType},
	{Name: "value", Type: common.BigIntType},
	{Name: "data", Type: common.Bytes32Type},
	{Name: "nonce", Type: common.BigIntType},
}

// SignedCallHash returns the hash the sender of msg signs as a personal message,
// the chain id and the sender call nonce keep a signature from being replayed
func SignedCallHash(msg *Message, chainID *big.Int, nonce uint64) ethcommon.Hash {
	value := msg.Value
	if value == nil {
		value = big.NewInt(0)
	}
	if chainID == nil {
		chainID = big.NewInt(0)
	}
	packed, err := signedCallArgs.Pack(
		msg.To,
		chainID,
		msg.From,
		value,
		crypto.Keccak256Hash(msg.Data),
		new(big.Int).SetUint64(nonce),
	)
	if err != nil {
		// only negative or wider than 256 bits values fail
		return ethcommon.Hash{}
	}
	return crypto.Keccak256Hash(packed)
}

func (exec *CallExecutor) getCallNonce(addr ethcommon.Address) uint64 {
	exist, value := exec.ledger.StateLedger.GetState(addr, callNonceKey)
	if !exist {
		return 0
	}
	return new(big.Int).SetBytes(value).Uint64()
}

func (exec *CallExecutor) setCallNonce(addr ethcommon.Address, nonce uint64) {
	exec.ledger.StateLedger.SetState(addr, callNonceKey, new(big.Int).SetUint64(nonce).Bytes())
}

// verifySignedCall fails unless msg carries the next call nonce of its sender and is signed by it
func (exec *CallExecutor) verifySignedCall(msg *SignedMessage) error {
	if current := exec.getCallNonce(msg.From); msg.Nonce != current {
		return errors.Wrapf(ErrInvalidCallNonce, "expect %d, got %d", current, msg.Nonce)
	}
	if msg.Value != nil && msg.Value.Sign() < 0 {
		return errors.Wrap(ErrInvalidCallSignature, "negative value")
	}
	signer, err := saccount.RecoverSigner(SignedCallHash(&msg.Message, exec.nvm.ChainID(), msg.Nonce), msg.Signature)
	if err != nil {
		return errors.Wrap(ErrInvalidCallSignature, err.Error())
	}
	if signer != msg.From {
		return errors.Wrapf(ErrInvalidCallSignature, "signed by %s", signer)
	}
	return nil
}
