package executor

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system"
)

type Executor interface {
	Start() error

	Stop() error

	// ApplyCall runs msg and commits its changes when it succeeds
	ApplyCall(ctx context.Context, msg *Message) (*Receipt, error)

	// ApplySignedCall runs msg like ApplyCall once msg.From is proven to be its signer,
	// a rejected msg fails with ErrInvalidCallNonce or ErrInvalidCallSignature in its receipt
	ApplySignedCall(ctx context.Context, msg *SignedMessage) (*Receipt, error)

	// StaticCall runs msg and always drops its changes
	StaticCall(ctx context.Context, msg *Message) ([]byte, error)

	GetBalance(addr ethcommon.Address) *big.Int

	// GetCallNonce returns the nonce the next signed call of addr must carry
	GetCallNonce(addr ethcommon.Address) uint64

	GetLogs(from, to uint64) ([]*ethtypes.Log, error)

	LogCount() uint64

	Version() uint64

	Addresses() *system.Addresses

	ChainID() *big.Int

	SubscribeLogsEvent(chan<- []*ethtypes.Log) event.Subscription
}

// Message is a call into the native vm
type Message struct {
	From  ethcommon.Address
	To    ethcommon.Address
	Value *big.Int
	Data  []byte
}

// SignedMessage is a Message carrying the personal signature of its sender over
// SignedCallHash
type SignedMessage struct {
	Message
	Nonce     uint64
	Signature []byte
}

const (
	ReceiptSUCCESS = iota
	ReceiptFAILED
)

type Receipt struct {
	Status int

	// state version the call was committed in, the current version when it failed
	Version uint64

	// return data, the revert data when the call failed
	Ret  []byte
	Logs []*ethtypes.Log

	Err error
}

func (r *Receipt) Failed() bool {
	return r.Status == ReceiptFAILED
}

type callRequest struct {
	msg    *Message
	signed *SignedMessage
	static bool
	resC   chan *Receipt
}
