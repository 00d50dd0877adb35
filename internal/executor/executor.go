package executor

import (
	"context"
	"math/big"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

const (
	callChanNumber = 1024
)

var ErrStopped = errors.New("executor stopped")

var _ Executor = (*CallExecutor)(nil)

// CallExecutor executes calls one by one against the native vm, every successful
// call is committed into the ledger as a new state version
type CallExecutor struct {
	ledger   *ledger.Ledger
	logger   logrus.FieldLogger
	callC    chan *callRequest
	logsFeed event.Feed
	ctx      context.Context
	cancel   context.CancelFunc

	nvm   *common.NativeVM
	addrs *system.Addresses
	lock  *sync.Mutex
	wg    sync.WaitGroup
}

// New creates executor instance
func New(rep *repo.Repo, ledger *ledger.Ledger) (*CallExecutor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	nvm, addrs, err := system.New(rep, ledger.StateLedger)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "init native vm failed")
	}
	ledger.StateLedger.Finalise()

	return &CallExecutor{
		ledger: ledger,
		logger: loggers.Logger(loggers.Executor),
		callC:  make(chan *callRequest, callChanNumber),
		ctx:    ctx,
		cancel: cancel,
		nvm:    nvm,
		addrs:  addrs,
		lock:   &sync.Mutex{},
	}, nil
}

// Start starts executor
func (exec *CallExecutor) Start() error {
	exec.wg.Add(1)
	go func() {
		defer exec.wg.Done()
		exec.listenCallEvent()
	}()

	exec.logger.WithFields(logrus.Fields{
		"version":     exec.Version(),
		"entry_point": exec.addrs.EntryPoint,
	}).Info("CallExecutor started")

	return nil
}

// Stop stops executor, it returns once the call in flight is committed
func (exec *CallExecutor) Stop() error {
	exec.cancel()
	exec.wg.Wait()

	exec.logger.Info("CallExecutor stopped")

	return nil
}

func (exec *CallExecutor) ApplyCall(ctx context.Context, msg *Message) (*Receipt, error) {
	return exec.submit(ctx, &callRequest{msg: msg})
}

func (exec *CallExecutor) ApplySignedCall(ctx context.Context, msg *SignedMessage) (*Receipt, error) {
	return exec.submit(ctx, &callRequest{msg: &msg.Message, signed: msg})
}

func (exec *CallExecutor) StaticCall(ctx context.Context, msg *Message) ([]byte, error) {
	receipt, err := exec.submit(ctx, &callRequest{msg: msg, static: true})
	if err != nil {
		return nil, err
	}
	return receipt.Ret, receipt.Err
}

func (exec *CallExecutor) submit(ctx context.Context, req *callRequest) (*Receipt, error) {
	req.resC = make(chan *Receipt, 1)
	select {
	case <-exec.ctx.Done():
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	case exec.callC <- req:
		pendingCallsGauge.Inc()
	}

	select {
	case <-exec.ctx.Done():
		return nil, ErrStopped
	case <-ctx.Done():
		// the call still runs, only the caller gives up waiting
		return nil, ctx.Err()
	case receipt := <-req.resC:
		return receipt, nil
	}
}

func (exec *CallExecutor) GetBalance(addr ethcommon.Address) *big.Int {
	exec.lock.Lock()
	defer exec.lock.Unlock()
	return exec.ledger.StateLedger.GetBalance(addr)
}

func (exec *CallExecutor) GetCallNonce(addr ethcommon.Address) uint64 {
	exec.lock.Lock()
	defer exec.lock.Unlock()
	return exec.getCallNonce(addr)
}

func (exec *CallExecutor) GetLogs(from, to uint64) ([]*ethtypes.Log, error) {
	exec.lock.Lock()
	defer exec.lock.Unlock()
	return exec.ledger.StateLedger.GetLogs(from, to)
}

func (exec *CallExecutor) LogCount() uint64 {
	exec.lock.Lock()
	defer exec.lock.Unlock()
	return exec.ledger.StateLedger.LogCount()
}

func (exec *CallExecutor) Version() uint64 {
	exec.lock.Lock()
	defer exec.lock.Unlock()
	return exec.ledger.StateLedger.Version()
}

func (exec *CallExecutor) Addresses() *system.Addresses {
	return exec.addrs
}

func (exec *CallExecutor) ChainID() *big.Int {
	return exec.nvm.ChainID()
}

func (exec *CallExecutor) SubscribeLogsEvent(ch chan<- []*ethtypes.Log) event.Subscription {
	return exec.logsFeed.Subscribe(ch)
}

func (exec *CallExecutor) listenCallEvent() {
	for {
		select {
		case <-exec.ctx.Done():
			return
		case req := <-exec.callC:
			pendingCallsGauge.Dec()
			if req.static {
				req.resC <- exec.processStaticCall(req.msg)
			} else {
				receipt := exec.processApplyCall(req)
				req.resC <- receipt
				exec.postLogsEvent(receipt.Logs)
			}
		}
	}
}

func (exec *CallExecutor) processApplyCall(req *callRequest) *Receipt {
	current := time.Now()
	exec.lock.Lock()
	defer exec.lock.Unlock()

	msg := req.msg
	stateLedger := exec.ledger.StateLedger
	receipt := &Receipt{}
	if req.signed != nil {
		if err := exec.verifySignedCall(req.signed); err != nil {
			exec.logger.WithFields(logrus.Fields{
				"from":  msg.From,
				"to":    msg.To,
				"nonce": req.signed.Nonce,
			}).Warnf("reject signed call: %s", err.Error())
			applyCallCounter.WithLabelValues("rejected").Inc()
			receipt.Status = ReceiptFAILED
			receipt.Version = stateLedger.Version()
			receipt.Err = err
			return receipt
		}
	}

	ret, err := exec.nvm.Call(msg.From, msg.To, msg.Value, msg.Data)
	if err == nil && req.signed != nil {
		// the nonce is only consumed by a call that is committed
		exec.setCallNonce(msg.From, req.signed.Nonce+1)
	}
	stateLedger.Finalise()
	if err != nil {
		exec.logger.WithFields(logrus.Fields{
			"from": msg.From,
			"to":   msg.To,
		}).Warnf("apply call failed: %s", err.Error())
		applyCallCounter.WithLabelValues("failed").Inc()
		receipt.Status = ReceiptFAILED
		receipt.Version = stateLedger.Version()
		receipt.Ret = ret
		receipt.Err = err
		return receipt
	}

	logs := append([]*ethtypes.Log{}, stateLedger.Logs()...)
	version, err := stateLedger.Commit()
	if err != nil {
		// the ledger can not move on from a half written state
		panic(errors.Wrap(err, "commit state ledger failed"))
	}
	receipt.Status = ReceiptSUCCESS
	receipt.Version = version
	receipt.Ret = ret
	receipt.Logs = logs

	applyCallCounter.WithLabelValues("success").Inc()
	applyCallDuration.Observe(float64(time.Since(current)) / float64(time.Second))
	exec.logger.WithFields(logrus.Fields{
		"from":    msg.From,
		"to":      msg.To,
		"version": version,
		"logs":    len(logs),
		"elapse":  time.Since(current),
	}).Debug("Applied call")
	return receipt
}

func (exec *CallExecutor) processStaticCall(msg *Message) *Receipt {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	stateLedger := exec.ledger.StateLedger
	snapshot := stateLedger.Snapshot()
	ret, err := exec.nvm.Call(msg.From, msg.To, msg.Value, msg.Data)
	stateLedger.RevertToSnapshot(snapshot)
	stateLedger.Finalise()
	staticCallCounter.Inc()

	receipt := &Receipt{
		Status:  ReceiptSUCCESS,
		Version: stateLedger.Version(),
		Ret:     ret,
		Err:     err,
	}
	if err != nil {
		receipt.Status = ReceiptFAILED
	}
	return receipt
}

func (exec *CallExecutor) postLogsEvent(logs []*ethtypes.Log) {
	if len(logs) == 0 {
		return
	}
	exec.logsFeed.Send(logs)
}
