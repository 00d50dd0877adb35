package app

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
)

const unknownEvent = "unknown"

var emittedEventCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aawallet",
	Subsystem: "app",
	Name:      "emitted_event_counter",
	Help:      "The total number of events emitted by committed calls",
}, []string{"event"})

func init() {
	prometheus.MustRegister(emittedEventCounter)
}

// eventNames maps the topic of every system contract event to its name
func eventNames() map[ethcommon.Hash]string {
	names := make(map[ethcommon.Hash]string)
	for _, ev := range saccount.EntryPointBuildConfig.Abi().Events {
		names[ev.ID] = ev.Name
	}
	for _, ev := range saccount.SmartAccountFactoryBuildConfig.Abi().Events {
		names[ev.ID] = ev.Name
	}
	for _, ev := range saccount.SmartAccountBuildConfig.Abi().Events {
		names[ev.ID] = ev.Name
	}
	return names
}

func eventName(names map[ethcommon.Hash]string, log *ethtypes.Log) string {
	if len(log.Topics) == 0 {
		return unknownEvent
	}
	name, ok := names[log.Topics[0]]
	if !ok {
		return unknownEvent
	}
	return name
}

func (aa *AAWallet) start() {
	logsCh := make(chan []*ethtypes.Log, 16)
	logsSub := aa.Executor.SubscribeLogsEvent(logsCh)
	go aa.listenLogsEvent(logsCh, logsSub)
}

func (aa *AAWallet) listenLogsEvent(logsCh chan []*ethtypes.Log, logsSub event.Subscription) {
	defer logsSub.Unsubscribe()
	names := eventNames()

	for {
		select {
		case <-aa.Ctx.Done():
			return
		case err := <-logsSub.Err():
			if err != nil {
				aa.logger.WithError(err).Error("Logs subscription failed")
			}
			return
		case logs := <-logsCh:
			aa.reportLogs(names, logs)
		}
	}
}

func (aa *AAWallet) reportLogs(names map[ethcommon.Hash]string, logs []*ethtypes.Log) {
	for _, log := range logs {
		name := eventName(names, log)
		emittedEventCounter.WithLabelValues(name).Inc()
		aa.logger.WithFields(logrus.Fields{
			"event":   name,
			"address": log.Address,
			"index":   log.Index,
			"version": log.BlockNumber,
		}).Debug("Emitted event")
	}
}
