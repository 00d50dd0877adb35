package ledger

import "github.com/prometheus/client_golang/prometheus"

var (
	stateLedgerVersionMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "state_version",
		Help:      "the latest committed state version",
	})

	dirtyAccountsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "flushed_dirty_accounts_total",
		Help:      "The total number of dirty accounts flushed into db",
	})

	flushDirtyWorldStateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "flush_dirty_world_state_duration",
		Help:      "The total latency of flush dirty world state into db",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
	})

	accountReadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "account_read_duration",
		Help:      "The total latency of read an account from db",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	})

	stateReadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "state_read_duration",
		Help:      "The total latency of read a state from db",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	})

	codeReadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "code_read_duration",
		Help:      "The total latency of read a contract code from db",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	})

	getOrCreateAccountDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "ledger",
		Name:      "get_or_create_account_duration",
		Help:      "The total latency of get or create account",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(stateLedgerVersionMetric)
	prometheus.MustRegister(dirtyAccountsCounter)
	prometheus.MustRegister(flushDirtyWorldStateDuration)
	prometheus.MustRegister(accountReadDuration)
	prometheus.MustRegister(stateReadDuration)
	prometheus.MustRegister(codeReadDuration)
	prometheus.MustRegister(getOrCreateAccountDuration)
}
