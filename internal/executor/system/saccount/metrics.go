package saccount

import "github.com/prometheus/client_golang/prometheus"

const (
	opResultSucceeded = "succeeded"
	opResultReverted  = "reverted"
	opResultRejected  = "rejected"
)

var (
	userOpCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "entry_point",
		Name:      "user_ops_total",
		Help:      "The total number of handled user operations by result",
	}, []string{"result"})

	handleOpsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "entry_point",
		Name:      "handle_ops_duration",
		Help:      "The total latency of handle a batch of user operations",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	collectedGasCostCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "entry_point",
		Name:      "collected_gas_cost_total",
		Help:      "The total gas cost paid to beneficiaries, in wei",
	})
)

func init() {
	prometheus.MustRegister(userOpCounter)
	prometheus.MustRegister(handleOpsDuration)
	prometheus.MustRegister(collectedGasCostCounter)
}
