package aa

import "github.com/prometheus/client_golang/prometheus"

var (
	queryTotalCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "jsonrpc",
		Name:      "query_total_counter",
		Help:      "The total number of read only requests",
	})

	queryFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "jsonrpc",
		Name:      "query_failed_counter",
		Help:      "The total number of failed read only requests",
	})

	invokeReadOnlyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "jsonrpc",
		Name:      "invoke_read_only_duration",
		Help:      "The total latency of read only requests",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	sendTotalCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "jsonrpc",
		Name:      "send_total_counter",
		Help:      "The total number of state changing requests",
	})

	sendFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "jsonrpc",
		Name:      "send_failed_counter",
		Help:      "The total number of failed state changing requests",
	})

	invokeSendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "jsonrpc",
		Name:      "invoke_send_duration",
		Help:      "The total latency of state changing requests",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
)

func init() {
	prometheus.MustRegister(queryTotalCounter)
	prometheus.MustRegister(queryFailedCounter)
	prometheus.MustRegister(invokeReadOnlyDuration)
	prometheus.MustRegister(sendTotalCounter)
	prometheus.MustRegister(sendFailedCounter)
	prometheus.MustRegister(invokeSendDuration)
}
