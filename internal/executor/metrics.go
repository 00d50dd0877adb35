package executor

import "github.com/prometheus/client_golang/prometheus"

var (
	applyCallCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "executor",
		Name:      "apply_call_total",
		Help:      "The total number of applied calls by status",
	}, []string{"status"})

	applyCallDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aawallet",
		Subsystem: "executor",
		Name:      "apply_call_duration",
		Help:      "The total latency of apply and commit a call",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	staticCallCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aawallet",
		Subsystem: "executor",
		Name:      "static_call_total",
		Help:      "The total number of static calls",
	})

	pendingCallsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "aawallet",
		Subsystem: "executor",
		Name:      "pending_calls",
		Help:      "The number of calls waiting to be executed",
	})
)

func init() {
	prometheus.MustRegister(applyCallCounter)
	prometheus.MustRegister(applyCallDuration)
	prometheus.MustRegister(staticCallCounter)
	prometheus.MustRegister(pendingCallsGauge)
}
