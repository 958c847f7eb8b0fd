// Package metrics declares the prometheus collectors of the relay. All
// collectors are registered with the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "relay"

var (
	// Executions counts wallet executions that passed verification, by
	// wallet variant and call outcome.
	Executions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "multisig",
		Name:      "executions_total",
		Help:      "Executed wallet payloads by variant and outcome.",
	}, []string{"variant", "outcome"})

	// ExecutionGas observes the gas used by destination calls.
	ExecutionGas = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "multisig",
		Name:      "call_gas",
		Help:      "Gas used by destination calls.",
		Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
	}, []string{"variant"})

	// RefundedFees sums the fees paid from wallets to relayers.
	RefundedFees = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "multisig",
		Name:      "refunded_fees_total",
		Help:      "Fees reimbursed from wallets to relayers.",
	}, []string{"variant"})

	// Requests counts delivered requests by path and error code. Code 0
	// is success.
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Delivered requests by message path and result code.",
	}, []string{"path", "code"})

	// Panics counts handler panics turned into errors.
	Panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panics_total",
		Help:      "Panics recovered while delivering requests.",
	})

	// RequestGas observes the total gas of successful requests.
	RequestGas = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_gas",
		Help:      "Gas used by successful requests.",
		Buckets:   prometheus.ExponentialBuckets(21000, 2, 10),
	})
)
