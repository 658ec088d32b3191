package metrics

import "github.com/prometheus/client_golang/prometheus"

var operationTotalDesc = prometheus.NewDesc(
	prefix+"operation_total",
	"Total operations tracked across all components",
	nil,
	nil,
)

var operationComponentTotalDesc = prometheus.NewDesc(
	prefix+"operation_component_total",
	"Operations tracked per component and operation",
	[]string{componentLabel, operationLabel},
	nil,
)

var operationErrorRateDesc = prometheus.NewDesc(
	prefix+"operation_error_rate",
	"Error rate of an operation across all components",
	[]string{operationLabel},
	nil,
)

var operationLatencyAvgDesc = prometheus.NewDesc(
	prefix+"operation_latency_avg_ms",
	"Average latency of an operation over its rolling window",
	[]string{operationLabel},
	nil,
)

var operationLatencyP95Desc = prometheus.NewDesc(
	prefix+"operation_latency_p95_ms",
	"95th percentile latency of an operation over its rolling window",
	[]string{operationLabel},
	nil,
)

var operationLatencyP99Desc = prometheus.NewDesc(
	prefix+"operation_latency_p99_ms",
	"99th percentile latency of an operation over its rolling window",
	[]string{operationLabel},
	nil,
)

var operationErrorsTotalDesc = prometheus.NewDesc(
	prefix+"operation_errors_total",
	"Errors per component, operation and taxonomy code",
	[]string{componentLabel, operationLabel, errorCodeLabel},
	nil,
)

var operationLatencyHistogramDesc = prometheus.NewDesc(
	prefix+"operation_latency_histogram",
	"Latency distribution of an operation in milliseconds",
	[]string{operationLabel},
	nil,
)

var sloTargetLatencyDesc = prometheus.NewDesc(
	prefix+"slo_target_latency_ms",
	"Configured latency target for an operation",
	[]string{operationLabel},
	nil,
)

var sloTargetErrorRateDesc = prometheus.NewDesc(
	prefix+"slo_target_error_rate",
	"Configured error rate target for an operation",
	[]string{operationLabel},
	nil,
)

var sloErrorBudgetBurnDesc = prometheus.NewDesc(
	prefix+"slo_error_budget_burn",
	"Error budget burn rate for an operation; above 1 the target is being exceeded",
	[]string{operationLabel},
	nil,
)

var sloErrorBudgetRemainingDesc = prometheus.NewDesc(
	prefix+"slo_error_budget_remaining",
	"Fraction of the error budget remaining for an operation",
	[]string{operationLabel},
	nil,
)

var recentTotalDesc = prometheus.NewDesc(
	prefix+"metrics_recent_total",
	"Number of events currently held in the recent-event buffer",
	nil,
	nil,
)

var buildInfoDesc = prometheus.NewDesc(
	prefix+"build_info",
	"Build information",
	[]string{versionLabel, goVersionLabel},
	nil,
)
