package metrics

import (
	"runtime"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oneagent-ai/oneagent/internal/monitor/aggregation"
	"github.com/oneagent-ai/oneagent/internal/monitor/event"
	"github.com/oneagent-ai/oneagent/internal/monitor/taxonomy"
	"github.com/oneagent-ai/oneagent/internal/monitor/window"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ExposeEngineMetrics registers a collector for the engine on the default
// registry and returns it.
func ExposeEngineMetrics(
	recorder *event.Recorder,
	windows *window.Store,
	aggregator *aggregation.Aggregator,
	boundariesMs []float64,
) *EngineCollector {
	collector := NewEngineCollector(recorder, windows, aggregator, boundariesMs)
	prometheus.MustRegister(collector)
	return collector
}

// EngineCollector renders the engine's state as scrape-text metrics. Collect
// reads snapshots only and mutates nothing; all descriptors are package
// variables, so the exposed name set never shrinks as traffic fluctuates.
type EngineCollector struct {
	recorder     *event.Recorder
	windows      *window.Store
	aggregator   *aggregation.Aggregator
	boundariesMs []float64
}

func NewEngineCollector(
	recorder *event.Recorder,
	windows *window.Store,
	aggregator *aggregation.Aggregator,
	boundariesMs []float64,
) *EngineCollector {
	return &EngineCollector{
		recorder:     recorder,
		windows:      windows,
		aggregator:   aggregator,
		boundariesMs: boundariesMs,
	}
}

func (c *EngineCollector) Describe(desc chan<- *prometheus.Desc) {
	desc <- operationTotalDesc
	desc <- operationComponentTotalDesc
	desc <- operationErrorRateDesc
	desc <- operationLatencyAvgDesc
	desc <- operationLatencyP95Desc
	desc <- operationLatencyP99Desc
	desc <- operationErrorsTotalDesc
	desc <- operationLatencyHistogramDesc
	desc <- sloTargetLatencyDesc
	desc <- sloTargetErrorRateDesc
	desc <- sloErrorBudgetBurnDesc
	desc <- sloErrorBudgetRemainingDesc
	desc <- recentTotalDesc
	desc <- buildInfoDesc
}

func (c *EngineCollector) Collect(metrics chan<- prometheus.Metric) {
	summary := c.aggregator.Summarize()

	var grandTotal uint64
	for _, component := range sortedKeys(summary.Components) {
		operations := summary.Components[component].Operations
		for _, operation := range sortedKeys(operations) {
			counts := operations[operation]
			grandTotal += counts.Total
			metrics <- prometheus.MustNewConstMetric(
				operationComponentTotalDesc,
				prometheus.CounterValue,
				float64(counts.Total),
				component,
				operation)
		}
	}
	metrics <- prometheus.MustNewConstMetric(operationTotalDesc, prometheus.CounterValue, float64(grandTotal))

	for _, operation := range c.aggregator.OperationNames() {
		om := c.aggregator.OperationMetrics(operation)
		metrics <- prometheus.MustNewConstMetric(operationErrorRateDesc, prometheus.GaugeValue, om.ErrorRate, operation)
		if om.Count == 0 {
			continue
		}
		metrics <- prometheus.MustNewConstMetric(operationLatencyAvgDesc, prometheus.GaugeValue, om.AvgLatency, operation)
		metrics <- prometheus.MustNewConstMetric(operationLatencyP95Desc, prometheus.GaugeValue, om.P95, operation)
		metrics <- prometheus.MustNewConstMetric(operationLatencyP99Desc, prometheus.GaugeValue, om.P99, operation)

		histogram := window.NewHistogram(c.windows.Snapshot(operation), c.boundariesMs)
		metrics <- prometheus.MustNewConstHistogram(
			operationLatencyHistogramDesc,
			histogram.Count,
			histogram.Sum,
			histogram.Buckets(),
			operation)
	}

	errorCounts := c.recorder.ErrorCountSnapshot()
	for _, component := range sortedKeys(errorCounts) {
		for operation, codes := range errorCounts[component] {
			for code, count := range codes {
				metrics <- prometheus.MustNewConstMetric(
					operationErrorsTotalDesc,
					prometheus.CounterValue,
					float64(count),
					component,
					operation,
					taxonomy.Label(code))
			}
		}
	}

	targets := c.aggregator.SloTargets()
	for _, operation := range sortedKeys(targets) {
		target := targets[operation]
		if target.TargetLatencyMs > 0 {
			metrics <- prometheus.MustNewConstMetric(sloTargetLatencyDesc, prometheus.GaugeValue, target.TargetLatencyMs, operation)
		}
		if target.TargetErrorRate > 0 {
			metrics <- prometheus.MustNewConstMetric(sloTargetErrorRateDesc, prometheus.GaugeValue, target.TargetErrorRate, operation)
		}
	}
	for _, budget := range c.aggregator.ErrorBudgets() {
		metrics <- prometheus.MustNewConstMetric(sloErrorBudgetBurnDesc, prometheus.GaugeValue, budget.BurnRate, budget.Operation)
		metrics <- prometheus.MustNewConstMetric(sloErrorBudgetRemainingDesc, prometheus.GaugeValue, budget.RemainingBudget, budget.Operation)
	}

	metrics <- prometheus.MustNewConstMetric(recentTotalDesc, prometheus.GaugeValue, float64(c.recorder.RecentTotal()))
	metrics <- prometheus.MustNewConstMetric(buildInfoDesc, prometheus.GaugeValue, 1, Version, runtime.Version())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
