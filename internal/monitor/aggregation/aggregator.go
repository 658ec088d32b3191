package aggregation

import (
	"fmt"
	"sort"
	"time"

	"github.com/oneagent-ai/oneagent/internal/monitor/configuration"
	"github.com/oneagent-ai/oneagent/internal/monitor/event"
	"github.com/oneagent-ai/oneagent/internal/monitor/window"
)

type OperationCounts struct {
	Total   uint64
	Success uint64
	Error   uint64
}

type ComponentTotals struct {
	ErrorRate float64
}

type ComponentSummary struct {
	Operations map[string]OperationCounts
	Totals     ComponentTotals
}

type Summary struct {
	Components map[string]ComponentSummary
}

// OperationMetrics is the detailed per-operation latency and error view.
// Count is the number of samples currently in the operation's window;
// ErrorRate is error/total across all components for the operation.
type OperationMetrics struct {
	Count      uint64
	AvgLatency float64
	P95        float64
	P99        float64
	ErrorRate  float64
}

type GlobalReport struct {
	TotalOperations    uint64
	AverageLatency     float64
	P95Latency         float64
	P99Latency         float64
	OperationBreakdown map[string]OperationMetrics
	Recommendations    []string
}

// ErrorBudget is derived on every query, never stored.
type ErrorBudget struct {
	Operation         string
	TargetErrorRate   float64
	ObservedErrorRate float64
	BurnRate          float64
	RemainingBudget   float64
	WindowMs          int64
}

// Aggregator folds recorder counters and window snapshots into summaries,
// the global performance report and SLO error budgets. All methods are
// read-only over snapshots, so repeated calls without intervening traffic
// return identical results.
type Aggregator struct {
	recorder *event.Recorder
	windows  *window.Store
	config   configuration.EngineConfig
	clock    func() time.Time
}

func New(recorder *event.Recorder, windows *window.Store, config configuration.EngineConfig) *Aggregator {
	return &Aggregator{
		recorder: recorder,
		windows:  windows,
		config:   config,
		clock:    time.Now,
	}
}

// WithClock overrides the clock for tests.
func (a *Aggregator) WithClock(clock func() time.Time) *Aggregator {
	a.clock = clock
	return a
}

// Summarize folds the lifetime counters into per-component summaries.
func (a *Aggregator) Summarize() Summary {
	summary := Summary{Components: map[string]ComponentSummary{}}
	for component, operations := range a.recorder.CounterSnapshot() {
		cs := ComponentSummary{Operations: map[string]OperationCounts{}}
		var total, errors uint64
		for operation, counters := range operations {
			cs.Operations[operation] = OperationCounts{
				Total:   counters.Total,
				Success: counters.Success,
				Error:   counters.Error,
			}
			total += counters.Total
			errors += counters.Error
		}
		if total > 0 {
			cs.Totals.ErrorRate = float64(errors) / float64(total)
		}
		summary.Components[component] = cs
	}
	return summary
}

// SummarizeWindow folds the recent-event ring filtered to events within the
// given window. The ring is the single source of truth for windowed counts;
// no parallel counter exists to drift from it.
func (a *Aggregator) SummarizeWindow(win time.Duration) Summary {
	cutoff := a.clock().Add(-win)
	summary := Summary{Components: map[string]ComponentSummary{}}
	totals := map[string]uint64{}
	errors := map[string]uint64{}
	for _, ev := range a.recorder.RecentEvents(-1) {
		if ev.Time.Before(cutoff) {
			continue
		}
		cs, ok := summary.Components[ev.Component]
		if !ok {
			cs = ComponentSummary{Operations: map[string]OperationCounts{}}
		}
		counts := cs.Operations[ev.Operation]
		counts.Total++
		if ev.Status == event.StatusError {
			counts.Error++
			errors[ev.Component]++
		} else {
			counts.Success++
		}
		totals[ev.Component]++
		cs.Operations[ev.Operation] = counts
		summary.Components[ev.Component] = cs
	}
	for component, cs := range summary.Components {
		if totals[component] > 0 {
			cs.Totals.ErrorRate = float64(errors[component]) / float64(totals[component])
			summary.Components[component] = cs
		}
	}
	return summary
}

// OperationMetrics computes the detailed view for one operation from a
// window snapshot plus the lifetime counters.
func (a *Aggregator) OperationMetrics(operation string) OperationMetrics {
	dist := window.NewDistribution(a.windows.Snapshot(operation))
	metrics := OperationMetrics{
		Count:      dist.Count,
		AvgLatency: dist.Avg,
		P95:        dist.P95,
		P99:        dist.P99,
	}
	var total, errors uint64
	for _, operations := range a.recorder.CounterSnapshot() {
		if counters, ok := operations[operation]; ok {
			total += counters.Total
			errors += counters.Error
		}
	}
	if total > 0 {
		metrics.ErrorRate = float64(errors) / float64(total)
	}
	return metrics
}

// OperationNames is the union of operations seen by the counters and the
// window store, sorted.
func (a *Aggregator) OperationNames() []string {
	seen := map[string]bool{}
	for _, operations := range a.recorder.CounterSnapshot() {
		for operation := range operations {
			seen[operation] = true
		}
	}
	for _, operation := range a.windows.Operations() {
		seen[operation] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GlobalReport aggregates the combined latency distribution across all
// operations. Percentiles are computed over the combined sample set, not
// averaged per operation, and the report is ordered so that
// p99 >= p95 >= average always holds.
func (a *Aggregator) GlobalReport() GlobalReport {
	dist := window.NewDistribution(a.windows.CombinedSnapshot())
	p95 := dist.P95
	if p95 < dist.Avg {
		p95 = dist.Avg
	}
	p99 := dist.P99
	if p99 < p95 {
		p99 = p95
	}

	report := GlobalReport{
		AverageLatency:     dist.Avg,
		P95Latency:         p95,
		P99Latency:         p99,
		OperationBreakdown: map[string]OperationMetrics{},
		Recommendations:    []string{},
	}
	for _, operations := range a.recorder.CounterSnapshot() {
		for _, counters := range operations {
			report.TotalOperations += counters.Total
		}
	}
	for _, operation := range a.OperationNames() {
		report.OperationBreakdown[operation] = a.OperationMetrics(operation)
	}
	report.Recommendations = a.recommendations(report)
	return report
}

// recommendations produces advisory strings only; nothing acts on them.
func (a *Aggregator) recommendations(report GlobalReport) []string {
	recommendations := []string{}
	if ceiling := a.config.P95LatencyCeilingMs; ceiling > 0 && report.P95Latency > ceiling {
		recommendations = append(recommendations, fmt.Sprintf(
			"system-wide p95 latency %.1fms exceeds the %.1fms ceiling; investigate slow operations", report.P95Latency, ceiling))
	}
	if ceiling := a.config.ErrorRateCeiling; ceiling > 0 {
		operations := make([]string, 0, len(report.OperationBreakdown))
		for operation := range report.OperationBreakdown {
			operations = append(operations, operation)
		}
		sort.Strings(operations)
		for _, operation := range operations {
			if rate := report.OperationBreakdown[operation].ErrorRate; rate > ceiling {
				recommendations = append(recommendations, fmt.Sprintf(
					"operation %s error rate %.1f%% exceeds the %.1f%% ceiling", operation, rate*100, ceiling*100))
			}
		}
	}
	return recommendations
}

// ErrorBudgets derives one budget per operation that has an SLO with a
// positive target error rate. Operations without SLO config produce no
// entry. The observed rate comes from the recent-event ring filtered to the
// SLO's own window.
func (a *Aggregator) ErrorBudgets() []ErrorBudget {
	operations := make([]string, 0, len(a.config.Slos))
	for operation := range a.config.Slos {
		operations = append(operations, operation)
	}
	sort.Strings(operations)

	budgets := []ErrorBudget{}
	for _, operation := range operations {
		target := a.config.Slos[operation]
		if target.TargetErrorRate <= 0 {
			continue
		}
		win := a.config.WindowFor(target)
		observed := a.observedErrorRate(operation, win)
		burn := observed / target.TargetErrorRate
		remaining := 1 - burn
		if remaining < 0 {
			remaining = 0
		}
		budgets = append(budgets, ErrorBudget{
			Operation:         operation,
			TargetErrorRate:   target.TargetErrorRate,
			ObservedErrorRate: observed,
			BurnRate:          burn,
			RemainingBudget:   remaining,
			WindowMs:          win.Milliseconds(),
		})
	}
	return budgets
}

func (a *Aggregator) observedErrorRate(operation string, win time.Duration) float64 {
	cutoff := a.clock().Add(-win)
	var total, errors uint64
	for _, ev := range a.recorder.RecentEvents(-1) {
		if ev.Operation != operation || ev.Time.Before(cutoff) {
			continue
		}
		total++
		if ev.Status == event.StatusError {
			errors++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(errors) / float64(total)
}

// SloTargets exposes the configured targets for exposition.
func (a *Aggregator) SloTargets() map[string]configuration.SloTarget {
	targets := make(map[string]configuration.SloTarget, len(a.config.Slos))
	for operation, target := range a.config.Slos {
		targets[operation] = target
	}
	return targets
}
