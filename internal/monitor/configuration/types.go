package configuration

import (
	"time"
)

type MonitorConfig struct {
	HttpPort    uint16
	MetricsPort uint16

	Engine EngineConfig
}

// EngineConfig is loaded once at startup; the engine never reconfigures at
// runtime.
type EngineConfig struct {
	// Capacity of each per-operation latency window.
	WindowCapacity int
	// Capacity of the recent-event ring buffer.
	RecentEventCapacity int
	// Shared histogram bucket boundaries in milliseconds, ascending. The
	// unbounded top bucket is implicit.
	HistogramBoundariesMs []float64
	// Observation window applied to SLOs that do not set their own.
	DefaultSloWindow time.Duration
	// Advisory thresholds for the global performance report.
	P95LatencyCeilingMs float64
	ErrorRateCeiling    float64
	// Per-operation SLO targets.
	Slos map[string]SloTarget
}

type SloTarget struct {
	// Reference latency for the operation's p95/p99, in milliseconds.
	// Zero means no latency target.
	TargetLatencyMs float64
	// Allowed error rate in [0, 1]. Zero means no error budget is computed.
	TargetErrorRate float64
	// Observation window; falls back to DefaultSloWindow when zero.
	Window time.Duration
}

// WindowFor resolves the observation window for an operation's SLO.
func (c EngineConfig) WindowFor(target SloTarget) time.Duration {
	if target.Window > 0 {
		return target.Window
	}
	if c.DefaultSloWindow > 0 {
		return c.DefaultSloWindow
	}
	return 5 * time.Minute
}
