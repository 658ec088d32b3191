package api

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/oneagent-ai/oneagent/internal/monitor/aggregation"
	"github.com/oneagent-ai/oneagent/internal/monitor/event"
	"github.com/oneagent-ai/oneagent/internal/monitor/taxonomy"
)

// recentErrorLimit caps the errors list in the structured response.
const recentErrorLimit = 50

type response struct {
	Success bool    `json:"success"`
	Data    payload `json:"data"`
}

type payload struct {
	Stats        stats                       `json:"stats"`
	Operations   map[string]operationMetrics `json:"operations"`
	Errors       []errorEvent                `json:"errors"`
	ErrorBudgets []errorBudget               `json:"errorBudgets"`
}

type stats struct {
	TotalOperations uint64  `json:"totalOperations"`
	Components      int     `json:"components"`
	Operations      int     `json:"operations"`
	RecentEvents    int     `json:"recentEvents"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
}

type operationMetrics struct {
	Count      uint64  `json:"count"`
	AvgLatency float64 `json:"avgLatency"`
	P95        float64 `json:"p95"`
	P99        float64 `json:"p99"`
	ErrorRate  float64 `json:"errorRate"`
}

type errorEvent struct {
	Component     string `json:"component"`
	Operation     string `json:"operation"`
	ErrorCode     string `json:"errorCode"`
	Message       string `json:"message"`
	TimestampUnix int64  `json:"timestampUnix"`
}

type errorBudget struct {
	Operation         string  `json:"operation"`
	TargetErrorRate   float64 `json:"targetErrorRate"`
	ObservedErrorRate float64 `json:"observedErrorRate"`
	BurnRate          float64 `json:"burnRate"`
	RemainingBudget   float64 `json:"remainingBudget"`
	WindowMs          int64   `json:"windowMs"`
}

// MetricsHandler serves the structured query endpoint. It is a pure reader
// over the engine: rendering mutates nothing, and an empty engine renders a
// valid minimal document rather than an error.
type MetricsHandler struct {
	recorder   *event.Recorder
	aggregator *aggregation.Aggregator
	clock      func() time.Time
}

func NewMetricsHandler(recorder *event.Recorder, aggregator *aggregation.Aggregator) *MetricsHandler {
	return &MetricsHandler{
		recorder:   recorder,
		aggregator: aggregator,
		clock:      time.Now,
	}
}

func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.render()); err != nil {
		log.Errorf("Failed to write metrics response: %v", err)
	}
}

func (h *MetricsHandler) render() response {
	summary := h.aggregator.Summarize()

	operations := map[string]operationMetrics{}
	for _, operation := range h.aggregator.OperationNames() {
		om := h.aggregator.OperationMetrics(operation)
		operations[operation] = operationMetrics{
			Count:      om.Count,
			AvgLatency: om.AvgLatency,
			P95:        om.P95,
			P99:        om.P99,
			ErrorRate:  om.ErrorRate,
		}
	}

	errors := []errorEvent{}
	for _, ev := range h.recorder.RecentEvents(-1) {
		if ev.Status != event.StatusError {
			continue
		}
		errors = append(errors, errorEvent{
			Component:     ev.Component,
			Operation:     ev.Operation,
			ErrorCode:     taxonomy.Label(ev.Code),
			Message:       ev.RawError,
			TimestampUnix: ev.Time.Unix(),
		})
	}
	if len(errors) > recentErrorLimit {
		errors = errors[len(errors)-recentErrorLimit:]
	}

	budgets := []errorBudget{}
	for _, budget := range h.aggregator.ErrorBudgets() {
		budgets = append(budgets, errorBudget{
			Operation:         budget.Operation,
			TargetErrorRate:   budget.TargetErrorRate,
			ObservedErrorRate: budget.ObservedErrorRate,
			BurnRate:          budget.BurnRate,
			RemainingBudget:   budget.RemainingBudget,
			WindowMs:          budget.WindowMs,
		})
	}

	var totalOperations uint64
	for _, component := range summary.Components {
		for _, counts := range component.Operations {
			totalOperations += counts.Total
		}
	}

	return response{
		Success: true,
		Data: payload{
			Stats: stats{
				TotalOperations: totalOperations,
				Components:      len(summary.Components),
				Operations:      len(operations),
				RecentEvents:    h.recorder.RecentTotal(),
				UptimeSeconds:   h.clock().Sub(h.recorder.StartTime()).Seconds(),
			},
			Operations:   operations,
			Errors:       errors,
			ErrorBudgets: budgets,
		},
	}
}
