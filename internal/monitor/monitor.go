package monitor

import (
	"sync"
	"time"

	"github.com/oneagent-ai/oneagent/internal/monitor/aggregation"
	"github.com/oneagent-ai/oneagent/internal/monitor/configuration"
	"github.com/oneagent-ai/oneagent/internal/monitor/event"
	"github.com/oneagent-ai/oneagent/internal/monitor/metrics"
	"github.com/oneagent-ai/oneagent/internal/monitor/taxonomy"
	"github.com/oneagent-ai/oneagent/internal/monitor/window"
)

// Service bundles the metrics engine: classifier, rolling sample store,
// event recorder, aggregator and exposition collector. Producers hold a
// *Service (or the process-wide Default) and report outcomes through
// TrackOperation; consumers read through the Aggregator or the HTTP
// surfaces.
type Service struct {
	Classifier *taxonomy.Classifier
	Windows    *window.Store
	Recorder   *event.Recorder
	Aggregator *aggregation.Aggregator
	Collector  *metrics.EngineCollector

	config configuration.EngineConfig
}

func New(config configuration.EngineConfig) *Service {
	classifier := taxonomy.NewClassifier()
	windows := window.NewStore(config.WindowCapacity)
	recorder := event.NewRecorder(classifier, windows, config.RecentEventCapacity)
	aggregator := aggregation.New(recorder, windows, config)
	collector := metrics.NewEngineCollector(recorder, windows, aggregator, config.HistogramBoundariesMs)
	return &Service{
		Classifier: classifier,
		Windows:    windows,
		Recorder:   recorder,
		Aggregator: aggregator,
		Collector:  collector,
		config:     config,
	}
}

// TrackOperation reports one operation outcome to the engine.
func (s *Service) TrackOperation(component string, operation string, status event.Status, md event.Metadata) {
	s.Recorder.TrackOperation(component, operation, status, md)
}

// Subscribe registers a live listener for recorded events.
func (s *Service) Subscribe(callback func(event.OperationEvent)) *event.Subscription {
	return s.Recorder.Subscribe(callback)
}

func (s *Service) Config() configuration.EngineConfig {
	return s.config
}

// DefaultEngineConfig is used by Default and by tests that do not care
// about tuning.
func DefaultEngineConfig() configuration.EngineConfig {
	return configuration.EngineConfig{
		WindowCapacity:        window.DefaultCapacity,
		RecentEventCapacity:   event.DefaultRecentCapacity,
		HistogramBoundariesMs: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		DefaultSloWindow:      5 * time.Minute,
		P95LatencyCeilingMs:   1000,
		ErrorRateCeiling:      0.05,
	}
}

var (
	defaultOnce    sync.Once
	defaultService *Service
)

// Default returns the process-wide service, constructing it on first use.
// It is a convenience for wiring-averse callers; anything that needs
// isolation (tests in particular) should construct its own Service with New.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = New(DefaultEngineConfig())
	})
	return defaultService
}
