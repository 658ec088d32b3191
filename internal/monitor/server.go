package monitor

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/oneagent-ai/oneagent/internal/common/health"
	"github.com/oneagent-ai/oneagent/internal/common/serve"
	"github.com/oneagent-ai/oneagent/internal/monitor/api"
	"github.com/oneagent-ai/oneagent/internal/monitor/configuration"
)

// Serve runs the engine's two HTTP surfaces (scrape exposition on the
// metrics port, structured query API plus health on the http port) until
// ctx is cancelled. The service is shared: producers keep reporting into it
// while Serve exposes it.
func Serve(ctx context.Context, config *configuration.MonitorConfig, service *Service, healthChecks *health.MultiChecker) error {
	log.Info("Monitor server starting")
	defer log.Info("Monitor server shutting down")

	// MarkComplete is called once both listeners are up.
	startupCompleteCheck := health.NewStartupCompleteChecker()
	healthChecks.Add(startupCompleteCheck)

	registry := prometheus.NewRegistry()
	registry.MustRegister(service.Collector)
	shutdownMetricServer := serve.ServeMetricsFor(config.MetricsPort, registry)
	defer shutdownMetricServer()

	mux := http.NewServeMux()
	health.SetupHttpMux(mux, healthChecks)
	mux.Handle("/api/v1/monitoring/metrics", api.NewMetricsHandler(service.Recorder, service.Aggregator))
	shutdownHttpServer := serve.ServeHttp(config.HttpPort, mux)
	defer shutdownHttpServer()

	startupCompleteCheck.MarkComplete()

	<-ctx.Done()
	return nil
}
