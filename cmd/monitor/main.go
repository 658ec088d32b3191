package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/oneagent-ai/oneagent/internal/common"
	"github.com/oneagent-ai/oneagent/internal/common/app"
	"github.com/oneagent-ai/oneagent/internal/common/health"
	"github.com/oneagent-ai/oneagent/internal/monitor"
	"github.com/oneagent-ai/oneagent/internal/monitor/configuration"
)

const CustomConfigLocation string = "config"

func init() {
	pflag.String(CustomConfigLocation, "", "Fully qualified path to application configuration file")
	pflag.Parse()
}

func main() {
	common.ConfigureLogging()
	common.BindCommandlineArguments()

	var config configuration.MonitorConfig
	userSpecifiedConfig := viper.GetString(CustomConfigLocation)
	common.LoadConfig(&config, "./config/monitor", userSpecifiedConfig)

	log.Info("Starting...")

	ctx := app.CreateContextWithShutdown()

	service := monitor.New(config.Engine)
	healthChecks := health.NewMultiChecker()
	if err := monitor.Serve(ctx, &config, service, healthChecks); err != nil {
		log.Fatal(err)
	}
}
