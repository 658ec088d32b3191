package common

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/weaveworks/promrus"

	commonconfig "github.com/oneagent-ai/oneagent/internal/common/config"
)

// BindCommandlineArguments makes the pflag command line visible through
// viper so flags override file configuration.
func BindCommandlineArguments() {
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

// LoadConfig reads config.yaml from defaultPath, merges a user-specified
// config file on top when one is given, and unmarshals the result with the
// custom decode hooks.
func LoadConfig(config interface{}, defaultPath string, userSpecifiedConfig string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(defaultPath)
	if err := viper.ReadInConfig(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}

	if userSpecifiedConfig != "" {
		viper.SetConfigFile(userSpecifiedConfig)
		if err := viper.MergeInConfig(); err != nil {
			log.Error(err)
			os.Exit(-1)
		}
	}

	if err := viper.Unmarshal(config, commonconfig.CustomHooks...); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

// ConfigureLogging sets up logrus and hooks log-line counts into prometheus
// via promrus.
func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)

	hook, err := promrus.NewPrometheusHook()
	if err != nil {
		// ConfigureLogging called twice registers the hook counters twice.
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			log.Error(err)
			os.Exit(-1)
		}
		return
	}
	log.AddHook(hook)
}
