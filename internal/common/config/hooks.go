package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CustomHooks are applied on every config unmarshal so durations in YAML can
// be written as "5m" or "30s".
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc()),
}
