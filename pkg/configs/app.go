package configs

import (
	"github.com/spf13/viper"
)

// AppConfig holds process-wide behavior flags.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Debug   bool   `mapstructure:"debug"`
	Verbose bool   `mapstructure:"verbose"`
	Quiet   bool   `mapstructure:"quiet"` // suppress all output except errors
}

func setAppConfigDefaults() {
	viper.SetDefault("app.name", "goose-builder")
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.verbose", false)
	viper.SetDefault("app.quiet", false)
}
