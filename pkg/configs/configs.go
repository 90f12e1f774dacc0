// Package configs loads and exposes the goose-builder configuration.
package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	Version string      `mapstructure:"version"`
	Log     LogConfig   `mapstructure:"log"`
	App     AppConfig   `mapstructure:"app"`
	Build   BuildConfig `mapstructure:"build"`
}

// LogConfig controls the logger output.
type LogConfig struct {
	Level      string `mapstructure:"level"`       // trace, debug, info, warn, error, fatal, panic
	JSON       bool   `mapstructure:"json"`        // JSON output instead of console writer
	Mode       string `mapstructure:"mode"`        // console, file, both
	FilePath   string `mapstructure:"file_path"`   // used when mode is file or both
	MaxSize    int    `mapstructure:"max_size"`    // MB
	MaxBackups int    `mapstructure:"max_backups"` // rotated files to keep
	MaxAge     int    `mapstructure:"max_age"`     // days
}

func setDefaults() {
	viper.SetDefault("version", "1.0")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)
	viper.SetDefault("log.mode", "console")
	viper.SetDefault("log.file_path", ".goose-builder/builder.log")
	viper.SetDefault("log.max_size", 50)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)

	setAppConfigDefaults()
	setBuildConfigDefaults()
}

var globalConfig *Config

// tryLoadConfigFiles probes the well-known locations for a config file.
func tryLoadConfigFiles() bool {
	searchPaths := []string{
		".",
		"$HOME",
		"$HOME/.config",
		"$HOME/.config/goose-builder",
	}

	if runtime.GOOS == "windows" {
		searchPaths = append(searchPaths,
			"$USERPROFILE",
			"$APPDATA/goose-builder",
		)
	} else {
		searchPaths = append(searchPaths, "/etc/goose-builder")
	}

	configNames := []string{".goose-builder", "goose-builder"}
	extensions := []string{"yaml", "yml", "json", "toml"}

	for _, path := range searchPaths {
		for _, name := range configNames {
			for _, ext := range extensions {
				configFile := filepath.Join(path, name+"."+ext)
				if strings.Contains(configFile, "$") {
					configFile = os.ExpandEnv(configFile)
				}
				if _, err := os.Stat(configFile); err == nil {
					viper.SetConfigFile(configFile)
					return true
				}
			}
		}
	}

	return false
}

// LoadConfig reads the configuration from configPath, or from the search
// paths when configPath is empty. Defaults apply for anything unset.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		tryLoadConfigFiles()
	}

	viper.SetEnvPrefix("GOOSE_BUILDER")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Log.Mode == "file" || config.Log.Mode == "both" {
		logDir := filepath.Dir(config.Log.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	if err := config.Build.validate(); err != nil {
		return nil, err
	}

	globalConfig = &config
	return &config, nil
}

// GetConfig returns the loaded global configuration, loading it with
// defaults on first use.
func GetConfig() *Config {
	if globalConfig == nil {
		config, err := LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("cannot load config: %v", err))
		}
		return config
	}
	return globalConfig
}
