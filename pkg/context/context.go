// Package context carries the loaded configuration and logger through
// the command layer.
package context

import (
	"context"

	"github.com/Travisun/hexo-goose-builder/pkg/configs"
	log2 "github.com/Travisun/hexo-goose-builder/pkg/utils/log"
)

// GlobalFlags mirrors the root command's persistent flags.
type GlobalFlags struct {
	ConfigPath string
	Debug      bool
	Verbose    bool
	Quiet      bool
}

// BuilderContext bundles everything a subcommand needs.
type BuilderContext struct {
	context.Context
	Config *configs.Config
	Logger log2.Logger
}

// InitBuilderContext loads the configuration and initializes the logger.
// Flag values override the corresponding config fields.
func InitBuilderContext(flags GlobalFlags) (*BuilderContext, error) {
	ctx := context.Background()

	config, err := configs.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if flags.Debug {
		config.App.Debug = true
	}
	if flags.Verbose {
		config.App.Verbose = true
	}
	if flags.Quiet {
		config.App.Quiet = true
	}

	logger := log2.InitLogger(ctx, &config.Log, &config.App)

	return &BuilderContext{
		Context: ctx,
		Config:  config,
		Logger:  logger,
	}, nil
}
