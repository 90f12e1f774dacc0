// Package log initializes the global zerolog logger used across the
// builder. Output can go to the console, a rotated file, or both.
package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/Travisun/hexo-goose-builder/pkg/configs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logger handle passed around the application.
type Logger = *zerolog.Logger

var globalLogger Logger

// InitLogger configures the global logger from the log and app config.
// Priority: quiet > debug > verbose > config.Level.
func InitLogger(ctx context.Context, config *configs.LogConfig, appConfig *configs.AppConfig) Logger {
	if appConfig.Quiet {
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
		logger := zerolog.New(io.Discard)
		globalLogger = &logger
		log.Logger = logger
		return &logger
	} else if appConfig.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if appConfig.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(parseLogLevel(config.Level))
	}

	var writers []io.Writer
	switch strings.ToLower(config.Mode) {
	case "console":
		writers = append(writers, createConsoleWriter(config.JSON))
	case "file":
		writers = append(writers, createFileWriter(config))
	case "both":
		writers = append(writers, createConsoleWriter(config.JSON))
		writers = append(writers, createFileWriter(config))
	default:
		writers = append(writers, createConsoleWriter(config.JSON))
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	var logger zerolog.Logger
	if appConfig.Debug {
		logger = zerolog.New(output).With().Caller().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else if appConfig.Verbose {
		logger = zerolog.New(output).With().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else {
		logger = zerolog.New(output).With().Timestamp().Logger()
	}

	globalLogger = &logger
	log.Logger = logger
	return &logger
}

// GetLogger returns the global logger, initializing a default console
// logger if InitLogger has not been called yet.
func GetLogger() Logger {
	if globalLogger == nil {
		logger := zerolog.New(createConsoleWriter(false)).With().Timestamp().Logger()
		globalLogger = &logger
	}
	return globalLogger
}

func createConsoleWriter(useJSON bool) io.Writer {
	if useJSON {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func createFileWriter(config *configs.LogConfig) io.Writer {
	logDir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return os.Stdout
	}

	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   true,
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
