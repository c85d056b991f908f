// Package logger builds the zap logger used across the application.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger for the requested verbosity. Verbose mode uses the
// development config at debug level, otherwise the production config at info
// level; quiet raises the floor to errors only. All diagnostics go to stderr
// so stdout stays reserved for rendered reports.
func New(verbose, quiet bool) (*zap.Logger, error) {
	var config zap.Config
	if verbose {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if quiet {
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	return log, nil
}
