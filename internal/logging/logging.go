// =============================================================================
// salesdocs - Logging
// =============================================================================
//
// Logging is backed by zap. Components receive the small Logger interface
// below; commands build it once from the log section of the configuration.
//
// =============================================================================

package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/salesdocs/internal/config"
)

// Logger is the logging surface used by the document pipeline and the store.
// Messages are printf templates.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// New builds a zap logger from the log configuration. verbose forces the
// debug level.
func New(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Wrap adapts a zap logger to Logger.
func Wrap(l *zap.Logger) Logger {
	return &sugared{s: l.Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Wrap(zap.NewNop())
}

type sugared struct {
	s *zap.SugaredLogger
}

func (l *sugared) Debug(msg string, args ...interface{}) { l.s.Debugf(msg, args...) }
func (l *sugared) Info(msg string, args ...interface{})  { l.s.Infof(msg, args...) }
func (l *sugared) Warn(msg string, args ...interface{})  { l.s.Warnf(msg, args...) }
func (l *sugared) Error(msg string, args ...interface{}) { l.s.Errorf(msg, args...) }
