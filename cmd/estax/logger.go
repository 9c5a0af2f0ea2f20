package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements calculation.Logger on a zap sugared logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func newZapLogger(l *zap.Logger) zapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{s: l.Sugar()}
}

func (z zapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }
func (z zapLogger) Infof(format string, args ...any)  { z.s.Infof(format, args...) }
func (z zapLogger) Warnf(format string, args ...any)  { z.s.Warnf(format, args...) }
func (z zapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }

// newCLILogger builds a console logger on stderr so report output on stdout
// stays clean.
func newCLILogger(debug bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:  "message",
		LevelKey:    "level",
		EncodeLevel: zapcore.CapitalLevelEncoder,
	}

	cfg := zap.Config{
		Level:             level,
		Encoding:          "console",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	return cfg.Build()
}
