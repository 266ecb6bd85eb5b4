package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// defaultZapLevel is the fallback when an unknown level string is provided.
const defaultZapLevel = zapcore.DebugLevel

// toZapLevel converts a textual level to zapcore.Level.
func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// newConsoleCore builds a zapcore.Core with a console encoder on stdout.
func newConsoleCore(level zapcore.Level) zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	ws := zapcore.Lock(os.Stdout) // thread-safe writer
	return zapcore.NewCore(encoder, zapcore.AddSync(ws), zap.NewAtomicLevelAt(level))
}

// newFileCore builds a core appending to filePath, or nil if the file cannot
// be opened. The same file is what the log tail/clear endpoints operate on.
func newFileCore(level zapcore.Level, filePath string) zapcore.Core {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	return zapcore.NewCore(encoder, zapcore.AddSync(f), zap.NewAtomicLevelAt(level))
}

// newZapLogger constructs a sugared zap logger. All cores are wrapped in the
// redacting core so secret-keyed fields never reach an encoder in the clear.
func newZapLogger(levelStr, filePath string) *Logger {
	level := toZapLevel(levelStr)
	core := newConsoleCore(level)
	if filePath != "" {
		if fc := newFileCore(level, filePath); fc != nil {
			core = zapcore.NewTee(core, fc)
		}
	}
	return &Logger{
		SugaredLogger: zap.New(withRedaction(core)).Sugar(),
	}
}
