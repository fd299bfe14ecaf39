package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the application logger.
type Options struct {
	// JSON switches from console to JSON encoding.
	JSON bool
	// Debug lowers the level to debug and adds stack traces to errors.
	Debug bool
	// Output is a zap sink path. Empty means stderr, which keeps stdout free
	// for reports.
	Output string
}

func New(opts Options) (*zap.Logger, error) {
	output := opts.Output
	if output == "" {
		output = "stderr"
	}

	cfg := zap.Config{
		Encoding:          encoding(opts.JSON),
		Level:             zap.NewAtomicLevelAt(level(opts.Debug)),
		DisableStacktrace: !opts.Debug,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoderConfig(opts.Debug),
	}

	return cfg.Build()
}

func encoding(json bool) string {
	if json {
		return "json"
	}
	return "console"
}

func level(debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func encoderConfig(debug bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		MessageKey:   "step",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeTime:   zapcore.RFC3339TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	if debug {
		cfg.StacktraceKey = "stacktrace"
	}
	return cfg
}
