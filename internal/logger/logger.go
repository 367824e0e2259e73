package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the encoding, level and destination of a logger
type Options struct {
	Env    string // "production" logs JSON; anything else logs colored console lines
	Level  string // empty uses debug in development and info in production
	Output string // a zap sink such as "stdout" or "stderr"; empty means stdout
}

// New creates a structured logger for env writing to stdout
func New(env string) (*zap.Logger, error) {
	return NewWithOptions(Options{Env: env})
}

// NewWithOptions creates a structured logger
func NewWithOptions(opts Options) (*zap.Logger, error) {
	var config zap.Config

	if opts.Env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	output := opts.Output
	if output == "" {
		output = "stdout"
	}
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// NewWithDefaults creates a logger from SERVER_ENV and LOG_LEVEL, falling back
// to a production logger if those are invalid
func NewWithDefaults() *zap.Logger {
	env := os.Getenv("SERVER_ENV")
	if env == "" {
		env = "development"
	}

	logger, err := NewWithOptions(Options{Env: env, Level: os.Getenv("LOG_LEVEL")})
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
