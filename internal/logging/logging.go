// Package logging configures the process-wide zap logger.
package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ebill/internal/errors"
)

var (
	// Logger is the global logger instance
	Logger *zap.Logger

	mu sync.Mutex
	// logFile is the file Initialize opened for Output, if any
	logFile io.Closer
)

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level" json:"level" yaml:"level"`

	// Format is console or json
	Format string `mapstructure:"format" json:"format" yaml:"format"`

	// Output is stderr, stdout or a file path
	Output string `mapstructure:"output" json:"output" yaml:"output"`

	// Development adds stack traces on error
	Development bool `mapstructure:"development" json:"development" yaml:"development"`
}

// DefaultConfig logs warnings and above to stderr, so the log stream stays
// quiet while prompts are on screen.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
}

// ParseLevel maps a level name to a zap level
func ParseLevel(name string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.WarnLevel, errors.Config("unknown log level "+name+" (use debug, info, warn or error)", err)
	}
	return level, nil
}

// Validate checks level and format
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case "console", "json":
		return nil
	default:
		return errors.New(errors.TypeConfig, "unknown log format "+c.Format+" (use console or json)")
	}
}

// Initialize replaces the global logger. A log file opened by a previous
// call is closed.
func Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := ParseLevel(cfg.Level)

	out, file, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	Logger = zap.New(zapcore.NewCore(encoder, out, level), opts...)
	logFile = file
	return nil
}

func openOutput(dest string) (zapcore.WriteSyncer, io.Closer, error) {
	switch dest {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil, nil
	case "stderr", "":
		return zapcore.Lock(os.Stderr), nil, nil
	}

	f, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, errors.Config("open log file "+dest, err)
	}
	return zapcore.Lock(f), f, nil
}

// InitializeDefault sets up the logger with default configuration
func InitializeDefault() {
	_ = Initialize(DefaultConfig())
}

// Close flushes the logger and closes the log file, if one is open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	if Logger != nil {
		_ = Logger.Sync()
	}
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Named returns a child of the global logger scoped to a component
func Named(component string) *zap.Logger {
	return Logger.Named(component)
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func init() {
	InitializeDefault()
}
