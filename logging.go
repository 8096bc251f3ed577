package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LoggerContextKey ContextKey = "request.logger"

	logFilePrefix = "catalog"
	megabyte      = 1 << 20
)

// LogRotator is a concurrent safe zapcore.WriteSyncer writing into the logs
// folder. A new file is started once the current one would exceed the max size.
type LogRotator struct {
	mu       sync.Mutex
	clock    Clocker
	folder   string
	env      string
	maxBytes int64
	file     *os.File
	written  int64
}

func NewLogRotator(config *Config, clock Clocker) *LogRotator {
	env := "dev"
	if config.IsProduction {
		env = "prod"
	}
	return &LogRotator{
		clock:    clock,
		folder:   config.LogFolder,
		env:      env,
		maxBytes: int64(config.LogMaxSize) * megabyte,
	}
}

// Write appends p to the current file, opening a fresh one when needed.
func (lr *LogRotator) Write(p []byte) (int, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	size := int64(len(p))
	if size > lr.maxBytes {
		return 0, fmt.Errorf("logging: entry of %d bytes exceeds max file size %d", size, lr.maxBytes)
	}
	if lr.file == nil || lr.written+size > lr.maxBytes {
		if err := lr.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := lr.file.Write(p)
	lr.written += int64(n)
	return n, err
}

func (lr *LogRotator) rotate() error {
	if lr.file != nil {
		if err := lr.file.Close(); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(LogFilePath(lr.folder, lr.env, lr.clock.Now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		lr.file = nil
		return err
	}
	lr.file, lr.written = file, 0
	return nil
}

func (lr *LogRotator) Sync() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if lr.file == nil {
		return nil
	}
	return lr.file.Sync()
}

func (lr *LogRotator) Close() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if lr.file == nil {
		return nil
	}
	err := lr.file.Close()
	lr.file = nil
	return err
}

// LogFilePath names a log file after its environment and creation time.
func LogFilePath(folder, env string, t time.Time) string {
	return filepath.Join(folder, fmt.Sprintf("%s.%s.%s.log", logFilePrefix, t.Format("20060102.150405"), env))
}

// stdoutSink avoids the `Handle is invalid` error returned when syncing stdout.
type stdoutSink struct{}

func (stdoutSink) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdoutSink) Sync() error { return nil }

func encoderConfig(isProd bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	if isProd {
		cfg = zap.NewProductionEncoderConfig()
	}
	cfg.TimeKey, cfg.LevelKey, cfg.NameKey = "ts", "lvl", "name"
	cfg.MessageKey, cfg.CallerKey, cfg.StacktraceKey = "msg", "caller", "skt"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// SetupLogging builds the service logger. JSON entries always go to w and
// development mode also prints them to stdout. Every entry carries the build
// details and the storage backend in use.
func SetupLogging(config *Config, w zapcore.WriteSyncer, clock TickerClocker) (*zap.Logger, func() error, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}

	encCfg := encoderConfig(config.IsProduction)
	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level)}
	if !config.IsProduction {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(stdoutSink{}), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel), zap.WithClock(clock)).
		Named("book-catalog").
		With(
			zap.String("app.commit", config.GitCommit),
			zap.String("app.tag", config.GitTag),
			zap.String("app.built", config.BuildTime),
			zap.String("storage.backend", config.Storage.Backend),
		)

	flusher := func() error {
		if err := logger.Sync(); err != nil {
			return fmt.Errorf("[flush logs]: %w", err)
		}
		return nil
	}
	return logger, flusher, nil
}

// GetLoggerFromContext returns the request scoped logger set by the core
// middleware, or the handler logger when there is none.
func (api *APIHandler) GetLoggerFromContext(ctx context.Context) *zap.Logger {
	if value, ok := ctx.Value(LoggerContextKey).(*zap.Logger); ok {
		return value
	}
	return api.logger
}
