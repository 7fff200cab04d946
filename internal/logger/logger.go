package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables to configure the log sink and level.
const (
	envLogPath  = "MOTORSPORT_LOG"
	envLogLevel = "MOTORSPORT_LOG_LEVEL"
)

var (
	mu            sync.Mutex
	std           *zap.SugaredLogger
	level         = zap.NewAtomicLevelAt(zap.InfoLevel)
	isInitialized bool
)

// InitFromEnv initializes the logger using MOTORSPORT_LOG or a default path.
func InitFromEnv() error {
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		SetLevel(lvl)
	}
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "motorsport-web.log")
		} else {
			path = "./motorsport-web.log"
		}
	}
	return Init(path)
}

// Init initializes the logger to write to the provided file path.
// "stderr" and "stdout" are passed to zap as-is; any other path gets its
// parent directories created and is opened in append mode.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if isInitialized {
		return nil
	}
	if path != "stderr" && path != "stdout" {
		if err := ensureParentDir(path); err != nil {
			return err
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg := zap.Config{
		Level:            level,
		Encoding:         "console",
		EncoderConfig:    encCfg,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	std = l.Sugar()
	isInitialized = true
	return nil
}

// SetLevel changes the minimum level. Unknown names fall back to info.
func SetLevel(name string) {
	level.SetLevel(parseLevel(name))
}

func parseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Close flushes buffered entries.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if std == nil {
		return nil
	}
	// Sync on a terminal returns EINVAL; nothing useful to report there.
	_ = std.Sync()
	return nil
}

// Debugf logs verbose diagnostics.
func Debugf(format string, args ...any) { logger().Debugf(format, args...) }

// Infof logs informational messages.
func Infof(format string, args ...any) { logger().Infof(format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { logger().Warnf(format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { logger().Errorf(format, args...) }

func logger() *zap.SugaredLogger {
	mu.Lock()
	l := std
	mu.Unlock()
	if l != nil {
		return l
	}
	// Fallback: initialize with default if not already.
	if err := InitFromEnv(); err != nil {
		return zap.NewNop().Sugar()
	}
	mu.Lock()
	defer mu.Unlock()
	return std
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
