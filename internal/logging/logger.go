// Package logging provides config-driven categorized file-based logging.
// Logs are written as JSON lines to one rotated file per category.
// Logging is controlled by logging.debug_mode - when false, every logger is a no-op,
// since the interactive UI owns the terminal.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"missionchat/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup and config resolution
	CategorySession  Category = "session"  // Transcript appends, session lifecycle
	CategoryDispatch Category = "dispatch" // Send lifecycle and failures
	CategoryAPI      Category = "api"      // Chat endpoint HTTP traffic
	CategoryUI       Category = "ui"       // TUI events
	CategoryStub     Category = "stub"     // Local stub endpoint
)

// Logger is a category-scoped logger. The zero value discards everything.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	rotators  []*lumberjack.Logger
	loggersMu sync.RWMutex
	logsDir   string
	cfg       config.LoggingConfig
	cfgMu     sync.RWMutex
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Initialize configures logging. Call once at startup; calling again replaces
// the configuration and closes previously opened files.
func Initialize(lc config.LoggingConfig) error {
	CloseAll()
	CloseAudit()

	cfgMu.Lock()
	cfg = lc
	cfgMu.Unlock()

	if err := level.UnmarshalText([]byte(strings.ToLower(defaultString(lc.Level, "info")))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	if !lc.DebugMode {
		setDir("")
		return nil
	}

	dir := lc.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".mission", "logs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	setDir(dir)

	boot := Get(CategoryBoot)
	boot.Info("=== logging initialized ===")
	boot.Info("logs directory: %s", dir)
	boot.Info("log level: %s", level.Level())
	return nil
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

func setDir(dir string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	logsDir = dir
}

// Dir returns the active log directory, or "" when logging is disabled.
func Dir() string {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return logsDir
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	dir := logsDir
	loggersMu.RUnlock()

	if dir == "" {
		return &Logger{category: category}
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	cfgMu.RLock()
	maxSize, maxBackups := cfg.MaxSizeMB, cfg.MaxBackups
	cfgMu.RUnlock()

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, string(category)+".log"),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	rotators = append(rotators, rotator)

	l := &Logger{
		category: category,
		sugar:    newFileLogger(zapcore.AddSync(rotator)).Sugar().With("cat", string(category)),
	}
	loggers[category] = l
	return l
}

func newFileLogger(w zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "msg"
	encoderConfig.LevelKey = "lvl"

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), w, level)
	return zap.New(core)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// With returns a logger that attaches the given key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Enabled reports whether entries written to l go anywhere.
func (l *Logger) Enabled() bool {
	return l.sugar != nil
}

// CloseAll flushes and closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.sugar != nil {
			_ = l.sugar.Sync()
		}
	}
	for _, r := range rotators {
		_ = r.Close()
	}
	loggers = make(map[Category]*Logger)
	rotators = nil
}

// Session logs to the session category
func Session(format string, args ...interface{}) {
	Get(CategorySession).Info(format, args...)
}

// Dispatch logs to the dispatch category
func Dispatch(format string, args ...interface{}) {
	Get(CategoryDispatch).Info(format, args...)
}

// APIDebug logs debug to the api category
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
