// Package logger is the process-wide structured log. Every helper is a no-op
// until Init or InitWriter runs, so packages log unconditionally.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/companion/internal/constants"
)

// Logger is the global logger instance. Nil until initialized.
var Logger *log.Logger

var discard = log.New(io.Discard)

type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the level implied by Debug ("debug", "info", "warn", "error").
	Level string
}

// Path is the rotating log file under configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init logs to a rotating file under cfg.ConfigDir. The TUI owns the
// terminal, so stderr only gets log lines in debug mode.
func Init(cfg Config) error {
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, w)
	}

	Logger = newLogger(w, level, cfg.Debug)
	return nil
}

// InitWriter points the global logger at w. Used by tests and serve --verbose.
func InitWriter(w io.Writer, level log.Level) {
	Logger = newLogger(w, level, false)
}

func newLogger(w io.Writer, level log.Level, caller bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    caller,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
}

// Component returns a logger whose lines are prefixed with name, e.g.
// "companion/http". It discards everything before Init.
func Component(name string) *log.Logger {
	return current().WithPrefix(constants.AppName + "/" + name)
}

func current() *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger
}

func Debug(msg string, keyvals ...interface{}) { current().Debug(msg, keyvals...) }

func Info(msg string, keyvals ...interface{}) { current().Info(msg, keyvals...) }

func Warn(msg string, keyvals ...interface{}) { current().Warn(msg, keyvals...) }

func Error(msg string, keyvals ...interface{}) { current().Error(msg, keyvals...) }

// Fatal logs msg and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) {
	current().Error(msg, keyvals...)
	os.Exit(1)
}
