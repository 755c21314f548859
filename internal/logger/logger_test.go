package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("store value corrupt", "key", "daily-companion-stats")
	Error("reply failed", "error", "boom")

	logFile := filepath.Join(logDir, "companion.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "store value corrupt") {
		t.Errorf("expected warning in log file, got %q", string(data))
	}
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.WarnLevel)

	Debug("hidden")
	Info("also hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warning in output, got %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitLevel(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    log.Level
		wantErr bool
	}{
		{"default warns", Config{}, log.WarnLevel, false},
		{"debug flag", Config{Debug: true}, log.DebugLevel, false},
		{"explicit level wins", Config{Debug: true, Level: "error"}, log.ErrorLevel, false},
		{"info", Config{Level: "info"}, log.InfoLevel, false},
		{"unknown level", Config{Level: "chatty"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			tt.cfg.ConfigDir = t.TempDir()
			err := Init(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if Logger != nil {
					t.Error("logger should stay uninitialized on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.DebugLevel)

	Component("http").Info("request", "path", "/api/stats")
	if out := buf.String(); !strings.Contains(out, "companion/http") {
		t.Errorf("expected component prefix, got %q", out)
	}

	Logger = nil
	Component("http").Error("dropped")
}

func TestPath(t *testing.T) {
	want := filepath.Join("cfg", "logs", "companion.log")
	if got := Path("cfg"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
