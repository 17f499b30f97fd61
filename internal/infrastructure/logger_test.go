package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xopraneet789/cycling-performance-analysis/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	// Reset logger state before test
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("table written", "file", "table3_one_way_anova.csv")

	// Close log file to allow reading on Windows
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "table written" {
		t.Errorf("Expected msg='table written', got %v", logEntry["msg"])
	}
	if logEntry["file"] != "table3_one_way_anova.csv" {
		t.Errorf("Expected file='table3_one_way_anova.csv', got %v", logEntry["file"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	cfg := config.LoggingConfig{Level: "info", Format: "json", Output: "console"}

	first, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "console"})
	if err != nil {
		t.Fatalf("Second initialization failed: %v", err)
	}

	if first != second {
		t.Error("Expected the same logger from repeated initialization")
	}
	if GetLogger() != first {
		t.Error("GetLogger should return the initialized logger")
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "step completed")
	logger.Info("no context")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var withTrace, withoutTrace map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &withTrace); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &withoutTrace); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if withTrace["trace_id"] != "run-123" {
		t.Errorf("Expected trace_id='run-123', got %v", withTrace["trace_id"])
	}
	if _, ok := withoutTrace["trace_id"]; ok {
		t.Error("Did not expect trace_id without context")
	}
}

func TestTraceIDSurvivesWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf), "exporter")

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "wrote")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if entry["component"] != "exporter" || entry["trace_id"] != "abc" {
		t.Errorf("Expected component and trace_id, got %v", entry)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("loaded", "rows", 12)

	out := buf.String()
	if !strings.Contains(out, "msg=loaded") || !strings.Contains(out, "rows=12") {
		t.Errorf("Unexpected text output: %q", out)
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		warnShown  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug("debug line")
			logger.Warn("warn line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.debugShown {
				t.Errorf("debug shown = %v, want %v", got, tt.debugShown)
			}
			if got := strings.Contains(out, "warn line"); got != tt.warnShown {
				t.Errorf("warn shown = %v, want %v", got, tt.warnShown)
			}
		})
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	if len(id) != 36 {
		t.Fatalf("Expected a UUID trace id, got %q", id)
	}

	if again := GetTraceID(EnsureTraceID(ctx)); again != id {
		t.Errorf("EnsureTraceID replaced an existing id: %q != %q", again, id)
	}

	if GenerateTraceID() == GenerateTraceID() {
		t.Error("Generated trace IDs should differ")
	}
}
