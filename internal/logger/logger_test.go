package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if want := filepath.Join(logDir, "verdant.log"); Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}

	Debug("Test debug message")
	Info("Test info message", "habit", "read")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWithOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Debug("hidden below info")
	Info("badge unlocked", "badge", "momentum")

	out := buf.String()
	if strings.Contains(out, "hidden below info") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "badge unlocked") || !strings.Contains(out, "momentum") {
		t.Errorf("info record missing from output: %q", out)
	}
	if !strings.Contains(out, "verdant") {
		t.Errorf("prefix missing from output: %q", out)
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

func TestInitWithInvalidDirectory(t *testing.T) {
	err := Init(Config{ConfigDir: "/nonexistent/path/that/should/not/exist"})
	if err == nil {
		t.Skip("Unable to test invalid directory - path was created or already exists")
	}
}
