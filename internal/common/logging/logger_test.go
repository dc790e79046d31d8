package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *LoggerConfig
	}{
		{name: "default config", config: nil},
		{name: "json format", config: &LoggerConfig{Level: LevelInfo, Format: "json", AddSource: true}},
		{name: "text format", config: &LoggerConfig{Level: LevelDebug, Format: "text", AddSource: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("Expected logger to be created")
			}
		})
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: buf})

	ctx := WithSolveID(context.Background(), "solve-123")
	logger.WithContext(ctx).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "solve-123") {
		t.Error("Expected solve_id in log output")
	}
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: buf})

	logger.WithFields(map[string]interface{}{"key1": "value1", "key2": 123}).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "value1") {
		t.Error("Expected key1 in log output")
	}
	if !strings.Contains(output, "123") {
		t.Error("Expected key2 value in log output")
	}
}

func TestLogger_LogSolveStartAndComplete(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: buf})

	logger.LogSolveStart("greedy", 15, 5, map[string]interface{}{"avg_speed_mph": 30.0})

	var started map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &started); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if started["algorithm"] != "greedy" {
		t.Errorf("expected algorithm greedy, got %v", started["algorithm"])
	}
	if started["num_orders"] != float64(15) {
		t.Errorf("expected num_orders 15, got %v", started["num_orders"])
	}

	buf.Reset()
	logger.LogSolveComplete("greedy", 0, 12, 3, 48.5)
	output := buf.String()
	if !strings.Contains(output, "48.5") {
		t.Error("expected total_distance_mi in log output")
	}
}

func TestLogger_LogError(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelError, Format: "json", Output: buf})

	logger.LogError(errors.New("engine unavailable"), "cp-vrp solve failed", map[string]interface{}{"technician_id": "tech-01"})

	output := buf.String()
	if !strings.Contains(output, "engine unavailable") {
		t.Error("expected error message in log output")
	}
	if !strings.Contains(output, "tech-01") {
		t.Error("expected technician_id field in log output")
	}
}

func TestLogger_LogConstraintViolations(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: buf})

	logger.LogConstraintViolations("tech-01", nil)
	if !strings.Contains(buf.String(), "route validation passed") {
		t.Error("expected passing route to log at debug level")
	}

	buf.Reset()
	logger.LogConstraintViolations("tech-01", []string{"stop 0: skill mismatch"})
	output := buf.String()
	if !strings.Contains(output, "skill mismatch") {
		t.Error("expected violation detail in log output")
	}
}

func TestLogger_LogGenerationProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: buf})

	logger.LogGenerationProgress(10, 500, 123.45)

	output := buf.String()
	if !strings.Contains(output, "123.45") {
		t.Error("expected best_fitness in log output")
	}
}

func TestGetLogger(t *testing.T) {
	defaultLogger = nil

	logger := GetLogger()
	if logger == nil {
		t.Error("Expected default logger to be created")
	}
	if logger2 := GetLogger(); logger != logger2 {
		t.Error("Expected same logger instance")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	InitDefaultLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: buf})

	tests := []struct {
		name     string
		logFunc  func()
		expected string
	}{
		{name: "Debug", logFunc: func() { Debug("debug message", "key", "value") }, expected: "debug message"},
		{name: "Info", logFunc: func() { Info("info message", "key", "value") }, expected: "info message"},
		{name: "Warn", logFunc: func() { Warn("warn message", "key", "value") }, expected: "warn message"},
		{name: "Error", logFunc: func() { Error("error message", "key", "value") }, expected: "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()
			if output := buf.String(); !strings.Contains(output, tt.expected) {
				t.Errorf("Expected %s in log output, got: %s", tt.expected, output)
			}
		})
	}
}
