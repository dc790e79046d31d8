package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents logging level
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      LogLevel
	Format     string // "json" or "text"
	Output     io.Writer
	AddSource  bool // Add source file and line number
	TimeFormat string
}

// DefaultLoggerConfig returns default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:      LevelInfo,
		Format:     "json",
		Output:     os.Stdout,
		AddSource:  true,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
	config *LoggerConfig
}

// NewLogger creates a new structured logger
func NewLogger(config *LoggerConfig) *Logger {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	// Convert log level
	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelInfo:
		level = slog.LevelInfo
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: config.AddSource,
	}

	// Create handler based on format
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		config: config,
	}
}

// WithContext returns a logger with context values
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger.With(contextFields(ctx)...),
		config: l.config,
	}
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithField returns a logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(key, value),
		config: l.config,
	}
}

// LogSolveStart logs the beginning of a solver run.
func (l *Logger) LogSolveStart(algorithm string, numOrders, numTechnicians int, fields map[string]interface{}) {
	args := []interface{}{
		"algorithm", algorithm,
		"num_orders", numOrders,
		"num_technicians", numTechnicians,
	}
	for k, v := range fields {
		args = append(args, k, v)
	}
	l.Info("solver starting", args...)
}

// LogSolveComplete logs the outcome of a completed solver run.
func (l *Logger) LogSolveComplete(algorithm string, elapsed time.Duration, assigned, unassigned int, totalDistance float64) {
	l.Info("solver complete",
		"algorithm", algorithm,
		"duration", elapsed,
		"assigned", assigned,
		"unassigned", unassigned,
		"total_distance_mi", totalDistance,
	)
}

// LogError logs an error with structured fields.
func (l *Logger) LogError(err error, message string, fields map[string]interface{}) {
	args := []interface{}{"error", err}
	for k, v := range fields {
		args = append(args, k, v)
	}
	l.Error(message, args...)
}

// LogConstraintViolations logs a route validation outcome.
func (l *Logger) LogConstraintViolations(technicianID string, violations []string) {
	if len(violations) == 0 {
		l.Debug("route validation passed", "technician_id", technicianID)
		return
	}
	l.Warn("route validation found violations",
		"technician_id", technicianID,
		"violation_count", len(violations),
		"violations", violations,
	)
}

// LogGenerationProgress logs genetic-algorithm convergence at a generation boundary.
func (l *Logger) LogGenerationProgress(generation, totalGenerations int, bestFitness float64) {
	l.Debug("generation progress",
		"generation", generation,
		"total_generations", totalGenerations,
		"best_fitness", bestFitness,
	)
}

// Helper function to extract context fields
func contextFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0)

	if solveID := ctx.Value(solveIDKey); solveID != nil {
		fields = append(fields, "solve_id", solveID)
	}

	return fields
}

type contextKey string

const solveIDKey contextKey = "solve_id"

// WithSolveID attaches a solve correlation ID to a context so WithContext can surface it.
func WithSolveID(ctx context.Context, solveID string) context.Context {
	return context.WithValue(ctx, solveIDKey, solveID)
}

// Global logger instance
var defaultLogger *Logger

// InitDefaultLogger initializes the global logger
func InitDefaultLogger(config *LoggerConfig) {
	defaultLogger = NewLogger(config)
}

// GetLogger returns the global logger
func GetLogger() *Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(DefaultLoggerConfig())
	}
	return defaultLogger
}

// Convenience functions using global logger

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	GetLogger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	GetLogger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	GetLogger().Error(msg, args...)
}

// WithFields returns a logger with fields
func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

// WithField returns a logger with a field
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}
