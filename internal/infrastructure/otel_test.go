package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopraneet789/cycling-performance-analysis/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Tracing disabled by default, a no-op tracer is still available
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)

	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_StdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &buf

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	_, span := providers.Tracer.Start(context.Background(), "pipeline.statistics")
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "pipeline.statistics")
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, testLogger())
	assert.Error(t, err)
}

func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{TraceExporter: "stdout", MetricsFile: "run.prom"})

	assert.Equal(t, config.ServiceName, cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "run.prom", cfg.MetricsFile)

	assert.Equal(t, "none", NewOTelConfig(config.TelemetryConfig{}).TraceExporter)
}

// TestRunMetrics records every instrument and reads it back from the registry
func TestRunMetrics(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateRunMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordStepMetrics(ctx, metrics, "statistics", "load", 15*time.Millisecond, nil)
	RecordStepMetrics(ctx, metrics, "statistics", "one_way_anova", time.Millisecond, errors.New("precondition"))
	RecordRowsLoaded(ctx, metrics, 42)
	RecordFileWritten(ctx, metrics, "table")
	RecordFileWritten(ctx, metrics, "figure")

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				values[mf.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 2.0, values["step_executions_total"])
	assert.Equal(t, 1.0, values["step_errors_total"])
	assert.Equal(t, 42.0, values["rows_loaded_total"])
	assert.Equal(t, 2.0, values["files_written_total"])
	assert.Equal(t, 2.0, values["step_duration_seconds"])
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordStepMetrics(ctx, nil, "p", "s", time.Second, nil)
		RecordRowsLoaded(ctx, nil, 1)
		RecordFileWritten(ctx, nil, "table")
		RecordError(ctx, errors.New("no span"))
	})
}

func TestShutdown_WritesMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyclingstats.prom")
	cfg := DefaultOTelConfig()
	cfg.MetricsFile = path

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)

	metrics, err := CreateRunMetrics(providers.Meter)
	require.NoError(t, err)
	RecordRowsLoaded(context.Background(), metrics, 9)

	require.NoError(t, providers.Shutdown(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "rows_loaded_total"), string(content))
}

func TestSystemMetrics_Collect(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	sm, err := NewSystemMetrics(providers.Meter)
	require.NoError(t, err)

	start := time.Now().Add(-2 * time.Second)
	stats := sm.Collect(context.Background(), start)

	assert.Greater(t, stats.MemoryAllocated, int64(0))
	assert.Greater(t, stats.MemorySystem, int64(0))
	assert.GreaterOrEqual(t, stats.ProcessUptime, 2*time.Second)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "system_memory_allocated_bytes")
	assert.Contains(t, names, "system_process_uptime_seconds")
}
