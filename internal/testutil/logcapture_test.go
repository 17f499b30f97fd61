package testutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	t.Run("captures records and attributes", func(t *testing.T) {
		logger, h := NewTestLogger(nil)

		logger.Info("Pipeline started", slog.Int("step_count", 8))
		logger.Error("Step failed", slog.String("step", "load"))

		require.Len(t, h.Records(), 2)
		r, ok := h.Find("Step failed")
		require.True(t, ok)
		assert.Equal(t, "load", r.Attrs["step"])
		assert.Len(t, h.RecordsAt(slog.LevelError), 1)
	})

	t.Run("derived loggers share the store", func(t *testing.T) {
		logger, h := NewTestLogger(nil)

		logger.With(slog.String("pipeline", "statistics")).WithGroup("step").Info("Executing step", slog.String("id", "load"))
		logger.Debug("base")

		records := h.Records()
		require.Len(t, records, 2)
		assert.Equal(t, "statistics", records[0].Attrs["pipeline"])
		assert.Equal(t, "load", records[0].Attrs["step.id"])
		assert.Empty(t, records[1].Attrs)
	})

	t.Run("assertions pass on matching records", func(t *testing.T) {
		logger, h := NewTestLogger(t)
		logger.Warn("Pipeline cancelled")

		AssertLogged(t, h, slog.LevelWarn, "cancelled")
		AssertNoErrors(t, h)
	})
}

func TestWriteInput(t *testing.T) {
	path := WriteInput(t, RaceResults)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, RaceResults, string(data))
}
