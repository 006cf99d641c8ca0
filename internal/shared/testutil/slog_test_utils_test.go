package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("pipeline started", slog.String("run_id", "abc"))
		logger.Error("sink failed", slog.Int("rows", 12))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("pipeline started"))
		assert.True(t, handler.ContainsAttr("run_id", "abc"))
		assert.True(t, handler.ContainsAttr("rows", int64(12)))
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "exporter").Info("wrote file")

		record, ok := handler.FindMessage("wrote file")
		require.True(t, ok)
		v, ok := record.Attr("component")
		require.True(t, ok)
		assert.Equal(t, "exporter", v)
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("sink").Info("done", "name", "csv")

		assert.True(t, handler.ContainsAttr("sink.name", "csv"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warn")
		logger.Error("error")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		logger.With("k", "v").Info("two")

		assert.Equal(t, 2, handler.Count())
		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Warn("alert quota not reached", slog.Int("alerts", 13))

		AssertLogContains(t, handler, slog.LevelWarn, "quota")
		AssertLogAttr(t, handler, "alerts", int64(13))
		AssertNoErrors(t, handler)
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.With("worker", n).Info("tick")
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}
