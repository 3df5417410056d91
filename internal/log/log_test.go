package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("text handler filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "warn", false)

		l.Info("hidden")
		l.Warn("shown", "reps", 3)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "reps=3")
	})

	t.Run("json handler", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "info", true)

		l.Info("tick", "mode", "menu")

		assert.Contains(t, buf.String(), `"mode":"menu"`)
	})
}
