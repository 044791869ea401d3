package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("known environments", func(t *testing.T) {
		for _, env := range []string{EnvDevelopment, EnvProduction} {
			l, err := New(env, LevelInfo)

			require.NoError(t, err, "logger should be created for %q", env)
			require.NotNil(t, l)
		}
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.Error(t, err, "unknown environment must be rejected")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		require.Equal(t, slog.LevelInfo, parseLevelString("chatty"))
	})

	t.Run("levels parsed", func(t *testing.T) {
		tests := []struct {
			level string
			want  slog.Level
		}{
			{LevelDebug, slog.LevelDebug},
			{LevelInfo, slog.LevelInfo},
			{LevelWarn, slog.LevelWarn},
			{LevelError, slog.LevelError},
			{"ERROR", slog.LevelError}, // case insensitive
		}
		for _, tt := range tests {
			require.Equal(t, tt.want, parseLevelString(tt.level), "level %q", tt.level)
		}
	})
}

func TestNoOp(t *testing.T) {
	l := NewNoOp()

	// Must swallow everything without panicking
	l.Debug("msg", "k", "v")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg", "err", "boom")
	l.With("k", "v").WithGroup("g").Info("msg")
}
