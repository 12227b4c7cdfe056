package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferedLogger(buf *bytes.Buffer, levels ...slog.Level) *slog.Logger {
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewConditionalSourceHandler(base, levels...))
}

func TestConditionalSourceHandler(t *testing.T) {
	warnAndError := []slog.Level{slog.LevelWarn, slog.LevelError}

	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info hidden", slog.LevelInfo, warnAndError, false},
		{"warn shown", slog.LevelWarn, warnAndError, true},
		{"error shown", slog.LevelError, warnAndError, true},
		{"debug hidden", slog.LevelDebug, warnAndError, false},
		{"info shown in debug mode", slog.LevelInfo, []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newBufferedLogger(&buf, tt.levels...).Log(context.Background(), tt.level, "rates fetched")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandlerKeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(&buf, slog.LevelError).With("component", "currency").WithGroup("fetch")
	log.Info("rates fetched", "outcome", "live")

	out := buf.String()
	assert.Contains(t, out, "component=currency")
	assert.Contains(t, out, "fetch.outcome=live")
	assert.NotContains(t, out, "source=")
}

func TestConditionalSourceHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-42")
	newBufferedLogger(&buf).InfoContext(ctx, "convert")

	assert.Contains(t, buf.String(), "request_id=req-42")

	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestConditionalSourceHandlerEnabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler := NewConditionalSourceHandler(base, slog.LevelError)

	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
