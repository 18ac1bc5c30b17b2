package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"go.trai.ch/fnspec/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		goldenName string
	}{
		{name: "info", level: slog.LevelInfo, goldenName: "handler_info"},
		{name: "warn", level: slog.LevelWarn, goldenName: "handler_warn"},
		{name: "error", level: slog.LevelError, goldenName: "handler_error"},
		{name: "debug filtered", level: slog.LevelDebug, goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestHandler(t)
			lg.Log(t.Context(), tt.level, "message")

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	lg, buf := newTestHandler(t)

	lg.With("path", "serverless.yml").WithGroup("fn").Info("loaded",
		slog.Int("memory", 256),
		slog.String("note", "two words"),
		slog.Group("event", slog.String("topic", "trigger_escavador_people_search")),
	)

	g := goldie.New(t)
	g.Assert(t, "handler_attrs", buf.Bytes())
}
