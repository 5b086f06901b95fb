// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		ctx := New(context.Background(), logger)
		assert.Same(t, logger, Logger(ctx))
	})

	t.Run("with nil logger should use default", func(t *testing.T) {
		ctx := New(context.Background(), nil)
		assert.Same(t, DefaultLogger, Logger(ctx))
	})
}

func TestLogger_NoValue(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))
}

func TestDepth(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 0, Depth(ctx))
	assert.Empty(t, Indent(ctx))

	child := WithDepth(ctx)
	grandChild := WithDepth(child)

	assert.Equal(t, 1, Depth(child))
	assert.Equal(t, 2, Depth(grandChild))
	assert.Equal(t, IndentUnit+IndentUnit, Indent(grandChild))
	assert.Equal(t, 0, Depth(ctx), "parent context must be unchanged")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, WithDestinationWriter(buf)))
	ctx := New(context.Background(), logger)

	Debug(ctx, "debug message")
	Info(ctx, "info message")
	Warn(ctx, "warn message")
	Error(ctx, "error message")

	out := buf.String()
	for _, want := range []string{"DEBUG: debug message", "INFO: info message", "WARN: warn message", "ERROR: error message"} {
		assert.Contains(t, out, want)
	}
}
