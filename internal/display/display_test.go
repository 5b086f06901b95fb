// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"bytes"
	"context"
	"testing"

	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/stretchr/testify/assert"
)

func TestConsole_Emit(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf)
	ctx := context.Background()

	c.Emit(ctx, Logging, "starting")
	c.Emit(ctx, ProgramOutput, "hello")

	assert.Equal(t, ">> starting\n>> >> hello\n", buf.String())
}

func TestConsole_Emit_MultiLineIndented(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf)
	ctx := ctxlog.WithDepth(context.Background())

	c.Emit(ctx, Error, "first\nsecond")

	assert.Equal(t, "  >> first\n  >> second\n", buf.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := ctxlog.WithDepth(context.Background())

	r.Emit(ctx, Warn, "retrying")
	r.Emit(context.Background(), Error, "failed")

	msgs := r.Messages()
	assert.Len(t, msgs, 2)
	assert.Equal(t, Message{Level: Warn, Depth: 1, Text: "retrying"}, msgs[0])
	assert.Equal(t, []string{"failed"}, r.Filter(Error))
	assert.Empty(t, r.Filter(Input))
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "program-output", ProgramOutput.String())
	assert.Equal(t, "level(42)", Level(42).String())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Emit(context.Background(), Error, "x") })
}
