// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package display is the leveled message sink used to show chain progress to the user.
// Messages are indented by the nesting depth carried on the context, see ctxlog.WithDepth.
package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
)

// Level classifies a message.
type Level int

const (
	// Logging is a progress message.
	Logging Level = iota
	// Warn is a recoverable problem, such as a retry.
	Warn
	// Error is a failure.
	Error
	// ProgramOutput is a line printed by a running program.
	ProgramOutput
	// Input is a question put to the user.
	Input
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Logging:
		return "logging"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case ProgramOutput:
		return "program-output"
	case Input:
		return "input"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Emitter receives messages for display.
type Emitter interface {
	Emit(ctx context.Context, level Level, text string)
}

// Discard is an Emitter that drops every message.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, Level, string) {}

var _ Emitter = (*Console)(nil)

// Console writes styled messages to a writer, one line per message line.
// It is safe for concurrent use; lines from concurrent programs interleave but never tear.
type Console struct {
	w      io.Writer
	mu     sync.Mutex
	styles map[Level]lipgloss.Style
}

// NewConsole creates a Console writing to w. Colours follow what w supports.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)

	return &Console{
		w: w,
		styles: map[Level]lipgloss.Style{
			Logging:       r.NewStyle().Foreground(lipgloss.Color("2")),
			Warn:          r.NewStyle().Foreground(lipgloss.Color("3")),
			Error:         r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			ProgramOutput: r.NewStyle().Foreground(lipgloss.Color("6")),
			Input:         r.NewStyle().Foreground(lipgloss.Color("4")),
		},
	}
}

func marker(level Level) string {
	if level == ProgramOutput || level == Input {
		return ">> >> "
	}

	return ">> "
}

// Emit implements Emitter.
func (c *Console) Emit(ctx context.Context, level Level, text string) {
	style, ok := c.styles[level]
	if !ok {
		style = lipgloss.NewStyle()
	}

	indent := ctxlog.Indent(ctx)
	sb := strings.Builder{}

	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(indent)
		sb.WriteString(marker(level))
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.w, sb.String())
}

// Message is one recorded Emit call.
type Message struct {
	Level Level
	Depth int
	Text  string
}

// Recorder is an Emitter that keeps every message, for inspection by callers such as tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Emit implements Emitter.
func (r *Recorder) Emit(ctx context.Context, level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, Message{Level: level, Depth: ctxlog.Depth(ctx), Text: text})
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.messages))
	copy(out, r.messages)

	return out
}

// Filter returns the texts recorded at level.
func (r *Recorder) Filter(level Level) []string {
	var out []string

	for _, m := range r.Messages() {
		if m.Level == level {
			out = append(out, m.Text)
		}
	}

	return out
}
