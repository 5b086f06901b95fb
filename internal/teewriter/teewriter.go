// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teewriter

import (
	"bytes"
	"strings"
	"sync"
)

// LineFunc receives one line of output without its trailing newline.
type LineFunc func(line string)

// LineTeeWriter captures the complete output and calls a LineFunc for every complete line.
// It is safe for concurrent use.
type LineTeeWriter struct {
	onLine  LineFunc
	full    bytes.Buffer
	partial strings.Builder
	mu      sync.Mutex
}

// New creates a LineTeeWriter. A nil onLine only captures.
func New(onLine LineFunc) *LineTeeWriter {
	return &LineTeeWriter{onLine: onLine}
}

// Write implements io.Writer. It never returns an error.
func (w *LineTeeWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.full.Write(p)
	w.processNewData(string(p))

	return len(p), nil
}

// processNewData emits the complete lines in data and keeps the remainder as a partial line.
// Must be called with the lock held.
func (w *LineTeeWriter) processNewData(data string) {
	w.partial.WriteString(data)

	lines := strings.Split(w.partial.String(), "\n")
	if len(lines) == 1 {
		return
	}

	rest := lines[len(lines)-1]
	w.partial.Reset()
	w.partial.WriteString(rest)

	if w.onLine == nil {
		return
	}

	for _, line := range lines[:len(lines)-1] {
		w.onLine(strings.TrimSuffix(line, "\r"))
	}
}

// Flush emits any pending partial line, used once the writer has seen all output.
func (w *LineTeeWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.partial.Len() == 0 {
		return
	}

	line := w.partial.String()
	w.partial.Reset()

	if w.onLine != nil {
		w.onLine(line)
	}
}

// String returns everything written so far.
func (w *LineTeeWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.full.String()
}

// PartialLine returns the data written after the last newline.
func (w *LineTeeWriter) PartialLine() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.partial.String()
}
