// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt asks the user for values while a chain runs.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/peterh/liner"
)

var (
	// ErrAborted is returned when the user cancels a prompt, e.g. with Ctrl+C.
	ErrAborted = errors.New("prompt aborted by user")
	// ErrNoAnswer is returned by Scripted when it has run out of answers.
	ErrNoAnswer = errors.New("no scripted answer left")
)

// Prompter asks the user a question and returns the raw answer.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

var _ Prompter = (*Liner)(nil)

// Liner prompts on the terminal with line editing and history.
// Each Prompt call takes over the terminal only for the duration of the question,
// so program output is unaffected between prompts.
type Liner struct {
	mu      sync.Mutex
	history []string
}

// NewLiner creates a terminal Prompter.
func NewLiner() *Liner {
	return &Liner{}
}

// Prompt implements Prompter.
func (l *Liner) Prompt(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Join(ErrAborted, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck

	line.SetCtrlCAborts(true)

	for _, h := range l.history {
		line.AppendHistory(h)
	}

	input, err := line.Prompt(strings.TrimSpace(message) + " ")
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrAborted
	case err != nil:
		return "", fmt.Errorf("reading answer: %w", err)
	}

	if input != "" {
		l.history = append(l.history, input)
	}

	return input, nil
}

var _ Prompter = (*Scripted)(nil)

// Scripted answers prompts from a fixed list, in order.
// It is used for non-interactive runs and in tests.
type Scripted struct {
	mu       sync.Mutex
	answers  []string
	messages []string
}

// NewScripted creates a Prompter that returns answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Prompt implements Prompter.
func (s *Scripted) Prompt(_ context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)

	if len(s.answers) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoAnswer, message)
	}

	a := s.answers[0]
	s.answers = s.answers[1:]

	return a, nil
}

// Asked returns every message prompted so far.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.messages...)
}
