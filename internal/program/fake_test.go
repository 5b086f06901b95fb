// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package program

import (
	"context"
	"errors"
	"sync"

	"github.com/matt-FFFFFF/cchain/internal/process"
)

var errFake = errors.New("fake failure")

// fakeRunner fails the first failures calls, then succeeds with stdout.
type fakeRunner struct {
	mu       sync.Mutex
	failures int // -1 fails every call
	stdout   string
	cancel   context.CancelFunc // called on the call numbered cancelAt
	cancelAt int
	calls    []process.Spec
}

func (f *fakeRunner) Run(_ context.Context, spec process.Spec) (process.Captured, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, spec)
	n := len(f.calls)

	if f.cancel != nil && n == f.cancelAt {
		f.cancel()
	}

	if f.failures < 0 || n <= f.failures {
		return process.Captured{}, errFake
	}

	return process.Captured{Stdout: f.stdout}, nil
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}
