// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package process

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
	"github.com/matt-FFFFFF/cchain/internal/display"
	"github.com/matt-FFFFFF/cchain/internal/signalbroker"
	"github.com/matt-FFFFFF/cchain/internal/teewriter"
)

// Captured is the output of a successful process.
type Captured struct {
	Stdout string
	Stderr string
}

// Runner runs a process to completion.
// A non-zero exit status is reported as *ExitError, a launch failure as *SpawnError.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Captured, error)
}

var _ Runner = (*OSRunner)(nil)

// OSRunner runs processes on the local operating system.
// The zero value is ready to use and discards live output.
type OSRunner struct {
	// Emitter receives every output line as display.ProgramOutput while the process runs.
	Emitter display.Emitter
	// sigCh receives signals to forward to the child, allows mocking in test.
	sigCh chan os.Signal
}

// NewOSRunner creates an OSRunner that streams output lines to e.
func NewOSRunner(e display.Emitter) *OSRunner {
	return &OSRunner{Emitter: e}
}

func (r *OSRunner) lineFunc(ctx context.Context) teewriter.LineFunc {
	e := r.Emitter
	if e == nil {
		e = display.Discard
	}

	return func(line string) {
		e.Emit(ctx, display.ProgramOutput, line)
	}
}

// Run implements Runner.
// The process is killed if ctx is done; the first OS termination signal is forwarded
// to it and a second signal of the same type kills it.
func (r *OSRunner) Run(ctx context.Context, spec Spec) (Captured, error) {
	logger := ctxlog.Logger(ctx).With("runner", "os", "command", spec.Command)

	path, argv, err := spec.resolve()
	if err != nil {
		return Captured{}, NewSpawnError(spec.Command, err)
	}

	logger.DebugContext(ctx, "command info", "path", path, "cwd", spec.Dir, "args", argv[1:])

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return Captured{}, NewSpawnError(spec.Command, errors.Join(ErrFailedToCreatePipe, err))
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = rOut.Close()
		_ = wOut.Close()

		return Captured{}, NewSpawnError(spec.Command, errors.Join(ErrFailedToCreatePipe, err))
	}

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Dir:   spec.Dir,
		Env:   spec.environ(),
		Files: []*os.File{os.Stdin, wOut, wErr},
	})

	// The child holds its own copies of the write ends.
	_ = wOut.Close()
	_ = wErr.Close()

	if err != nil {
		_ = rOut.Close()
		_ = rErr.Close()

		return Captured{}, NewSpawnError(spec.Command, err)
	}

	logger.DebugContext(ctx, "process started", "pid", ps.Pid)

	stdout := teewriter.New(r.lineFunc(ctx))
	stderr := teewriter.New(r.lineFunc(ctx))

	var drain sync.WaitGroup

	drain.Add(2)

	go drainPipe(&drain, stdout, rOut)
	go drainPipe(&drain, stderr, rErr)

	sigCh := r.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(sigCh)
	}

	done := make(chan struct{})
	killed := make(chan error, 1)

	var watchdog sync.WaitGroup

	watchdog.Add(1)

	go func() {
		defer watchdog.Done()

		seen := make(map[os.Signal]struct{})

		for {
			select {
			case s := <-sigCh:
				if _, ok := seen[s]; ok {
					logger.InfoContext(ctx, "received duplicate signal, killing process", "signal", s.String())
					killPs(ctx, ps)
					killed <- ErrDuplicateSignalReceived

					return
				}

				seen[s] = struct{}{}

				logger.InfoContext(ctx, "forwarding signal", "signal", s.String())

				if err := ps.Signal(s); err != nil {
					logger.InfoContext(ctx, "failed to send signal", "signal", s.String(), "error", err)
				}

			case <-ctx.Done():
				logger.InfoContext(ctx, "context done, killing process")
				killPs(ctx, ps)
				killed <- errors.Join(ErrCancelled, context.Cause(ctx))

				return

			case <-done:
				return
			}
		}
	}()

	state, waitErr := ps.Wait()

	close(done)
	watchdog.Wait()
	drain.Wait()

	stdout.Flush()
	stderr.Flush()

	captured := Captured{Stdout: stdout.String(), Stderr: stderr.String()}

	var killErr error

	select {
	case killErr = <-killed:
	default:
	}

	status := -1
	if state != nil {
		status = state.ExitCode()
	}

	logger.DebugContext(ctx, "process finished", "exitCode", status, "stdoutBytes", len(captured.Stdout))

	if waitErr != nil || killErr != nil || status != 0 {
		return captured, &ExitError{
			CommandLine: spec.CommandLine(),
			Status:      status,
			Stdout:      captured.Stdout,
			Stderr:      captured.Stderr,
			Err:         errors.Join(killErr, waitErr),
		}
	}

	return captured, nil
}

func drainPipe(wg *sync.WaitGroup, w io.Writer, r *os.File) {
	defer wg.Done()
	defer r.Close() //nolint:errcheck

	_, _ = io.Copy(w, r)
}

func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}
