// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"sync"

	"github.com/matt-FFFFFF/cchain/internal/ctxlog"
)

// Report is what a worker hands back for one member of a batch.
type Report[T any] struct {
	Index int // program index
	Value T
	Err   error
}

type indexed[T any] struct {
	pos    int
	report Report[T]
}

// Run calls fn for every member concurrently and waits for all of them.
// A failure of one member never stops the others. Reports are returned in member order.
// A batch of one runs on the calling goroutine.
func Run[T any](ctx context.Context, members []int, fn func(ctx context.Context, index int) (T, error)) []Report[T] {
	reports := make([]Report[T], len(members))

	if len(members) == 1 {
		v, err := fn(ctx, members[0])
		reports[0] = Report[T]{Index: members[0], Value: v, Err: err}

		return reports
	}

	ctxlog.Debug(ctx, "running batch concurrently", "members", members)

	wg := &sync.WaitGroup{}
	resChan := make(chan indexed[T], len(members))

	for pos, idx := range members {
		wg.Add(1)

		go func(pos, idx int) {
			defer wg.Done()

			v, err := fn(ctx, idx)
			resChan <- indexed[T]{pos: pos, report: Report[T]{Index: idx, Value: v, Err: err}}
		}(pos, idx)
	}

	wg.Wait()
	close(resChan)

	for r := range resChan {
		reports[r.pos] = r.report
	}

	return reports
}
