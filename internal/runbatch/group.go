// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "fmt"

// Batch is a run of programs that execute concurrently.
type Batch struct {
	Group   *int  // shared concurrency group, nil for a lone ungrouped program
	Members []int // program indices in chain order
}

// Concurrent reports whether the batch has more than one member.
func (b Batch) Concurrent() bool {
	return len(b.Members) > 1
}

// String implements fmt.Stringer.
func (b Batch) String() string {
	if b.Group == nil {
		return fmt.Sprintf("batch%v", b.Members)
	}

	return fmt.Sprintf("group %d%v", *b.Group, b.Members)
}

// Group partitions program indices by concurrency group tag.
// Adjacent programs with equal non-nil tags share a batch. A nil tag always starts a batch of one,
// and a tag seen again after a different one starts a new batch.
// Concatenating the members of the result yields 0..len(tags)-1 in order.
func Group(tags []*int) []Batch {
	var batches []Batch

	for i, tag := range tags {
		if n := len(batches); n > 0 && tag != nil {
			last := &batches[n-1]
			if last.Group != nil && *last.Group == *tag {
				last.Members = append(last.Members, i)

				continue
			}
		}

		batches = append(batches, Batch{Group: tag, Members: []int{i}})
	}

	return batches
}
