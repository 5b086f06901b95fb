// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch partitions a chain into batches by concurrency group, runs the members
// of a batch in parallel and formats the per-program results.
// Consecutive programs sharing a group form one batch; every other program is a batch of its own.
package runbatch
