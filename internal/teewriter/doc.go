// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teewriter provides an io.Writer that keeps everything written to it
// while handing each complete line to a callback as soon as it arrives.
package teewriter
