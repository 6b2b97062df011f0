/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package apppool implements the Application Pool: the concurrent,
// process-level scheduler that owns the fleet of application worker
// processes, groups them by application identity, applies admission
// control, spawns and retires processes on demand, and routes sessions to
// them.
package apppool

import "math"

// EnabledStatus is a Process's participation state in its Group's routing.
type EnabledStatus uint8

const (
	Enabled EnabledStatus = iota
	Disabling
	Disabled
	Detached
)

func (s EnabledStatus) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabling:
		return "disabling"
	case Disabled:
		return "disabled"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// LifeStatus is a Process's OS-process liveness state.
type LifeStatus uint8

const (
	Alive LifeStatus = iota
	ShuttingDown
	Dead
)

// OobwStatus tracks a Process's out-of-band-work request lifecycle.
type OobwStatus uint8

const (
	OobwNotActive OobwStatus = iota
	OobwRequested
	OobwInProgress
)

// GroupLifeStatus is a Group's overall lifecycle state.
type GroupLifeStatus uint8

const (
	GroupAlive GroupLifeStatus = iota
	GroupShuttingDown
	GroupShutDown
)

// RestartMode selects how RestartGroup replaces a Group's processes.
type RestartMode uint8

const (
	// RestartBlocking kills every process immediately and stops serving
	// requests until the new generation is up.
	RestartBlocking RestartMode = iota
	// RestartRolling moves enabled processes to Disabling, spawns a new
	// generation, and lets old processes drain and get garbage collected.
	RestartRolling
)

// unlimitedBusyness is the busyness value assigned to a socket with
// concurrency == 0 (unlimited); it always sorts below any socket with a
// finite concurrency at the same absolute session count, per spec §8
// ("A Process with concurrency == 0 sorts below all Processes with
// concurrency > 0 on busyness for the same absolute session count").
const unlimitedBusyness = -1

// busyness computes a socket's busyness ratio: sessions * MaxInt32 /
// concurrency for concurrency > 0, so a limited socket's ratio always
// exceeds an unlimited one's regardless of its absolute session count.
func busyness(sessions, concurrency int) int64 {
	if concurrency <= 0 {
		return unlimitedBusyness
	}
	return int64(sessions) * int64(math.MaxInt32) / int64(concurrency)
}
