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

package apppool

import liberr "github.com/nabbar/passenger-core/errors"

// Error codes for the typed exception kinds the Pool's get callback may
// deliver. These are a closed set: the Controller switches on them by code,
// never by arbitrary error text (spec §7, §9 "do not allow arbitrary
// throwables to cross the Pool/Controller boundary").
const (
	CodeSpawnException          uint16 = 5001
	CodeRequestQueueFull        uint16 = 5002
	CodePoolAtFullCapacity      uint16 = 5003
	CodeSessionInitiateFailure  uint16 = 5004
	CodeNoProcessAvailable      uint16 = 5005
	CodeGroupShuttingDown       uint16 = 5006
)

// ErrSpawnException wraps a SpawningKit failure with the category and
// message a friendly error page can render (spec §4.7.6, §7.4).
func ErrSpawnException(category, message string, parent error) liberr.Error {
	if parent != nil {
		return liberr.New(CodeSpawnException, "failed to spawn application process: "+category+": "+message, parent)
	}
	return liberr.New(CodeSpawnException, "failed to spawn application process: "+category+": "+message)
}

// ErrRequestQueueFull is returned to a GetWaiter whose wait exceeded the
// request-queue timeout, or whose enqueue was rejected outright because the
// queue is already at its configured bound (spec §4.7.6, §7.5).
var ErrRequestQueueFull = liberr.New(CodeRequestQueueFull, "request queue is full")

// ErrPoolAtFullCapacity is returned by a spawn attempt when the Pool is at
// its global process budget and no eviction victim could be found (spec
// §4.5.3, §8 boundary behaviors).
var ErrPoolAtFullCapacity = liberr.New(CodePoolAtFullCapacity, "pool is at full capacity")

// ErrSessionInitiateFailure is surfaced when the handshake with a freshly
// checked-out session fails before any bytes of a request were written
// (spec §4.4.3).
var ErrSessionInitiateFailure = liberr.New(CodeSessionInitiateFailure, "failed to initiate session with application process")

// ErrNoProcessAvailable is the routing failure for a sticky request whose
// target process exists but is totally busy (spec §4.3 "deliberately not
// falling back to a different process").
var ErrNoProcessAvailable = liberr.New(CodeNoProcessAvailable, "no process available right now")

// ErrGroupShuttingDown rejects new get() calls against a Group mid-shutdown.
var ErrGroupShuttingDown = liberr.New(CodeGroupShuttingDown, "group is shutting down")

// isPoolAtFullCapacity reports whether err (or any of its parents) carries
// CodePoolAtFullCapacity, so requestSpawn can decide whether an eviction
// retry is worth attempting.
func isPoolAtFullCapacity(err error) bool {
	e, ok := err.(liberr.Error)
	if !ok {
		return false
	}
	return e.HasCode(liberr.CodeError(CodePoolAtFullCapacity))
}
