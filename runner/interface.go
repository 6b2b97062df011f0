/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package runner defines the common lifecycle contract shared by this
// module's background workers (log aggregation, process supervision,
// event-loop hosts) and a shared panic-recovery helper used at every
// goroutine boundary.
package runner

import (
	"context"
	"fmt"
	"time"
)

// Runner is the lifecycle contract a background worker exposes: start,
// stop, restart, and liveness/uptime introspection.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
}

// RecoveryCaller logs a recovered panic with the name of the call site it
// occurred in. name identifies the goroutine/function that panicked; r is
// the value returned by recover() (nil means no panic occurred).
//
// This module has no standing logger reference at the point most of these
// recover() sites run (they guard goroutines launched before any logger is
// necessarily wired), so it prints to stderr the way the teacher's own
// lowest-level recovery helper does before a logger takes over.
func RecoveryCaller(name string, r any) {
	if r == nil {
		return
	}
	fmt.Printf("recovered panic in %s: %v\n", name, r)
}
