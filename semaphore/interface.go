/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package semaphore bounds concurrent work with a weighted limiter, built on
// golang.org/x/sync/semaphore. A negative limit falls back to an unlimited
// sync.WaitGroup-style semaphore; zero uses MaxSimultaneous.
package semaphore

import (
	"context"
	"runtime"
	"sync"

	xsem "golang.org/x/sync/semaphore"
)

// Semaphore bounds the number of concurrent workers admitted via NewWorker.
type Semaphore interface {
	// NewWorker blocks until a slot is available or the semaphore's context is done.
	NewWorker() error
	// NewWorkerTry attempts to acquire a slot without blocking.
	NewWorkerTry() bool
	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry.
	DeferWorker()
	// DeferMain waits for every outstanding worker to release before returning.
	DeferMain()
	// Weighted returns the configured concurrency limit (-1 means unlimited).
	Weighted() int64
	// Err returns the semaphore's context error, if any.
	Err() error
	// Clone creates an independent semaphore with the same limit and progress flag.
	Clone() Semaphore
	// New is an alias of Clone kept for call-site symmetry with semaphore/sem.
	New() Semaphore
}

type sem struct {
	ctx context.Context

	limit    int64
	progress bool

	wgt *xsem.Weighted
	wg  sync.WaitGroup
}

// New creates a Semaphore bound to ctx. n == 0 uses MaxSimultaneous, n < 0
// creates an unlimited (WaitGroup-based) semaphore. progress is accepted for
// call-site compatibility with the teacher's progress-bar variant; this
// reconstruction has no progress-bar rendering and always reports it disabled.
func New(ctx context.Context, n int64, progress bool) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &sem{ctx: ctx, progress: progress}

	switch {
	case n == 0:
		s.limit = int64(MaxSimultaneous())
		s.wgt = xsem.NewWeighted(s.limit)
	case n < 0:
		s.limit = -1
	default:
		s.limit = n
		s.wgt = xsem.NewWeighted(s.limit)
	}

	return s
}

func (s *sem) NewWorker() error {
	if s.wgt == nil {
		s.wg.Add(1)
		return nil
	}
	return s.wgt.Acquire(s.ctx, 1)
}

func (s *sem) NewWorkerTry() bool {
	if s.wgt == nil {
		s.wg.Add(1)
		return true
	}
	return s.wgt.TryAcquire(1)
}

func (s *sem) DeferWorker() {
	if s.wgt == nil {
		s.wg.Done()
		return
	}
	s.wgt.Release(1)
}

func (s *sem) DeferMain() {
	if s.wgt == nil {
		s.wg.Wait()
	}
}

func (s *sem) Weighted() int64 {
	return s.limit
}

func (s *sem) Err() error {
	return s.ctx.Err()
}

func (s *sem) Clone() Semaphore {
	return New(s.ctx, s.limit, s.progress)
}

func (s *sem) New() Semaphore {
	return s.Clone()
}

// MaxSimultaneous returns the default concurrency ceiling, derived from
// runtime.GOMAXPROCS the same way the teacher's semaphore package does.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// SetSimultaneous clamps n to [1, MaxSimultaneous()], returning MaxSimultaneous
// for any n outside that range.
func SetSimultaneous(n int64) int64 {
	max := int64(MaxSimultaneous())
	if n < 1 || n > max {
		return max
	}
	return n
}
