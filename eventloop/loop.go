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

// Package eventloop implements the single-threaded cooperative scheduler a
// Request Controller worker runs on (spec §2.1, §4.1): one goroutine per
// worker drains a task queue, fires due timers, and dispatches fd-readiness
// callbacks, all serialized onto that one goroutine so Controller state
// never needs its own lock. The Pool keeps its own mutex and is reachable
// from any goroutine, matching the C++ original's "exactly one mutex, most
// everything else single-threaded" split (spec §4 "Scheduling model").
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
)

// Task is a unit of work posted to a Loop. It always runs on the Loop's own
// goroutine.
type Task func()

// Loop is a single worker's event loop: one goroutine, a FIFO task queue,
// a timer heap (timer.go) and an fd-readiness poller (poller*.go). There is
// no cross-loop state; a multi-worker process runs one Loop per core and
// the Socket multiplexer (spec §2.2) hands accepted connections to them in
// round robin.
type Loop struct {
	wake   chan struct{}
	tasks  chan Task
	urgent chan Task

	timers  *timerHeap
	timerMu sync.Mutex

	poller Poller

	running atomic.Bool
	done    chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a Loop. The Loop does nothing until Run is called; poller
// selects the platform-appropriate readiness backend (epoll on Linux, a
// goroutine-per-connection peek reader elsewhere — see poller_linux.go /
// poller_other.go).
func New() *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		tasks:  make(chan Task, 256),
		urgent: make(chan Task, 16),
		timers: newTimerHeap(),
		done:   make(chan struct{}),
	}
	l.poller = newPoller(l)
	return l
}

// RunLater enqueues task to run on the Loop's own goroutine and wakes it if
// idle. Safe to call from any goroutine (spec §4.1: "enqueue on the event
// loop from any thread and wake it").
func (l *Loop) RunLater(task Task) {
	if task == nil {
		return
	}
	l.tasks <- task
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunSync posts task and blocks the caller until it has run. Calling this
// from the Loop's own goroutine would deadlock, matching the original's
// documented restriction on re-entrant syncher use (spec §4 "Shared-resource
// policy").
func (l *Loop) RunSync(task Task) {
	if task == nil {
		return
	}
	done := make(chan struct{})
	l.RunLater(func() {
		task()
		close(done)
	})
	<-done
}

// Run drains tasks, due timers and readiness callbacks until ctx is
// cancelled or Stop is called. Run must be called from the goroutine that
// is to become this worker's event-loop thread; every Task, timer callback
// and readiness callback this Loop ever invokes runs here and nowhere else.
func (l *Loop) Run(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	defer l.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	for {
		select {
		case <-runCtx.Done():
			_ = l.poller.Close()
			close(l.done)
			return
		case t := <-l.urgent:
			t()
		case t := <-l.tasks:
			t()
		case <-l.wake:
			// Woken by RunLater after the select above already raced the
			// task onto the channel; the next loop iteration picks it up.
		case <-l.timers.fired():
			l.fireDueTimers()
		}
	}
}

// Stop requests the Loop to exit its Run call. Idempotent; a no-op if Run
// has not been called yet (there is nothing to cancel).
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// IsRunning reports whether Run is currently draining this Loop.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// postReadiness is called by the Poller (from its own goroutine) when a
// registered fd becomes readable. It is routed through RunLater so the
// registered callback still only ever runs on the Loop goroutine.
func (l *Loop) postReadiness(cb func()) {
	l.RunLater(cb)
}
