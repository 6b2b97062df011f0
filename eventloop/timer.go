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

package eventloop

import (
	"container/heap"
	"sync"
	"time"
)

// TimerID identifies a scheduled timer for CancelTimer.
type TimerID uint64

type timerEntry struct {
	id    TimerID
	at    time.Time
	task  Task
	index int
}

type timerQueue []*timerEntry

func (q timerQueue) Len() int            { return len(q) }
func (q timerQueue) Less(i, j int) bool  { return q[i].at.Before(q[j].at) }
func (q timerQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *timerQueue) Push(x interface{}) {
	e := x.(*timerEntry)
	e.index = len(*q)
	*q = append(*q, e)
}
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// timerHeap is the Loop's due-timer source: a min-heap keyed on fire time,
// backed by a single time.Timer reset to the earliest entry so the Loop's
// select only ever wakes once per due timer, not once per tick (spec §4.1
// "timers").
type timerHeap struct {
	mu     sync.Mutex
	q      timerQueue
	nextID TimerID
	timer  *time.Timer
	// armed is false once the timer has fired or before anything was ever
	// scheduled, so Stop()/resetLocked() don't race a nil-channel receive.
	armed bool
}

func newTimerHeap() *timerHeap {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return &timerHeap{timer: t}
}

// fired returns the channel the Loop selects on for due timers.
func (h *timerHeap) fired() <-chan time.Time {
	return h.timer.C
}

// Add schedules task to run at now+d and returns an id CancelTimer accepts.
func (h *timerHeap) Add(d time.Duration, task Task) TimerID {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	e := &timerEntry{id: h.nextID, at: time.Now().Add(d), task: task}
	heap.Push(&h.q, e)
	h.resetLocked()
	return e.id
}

// Cancel removes a pending timer. A no-op if id already fired or is
// unknown.
func (h *timerHeap) Cancel(id TimerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.q {
		if e.id == id {
			heap.Remove(&h.q, i)
			h.resetLocked()
			return
		}
	}
}

func (h *timerHeap) resetLocked() {
	if h.armed && !h.timer.Stop() {
		select {
		case <-h.timer.C:
		default:
		}
	}
	h.armed = false

	if len(h.q) == 0 {
		return
	}

	d := time.Until(h.q[0].at)
	if d < 0 {
		d = 0
	}
	h.timer.Reset(d)
	h.armed = true
}

// fireDueTimers pops and runs every entry whose fire time has passed, then
// rearms for the next one. Only ever called from the Loop goroutine.
func (l *Loop) fireDueTimers() {
	now := time.Now()
	var due []Task

	l.timers.mu.Lock()
	for len(l.timers.q) > 0 && !l.timers.q[0].at.After(now) {
		e := heap.Pop(&l.timers.q).(*timerEntry)
		due = append(due, e.task)
	}
	l.timers.armed = false
	l.timers.resetLocked()
	l.timers.mu.Unlock()

	for _, t := range due {
		if t != nil {
			t()
		}
	}
}

// AddTimer schedules task to run on the Loop goroutine after d elapses.
func (l *Loop) AddTimer(d time.Duration, task Task) TimerID {
	return l.timers.Add(d, task)
}

// CancelTimer cancels a pending timer scheduled with AddTimer.
func (l *Loop) CancelTimer(id TimerID) {
	l.timers.Cancel(id)
}
