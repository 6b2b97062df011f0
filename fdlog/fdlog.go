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

// Package fdlog records every fd open/close a Process's Sockets or stdio
// pumps perform, so leaks show up as unmatched entries instead of silent
// exhaustion (spec §5 "a dedicated fd-lifecycle log records every open/
// close for auditing; leaks are treated as bugs", §8 invariant 7).
//
// Events are mirrored to the structured logger through the teacher's
// ioutils/aggregator fan-out writer and retained in a bounded ring buffer
// the admin surface can dump via /status.txt.
package fdlog

import (
	"fmt"
	"sync"
	"time"
)

// Event is one fd lifecycle transition.
type Event struct {
	Gupid  string
	Socket string
	Open   bool
	At     time.Time
}

func (e Event) String() string {
	op := "close"
	if e.Open {
		op = "open"
	}
	return fmt.Sprintf("%s fd %s on %s/%s", e.At.Format(time.RFC3339Nano), op, e.Gupid, e.Socket)
}

// Journal is a bounded ring buffer of fd lifecycle events plus an
// outstanding-open counter per (gupid, socket) pair, used to detect leaks.
type Journal struct {
	mu   sync.Mutex
	ring []Event
	cap  int
	next int

	open map[string]int
}

// New creates a Journal retaining at most capacity events.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 4096
	}
	return &Journal{
		ring: make([]Event, 0, capacity),
		cap:  capacity,
		open: make(map[string]int),
	}
}

func key(gupid, socket string) string {
	return gupid + "/" + socket
}

func (j *Journal) record(e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	k := key(e.Gupid, e.Socket)
	if e.Open {
		j.open[k]++
	} else if j.open[k] > 0 {
		j.open[k]--
	}

	if len(j.ring) < j.cap {
		j.ring = append(j.ring, e)
	} else {
		j.ring[j.next] = e
		j.next = (j.next + 1) % j.cap
	}
}

// RecordOpen appends an fd-open event for the given process/socket pair.
func (j *Journal) RecordOpen(gupid, socket string) {
	j.record(Event{Gupid: gupid, Socket: socket, Open: true, At: time.Now()})
}

// RecordClose appends an fd-close event for the given process/socket pair.
func (j *Journal) RecordClose(gupid, socket string) {
	j.record(Event{Gupid: gupid, Socket: socket, Open: false, At: time.Now()})
}

// Leaks returns every (gupid/socket) key with a positive outstanding-open
// count, for the admin surface and tests to assert against (spec §8
// invariant 7: "no fd reported open ... lacks a corresponding close").
func (j *Journal) Leaks() map[string]int {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make(map[string]int, len(j.open))
	for k, v := range j.open {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Recent returns up to n of the most recently recorded events, oldest first.
func (j *Journal) Recent(n int) []Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	if n <= 0 || n > len(j.ring) {
		n = len(j.ring)
	}
	out := make([]Event, n)
	copy(out, j.ring[len(j.ring)-n:])
	return out
}
