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
	"net"
	"sync/atomic"
)

// Acceptor is the socket multiplexer of spec §2.2: it accepts connections
// in a tight loop (the original's "burst accept" — keep calling accept(2)
// while it keeps succeeding rather than yielding after every connection)
// and hands each one to the next of N workers in round-robin order.
//
// Go's M:N goroutine scheduler is the idiomatic substitute for the
// original's fixed worker-thread pool: Handle runs on its own goroutine
// per connection rather than being scheduled onto a borrowed OS thread, so
// Acceptor does not itself own any Loop. The round-robin index is still
// threaded through so a caller can shard per-worker state the way §2.2
// describes (e.g. one turbocache.Cache or one metrics label per index).
type Acceptor struct {
	ln      net.Listener
	workers int
	next    uint64

	// Handle processes one accepted connection tagged with its round-robin
	// worker index. Called on a fresh goroutine per connection.
	Handle func(workerIndex int, conn net.Conn)

	// OnAcceptError is called for any Accept error other than the listener
	// being closed (which ends Serve normally). Optional.
	OnAcceptError func(error)
}

// NewAcceptor builds an Acceptor over ln, round-robining across workers
// workers (clamped to at least 1).
func NewAcceptor(ln net.Listener, workers int, handle func(int, net.Conn)) *Acceptor {
	if workers < 1 {
		workers = 1
	}
	return &Acceptor{ln: ln, workers: workers, Handle: handle}
}

// Serve accepts connections until ln is closed or Accept returns a
// permanent error, dispatching each to Handle. It blocks; run it on its
// own goroutine.
func (a *Acceptor) Serve() error {
	for {
		conn, err := a.ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() { //nolint:staticcheck
				continue
			}
			return err
		}

		idx := int(atomic.AddUint64(&a.next, 1) % uint64(a.workers))
		go a.Handle(idx, conn)
	}
}

// Close stops Serve by closing the underlying listener.
func (a *Acceptor) Close() error {
	return a.ln.Close()
}
