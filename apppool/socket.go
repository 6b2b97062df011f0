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

import (
	"net"
	"sync"
)

// SocketProtocol names the framing a Process's Socket expects: either a
// full HTTP/1.x request (ProtocolHTTP) or a length-prefixed session
// envelope (ProtocolSession), per spec §4.7.2 and §6.
type SocketProtocol uint8

const (
	ProtocolHTTP SocketProtocol = iota
	ProtocolSession
)

// Connection is one idle keep-alive connection parked on a Socket's free
// list, ready to be handed back out without a fresh dial.
type Connection struct {
	Conn net.Conn
}

// Socket is a lightweight connection pool to one backend endpoint of one
// Process: an address, a protocol tag, a concurrency limit, and the
// checked-out/idle connection bookkeeping described in spec §3.
//
// concurrency == 0 means unlimited; concurrency == -1 means unknown (not
// yet reported by the worker's handshake).
type Socket struct {
	mu sync.Mutex

	Name        string
	Address     string
	Protocol    SocketProtocol
	concurrency int
	sessions    int

	idle []*Connection
}

// NewSocket creates a Socket with the given address, protocol, and
// concurrency limit.
func NewSocket(name, address string, protocol SocketProtocol, concurrency int) *Socket {
	return &Socket{
		Name:        name,
		Address:     address,
		Protocol:    protocol,
		concurrency: concurrency,
	}
}

// Concurrency returns the socket's configured concurrency limit.
func (s *Socket) Concurrency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.concurrency
}

// Sessions returns the current checked-out session count.
func (s *Socket) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// BelowCapacity reports whether the socket has room for one more session.
// concurrency <= 0 (unlimited/unknown) is always below capacity.
func (s *Socket) BelowCapacity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.concurrency <= 0 || s.sessions < s.concurrency
}

// busyness returns the socket's current busyness ratio (spec §4.3).
func (s *Socket) busyness() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return busyness(s.sessions, s.concurrency)
}

// acquire increments the session count. Caller must have already verified
// BelowCapacity under the Process's lock to avoid a TOCTOU race across
// sockets of the same process.
func (s *Socket) acquire() {
	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
}

// release decrements the session count.
func (s *Socket) release() {
	s.mu.Lock()
	if s.sessions > 0 {
		s.sessions--
	}
	s.mu.Unlock()
}

// CheckoutConnection pops an idle connection, or reports none available so
// the caller dials fresh.
func (s *Socket) CheckoutConnection() (*Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.idle)
	if n == 0 {
		return nil, false
	}
	c := s.idle[n-1]
	s.idle = s.idle[:n-1]
	return c, true
}

// ReturnConnection parks a connection on the idle list for reuse, unless
// failed is set or the free list is already at the concurrency bound, in
// which case it is closed immediately (spec §3 "idle connections returned
// with a failure flag or when the pool is full are closed immediately").
func (s *Socket) ReturnConnection(c *Connection, failed bool) {
	if c == nil {
		return
	}
	s.mu.Lock()
	full := s.concurrency > 0 && len(s.idle) >= s.concurrency
	if failed || full {
		s.mu.Unlock()
		_ = c.Conn.Close()
		return
	}
	s.idle = append(s.idle, c)
	s.mu.Unlock()
}
