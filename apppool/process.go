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
	"sync"
	"time"

	"github.com/nabbar/passenger-core/fdlog"
)

// Process is a spawned worker process, exclusively owned by its Group.
// Identifiers (Pid, Gupid, SpawnStart/SpawnEnd) are immutable once set at
// spawn time; everything else is guarded by mu.
type Process struct {
	mu sync.Mutex

	Pid        int
	Gupid      string
	SpawnStart time.Time
	SpawnEnd   time.Time

	StickyID int64
	hasSticky bool

	sockets []*Socket

	enabled   EnabledStatus
	life      LifeStatus
	oobw      OobwStatus
	processed uint64
	lastUsed  time.Time

	fdj *fdlog.Journal

	// group is a non-owning back-pointer; the Group's process lists are
	// the sole owner (spec §9 "break the Group<->Process back-reference
	// with a non-owning back-pointer plus a liveness flag").
	group *Group
}

// NewProcess creates a Process with the given identifiers and sockets.
// sockets must be non-empty; the first one is used for unqualified routing
// when the caller has no socket-name preference.
func NewProcess(pid int, gupid string, sockets []*Socket, fdj *fdlog.Journal) *Process {
	return &Process{
		Pid:        pid,
		Gupid:      gupid,
		SpawnStart: time.Now(),
		sockets:    sockets,
		enabled:    Enabled,
		life:       Alive,
		oobw:       OobwNotActive,
		lastUsed:   time.Now(),
		fdj:        fdj,
	}
}

// SetSticky assigns the sticky session id this process answers to.
func (p *Process) SetSticky(id int64) {
	p.mu.Lock()
	p.StickyID = id
	p.hasSticky = true
	p.mu.Unlock()
}

// Sticky returns the process's sticky id, if any.
func (p *Process) Sticky() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.StickyID, p.hasSticky
}

// Enabled returns the process's participation status.
func (p *Process) Enabled() EnabledStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *Process) setEnabled(s EnabledStatus) {
	p.mu.Lock()
	p.enabled = s
	p.mu.Unlock()
}

// Life returns the process's liveness status.
func (p *Process) Life() LifeStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.life
}

func (p *Process) setLife(s LifeStatus) {
	p.mu.Lock()
	p.life = s
	p.mu.Unlock()
}

// Processed returns the cumulative request count.
func (p *Process) Processed() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed
}

// LastUsed returns the timestamp of the last session close.
func (p *Process) LastUsed() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUsed
}

// Sockets returns the process's socket list. The slice itself is immutable
// after construction so callers may iterate it without holding mu.
func (p *Process) Sockets() []*Socket {
	return p.sockets
}

// lowestBusySocket returns the socket with the lowest busyness that still
// has room, or nil if every socket is saturated.
func (p *Process) lowestBusySocket() *Socket {
	var best *Socket
	var bestVal int64
	for _, s := range p.sockets {
		if !s.BelowCapacity() {
			continue
		}
		v := s.busyness()
		if best == nil || v < bestVal {
			best, bestVal = s, v
		}
	}
	return best
}

// TotallyBusy reports whether every socket on the process is at its
// concurrency limit (spec §3).
func (p *Process) TotallyBusy() bool {
	for _, s := range p.sockets {
		if s.BelowCapacity() {
			return false
		}
	}
	return true
}

// Routable reports whether the process can accept a new session right now
// (spec §3: some socket below limit, enabled in {Enabled, Disabling}, alive).
func (p *Process) Routable() bool {
	st := p.Enabled()
	if st != Enabled && st != Disabling {
		return false
	}
	if p.Life() != Alive {
		return false
	}
	return p.lowestBusySocket() != nil
}

// busyness is the process-level busyness used to rank candidates: the
// lowest busyness among its sockets that still has room, or the lowest
// busyness overall if none has room (so a totally-busy process still sorts
// consistently against its peers).
func (p *Process) busyness() int64 {
	if s := p.lowestBusySocket(); s != nil {
		return s.busyness()
	}
	var min int64 = -1
	first := true
	for _, s := range p.sockets {
		v := s.busyness()
		if first || v < min {
			min, first = v, false
		}
	}
	return min
}

// ApiKey returns the PASSENGER_CONNECT_PASSWORD configured on the Group
// that owns this process, or "" for a standalone/Noop process (spec §6).
func (p *Process) ApiKey() string {
	if p.group == nil {
		return ""
	}
	return p.group.opts.ApiKey
}

// RequestOOBW flags the process for an out-of-band-work cycle the next
// time its Group finds it idle (spec §4.4.5). A second call while one is
// already requested or in progress, or on a process that is no longer
// alive, is a no-op. Thread-safe; call outside the Group's mutex.
func (p *Process) RequestOOBW() {
	p.mu.Lock()
	if p.oobw == OobwNotActive && p.life == Alive {
		p.oobw = OobwRequested
	}
	p.mu.Unlock()
}

// Session is a handle for one in-flight request on one Process's Socket
// (spec §3). Destroying it (Close) returns the connection to the Socket's
// free list and decrements counters exactly once.
type Session struct {
	once sync.Once

	Process *Process
	Socket  *Socket
	Conn    *Connection

	OnInitiateFailure func()
	OnClose           func()

	startedAt time.Time
}

// NewSession selects the least-busy below-capacity socket on p, increments
// its session count, and returns a bound Session (spec §4.3). Returns nil
// if the process has no room (callers must have checked Routable first).
func (p *Process) NewSession(now time.Time) *Session {
	s := p.lowestBusySocket()
	if s == nil {
		return nil
	}

	wasBusy := p.TotallyBusy()
	s.acquire()
	p.mu.Lock()
	p.lastUsed = now
	p.mu.Unlock()

	if !wasBusy && p.TotallyBusy() && p.group != nil {
		p.group.bumpTotallyBusy(1)
	}

	if p.fdj != nil {
		p.fdj.RecordOpen(p.Gupid, s.Name)
	}

	sess := &Session{Process: p, Socket: s, startedAt: now}
	return sess
}

// SessionClosed decrements the socket's session count and, if this made the
// process no longer totally busy, decrements the Group's counter (spec
// §4.3). It is the counterpart of NewSession and is called by
// Session.Close exactly once per session.
func (p *Process) SessionClosed(s *Socket, now time.Time) {
	wasBusy := p.TotallyBusy()
	s.release()
	p.mu.Lock()
	p.lastUsed = now
	p.processed++
	p.mu.Unlock()

	if wasBusy && !p.TotallyBusy() && p.group != nil {
		p.group.bumpTotallyBusy(-1)
	}

	if p.fdj != nil {
		p.fdj.RecordClose(p.Gupid, s.Name)
	}
}

// InitiateFailure reports a failed handshake on a just-created session
// (spec §4.4.3 onSessionInitiateFailure): the session is torn down without
// counting as a normal close, and the process is removed from its Group.
func (s *Session) InitiateFailure() {
	s.once.Do(func() {
		s.Process.SessionClosed(s.Socket, time.Now())
		if s.OnInitiateFailure != nil {
			s.OnInitiateFailure()
		}
		if s.Process.group != nil {
			s.Process.group.onSessionInitiateFailure(s.Process, s)
		}
	})
}

// Close returns the session's connection to the socket and runs the
// Group's onSessionClose glue exactly once, even under concurrent callers
// (spec §8 invariant 6: "every Session created is eventually closed exactly
// once").
func (s *Session) Close(keepAlive bool) {
	s.once.Do(func() {
		s.Socket.ReturnConnection(s.Conn, !keepAlive)
		now := time.Now()
		s.Process.SessionClosed(s.Socket, now)
		if s.OnClose != nil {
			s.OnClose()
		}
		if s.Process.group != nil {
			s.Process.group.onSessionClose(s.Process, s)
		}
	})
}
