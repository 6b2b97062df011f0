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
	"time"

	liberr "github.com/nabbar/passenger-core/errors"
	"github.com/nabbar/passenger-core/protocol"
)

// oobwTimeout bounds how long runOOBW waits for the worker to answer an
// out-of-band-work request before abandoning it (spec §4.4.5: "errors or
// timeouts abort OOBW without killing the process").
const oobwTimeout = 5 * time.Second

// Spawner starts one new worker process for a Group and reports its
// sockets once the spawn handshake completes. Implemented outside this
// package (see spawnkit) so the Pool never depends on the process-launch
// mechanics it merely drives (spec §1 "the Pool invokes [SpawningKit] but
// does not implement it").
type Spawner interface {
	Spawn(opts GroupOptions) (*Process, error)
}

// GroupOptions is the merged, immutable-per-generation configuration a
// Group routes and spawns against (spec §3 "merged application options").
type GroupOptions struct {
	Name                      string
	Min                       int
	Max                       int
	MaxRequests               uint64
	MaxOutOfBandWorkInstances int
	RestartMode               RestartMode
	// RestartSupersede, when true, lets a newly requested restart cancel an
	// in-flight rolling restart and start over with the latest generation
	// instead of queuing behind it (resolved Open Question, see DESIGN.md).
	RestartSupersede bool
	Noop             bool
	StickyID         int64
	HasStickyID      bool
	Spawner          Spawner
	// ApiKey is the PASSENGER_CONNECT_PASSWORD sent with every
	// out-of-band-work envelope (spec §4.4.5, §6).
	ApiKey string
}

// GetWaiter is a queued request for a session that could not be satisfied
// synchronously (spec §3, §4.4.2).
type GetWaiter struct {
	Options  GroupOptions
	Callback func(*Session, error)
}

// Group owns every Process for one application identity and the FIFO of
// requests waiting for one (spec §3, §4.4).
type Group struct {
	mu sync.Mutex

	name string
	opts GroupOptions

	enabledProcesses   []*Process
	disablingProcesses []*Process
	disabledProcesses  []*Process

	nEnabledProcessesTotallyBusy int

	waiters []*GetWaiter

	life       GroupLifeStatus
	spawning   bool
	restarting bool

	oobwInFlight int

	null *Process

	pool *Pool
}

// NewGroup creates an empty Group under the given options, owned by pool
// (nil for standalone tests).
func NewGroup(opts GroupOptions, pool *Pool) *Group {
	g := &Group{
		name: opts.Name,
		opts: opts,
		life: GroupAlive,
		pool: pool,
	}
	g.null = &Process{Gupid: "null-process", enabled: Disabled, life: Alive, group: g}
	return g
}

// Name returns the group's app-group name.
func (g *Group) Name() string { return g.name }

// bumpTotallyBusy adjusts nEnabledProcessesTotallyBusy; called by a
// Process whenever a session checkout/close crosses its totally-busy
// threshold (spec §3 invariant).
func (g *Group) bumpTotallyBusy(delta int) {
	g.mu.Lock()
	g.nEnabledProcessesTotallyBusy += delta
	if g.nEnabledProcessesTotallyBusy < 0 {
		g.nEnabledProcessesTotallyBusy = 0
	}
	g.mu.Unlock()
}

func removeProcess(list []*Process, p *Process) []*Process {
	for i, q := range list {
		if q == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// route implements spec §4.4.1: pick a candidate without mutating state.
// Caller must hold g.mu.
func (g *Group) route(opts GroupOptions) (*Process, liberr.Error) {
	if opts.HasStickyID {
		for _, p := range g.enabledProcesses {
			if id, ok := p.Sticky(); ok && id == opts.StickyID {
				if p.Routable() {
					return p, nil
				}
				return nil, ErrNoProcessAvailable
			}
		}
	}

	if len(g.enabledProcesses) > 0 {
		best := lowestBusyRoutable(g.enabledProcesses)
		if best != nil {
			return best, nil
		}
		return nil, nil
	}

	if len(g.disablingProcesses) > 0 {
		best := lowestBusyRoutable(g.disablingProcesses)
		if best != nil {
			return best, nil
		}
	}
	return nil, nil
}

func lowestBusyRoutable(list []*Process) *Process {
	var best *Process
	var bestVal int64
	for _, p := range list {
		if !p.Routable() {
			continue
		}
		v := p.busyness()
		if best == nil || v < bestVal {
			best, bestVal = p, v
		}
	}
	return best
}

// get implements spec §4.4.2. postLockActions collects deferred callbacks
// (e.g. spawn requests) that must run after the Pool's mutex is released,
// per the "syncher" re-entrancy rule (spec §5).
func (g *Group) Get(opts GroupOptions, callback func(*Session, error), postLockActions *[]func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.restarting && opts.RestartMode == RestartBlocking {
		g.waiters = append(g.waiters, &GetWaiter{Options: opts, Callback: callback})
		return
	}

	if g.life != GroupAlive {
		callback(nil, ErrGroupShuttingDown)
		return
	}

	if opts.Noop {
		sess := &Session{Process: g.null, startedAt: time.Now()}
		callback(sess, nil)
		return
	}

	if len(g.enabledProcesses) == 0 && len(g.disablingProcesses) == 0 && !g.spawning && opts.Spawner != nil {
		g.spawning = true
		capturedOpts := g.opts
		*postLockActions = append(*postLockActions, func() {
			g.requestSpawn(capturedOpts)
		})
	}

	p, rerr := g.route(opts)
	if rerr != nil {
		callback(nil, rerr)
		return
	}
	if p != nil {
		sess := p.NewSession(time.Now())
		if sess == nil {
			callback(nil, ErrNoProcessAvailable)
			return
		}
		callback(sess, nil)
		return
	}

	g.waiters = append(g.waiters, &GetWaiter{Options: opts, Callback: callback})
}

// requestSpawn drives a spawn attempt outside the Pool mutex and wires the
// resulting Process into the Group, then resolves any waiters it can now
// satisfy. If the Pool reports full capacity, it asks the Pool to evict a
// victim (spec §4.4.2, §4.5.3) and retries exactly once.
func (g *Group) requestSpawn(opts GroupOptions) {
	defer func() {
		g.mu.Lock()
		g.spawning = false
		g.mu.Unlock()
	}()

	if opts.Spawner == nil {
		return
	}

	p, err := opts.Spawner.Spawn(opts)
	if err != nil && g.pool != nil && isPoolAtFullCapacity(err) {
		if g.pool.freeCapacityFor(g) {
			p, err = opts.Spawner.Spawn(opts)
		}
	}
	if err != nil {
		g.mu.Lock()
		waiters := g.waiters
		g.waiters = nil
		g.mu.Unlock()
		for _, w := range waiters {
			w.Callback(nil, ErrSpawnException("spawn", err.Error(), err))
		}
		return
	}

	p.group = g
	g.mu.Lock()
	g.enabledProcesses = append(g.enabledProcesses, p)
	g.assignWaitersLocked()
	g.mu.Unlock()

	if g.pool != nil {
		g.pool.onGroupGainedCapacity(g)
	}
}

// assignWaitersLocked hands out sessions to as many queued waiters as the
// Group can currently route to, in FIFO order. Caller must hold g.mu.
func (g *Group) assignWaitersLocked() {
	for len(g.waiters) > 0 {
		p, rerr := g.route(g.waiters[0].Options)
		if rerr != nil {
			w := g.waiters[0]
			g.waiters = g.waiters[1:]
			w.Callback(nil, rerr)
			continue
		}
		if p == nil {
			return
		}
		sess := p.NewSession(time.Now())
		if sess == nil {
			return
		}
		w := g.waiters[0]
		g.waiters = g.waiters[1:]
		w.Callback(sess, nil)
	}
}

// onSessionInitiateFailure implements spec §4.4.3: a failed handshake
// removes the process outright so its capacity is freed for others.
func (g *Group) onSessionInitiateFailure(p *Process, _ *Session) {
	g.mu.Lock()
	g.enabledProcesses = removeProcess(g.enabledProcesses, p)
	g.disablingProcesses = removeProcess(g.disablingProcesses, p)
	g.disabledProcesses = removeProcess(g.disabledProcesses, p)
	p.setLife(Dead)
	g.mu.Unlock()

	if g.pool != nil {
		g.pool.onGroupGainedCapacity(g)
	}
}

// onSessionClose implements spec §4.4.3's five-step decision cascade.
func (g *Group) onSessionClose(p *Process, _ *Session) {
	g.mu.Lock()

	if g.opts.MaxRequests > 0 && p.Processed() >= g.opts.MaxRequests {
		g.detachLocked(p)
		g.mu.Unlock()
		g.afterCapacityChange()
		return
	}

	sessionsLeft := totalSessions(p)

	if sessionsLeft == 0 && len(g.waiters) == 0 && g.pool != nil && g.pool.anyoneWaitingForCapacity(g) {
		g.detachLocked(p)
		g.mu.Unlock()
		g.afterCapacityChange()
		return
	}

	if p.Enabled() == Disabling && sessionsLeft == 0 {
		g.enabledProcesses = removeProcess(g.enabledProcesses, p)
		g.disablingProcesses = removeProcess(g.disablingProcesses, p)
		g.disabledProcesses = append(g.disabledProcesses, p)
		p.setEnabled(Disabled)
		g.maybeStartOOBWLocked(p, 0)
		g.mu.Unlock()
		return
	}

	g.maybeStartOOBWLocked(p, sessionsLeft)
	g.assignWaitersLocked()
	g.mu.Unlock()
}

// totalSessions sums the checked-out session count across every socket of
// p, used wherever a caller needs to know if a process is fully idle.
func totalSessions(p *Process) int {
	n := 0
	for _, s := range p.Sockets() {
		n += s.Sessions()
	}
	return n
}

// maybeStartOOBWLocked begins an out-of-band-work cycle for p if it has
// requested one (via Process.RequestOOBW/Group.RequestOOBW) and the Group
// is within its configured concurrent-OOBW bound (spec §4.4.5). If p is
// still Enabled but idle, it is moved straight to Disabled first, mirroring
// the disable-then-oobw sequence; if it still has sessions or is mid
// rolling-restart drain, the request stays pending for the next
// onSessionClose that finds it idle. Caller must hold g.mu.
func (g *Group) maybeStartOOBWLocked(p *Process, sessionsLeft int) {
	if p.oobw != OobwRequested {
		return
	}

	switch p.Enabled() {
	case Disabled:
		// already idle and off the routing path
	case Enabled:
		if sessionsLeft > 0 {
			return
		}
		g.enabledProcesses = removeProcess(g.enabledProcesses, p)
		g.disabledProcesses = append(g.disabledProcesses, p)
		p.setEnabled(Disabled)
	default:
		// Disabling (rolling restart) or Detached: wait for the next
		// onSessionClose to either finish draining it or detach it outright.
		return
	}

	if g.opts.MaxOutOfBandWorkInstances > 0 && g.oobwInFlight >= g.opts.MaxOutOfBandWorkInstances {
		return
	}
	g.oobwInFlight++
	p.oobw = OobwInProgress
	go g.runOOBW(p)
}

// runOOBW performs the disable -> single request/reply -> re-enable dance
// over a checked-out connection (spec §4.4.5). Errors or timeouts abort
// without killing the process; the connection is always force-closed
// afterward rather than recycled, since its framing may be left mid-message.
func (g *Group) runOOBW(p *Process) {
	defer func() {
		g.mu.Lock()
		g.oobwInFlight--
		p.oobw = OobwNotActive
		if p.Enabled() == Disabled {
			g.disabledProcesses = removeProcess(g.disabledProcesses, p)
			g.enabledProcesses = append(g.enabledProcesses, p)
			p.setEnabled(Enabled)
		}
		g.assignWaitersLocked()
		g.mu.Unlock()
	}()

	sockets := p.Sockets()
	if len(sockets) == 0 {
		return
	}
	sock := p.lowestBusySocket()
	if sock == nil {
		sock = sockets[0]
	}

	conn, ok := sock.CheckoutConnection()
	if !ok {
		c, err := net.Dial("tcp", sock.Address)
		if err != nil {
			return
		}
		conn = &Connection{Conn: c}
	}
	// OOBW connections are never returned to the idle pool: the worker may
	// still be mid-task when we stop waiting (spec §4.4.5).
	defer sock.ReturnConnection(conn, true)

	_ = conn.Conn.SetDeadline(time.Now().Add(oobwTimeout))

	env := protocol.Envelope{
		"REQUEST_METHOD":             "OOBW",
		"PASSENGER_CONNECT_PASSWORD": g.opts.ApiKey,
	}
	if err := protocol.WriteEnvelope(conn.Conn, env, protocol.StandardEnvelopeOrder); err != nil {
		return
	}

	// The reply's content is never inspected (spec §4.4.5: "wait for the
	// reply" only), just its arrival, so the worker has finished before the
	// process is re-enabled.
	var ack [1]byte
	_, _ = conn.Conn.Read(ack[:])
}

// detachLocked removes p from whichever list holds it, marks it dying, and
// lets its sockets drain their idle connections. Caller must hold g.mu.
func (g *Group) detachLocked(p *Process) {
	g.enabledProcesses = removeProcess(g.enabledProcesses, p)
	g.disablingProcesses = removeProcess(g.disablingProcesses, p)
	g.disabledProcesses = removeProcess(g.disabledProcesses, p)
	p.setEnabled(Detached)
	p.setLife(ShuttingDown)
}

// afterCapacityChange notifies the Pool outside g.mu so cross-group
// fair-spawning (spec §4.5.2) can run without re-entering this Group's lock.
func (g *Group) afterCapacityChange() {
	if g.pool != nil {
		g.pool.onGroupGainedCapacity(g)
	}
}

// Restart implements spec §4.4.4. Blocking mode detaches every process and
// lets the next get() spawn a fresh generation; rolling mode moves the
// current generation to disabling and spawns a replacement immediately.
func (g *Group) Restart(mode RestartMode) {
	g.mu.Lock()
	if g.restarting && !g.opts.RestartSupersede {
		g.mu.Unlock()
		return
	}
	g.restarting = true

	switch mode {
	case RestartBlocking:
		for _, p := range g.enabledProcesses {
			g.detachLocked(p)
		}
		for _, p := range g.disablingProcesses {
			g.detachLocked(p)
		}
		g.restarting = false
		g.mu.Unlock()

	case RestartRolling:
		moving := g.enabledProcesses
		g.enabledProcesses = nil
		for _, p := range moving {
			p.setEnabled(Disabling)
		}
		g.disablingProcesses = append(g.disablingProcesses, moving...)
		opts := g.opts
		spawner := opts.Spawner
		g.restarting = false
		g.mu.Unlock()

		if spawner != nil {
			go g.requestSpawn(opts)
		}
	}
}

// EnabledCount, DisablingCount, DisabledCount report list sizes for the
// Pool's capacity accounting and the admin status surface.
func (g *Group) EnabledCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.enabledProcesses)
}

func (g *Group) DisablingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.disablingProcesses)
}

func (g *Group) DisabledCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.disabledProcesses)
}

// AliveCount is the capacity this Group currently charges against the
// Pool's global max (spec §3 Pool invariant).
func (g *Group) AliveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.enabledProcesses) + len(g.disablingProcesses) + len(g.disabledProcesses)
}

// HasWaiters reports whether any GetWaiter is queued on this Group.
func (g *Group) HasWaiters() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.waiters) > 0
}

// OldestIdleEnabled returns the enabled, zero-session process with the
// oldest lastUsed timestamp, for forced-capacity-freeing eviction (spec
// §4.5.3), or nil if none qualifies.
func (g *Group) OldestIdleEnabled() *Process {
	g.mu.Lock()
	defer g.mu.Unlock()

	var victim *Process
	for _, p := range g.enabledProcesses {
		if totalSessions(p) != 0 {
			continue
		}
		if victim == nil || p.LastUsed().Before(victim.LastUsed()) {
			victim = p
		}
	}
	return victim
}

// RequestOOBW flags p for an out-of-band-work cycle the next time its
// session count drains to zero (spec §4.4.5). Thread-safe; call outside
// g.mu, typically right before the Session that triggered it is closed.
func (g *Group) RequestOOBW(p *Process) {
	p.RequestOOBW()
}

// DetachProcess removes p from the Group (spec §4.5.1 detachProcess) and
// resolves waiters that the freed capacity can now satisfy.
func (g *Group) DetachProcess(p *Process) {
	g.mu.Lock()
	g.detachLocked(p)
	g.assignWaitersLocked()
	g.mu.Unlock()
	g.afterCapacityChange()
}

// IdleGC detaches enabled processes idle past maxIdleTime, keeping at
// least opts.Min processes alive (spec §4.5.4).
func (g *Group) IdleGC(maxIdleTime time.Duration, now time.Time) {
	g.mu.Lock()
	var victims []*Process
	for _, p := range g.enabledProcesses {
		if len(g.enabledProcesses)-len(victims) <= g.opts.Min {
			break
		}
		if totalSessions(p) == 0 && now.Sub(p.LastUsed()) > maxIdleTime {
			victims = append(victims, p)
		}
	}
	for _, p := range victims {
		g.detachLocked(p)
	}
	g.mu.Unlock()

	if len(victims) > 0 {
		g.afterCapacityChange()
	}
}
