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
	"sort"
	"sync"
	"time"
)

// Pool owns every Group, keyed by app-group name, and is the single
// "syncher" mutex serializing all admission-control mutations across
// Groups (spec §3, §5).
type Pool struct {
	mu sync.Mutex

	groups map[string]*Group

	max         int
	maxIdleTime time.Duration

	waiters []*GetWaiter

	newGroup func(opts GroupOptions, pool *Pool) *Group
}

// NewPool creates an empty Pool with the given global process budget and
// idle-eviction horizon.
func NewPool(max int, maxIdleTime time.Duration) *Pool {
	return &Pool{
		groups:      make(map[string]*Group),
		max:         max,
		maxIdleTime: maxIdleTime,
		newGroup:    NewGroup,
	}
}

// aliveCountLocked sums alive-process counts across every Group. Caller
// must hold p.mu.
func (p *Pool) aliveCountLocked() int {
	n := 0
	for _, g := range p.groups {
		n += g.AliveCount()
	}
	return n
}

// Get implements spec §4.5.1: look up or lazily create the named Group and
// delegate to its get().
func (p *Pool) Get(opts GroupOptions, callback func(*Session, error)) {
	p.mu.Lock()

	g, ok := p.groups[opts.Name]
	if !ok {
		if p.max > 0 && p.aliveCountLocked() >= p.max {
			if p.freeCapacityLocked(nil) {
				g = p.newGroup(opts, p)
				p.groups[opts.Name] = g
			} else {
				p.waiters = append(p.waiters, &GetWaiter{Options: opts, Callback: callback})
				p.mu.Unlock()
				return
			}
		} else {
			g = p.newGroup(opts, p)
			p.groups[opts.Name] = g
		}
	}
	p.mu.Unlock()

	var deferred []func()
	g.Get(opts, callback, &deferred)
	for _, fn := range deferred {
		fn()
	}
}

// freeCapacityFor runs forced-capacity-freeing (spec §4.5.3) on behalf of
// requestor, excluding requestor's own processes from eviction.
func (p *Pool) freeCapacityFor(requestor *Group) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freeCapacityLocked(requestor)
}

// freeCapacityLocked finds, across every Group except requestor, the
// enabled zero-session process with the oldest lastUsed, and detaches it.
// Caller must hold p.mu.
func (p *Pool) freeCapacityLocked(requestor *Group) bool {
	var victimGroup *Group
	var victim *Process

	for _, g := range p.groups {
		if g == requestor {
			continue
		}
		cand := g.OldestIdleEnabled()
		if cand == nil {
			continue
		}
		if victim == nil || cand.LastUsed().Before(victim.LastUsed()) {
			victim, victimGroup = cand, g
		}
	}

	if victim == nil {
		return false
	}
	victimGroup.DetachProcess(victim)
	return true
}

// anyoneWaitingForCapacity reports whether the Pool-level FIFO or any
// Group other than g has queued waiters, used by Group.onSessionClose's
// "yield capacity" branch (spec §4.4.3 step 3).
func (p *Pool) anyoneWaitingForCapacity(g *Group) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.waiters) > 0 {
		return true
	}
	for name, other := range p.groups {
		if other == g {
			continue
		}
		_ = name
		if other.HasWaiters() {
			return true
		}
	}
	return false
}

// onGroupGainedCapacity runs the two-pass cross-group fair-spawning sweep
// (spec §4.5.2) after a detach or session close anywhere in the Pool.
func (p *Pool) onGroupGainedCapacity(changed *Group) {
	p.mu.Lock()
	defer func() {
		waiters := p.waiters
		p.waiters = nil
		p.mu.Unlock()
		for _, w := range waiters {
			p.Get(w.Options, w.Callback)
		}
	}()

	if len(p.waiters) > 0 && changed != nil && changed.AliveCount() < changed.opts.Max {
		return
	}

	for _, g := range p.groups {
		if p.max > 0 && p.aliveCountLocked() >= p.max {
			return
		}
		if g.HasWaiters() && g.opts.Spawner != nil {
			go g.requestSpawn(g.opts)
		}
	}

	for _, g := range p.groups {
		if p.max > 0 && p.aliveCountLocked() >= p.max {
			return
		}
		if g.AliveCount() < g.opts.Min && g.opts.Spawner != nil {
			go g.requestSpawn(g.opts)
		}
	}
}

// DetachProcess implements spec §4.5.1: authorization is the caller's
// responsibility (the admin surface checks uid/API-key before calling
// this), this just performs the removal and fair-spawn follow-up.
func (p *Pool) DetachProcess(gupid string) bool {
	p.mu.Lock()
	var found *Process
	var owner *Group
	for _, g := range p.groups {
		if pr := findProcess(g, gupid); pr != nil {
			found, owner = pr, g
			break
		}
	}
	p.mu.Unlock()

	if found == nil {
		return false
	}
	owner.DetachProcess(found)
	return true
}

func findProcess(g *Group, gupid string) *Process {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, list := range [][]*Process{g.enabledProcesses, g.disablingProcesses, g.disabledProcesses} {
		for _, p := range list {
			if p.Gupid == gupid {
				return p
			}
		}
	}
	return nil
}

// DisableProcess implements spec §4.5.1 disableProcess: if the process has
// no active sessions it is moved to disabled synchronously; otherwise it is
// moved to disabling and drains, completing asynchronously through
// Group.onSessionClose.
func (p *Pool) DisableProcess(gupid string) (deferred bool, ok bool) {
	p.mu.Lock()
	var found *Process
	var owner *Group
	for _, g := range p.groups {
		if pr := findProcess(g, gupid); pr != nil {
			found, owner = pr, g
			break
		}
	}
	p.mu.Unlock()

	if found == nil {
		return false, false
	}

	owner.mu.Lock()
	sessions := 0
	for _, s := range found.Sockets() {
		sessions += s.Sessions()
	}
	if sessions == 0 {
		owner.enabledProcesses = removeProcess(owner.enabledProcesses, found)
		owner.disabledProcesses = append(owner.disabledProcesses, found)
		found.setEnabled(Disabled)
		owner.mu.Unlock()
		return false, true
	}

	owner.enabledProcesses = removeProcess(owner.enabledProcesses, found)
	owner.disablingProcesses = append(owner.disablingProcesses, found)
	found.setEnabled(Disabling)
	owner.mu.Unlock()
	return true, true
}

// Restart requests a restart of the named Group in the given mode.
func (p *Pool) Restart(name string, mode RestartMode) bool {
	p.mu.Lock()
	g, ok := p.groups[name]
	p.mu.Unlock()
	if !ok {
		return false
	}
	g.Restart(mode)
	return true
}

// IdleGC runs spec §4.5.4 across every Group; intended to be driven by a
// periodic ticker in the owning runner.
func (p *Pool) IdleGC(now time.Time) {
	p.mu.Lock()
	groups := make([]*Group, 0, len(p.groups))
	for _, g := range p.groups {
		groups = append(groups, g)
	}
	p.mu.Unlock()

	for _, g := range groups {
		g.IdleGC(p.maxIdleTime, now)
	}
}

// GroupNames returns the current set of app-group names, for the admin
// status surface.
func (p *Pool) GroupNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.groups))
	for n := range p.groups {
		names = append(names, n)
	}
	return names
}

// AliveCount returns the Pool-wide alive-process count (spec §3 invariant:
// must never exceed max).
func (p *Pool) AliveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.aliveCountLocked()
}

// GroupStat is a snapshot of one Group's counters, for the admin status
// surface (spec §11's /status.txt and /config.json).
type GroupStat struct {
	Name       string
	Enabled    int
	Disabling  int
	Disabled   int
	Alive      int
	HasWaiters bool
}

// GroupStat returns a counter snapshot for the named group, or ok=false if
// no such group exists.
func (p *Pool) GroupStat(name string) (GroupStat, bool) {
	p.mu.Lock()
	g, ok := p.groups[name]
	p.mu.Unlock()
	if !ok {
		return GroupStat{}, false
	}
	return GroupStat{
		Name:       g.Name(),
		Enabled:    g.EnabledCount(),
		Disabling:  g.DisablingCount(),
		Disabled:   g.DisabledCount(),
		Alive:      g.AliveCount(),
		HasWaiters: g.HasWaiters(),
	}, true
}

// Stats returns a counter snapshot for every group currently in the Pool,
// sorted by name for stable /status.txt output.
func (p *Pool) Stats() []GroupStat {
	names := p.GroupNames()
	sort.Strings(names)

	out := make([]GroupStat, 0, len(names))
	for _, n := range names {
		if s, ok := p.GroupStat(n); ok {
			out = append(out, s)
		}
	}
	return out
}

// Max returns the Pool-wide process budget (spec §3's `max`).
func (p *Pool) Max() int {
	return p.max
}
