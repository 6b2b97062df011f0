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

// Package turbocache implements the Controller's small, fixed-size
// response cache: a fingerprint-keyed, open-addressed table of complete
// HTTP responses that self-disables under poor hit/store ratios instead
// of growing or evicting under a general policy.
package turbocache

import (
	"sync"
	"time"
)

// State is the cache's self-disabling lifecycle (spec §4.6).
type State uint8

const (
	Enabled State = iota
	TemporarilyDisabled
	DisabledByOperator
)

func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case TemporarilyDisabled:
		return "temporarily_disabled"
	case DisabledByOperator:
		return "disabled_by_operator"
	default:
		return "unknown"
	}
}

const (
	defaultSlots          = 64
	defaultMeasureWindow  = 2 * time.Second
	defaultCoolOff        = 10 * time.Second
	defaultMaxEntrySize   = 8 * 1024
	minHitRatio           = 0.5
	minStoreSuccessRatio  = 0.5
	minSamplesToEvaluate  = 20
)

// Thresholds overrides the self-disabling evaluation's defaults. A zero
// value for any field falls back to the package default for that field.
type Thresholds struct {
	HitRatio      float64
	StoreRatio    float64
	MeasureWindow time.Duration
	CoolOff       time.Duration
	// MaxEntrySize is the largest header+body an Entry may carry; Store
	// rejects (and counts as a failed store) anything larger, since a
	// single oversized response would otherwise monopolize a slot (spec
	// §4.6's store-success ratio needs a real failure mode to evaluate).
	MaxEntrySize int
}

// Entry is one cached complete response.
type Entry struct {
	Fingerprint uint64
	Header      []byte
	Body        []byte
	Date        time.Time
	FreshUntil  time.Time
}

func (e *Entry) fresh(now time.Time) bool {
	return now.Before(e.FreshUntil)
}

// Cache is a fixed-size, open-addressed table of Entry slots plus the
// self-disabling accounting described in spec §4.6.
type Cache struct {
	mu sync.Mutex

	slots []*Entry

	state      State
	windowOpen time.Time
	coolOffEnd time.Time

	fetches   int
	hits      int
	stores    int
	storeOK   int

	measureWindow time.Duration
	coolOff       time.Duration
	hitRatio      float64
	storeRatio    float64
	maxEntrySize  int
}

// New creates a Cache with the given number of fixed slots (rounded to at
// least 1) and the built-in default thresholds. size == 0 uses the default
// of 64 slots.
func New(size int) *Cache {
	return NewWithThresholds(size, Thresholds{})
}

// NewWithThresholds creates a Cache like New, overriding whichever fields
// of t are non-zero (spec §4.6's hit/store ratio, window, cool-off, and
// max-entry-size are all operator-configurable).
func NewWithThresholds(size int, t Thresholds) *Cache {
	if size <= 0 {
		size = defaultSlots
	}

	c := &Cache{
		slots:         make([]*Entry, size),
		state:         Enabled,
		windowOpen:    time.Time{},
		measureWindow: defaultMeasureWindow,
		coolOff:       defaultCoolOff,
		hitRatio:      minHitRatio,
		storeRatio:    minStoreSuccessRatio,
		maxEntrySize:  defaultMaxEntrySize,
	}
	if t.HitRatio > 0 {
		c.hitRatio = t.HitRatio
	}
	if t.StoreRatio > 0 {
		c.storeRatio = t.StoreRatio
	}
	if t.MeasureWindow > 0 {
		c.measureWindow = t.MeasureWindow
	}
	if t.CoolOff > 0 {
		c.coolOff = t.CoolOff
	}
	if t.MaxEntrySize > 0 {
		c.maxEntrySize = t.MaxEntrySize
	}
	return c
}

// Disable permanently turns the cache off (operator override); it is
// never re-evaluated afterward (spec §4.6 "Disabled (operator)").
func (c *Cache) Disable() {
	c.mu.Lock()
	c.state = DisabledByOperator
	c.clearLocked()
	c.mu.Unlock()
}

// State reports the cache's current lifecycle state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cache) slot(fingerprint uint64) int {
	return int(fingerprint % uint64(len(c.slots)))
}

// Fetch looks up fingerprint and returns the cached Entry if present, not
// stale, and the cache is Enabled. Accounting for the self-disabling
// evaluation is recorded regardless of hit/miss.
func (c *Cache) Fetch(fingerprint uint64, now time.Time) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reevaluateLocked(now)
	if c.state != Enabled {
		return nil, false
	}

	c.fetches++
	e := c.slots[c.slot(fingerprint)]
	if e == nil || e.Fingerprint != fingerprint || !e.fresh(now) {
		return nil, false
	}
	c.hits++
	return e, true
}

// Store writes e into its slot, overwriting whatever previously occupied
// it (the table has no chaining; collisions simply evict). Returns false
// without writing if the cache is not Enabled, or if e exceeds the
// configured MaxEntrySize (counted as a failed store either way, feeding
// the self-disabling store-success ratio).
func (c *Cache) Store(e *Entry, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reevaluateLocked(now)
	if c.state != Enabled {
		return false
	}

	c.stores++
	if len(e.Header)+len(e.Body) > c.maxEntrySize {
		return false
	}

	c.slots[c.slot(e.Fingerprint)] = e
	c.storeOK++
	return true
}

func (c *Cache) clearLocked() {
	for i := range c.slots {
		c.slots[i] = nil
	}
}

// reevaluateLocked re-runs the self-disabling state machine. Per spec
// §4.6 this happens "on event-loop wakeups, not on every request", but
// driving it from Fetch/Store keeps the package self-contained; callers
// that want the exact cadence can instead call Tick periodically and
// treat Fetch/Store's own reevaluation as a cheap no-op between ticks.
func (c *Cache) reevaluateLocked(now time.Time) {
	switch c.state {
	case DisabledByOperator:
		return

	case TemporarilyDisabled:
		if !now.Before(c.coolOffEnd) {
			c.state = Enabled
			c.windowOpen = now
			c.fetches, c.hits, c.stores, c.storeOK = 0, 0, 0, 0
		}
		return

	case Enabled:
		if c.windowOpen.IsZero() {
			c.windowOpen = now
			return
		}
		if now.Sub(c.windowOpen) < c.measureWindow {
			return
		}

		poorHit := c.fetches >= minSamplesToEvaluate && float64(c.hits)/float64(c.fetches) < c.hitRatio
		poorStore := c.stores >= minSamplesToEvaluate && float64(c.storeOK)/float64(c.stores) < c.storeRatio

		if poorHit || poorStore {
			c.state = TemporarilyDisabled
			c.coolOffEnd = now.Add(c.coolOff)
			c.clearLocked()
		} else {
			c.windowOpen = now
			c.fetches, c.hits, c.stores, c.storeOK = 0, 0, 0, 0
		}
	}
}

// Tick lets a caller drive reevaluation explicitly from the event loop's
// periodic wakeup instead of piggybacking on Fetch/Store.
func (c *Cache) Tick(now time.Time) {
	c.mu.Lock()
	c.reevaluateLocked(now)
	c.mu.Unlock()
}
