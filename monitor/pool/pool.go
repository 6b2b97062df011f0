/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package pool is the default monitor/types.Pool implementation: a
// concurrency-safe registry of named Monitors, keyed by Monitor.Name().
package pool

import (
	"context"
	"sync"

	montps "github.com/nabbar/passenger-core/monitor/types"
)

type pool struct {
	ctx context.Context
	mu  sync.RWMutex
	mon map[string]montps.Monitor
}

// New creates an empty monitor pool bound to ctx. The context is kept for
// call-site symmetry with the rest of this module's constructors; the pool
// itself holds no background goroutine.
func New(ctx context.Context) montps.Pool {
	if ctx == nil {
		ctx = context.Background()
	}
	return &pool{ctx: ctx, mon: make(map[string]montps.Monitor)}
}

func (p *pool) Add(m montps.Monitor) error {
	if m == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mon[m.Name()] = m
	return nil
}

func (p *pool) Get(name string) montps.Monitor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mon[name]
}

func (p *pool) List() []montps.Monitor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]montps.Monitor, 0, len(p.mon))
	for _, m := range p.mon {
		out = append(out, m)
	}
	return out
}
