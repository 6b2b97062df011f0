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

package pool

import (
	"sync"

	"github.com/nabbar/passenger-core/apppool"
	libatm "github.com/nabbar/passenger-core/atomic"
	libctx "github.com/nabbar/passenger-core/context"
	montps "github.com/nabbar/passenger-core/monitor/types"
)

// componentPool is the concrete CptPool implementation. Init-time
// references live in x (keyed by the keyCpt* constants in component.go);
// the live *apppool.Pool lives in p so GetPool never takes the same lock
// Init/Start do.
type componentPool struct {
	m sync.RWMutex
	x libctx.Config[uint8]
	p libatm.Value[*apppool.Pool]
	s libatm.Value[bool]

	fp montps.FuncPool
}

func (o *componentPool) GetPool() *apppool.Pool {
	return o.p.Load()
}

func (o *componentPool) DefaultRestartSupersede() bool {
	return o.s.Load()
}

func (o *componentPool) RegisterMonitorPool(p montps.FuncPool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.fp = p
}
