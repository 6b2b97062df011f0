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

package controller

import (
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	libatm "github.com/nabbar/passenger-core/atomic"
	libctx "github.com/nabbar/passenger-core/context"
	"github.com/nabbar/passenger-core/controller"
	montps "github.com/nabbar/passenger-core/monitor/types"
)

// componentController is the concrete CptController implementation.
// Init-time references live in x; the live server/listener/acceptor live in
// r so GetServer/GetRegistry never take the same lock Init/Start do.
type componentController struct {
	m sync.RWMutex
	x libctx.Config[uint8]
	r libatm.Value[*running]

	fp montps.FuncPool
}

func (o *componentController) GetServer() *controller.Server {
	if r := o.r.Load(); r != nil {
		return r.srv
	}
	return nil
}

func (o *componentController) GetRegistry() *prometheus.Registry {
	if r := o.r.Load(); r != nil {
		return r.reg
	}
	return nil
}

func (o *componentController) Addr() net.Addr {
	if r := o.r.Load(); r != nil && r.ln != nil {
		return r.ln.Addr()
	}
	return nil
}

func (o *componentController) RegisterMonitorPool(p montps.FuncPool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.fp = p
}
