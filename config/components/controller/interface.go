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

// Package controller wires a controller.Server and its TCP accept loop into
// the component lifecycle. It depends on the pool component (its first
// Dependencies() entry names that component's key) to obtain the
// apppool.Pool a Group checkout goes through.
package controller

import (
	"context"
	"net"

	"github.com/prometheus/client_golang/prometheus"

	libatm "github.com/nabbar/passenger-core/atomic"
	libcfg "github.com/nabbar/passenger-core/config"
	cfgtps "github.com/nabbar/passenger-core/config/types"
	libctx "github.com/nabbar/passenger-core/context"
	"github.com/nabbar/passenger-core/controller"
	"github.com/nabbar/passenger-core/eventloop"
	"github.com/nabbar/passenger-core/turbocache"
)

type CptController interface {
	cfgtps.Component

	GetServer() *controller.Server
	GetRegistry() *prometheus.Registry
	// Addr returns the bound application-traffic listener address, or nil
	// before Start (or after Stop).
	Addr() net.Addr
}

type running struct {
	srv *controller.Server
	reg *prometheus.Registry
	ln  net.Listener
	acc *eventloop.Acceptor
	tc  *turbocache.Cache
}

func New(ctx context.Context) CptController {
	return &componentController{
		x: libctx.New[uint8](ctx),
		r: libatm.NewValue[*running](),
	}
}

func Register(cfg libcfg.Config, key string, cpt CptController) {
	cfg.ComponentSet(key, cpt)
}

func RegisterNew(ctx context.Context, cfg libcfg.Config, key string) {
	cfg.ComponentSet(key, New(ctx))
}

func Load(getCpt cfgtps.FuncCptGet, key string) CptController {
	if getCpt == nil {
		return nil
	} else if c := getCpt(key); c == nil {
		return nil
	} else if p, ok := c.(CptController); !ok {
		return nil
	} else {
		return p
	}
}
