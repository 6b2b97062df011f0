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

// Package pool wires an apppool.Pool into the component lifecycle: Start
// builds it from viper-decoded config, Stop tears it down, and every other
// component (controller chief among them) reaches it via Load/Dependencies
// instead of a package-level global.
package pool

import (
	"context"

	libctx "github.com/nabbar/passenger-core/context"

	"github.com/nabbar/passenger-core/apppool"
	libatm "github.com/nabbar/passenger-core/atomic"
	libcfg "github.com/nabbar/passenger-core/config"
	cfgtps "github.com/nabbar/passenger-core/config/types"
)

type CptPool interface {
	cfgtps.Component

	GetPool() *apppool.Pool
	// DefaultRestartSupersede is the restartSupersede config value every
	// Group should default to unless a GroupResolver overrides it.
	DefaultRestartSupersede() bool
}

func New(ctx context.Context) CptPool {
	return &componentPool{
		x: libctx.New[uint8](ctx),
		p: libatm.NewValue[*apppool.Pool](),
		s: libatm.NewValueDefault[bool](true, true),
	}
}

func Register(cfg libcfg.Config, key string, cpt CptPool) {
	cfg.ComponentSet(key, cpt)
}

func RegisterNew(ctx context.Context, cfg libcfg.Config, key string) {
	cfg.ComponentSet(key, New(ctx))
}

func Load(getCpt cfgtps.FuncCptGet, key string) CptPool {
	if getCpt == nil {
		return nil
	} else if c := getCpt(key); c == nil {
		return nil
	} else if p, ok := c.(CptPool); !ok {
		return nil
	} else {
		return p
	}
}
