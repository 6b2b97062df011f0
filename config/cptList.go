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

package config

import (
	"context"
	"sync"
	"sync/atomic"

	libatm "github.com/nabbar/passenger-core/atomic"
	cfgtps "github.com/nabbar/passenger-core/config/types"
	libctx "github.com/nabbar/passenger-core/context"
)

// JSONIndent is the indent unit used by Config.DefaultConfig and by
// components when pretty-printing their own DefaultConfig JSON snippet.
const JSONIndent = "  "

// keys for the fct map: each slot holds one registered hook/reference,
// stored as interface{} and type-asserted back on read.
const (
	fctVersion uint8 = iota + 1
	fctViper
	fctStartBefore
	fctStartAfter
	fctReloadBefore
	fctReloadAfter
	fctStopBefore
	fctStopAfter
	fctLoggerDef
	fctMonitorPool
)

// model is the concrete Config implementation. cpt holds the registered
// components keyed by their config key; ctx is the shared application
// context handed to every component on ComponentSet; fct holds the
// various lifecycle hooks and provider functions registered by the
// embedding application; cnl holds the custom cancel functions registered
// through CancelAdd, keyed by a monotonic sequence from seq.
type model struct {
	m sync.Mutex

	ctx libctx.Config[string]
	cpt libatm.MapTyped[string, cfgtps.Component]
	fct libatm.MapTyped[uint8, interface{}]
	cnl libatm.MapTyped[uint64, context.CancelFunc]
	seq *atomic.Uint64
}
