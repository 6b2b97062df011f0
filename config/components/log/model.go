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

package log

import (
	"context"
	"sync"
	"sync/atomic"

	libatm "github.com/nabbar/passenger-core/atomic"
	cfgtps "github.com/nabbar/passenger-core/config/types"
	libctx "github.com/nabbar/passenger-core/context"
	liberr "github.com/nabbar/passenger-core/errors"
	liblog "github.com/nabbar/passenger-core/logger"
	logcfg "github.com/nabbar/passenger-core/logger/config"
	logfld "github.com/nabbar/passenger-core/logger/fields"
	loglvl "github.com/nabbar/passenger-core/logger/level"
	libver "github.com/nabbar/passenger-core/version"
	libvpr "github.com/nabbar/passenger-core/viper"
	spfvbr "github.com/spf13/viper"
)

const (
	ComponentType = "log"

	keyCptKey = iota + 1
	keyCptDependencies
	keyFctViper
	keyFctGetCpt
	keyCptVersion
	keyCptLogger
	keyCptFields
	keyFctStaBef
	keyFctStaAft
	keyFctRelBef
	keyFctRelAft
)

// componentLog holds init-time references and lifecycle hooks in x, keyed
// by the keyCpt*/keyFct* constants below. l is the live logger once Start
// has run; v keeps the requested level so GetLevel/SetLevel work before
// that. r tracks IsRunning independently of IsStarted.
type componentLog struct {
	m sync.RWMutex
	x libctx.Config[uint8]
	l libatm.Value[liblog.Logger]
	r *atomic.Bool
	v *atomic.Uint32
}

func (c *componentLog) Type() string {
	return ComponentType
}

func (c *componentLog) Init(key string, ctx context.Context, get cfgtps.FuncCptGet, vpr libvpr.FuncViper, vrs libver.Version, log liblog.FuncLog) {
	c.m.Lock()
	defer c.m.Unlock()

	if c.x == nil {
		c.x = libctx.New[uint8](ctx)
	} else {
		x := libctx.New[uint8](ctx)
		x.Merge(c.x)
		c.x = x
	}

	c.x.Store(keyCptKey, key)
	c.x.Store(keyFctGetCpt, get)
	c.x.Store(keyFctViper, vpr)
	c.x.Store(keyCptVersion, vrs)
	c.x.Store(keyCptLogger, log)
}

func (c *componentLog) RegisterFuncStart(before, after cfgtps.FuncCptEvent) {
	c.x.Store(keyFctStaBef, before)
	c.x.Store(keyFctStaAft, after)
}

func (c *componentLog) RegisterFuncReload(before, after cfgtps.FuncCptEvent) {
	c.x.Store(keyFctRelBef, before)
	c.x.Store(keyFctRelAft, after)
}

func (c *componentLog) IsStarted() bool {
	return c.l.Load() != nil
}

func (c *componentLog) IsRunning() bool {
	return c.r.Load()
}

func (c *componentLog) Start() error {
	if err := c._run(); err != nil {
		return err
	}
	c.r.Store(true)
	return nil
}

func (c *componentLog) Reload() error {
	return c._run()
}

func (c *componentLog) Stop() {
	c.l.Store(nil)
	c.r.Store(false)
}

func (c *componentLog) Dependencies() []string {
	c.m.RLock()
	defer c.m.RUnlock()

	var def = make([]string, 0)

	if c.x == nil {
		return def
	} else if i, l := c.x.Load(keyCptDependencies); !l {
		return def
	} else if v, k := i.([]string); !k {
		return def
	} else if len(v) > 0 {
		return v
	} else {
		return def
	}
}

func (c *componentLog) SetDependencies(d []string) error {
	c.m.RLock()
	defer c.m.RUnlock()

	if c.x == nil {
		return ErrorComponentNotInitialized.Error(nil)
	}
	c.x.Store(keyCptDependencies, d)
	return nil
}

func (c *componentLog) getLogger() liblog.Logger {
	if i, l := c.x.Load(keyCptLogger); !l {
		return nil
	} else if v, k := i.(liblog.FuncLog); !k {
		return nil
	} else {
		return v()
	}
}

func (c *componentLog) _getKey() string {
	c.m.RLock()
	defer c.m.RUnlock()

	if c.x == nil {
		return ""
	} else if i, l := c.x.Load(keyCptKey); !l {
		return ""
	} else if v, k := i.(string); !k {
		return ""
	} else {
		return v
	}
}

func (c *componentLog) _getFctVpr() libvpr.FuncViper {
	c.m.RLock()
	defer c.m.RUnlock()

	if c.x == nil {
		return nil
	} else if i, l := c.x.Load(keyFctViper); !l {
		return nil
	} else if f, k := i.(libvpr.FuncViper); !k {
		return nil
	} else {
		return f
	}
}

func (c *componentLog) _getViper() libvpr.Viper {
	if f := c._getFctVpr(); f == nil {
		return nil
	} else {
		return f()
	}
}

func (c *componentLog) _getSPFViper() *spfvbr.Viper {
	if v := c._getViper(); v == nil {
		return nil
	} else {
		return v.Viper()
	}
}

func (c *componentLog) _getFct() (cfgtps.FuncCptEvent, cfgtps.FuncCptEvent) {
	if c.IsStarted() {
		return c._getFctEvt(keyFctRelBef), c._getFctEvt(keyFctRelAft)
	}
	return c._getFctEvt(keyFctStaBef), c._getFctEvt(keyFctStaAft)
}

func (c *componentLog) _getFctEvt(key uint8) cfgtps.FuncCptEvent {
	c.m.RLock()
	defer c.m.RUnlock()

	if c.x == nil {
		return nil
	} else if i, l := c.x.Load(key); !l {
		return nil
	} else if f, k := i.(cfgtps.FuncCptEvent); !k {
		return nil
	} else {
		return f
	}
}

func (c *componentLog) _runFct(fct cfgtps.FuncCptEvent) liberr.Error {
	if fct == nil {
		return nil
	}
	if err := fct(c); err != nil {
		return ErrorParamInvalid.Error(err)
	}
	return nil
}

func (c *componentLog) _runCli() liberr.Error {
	cnf, err := c._getConfig()
	if err != nil {
		return ErrorConfigInvalid.Error(err)
	}

	lg := c.l.Load()
	if lg == nil {
		if d := c.getLogger(); d != nil {
			lg, _ = d.Clone()
		}
		if lg == nil {
			return ErrorComponentNotInitialized.Error(nil)
		}
	}

	lg.SetLevel(loglvl.ParseFromUint32(c.v.Load()))

	if e := lg.SetOptions(cnf); e != nil {
		return ErrorStartLog.Error(e)
	}

	c.l.Store(lg)
	return nil
}

func (c *componentLog) _run() liberr.Error {
	fb, fa := c._getFct()

	if err := c._runFct(fb); err != nil {
		return err
	} else if err = c._runCli(); err != nil {
		return err
	} else if err = c._runFct(fa); err != nil {
		return err
	}

	return nil
}

func (c *componentLog) Log() liblog.Logger {
	if l := c.l.Load(); l != nil {
		return l
	}
	return c.getLogger()
}

func (c *componentLog) LogClone() liblog.Logger {
	l := c.Log()
	if l == nil {
		return nil
	}
	if n, e := l.Clone(); e == nil {
		return n
	}
	return l
}

func (c *componentLog) GetLevel() loglvl.Level {
	return loglvl.ParseFromUint32(c.v.Load())
}

func (c *componentLog) SetLevel(lvl loglvl.Level) {
	c.v.Store(lvl.Uint32())
	if l := c.l.Load(); l != nil {
		l.SetLevel(lvl)
	}
}

func (c *componentLog) GetField() logfld.Fields {
	if l := c.l.Load(); l != nil {
		return l.GetFields()
	}
	if c.x != nil {
		if i, ok := c.x.Load(keyCptFields); ok {
			if f, k := i.(logfld.Fields); k {
				return f
			}
		}
	}
	return nil
}

func (c *componentLog) SetField(fields logfld.Fields) {
	if c.x != nil {
		c.x.Store(keyCptFields, fields)
	}
	if l := c.l.Load(); l != nil {
		l.SetFields(fields)
	}
}

func (c *componentLog) GetOptions() *logcfg.Options {
	opt, _ := c._getConfig()
	return opt
}

func (c *componentLog) SetOptions(opt *logcfg.Options) error {
	if opt == nil {
		return ErrorParamEmpty.Error(nil)
	} else if err := opt.Validate(); err != nil {
		return ErrorConfigInvalid.Error(err)
	}

	l := c.l.Load()
	if l == nil {
		if d := c.getLogger(); d != nil {
			l, _ = d.Clone()
		}
		if l == nil {
			return ErrorComponentNotInitialized.Error(nil)
		}
	}

	if err := l.SetOptions(opt); err != nil {
		return ErrorConfigInvalid.Error(err)
	}

	c.l.Store(l)
	return nil
}
