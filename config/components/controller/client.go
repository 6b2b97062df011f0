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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/passenger-core/apppool"
	poolcpt "github.com/nabbar/passenger-core/config/components/pool"
	cfgtps "github.com/nabbar/passenger-core/config/types"
	"github.com/nabbar/passenger-core/controller"
	liberr "github.com/nabbar/passenger-core/errors"
	"github.com/nabbar/passenger-core/eventloop"
	"github.com/nabbar/passenger-core/spawnkit"
	"github.com/nabbar/passenger-core/spawnkit/direct"
	"github.com/nabbar/passenger-core/turbocache"
	libvpr "github.com/nabbar/passenger-core/viper"
	spfvbr "github.com/spf13/viper"
)

func (o *componentController) _getKey() string {
	o.m.RLock()
	defer o.m.RUnlock()

	if i, l := o.x.Load(keyCptKey); !l {
		return ""
	} else if v, k := i.(string); !k {
		return ""
	} else {
		return v
	}
}

func (o *componentController) _getFctVpr() libvpr.FuncViper {
	o.m.RLock()
	defer o.m.RUnlock()

	if i, l := o.x.Load(keyFctViper); !l {
		return nil
	} else if f, k := i.(libvpr.FuncViper); !k {
		return nil
	} else {
		return f
	}
}

func (o *componentController) _getViper() libvpr.Viper {
	if f := o._getFctVpr(); f == nil {
		return nil
	} else if v := f(); v == nil {
		return nil
	} else {
		return v
	}
}

func (o *componentController) _getSPFViper() *spfvbr.Viper {
	if f := o._getViper(); f == nil {
		return nil
	} else if v := f.Viper(); v == nil {
		return nil
	} else {
		return v
	}
}

func (o *componentController) _getFctCpt() cfgtps.FuncCptGet {
	o.m.RLock()
	defer o.m.RUnlock()

	if i, l := o.x.Load(keyFctGetCpt); !l {
		return nil
	} else if f, k := i.(cfgtps.FuncCptGet); !k {
		return nil
	} else {
		return f
	}
}

func (o *componentController) _getFct() (cfgtps.FuncCptEvent, cfgtps.FuncCptEvent) {
	if o.IsStarted() {
		return o._getFctEvt(keyFctRelBef), o._getFctEvt(keyFctRelAft)
	}
	return o._getFctEvt(keyFctStaBef), o._getFctEvt(keyFctStaAft)
}

func (o *componentController) _getFctEvt(key uint8) cfgtps.FuncCptEvent {
	o.m.RLock()
	defer o.m.RUnlock()

	if i, l := o.x.Load(key); !l {
		return nil
	} else if f, k := i.(cfgtps.FuncCptEvent); !k {
		return nil
	} else {
		return f
	}
}

func (o *componentController) _runFct(fct cfgtps.FuncCptEvent) error {
	if fct != nil {
		return fct(o)
	}
	return nil
}

// _poolComponent resolves the apppool.Pool via the first Dependencies()
// entry, which must name a registered pool component's key.
func (o *componentController) _poolComponent() (poolcpt.CptPool, liberr.Error) {
	deps := o.Dependencies()
	if len(deps) < 1 {
		return nil, ErrorMissingPoolDependency.Error(nil)
	}

	get := o._getFctCpt()
	cpt := poolcpt.Load(get, deps[0])
	if cpt == nil || cpt.GetPool() == nil {
		return nil, ErrorMissingPoolDependency.Error(nil)
	}

	return cpt, nil
}

// _resolver builds the single-application GroupResolver this component
// wires: every request routes to one Group spawned from Config.AppRoot via
// the direct SpawningKit driver (spec §10). An empty AppRoot disables
// application traffic entirely (admin-only deployment). RestartSupersede
// defaults from the pool component's own config (spec's Open Question
// resolution, see DESIGN.md).
func (o *componentController) _resolver(cfg *Config, pool poolcpt.CptPool) controller.GroupResolver {
	if len(cfg.AppRoot) < 1 {
		return func(string, string) (apppool.GroupOptions, bool) { return apppool.GroupOptions{}, false }
	}

	driver := direct.New(o.getLogger())
	adapter := &spawnkit.GroupAdapter{
		Driver: driver,
		Template: spawnkit.Config{
			AppRoot:         cfg.AppRoot,
			StartCommand:    cfg.AppStartCmd,
			StartTimeout:    cfg.AppStartTime,
			ConnectPassword: cfg.ConnectPassword,
		},
	}

	opts := apppool.GroupOptions{
		Name:                      cfg.AppRoot,
		Min:                       0,
		Max:                       pool.GetPool().Max(),
		MaxOutOfBandWorkInstances: cfg.MaxOutOfBandWorkInstances,
		Spawner:                   adapter,
		RestartSupersede:          pool.DefaultRestartSupersede(),
		ApiKey:                    cfg.ConnectPassword,
	}

	return func(string, string) (apppool.GroupOptions, bool) { return opts, true }
}

func (o *componentController) _runCli() liberr.Error {
	cfg, err := o._getConfig()
	if err != nil {
		return err
	}

	poolCpt, perr := o._poolComponent()
	if perr != nil {
		return perr
	}

	reg := prometheus.NewRegistry()
	metrics := controller.NewMetrics(reg)
	cache := turbocache.NewWithThresholds(cfg.TurbocacheSize, turbocache.Thresholds{
		HitRatio:      cfg.TurbocacheHitRatio,
		StoreRatio:    cfg.TurbocacheStoreRatio,
		MeasureWindow: cfg.TurbocacheMeasureWindow,
		CoolOff:       cfg.TurbocacheCoolOff,
		MaxEntrySize:  cfg.TurbocacheMaxEntrySize,
	})

	srv := &controller.Server{
		Pool:                       poolCpt.GetPool(),
		Cache:                      cache,
		Metrics:                    metrics,
		Resolve:                    o._resolver(cfg, poolCpt),
		RequestQueueOverflowStatus: cfg.RequestQueueOverflowStatus,
		FriendlyErrorPages:         cfg.FriendlyErrorPages,
		KeepAliveTimeout:           cfg.KeepAliveTimeout,
	}

	ln, lerr := net.Listen("tcp", cfg.Listen)
	if lerr != nil {
		return ErrorListenFailed.Error(lerr)
	}

	acc := eventloop.NewAcceptor(ln, cfg.Workers, func(_ int, conn net.Conn) {
		srv.HandleConnection(conn)
	})
	go func() {
		_ = acc.Serve()
	}()

	o.r.Store(&running{srv: srv, reg: reg, ln: ln, acc: acc, tc: cache})
	return nil
}

func (o *componentController) _run() error {
	fb, fa := o._getFct()

	if err := o._runFct(fb); err != nil {
		return err
	} else if err := o._runCli(); err != nil {
		return err
	} else if err := o._runFct(fa); err != nil {
		return err
	}

	return nil
}
