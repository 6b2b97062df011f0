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

// Command passenger-core runs the Application Pool and Request Controller
// as a single standalone agent: one TCP listener fanning accepted
// connections out to the Controller, one admin Unix-socket listener for
// /ping.json, /status.txt, /config.json, /shutdown.json and /metrics.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/passenger-core/admin"
	"github.com/nabbar/passenger-core/certificates"
	"github.com/nabbar/passenger-core/config"
	ctrlcpt "github.com/nabbar/passenger-core/config/components/controller"
	headcpt "github.com/nabbar/passenger-core/config/components/head"
	logcpt "github.com/nabbar/passenger-core/config/components/log"
	poolcpt "github.com/nabbar/passenger-core/config/components/pool"
	"github.com/nabbar/passenger-core/eventloop"
	loglvl "github.com/nabbar/passenger-core/logger/level"
	monpool "github.com/nabbar/passenger-core/monitor/pool"
	libver "github.com/nabbar/passenger-core/version"
	libvpr "github.com/nabbar/passenger-core/viper"
)

const (
	keyLog  = "log"
	keyHead = "head"
	keyPool = "pool"
	keyCtrl = "controller"
)

var flags struct {
	listen       string
	adminSocket  string
	adminListen  string
	adminTLSCert string
	adminTLSKey  string
	poolMax      int
	poolMaxIdle  time.Duration
	cacheSize    int
	workers      int
	appRoot      string
	appStart     string
	adminUser    string
	adminPass    string
	overflowCode int
	friendlyErr  bool
}

func buildVersion() libver.Version {
	return libver.NewVersion(libver.License_MIT, "passenger-core",
		"Phusion Passenger Core agent: Application Pool + Request Controller",
		"", "", "dev", "Nicolas JUHEL", "passenger-core", nil, 0)
}

func main() {
	vrs := buildVersion()
	cfg := config.New(vrs)

	vpr := libvpr.New(cfg.Context(), nil)
	cfg.RegisterFuncViper(func() libvpr.Viper { return vpr })

	cfg.ComponentSet(keyLog, logcpt.New(cfg.Context(), loglvl.InfoLevel))
	cfg.ComponentSet(keyHead, headcpt.New(cfg.Context()))
	cfg.ComponentSet(keyPool, poolcpt.New(cfg.Context()))

	ctrl := ctrlcpt.New(cfg.Context())
	if e := ctrl.SetDependencies([]string{keyPool}); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}
	cfg.ComponentSet(keyCtrl, ctrl)

	root := &spfcbr.Command{
		Use:   vrs.GetPrefix(),
		Short: vrs.GetDescription(),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return run(cfg, vpr, vrs)
		},
	}

	root.Flags().StringVar(&flags.listen, "listen", "0.0.0.0:3000", "application traffic listen address")
	root.Flags().StringVar(&flags.adminSocket, "admin-socket", "/tmp/passenger-core.admin.sock", "admin surface Unix socket path")
	root.Flags().StringVar(&flags.adminListen, "admin-listen", "", "admin surface TCP listen address (overrides --admin-socket when set)")
	root.Flags().StringVar(&flags.adminTLSCert, "admin-tls-cert", "", "PEM certificate file terminating TLS on the admin surface (requires --admin-listen)")
	root.Flags().StringVar(&flags.adminTLSKey, "admin-tls-key", "", "PEM private key file terminating TLS on the admin surface (requires --admin-listen)")
	root.Flags().IntVar(&flags.poolMax, "pool-max", 6, "application pool process budget (spec's `max`)")
	root.Flags().DurationVar(&flags.poolMaxIdle, "pool-max-idle-time", 5*time.Minute, "idle worker GC threshold")
	root.Flags().IntVar(&flags.cacheSize, "turbocache-size", 64, "turbocache slot count (0 disables caching)")
	root.Flags().IntVar(&flags.workers, "workers", runtime.GOMAXPROCS(0), "request acceptor round-robin fan-out")
	root.Flags().StringVar(&flags.appRoot, "app-root", "", "application root directory to spawn (empty disables app traffic)")
	root.Flags().StringVar(&flags.appStart, "app-start-command", "", "comma-separated start command argv for --app-root")
	root.Flags().StringVar(&flags.adminUser, "admin-user", "", "admin surface basic-auth username")
	root.Flags().StringVar(&flags.adminPass, "admin-password", "", "admin surface basic-auth password")
	root.Flags().IntVar(&flags.overflowCode, "request-queue-overflow-status", 0, "status code for a full request queue (0 uses 503)")
	root.Flags().BoolVar(&flags.friendlyErr, "friendly-error-pages", false, "render detailed spawn-exception bodies instead of a generic 500")

	if err := cfg.RegisterFlag(root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run pushes the flat CLI flags into the shared viper instance under the
// nested keys each component's own Config decodes (pool.max, controller.listen,
// ...), then hands the rest of the process to the component lifecycle:
// cfg.Start() brings up log/head/pool/controller in dependency order (the
// controller component refuses to start until its pool dependency is up),
// and cfg.Stop() tears every one of them down on the way out.
func run(cfg config.Config, vpr libvpr.Viper, vrs libver.Version) error {
	seedViperFromFlags(vpr)

	if e := cfg.Start(); e != nil {
		return fmt.Errorf("starting components: %s", e.Error())
	}
	defer cfg.Stop()

	poolCpt, _ := cfg.ComponentList()[keyPool].(poolcpt.CptPool)
	ctrlCpt, _ := cfg.ComponentList()[keyCtrl].(ctrlcpt.CptController)
	if poolCpt == nil || ctrlCpt == nil {
		return fmt.Errorf("pool/controller component did not register correctly")
	}

	monitors := monpool.New(cfg.Context())
	adminSrv := admin.New(admin.Config{
		Accounts: adminAccounts(),
		Pool:     poolCpt.GetPool(),
		Registry: ctrlCpt.GetRegistry(),
		Monitors: monitors,
		Version:  vrs,
		Shutdown: func() { config.Shutdown() },
	})

	adminLn, err := listenAdmin()
	if err != nil {
		return fmt.Errorf("admin listener: %w", err)
	}
	defer adminLn.Close()

	httpAdmin := &http.Server{Handler: adminSrv.Handler(), ConnContext: admin.ConnContext}
	go func() {
		_ = httpAdmin.Serve(adminLn)
	}()
	defer httpAdmin.Close()

	idleLoop := eventloop.New()
	loopCtx, loopCancel := context.WithCancel(cfg.Context())
	go idleLoop.Run(loopCtx)
	defer loopCancel()

	var scheduleIdleGC func()
	scheduleIdleGC = func() {
		idleLoop.AddTimer(time.Minute, func() {
			poolCpt.GetPool().IdleGC(time.Now())
			scheduleIdleGC()
		})
	}
	idleLoop.RunLater(scheduleIdleGC)

	config.WaitNotify()
	return nil
}

// seedViperFromFlags writes every flat CLI flag into the shared Viper
// instance under the dotted keys the pool/controller components' own
// Config structs decode from, since this pack's cobra/viper wiring (see
// config/components/{log,head}'s no-op RegisterFlag) never binds cobra
// flags to Viper automatically.
func seedViperFromFlags(vpr libvpr.Viper) {
	if vpr == nil {
		return
	}
	v := vpr.Viper()

	v.Set(keyPool+".max", flags.poolMax)
	v.Set(keyPool+".maxIdleTime", flags.poolMaxIdle)
	v.Set(keyPool+".restartSupersede", true)

	v.Set(keyCtrl+".listen", flags.listen)
	v.Set(keyCtrl+".workers", flags.workers)
	v.Set(keyCtrl+".turbocacheSize", flags.cacheSize)
	v.Set(keyCtrl+".requestQueueOverflowStatus", flags.overflowCode)
	v.Set(keyCtrl+".friendlyErrorPages", flags.friendlyErr)
	v.Set(keyCtrl+".keepAliveTimeout", 5*time.Second)
	v.Set(keyCtrl+".appRoot", flags.appRoot)
	v.Set(keyCtrl+".appStartCommand", strings.Split(flags.appStart, ","))
	v.Set(keyCtrl+".appStartTimeout", 30*time.Second)
}

// adminAccounts reads the single configured admin credential pair, if any
// (spec §6: an empty account list means every non-owner request is
// refused, not that auth is skipped).
func adminAccounts() admin.AccountList {
	if flags.adminUser == "" {
		return nil
	}
	return admin.AccountList{{Username: flags.adminUser, Password: flags.adminPass}}
}

// listenAdmin binds the admin surface. With --admin-listen unset it falls
// back to the Unix socket path (idempotent bind: a stale socket file left
// by a prior unclean exit is removed first). With --admin-listen set it
// binds TCP instead, and if --admin-tls-cert/--admin-tls-key are both
// given it terminates TLS in front of the admin surface using the same
// certificates package the spawned application's own listeners would use
// for HTTPS.
func listenAdmin() (net.Listener, error) {
	if len(flags.adminListen) == 0 {
		_ = os.Remove(flags.adminSocket)
		return net.Listen("unix", flags.adminSocket)
	}

	ln, err := net.Listen("tcp", flags.adminListen)
	if err != nil {
		return nil, err
	}

	if len(flags.adminTLSCert) == 0 || len(flags.adminTLSKey) == 0 {
		return ln, nil
	}

	tlsCfg := certificates.New()
	if e := tlsCfg.AddCertificatePairFile(flags.adminTLSKey, flags.adminTLSCert); e != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("loading admin TLS certificate: %w", e)
	}

	return tls.NewListener(ln, tlsCfg.TLS("")), nil
}
