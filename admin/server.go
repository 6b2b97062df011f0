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

package admin

import (
	"context"
	"net"
	"net/http"
	"os"

	ginsdk "github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nabbar/passenger-core/apppool"
	liberr "github.com/nabbar/passenger-core/errors"
	liblog "github.com/nabbar/passenger-core/logger"
	montps "github.com/nabbar/passenger-core/monitor/types"
	"github.com/nabbar/passenger-core/router"
	rtrauth "github.com/nabbar/passenger-core/router/auth"
	rtrhdr "github.com/nabbar/passenger-core/router/authheader"
	libver "github.com/nabbar/passenger-core/version"
)

type connCtxKey struct{}

// ConnContext is wired as an http.Server's ConnContext hook so handlers can
// recover the raw net.Conn for the peer-credential check. http.Server
// calls this once per accepted connection before its first request.
func ConnContext(ctx context.Context, c net.Conn) context.Context {
	return context.WithValue(ctx, connCtxKey{}, c)
}

func connFromContext(ctx context.Context) (net.Conn, bool) {
	c, ok := ctx.Value(connCtxKey{}).(net.Conn)
	return c, ok
}

// ShutdownFunc triggers the same graceful-shutdown path a SIGTERM would
// (spec §6's /shutdown.json).
type ShutdownFunc func()

// Config wires a Server to the rest of the process.
type Config struct {
	Accounts AccountList
	Pool     *apppool.Pool
	// Registry is the Gatherer /metrics serves. nil falls back to
	// prometheus's global DefaultGatherer, matching controller.NewMetrics'
	// own nil-registerer default.
	Registry     prometheus.Gatherer
	Monitors     montps.Pool
	Version      libver.Version
	Shutdown     ShutdownFunc
	Logger       func() liblog.Logger
	TrustProxies []string
}

// Server is the admin HTTP surface: gin.Engine routes behind the
// authorization contract of spec §6/§11.
type Server struct {
	cfg Config

	routes router.RouterList
}

// New builds a Server. Routes are registered immediately; Handler() (or
// Engine()) is what a listener actually serves.
func New(cfg Config) *Server {
	s := &Server{
		cfg:    cfg,
		routes: router.NewRouterList(func() *ginsdk.Engine { return router.DefaultGinWithTrustyProxy(cfg.TrustProxies) }),
	}

	s.routes.Register(http.MethodGet, "/ping.json", s.guarded(s.handlePing))
	s.routes.Register(http.MethodGet, "/status.txt", s.guarded(s.handleStatus))
	s.routes.Register(http.MethodGet, "/config.json", s.guarded(s.handleConfig))
	s.routes.Register(http.MethodPost, "/shutdown.json", s.guarded(s.handleShutdown))
	s.routes.Register(http.MethodPost, "/processes/:gupid/disable.json", s.guarded(s.handleDisableProcess))
	s.routes.Register(http.MethodGet, "/metrics", s.guarded(ginHandler(s.metricsHandler())))

	return s
}

func (s *Server) metricsHandler() http.Handler {
	if s.cfg.Registry != nil {
		return promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

// guarded wraps h behind the authorization contract: a Unix-socket peer
// whose uid is 0 or the admin process's own owning uid passes straight
// through (spec §6); everyone else must clear basic auth against the
// configured account list. Each route gets its own rtrauth.Authorization
// instance since that type keeps its wrapped handler chain as mutable
// per-instance state, not something routes should share.
func (s *Server) guarded(h ginsdk.HandlerFunc) ginsdk.HandlerFunc {
	auth := rtrauth.NewAuthorization(s.logFunc(), "Basic", s.checkAuth)
	auth.Register(h)

	return func(c *ginsdk.Context) {
		if conn, ok := connFromContext(c.Request.Context()); ok {
			if uid, hasCred := peerCredentials(conn); hasCred && (uid == 0 || uid == ownerUID()) {
				h(c)
				return
			}
		}
		auth.Handler(c)
	}
}

// checkAuth is the rtrauth.CheckFunc plugged into every route's
// Authorization instance.
func (s *Server) checkAuth(credential string) (rtrhdr.AuthCode, liberr.Error) {
	if len(s.cfg.Accounts) == 0 {
		return rtrhdr.AuthCodeForbidden, CodeNoAccountConfigured.Error(nil)
	}
	return checkBasicAuth(s.cfg.Accounts, credential)
}

func (s *Server) logFunc() rtrauth.LogFunc {
	return func() liblog.Logger {
		if s.cfg.Logger == nil {
			return nil
		}
		return s.cfg.Logger()
	}
}

// ginHandler adapts a stdlib http.Handler (promhttp's) to a gin handler.
func ginHandler(h http.Handler) ginsdk.HandlerFunc {
	return func(c *ginsdk.Context) { h.ServeHTTP(c.Writer, c.Request) }
}

// Handler returns the http.Handler a listener should serve, with routes
// applied to a freshly built engine.
func (s *Server) Handler() http.Handler {
	e := s.routes.Engine()
	s.routes.Handler(e)
	return e
}

// ownerUID is the admin surface's own process uid, granted full access per
// spec §6 regardless of any configured account.
func ownerUID() uint32 {
	return uint32(os.Geteuid())
}
