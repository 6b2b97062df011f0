/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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
 */

package router

import (
	"net/http"

	ginsdk "github.com/gin-gonic/gin"
)

const (
	EmptyHandlerGroup            = "<nil>"
	GinContextStartUnixNanoTime  = "gin-ctx-start-unix-nano-time"
	GinContextRequestPath        = "gin-ctx-request-path"
	GinContextRequestUser        = "gin-ctx-request-user"
)

// DefaultGinWithTrustyProxy returns an engine with recovery middleware and
// a trusted-proxy list (nil/empty disables the XFF trust check entirely,
// matching Gin's own "no proxy" default).
func DefaultGinWithTrustyProxy(proxies []string) *ginsdk.Engine {
	e := DefaultGinInit()
	_ = e.SetTrustedProxies(proxies)
	return e
}

// DefaultGinWithTrustedPlatform returns an engine trusting a given
// platform header (e.g. "X-CDN-IP") for the client IP, or none if empty.
func DefaultGinWithTrustedPlatform(platform string) *ginsdk.Engine {
	e := DefaultGinInit()
	e.TrustedPlatform = platform
	return e
}

// GinEngine builds an engine with an optional trusted platform and/or a
// list of trusted proxies in one call, as the admin component's config
// loader needs to apply both from a single options struct.
func GinEngine(platform string, proxies ...string) (*ginsdk.Engine, error) {
	e := DefaultGinInit()
	e.TrustedPlatform = platform
	if len(proxies) > 0 {
		if err := e.SetTrustedProxies(proxies); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// GinAddGlobalMiddleware registers middleware on engine and returns it for
// chaining.
func GinAddGlobalMiddleware(engine *ginsdk.Engine, middleware ...ginsdk.HandlerFunc) *ginsdk.Engine {
	engine.Use(middleware...)
	return engine
}

// SetGinHandler is an identity conversion helper kept for call sites that
// build a ginsdk.HandlerFunc value from a bare func literal.
func SetGinHandler(h ginsdk.HandlerFunc) ginsdk.HandlerFunc {
	return h
}

// Handler builds a http.Handler from a RouterList using its own Engine().
func Handler(r RouterList) http.Handler {
	e := r.Engine()
	r.Handler(e)
	return e
}

var globalRouters = NewRouterList(DefaultGinInit)

// RoutersRegister registers a route against the package-level default
// RouterList, for components that don't carry their own.
func RoutersRegister(method, path string, handlers ...ginsdk.HandlerFunc) {
	globalRouters.Register(method, path, handlers...)
}

// RoutersRegisterInGroup is the grouped variant of RoutersRegister.
func RoutersRegisterInGroup(group, method, path string, handlers ...ginsdk.HandlerFunc) {
	globalRouters.RegisterInGroup(group, method, path, handlers...)
}

// RoutersHandler applies every route registered against the package-level
// default RouterList to engine.
func RoutersHandler(engine *ginsdk.Engine) {
	globalRouters.Handler(engine)
}
