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

// Package router collects route registrations against a shared Gin engine
// before it is handed to a listener, letting independent admin-surface
// components (ping, status, config dump, shutdown) register routes without
// depending on each other or on engine construction order.
package router

import (
	"net/http"

	ginsdk "github.com/gin-gonic/gin"
)

// GinInit constructs the Gin engine a RouterList will register routes
// against. Nil means DefaultGinInit.
type GinInit func() *ginsdk.Engine

// DefaultGinInit returns a Gin engine with recovery middleware and no
// other defaults, matching the admin surface's minimal footprint.
func DefaultGinInit() *ginsdk.Engine {
	e := ginsdk.New()
	e.Use(ginsdk.Recovery())
	return e
}

type route struct {
	method   string
	path     string
	handlers []ginsdk.HandlerFunc
}

// RouterList accumulates route registrations, then applies them to an
// engine in one Handler() call.
type RouterList interface {
	Engine() *ginsdk.Engine
	Register(method, path string, handlers ...ginsdk.HandlerFunc)
	RegisterInGroup(group, method, path string, handlers ...ginsdk.HandlerFunc)
	RegisterMergeInGroup(group, method, path string, handlers ...ginsdk.HandlerFunc)
	Handler(engine *ginsdk.Engine)
}

type routerList struct {
	init   GinInit
	routes []route
}

// NewRouterList creates an empty RouterList. init builds the engine
// returned by Engine(); nil falls back to DefaultGinInit.
func NewRouterList(init GinInit) RouterList {
	if init == nil {
		init = DefaultGinInit
	}
	return &routerList{init: init}
}

func (r *routerList) Engine() *ginsdk.Engine {
	return r.init()
}

func groupedPath(group, path string) string {
	if group == "" {
		return path
	}
	return group + path
}

func (r *routerList) Register(method, path string, handlers ...ginsdk.HandlerFunc) {
	r.routes = append(r.routes, route{method: method, path: path, handlers: handlers})
}

func (r *routerList) RegisterInGroup(group, method, path string, handlers ...ginsdk.HandlerFunc) {
	r.Register(method, groupedPath(group, path), handlers...)
}

// RegisterMergeInGroup replaces the handler chain of an already-registered
// method+path pair instead of adding a duplicate route.
func (r *routerList) RegisterMergeInGroup(group, method, path string, handlers ...ginsdk.HandlerFunc) {
	full := groupedPath(group, path)
	for i := range r.routes {
		if r.routes[i].method == method && r.routes[i].path == full {
			r.routes[i].handlers = handlers
			return
		}
	}
	r.Register(method, full, handlers...)
}

func (r *routerList) Handler(engine *ginsdk.Engine) {
	for _, rt := range r.routes {
		engine.Handle(rt.method, rt.path, rt.handlers...)
	}
}

// NotFound is a small default 404 JSON responder admin routes can share.
func NotFound(c *ginsdk.Context) {
	c.JSON(http.StatusNotFound, ginsdk.H{"error": "not found"})
}
