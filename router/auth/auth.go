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

// Package auth wraps a caller-supplied credential check (basic auth,
// bearer token, or anything else keyed off the Authorization header) into
// a reusable Gin middleware, shared by every route the admin surface's
// authorization contract protects (spec §4.1 "admin surface").
package auth

import (
	"strings"

	ginsdk "github.com/gin-gonic/gin"

	liberr "github.com/nabbar/passenger-core/errors"
	liblog "github.com/nabbar/passenger-core/logger"
	rtrhdr "github.com/nabbar/passenger-core/router/authheader"
)

// CheckFunc validates the raw credential portion of the Authorization
// header (i.e. with the scheme prefix already stripped) and reports the
// outcome.
type CheckFunc func(authHeader string) (rtrhdr.AuthCode, liberr.Error)

// LogFunc lazily resolves the logger to use for a failed check, so callers
// don't need to wire a logger before one exists.
type LogFunc func() liblog.Logger

// Authorization builds Gin handler chains gated by a credential check.
type Authorization interface {
	// Handler is ready to be registered directly as a Gin route handler.
	Handler(c *ginsdk.Context)
	// Register wraps handlers behind the authorization check and returns
	// the combined handler.
	Register(handlers ...ginsdk.HandlerFunc) ginsdk.HandlerFunc
	// Append adds more handlers to the chain built by Register.
	Append(handlers ...ginsdk.HandlerFunc)
}

type authorization struct {
	log     LogFunc
	scheme  string
	check   CheckFunc
	handler []ginsdk.HandlerFunc
}

// NewAuthorization builds an Authorization that accepts `scheme` (matched
// case-insensitively) as the Authorization header's scheme and delegates
// the credential itself to check.
func NewAuthorization(log LogFunc, scheme string, check CheckFunc) Authorization {
	return &authorization{log: log, scheme: scheme, check: check}
}

func (a *authorization) verify(c *ginsdk.Context) bool {
	raw := c.GetHeader(rtrhdr.HeaderAuthSend)
	if raw == "" {
		rtrhdr.AuthRequire(c, nil)
		return false
	}

	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], a.scheme) {
		rtrhdr.AuthRequire(c, nil)
		return false
	}

	code, err := a.check(parts[1])
	switch code {
	case rtrhdr.AuthCodeSuccess:
		return true
	case rtrhdr.AuthCodeRequire:
		rtrhdr.AuthRequire(c, a.errOf(err))
	case rtrhdr.AuthCodeForbidden:
		rtrhdr.AuthForbidden(c, a.errOf(err))
	default:
		if a.log != nil && a.log() != nil {
			a.log().Error("unknown auth code", err, code)
		}
		c.AbortWithStatus(500)
	}
	return false
}

func (a *authorization) errOf(e liberr.Error) error {
	if e == nil {
		return nil
	}
	return e.GetError()
}

func (a *authorization) Handler(c *ginsdk.Context) {
	if !a.verify(c) {
		return
	}
	for _, h := range a.handler {
		h(c)
		if c.IsAborted() {
			return
		}
	}
}

func (a *authorization) Register(handlers ...ginsdk.HandlerFunc) ginsdk.HandlerFunc {
	a.handler = handlers
	return a.Handler
}

func (a *authorization) Append(handlers ...ginsdk.HandlerFunc) {
	a.handler = append(a.handler, handlers...)
}
