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

// Package authheader holds the header names and status codes the admin
// surface's authorization middleware shares with its callers.
package authheader

import (
	ginsdk "github.com/gin-gonic/gin"
)

// AuthCode is the outcome of a caller-supplied credential check.
type AuthCode uint8

const (
	AuthCodeSuccess AuthCode = iota
	AuthCodeRequire
	AuthCodeForbidden
)

const (
	HeaderAuthRequire = "WWW-Authenticate"
	HeaderAuthSend    = "Authorization"
	HeaderAuthReal    = "Basic realm=LDAP Authorization Required"
)

// AuthRequire aborts the request with 401 and the WWW-Authenticate challenge.
func AuthRequire(c *ginsdk.Context, err error) {
	c.Header(HeaderAuthRequire, HeaderAuthReal)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatus(401)
}

// AuthForbidden aborts the request with 403.
func AuthForbidden(c *ginsdk.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatus(403)
}
