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

// Package header lets an admin route declare a fixed set of response
// headers (e.g. a version marker, cache-control) independently of its
// handler logic.
package header

import (
	"net/http"

	ginsdk "github.com/gin-gonic/gin"
)

// Headers is a small ordered, case-insensitive header set with a Gin
// middleware that injects it into every response.
type Headers interface {
	Add(key, value string)
	Set(key, value string)
	Get(key string) string
	Del(key string)
	Header() map[string]string
	Clone() Headers
	Handler(c *ginsdk.Context)
	Register(handlers ...ginsdk.HandlerFunc) []ginsdk.HandlerFunc
}

type headers struct {
	h http.Header
}

// NewHeaders creates an empty Headers set.
func NewHeaders() Headers {
	return &headers{h: http.Header{}}
}

func (h *headers) Add(key, value string)  { h.h.Add(key, value) }
func (h *headers) Set(key, value string)  { h.h.Set(key, value) }
func (h *headers) Get(key string) string  { return h.h.Get(key) }
func (h *headers) Del(key string)         { h.h.Del(key) }

func (h *headers) Header() map[string]string {
	out := make(map[string]string, len(h.h))
	for k := range h.h {
		out[k] = h.h.Get(k)
	}
	return out
}

// Clone returns a Headers sharing the same underlying header map.
func (h *headers) Clone() Headers {
	return &headers{h: h.h}
}

func (h *headers) Handler(c *ginsdk.Context) {
	for k, v := range h.Header() {
		c.Header(k, v)
	}
}

func (h *headers) Register(handlers ...ginsdk.HandlerFunc) []ginsdk.HandlerFunc {
	return append([]ginsdk.HandlerFunc{h.Handler}, handlers...)
}
