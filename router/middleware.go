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
	"fmt"
	"net/http"
	"strings"
	"time"

	ginsdk "github.com/gin-gonic/gin"

	liblog "github.com/nabbar/passenger-core/logger"
)

// GinLatencyContext stamps the request's start time for later latency
// computation by GinAccessLog.
func GinLatencyContext(c *ginsdk.Context) {
	c.Set(GinContextStartUnixNanoTime, time.Now().UnixNano())
	c.Next()
}

// GinRequestContext captures the request path (with raw query) and the
// userinfo portion of the request URL, if any, for access logging.
func GinRequestContext(c *ginsdk.Context) {
	p := c.Request.URL.Path
	if q := c.Request.URL.RawQuery; q != "" {
		p = p + "?" + q
	}
	c.Set(GinContextRequestPath, p)

	if u := c.Request.URL.User; u != nil {
		c.Set(GinContextRequestUser, u.Username())
	}
	c.Next()
}

// GinAccessLog logs one line per request once the chain completes, using
// the logger lgf resolves (nil-safe: lgf or its result may be nil).
func GinAccessLog(lgf func() liblog.Logger) ginsdk.HandlerFunc {
	return func(c *ginsdk.Context) {
		c.Next()

		if lgf == nil {
			return
		}
		log := lgf()
		if log == nil {
			return
		}

		var latency time.Duration
		if start := c.GetInt64(GinContextStartUnixNanoTime); start > 0 {
			latency = time.Since(time.Unix(0, start))
		}

		log.Info("http access", nil, c.Request.Method, c.GetString(GinContextRequestPath), c.Writer.Status(), latency)
	}
}

// GinErrorLog logs any errors gin.Context accumulated during the chain and
// recovers from a downstream panic, answering 500 instead of crashing the
// listener.
func GinErrorLog(lgf func() liblog.Logger) ginsdk.HandlerFunc {
	return func(c *ginsdk.Context) {
		defer func() {
			if r := recover(); r != nil {
				if lgf != nil {
					if log := lgf(); log != nil {
						log.Error("panic recovered", fmt.Errorf("%v", r))
					}
				}
				if !isBrokenPipe(r) && !c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
				}
			}
		}()

		c.Next()

		if lgf == nil || len(c.Errors) == 0 {
			return
		}
		if log := lgf(); log != nil {
			for _, e := range c.Errors {
				log.Error("request error", e.Err)
			}
		}
	}
}

func isBrokenPipe(r interface{}) bool {
	s, ok := r.(string)
	return ok && strings.Contains(s, "broken pipe")
}
