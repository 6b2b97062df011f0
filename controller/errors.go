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
	"fmt"
	"net/http"

	"github.com/nabbar/passenger-core/apppool"
	liberr "github.com/nabbar/passenger-core/errors"
)

// ErrorPage is the rendered outcome of mapping a request-lifetime error to
// an HTTP response (spec §4.7.6, §7).
type ErrorPage struct {
	Status int
	Body   string
	// Header carries extra response headers, e.g. WWW-Authenticate on 401.
	Header map[string]string
}

const canned503 = "<html><body><h1>503 Service Unavailable</h1><p>The application is not able to handle this request.</p></body></html>"
const canned500 = "<html><body><h1>500 Internal Server Error</h1></body></html>"
const canned400 = "<html><body><h1>400 Bad Request</h1></body></html>"

// MapPoolError implements spec §4.7.6 / §7 items 1-4: translate the error
// the Pool's get callback produced into a client-facing response.
//
// requestQueueOverflowStatus overrides the default 503 when non-zero (the
// `!~PASSENGER_REQUEST_QUEUE_OVERFLOW_STATUS_CODE` secure header in spec
// §7 item 5). friendly enables detailed spawn-error/exception bodies.
func MapPoolError(err error, requestQueueOverflowStatus int, friendly bool) ErrorPage {
	e, ok := err.(liberr.Error)
	if !ok {
		return ErrorPage{Status: http.StatusInternalServerError, Body: canned500}
	}

	switch {
	case e.HasCode(liberr.CodeError(apppool.CodeRequestQueueFull)):
		status := http.StatusServiceUnavailable
		if requestQueueOverflowStatus != 0 {
			status = requestQueueOverflowStatus
		}
		return ErrorPage{Status: status, Body: canned503}

	case e.HasCode(liberr.CodeError(apppool.CodeSpawnException)):
		if friendly {
			return ErrorPage{Status: http.StatusInternalServerError, Body: fmt.Sprintf("<html><body><h1>500 Internal Server Error</h1><pre>%s</pre></body></html>", e.StringError())}
		}
		return ErrorPage{Status: http.StatusInternalServerError, Body: canned500}

	case e.HasCode(liberr.CodeError(apppool.CodePoolAtFullCapacity)):
		status := http.StatusServiceUnavailable
		if requestQueueOverflowStatus != 0 {
			status = requestQueueOverflowStatus
		}
		return ErrorPage{Status: status, Body: canned503}

	default:
		if friendly {
			return ErrorPage{Status: http.StatusInternalServerError, Body: fmt.Sprintf("<html><body><h1>500 Internal Server Error</h1><pre>%s</pre></body></html>", e.StringError())}
		}
		return ErrorPage{Status: http.StatusInternalServerError, Body: canned500}
	}
}

// WorkerIOError implements spec §7 item 2/3: a socket-level error talking
// to the app. responseStarted distinguishes between synthesizing a 502 and
// simply disconnecting (no recovery once bytes are on the wire).
func WorkerIOError(responseStarted bool) (ErrorPage, bool) {
	if responseStarted {
		return ErrorPage{}, false
	}
	return ErrorPage{Status: http.StatusBadGateway, Body: "<html><body><h1>502 Bad Gateway</h1></body></html>"}, true
}

// AdminAuthFailure implements spec §7 item 6.
func AdminAuthFailure() ErrorPage {
	return ErrorPage{
		Status: http.StatusUnauthorized,
		Body:   "<html><body><h1>401 Unauthorized</h1></body></html>",
		Header: map[string]string{"WWW-Authenticate": `Basic realm="admin"`},
	}
}

// BadRequestFraming implements spec §7 item 7.
func BadRequestFraming() ErrorPage {
	return ErrorPage{Status: http.StatusBadRequest, Body: canned400}
}
