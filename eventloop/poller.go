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

package eventloop

import "net"

// Watch is a live fd registration; Cancel stops delivering readiness
// callbacks for it. Safe to call more than once.
type Watch interface {
	Cancel()
}

// Poller is the fd-readiness backend a Loop drives. Go's own runtime
// netpoller already makes net.Conn reads non-blocking under the hood, so
// this interface exists only so the Controller can register "call me back
// when this connection has bytes to read" instead of dedicating a blocked
// goroutine to every connection for its whole lifetime (spec §2.1, §4.1).
// Register must be safe to call from any goroutine; onReadable is always
// delivered on the owning Loop's own goroutine.
type Poller interface {
	Register(conn net.Conn, onReadable func()) (Watch, error)
	Close() error
}
