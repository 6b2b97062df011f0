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

//go:build !linux

package eventloop

import (
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// genericPoller backs Poller on platforms with no epoll binding wired here,
// and is also poller_linux.go's own fallback if EpollCreate1 fails (e.g.
// inside a restrictive container). Each registered connection gets one
// goroutine blocked in raw.Read, the same runtime-netpoller-driven wait
// epoll uses internally; once the fd is reported readable the goroutine
// peeks one byte with MSG_PEEK so the data stays in the socket buffer for
// the real reader, and hands the callback to the Loop. Connections that do
// not expose a raw fd (syscall.Conn) fall back to a plain blocking Read,
// which is lossy by construction and only ever exercised by non-socket
// net.Conn implementations such as net.Pipe in tests.
type genericPoller struct {
	loop *Loop
}

func newPoller(l *Loop) Poller {
	return newGenericPoller(l)
}

func newGenericPoller(l *Loop) Poller {
	return &genericPoller{loop: l}
}

type genericWatch struct {
	cancel chan struct{}
	once   sync.Once
}

func (w *genericWatch) Cancel() {
	w.once.Do(func() { close(w.cancel) })
}

func (p *genericPoller) Register(conn net.Conn, onReadable func()) (Watch, error) {
	if sc, ok := conn.(syscall.Conn); ok {
		raw, err := sc.SyscallConn()
		if err == nil {
			return p.registerPeek(raw, onReadable)
		}
	}
	return p.registerConsuming(conn, onReadable)
}

// registerPeek waits for fd readability via the runtime netpoller and peeks
// (MSG_PEEK) rather than consumes, so the eventual real Read by the
// connection's owner still observes the full byte stream.
func (p *genericPoller) registerPeek(raw syscall.RawConn, onReadable func()) (Watch, error) {
	w := &genericWatch{cancel: make(chan struct{})}

	go func() {
		buf := make([]byte, 1)
		_ = raw.Read(func(fd uintptr) bool {
			select {
			case <-w.cancel:
				return true
			default:
			}
			_, _, err := unix.Recvfrom(int(fd), buf, unix.MSG_PEEK)
			if err == unix.EAGAIN {
				return false
			}
			return true
		})

		select {
		case <-w.cancel:
			return
		default:
			p.loop.postReadiness(onReadable)
		}
	}()

	return w, nil
}

// registerConsuming is the last-resort path for a net.Conn with no raw fd:
// it blocks on a real Read, so the byte it consumes is lost to the eventual
// caller. Acceptable only because no production transport (TCP, Unix
// socket) takes this path.
func (p *genericPoller) registerConsuming(conn net.Conn, onReadable func()) (Watch, error) {
	w := &genericWatch{cancel: make(chan struct{})}

	go func() {
		buf := make([]byte, 1)
		_, err := conn.Read(buf)

		select {
		case <-w.cancel:
			return
		default:
		}

		if err == nil {
			p.loop.postReadiness(onReadable)
		}
	}()

	return w, nil
}

func (p *genericPoller) Close() error {
	return nil
}
