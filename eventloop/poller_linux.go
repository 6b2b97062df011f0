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

//go:build linux

package eventloop

import (
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// epollPoller backs Poller on Linux with a real epoll instance, the direct
// analogue of the original's EVBACKEND_EPOLL libev loop (spec §2.1).
type epollPoller struct {
	loop *Loop

	epfd int
	mu   sync.Mutex
	regs map[int]*epollWatch

	closeOnce sync.Once
	stop      chan struct{}
}

type epollWatch struct {
	fd       int
	onReady  func()
	poller   *epollPoller
	canceled bool
}

func newPoller(l *Loop) Poller {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return newGenericPoller(l)
	}

	p := &epollPoller{
		loop: l,
		epfd: epfd,
		regs: make(map[int]*epollWatch),
		stop: make(chan struct{}),
	}
	go p.run()
	return p
}

// Register adds conn's underlying fd to the epoll set in level-triggered
// mode. onReadable is invoked (via the Loop) every time the fd has data
// buffered, so callers consuming less than a full readiness's worth of
// bytes will simply be called again — matching plain level-triggered epoll
// semantics rather than requiring edge-triggered drain-to-EAGAIN discipline.
func (p *epollPoller) Register(conn net.Conn, onReadable func()) (Watch, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, errNotSyscallConn
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, err
	}

	var fd int
	var ctlErr error
	if err := raw.Control(func(sysfd uintptr) {
		fd = int(sysfd)
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		ctlErr = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
	}); err != nil {
		return nil, err
	}
	if ctlErr != nil {
		return nil, ctlErr
	}

	w := &epollWatch{fd: fd, onReady: onReadable, poller: p}

	p.mu.Lock()
	p.regs[fd] = w
	p.mu.Unlock()

	return w, nil
}

func (w *epollWatch) Cancel() {
	w.poller.mu.Lock()
	if w.canceled {
		w.poller.mu.Unlock()
		return
	}
	w.canceled = true
	delete(w.poller.regs, w.fd)
	w.poller.mu.Unlock()

	_ = unix.EpollCtl(w.poller.epfd, unix.EPOLL_CTL_DEL, w.fd, nil)
}

func (p *epollPoller) run() {
	events := make([]unix.EpollEvent, 64)
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		n, err := unix.EpollWait(p.epfd, events, 250)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			p.mu.Lock()
			w := p.regs[fd]
			p.mu.Unlock()
			if w != nil {
				p.loop.postReadiness(w.onReady)
			}
		}
	}
}

func (p *epollPoller) Close() error {
	p.closeOnce.Do(func() {
		close(p.stop)
		_ = unix.Close(p.epfd)
	})
	return nil
}
