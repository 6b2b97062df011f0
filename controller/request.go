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
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/passenger-core/apppool"
	"github.com/nabbar/passenger-core/turbocache"
)

// Request is the Controller's per-request object (spec §3 "Request").
// Once or exactly-once semantics mirror apppool.Session: ended() may be
// polled from any callback to detect a client disconnect mid-flight.
type Request struct {
	mu sync.Mutex

	state State
	ended atomic.Bool

	Method  string
	Path    string
	Host    string
	Header  http.Header
	Upgrade bool

	Fingerprint uint64

	Session *apppool.Session

	cachedErr error
}

// NewRequest creates a Request in the initial ANALYZING_REQUEST state.
func NewRequest(method, path, host string, header http.Header) *Request {
	return &Request{
		state:   AnalyzingRequest,
		Method:  method,
		Path:    path,
		Host:    host,
		Header:  header,
		Upgrade: header.Get("Upgrade") != "",
	}
}

// State returns the Request's current lifecycle state.
func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// transition moves to a new state, refusing to leave ENDED.
func (r *Request) transition(s State) {
	r.mu.Lock()
	if r.state != Ended {
		r.state = s
	}
	r.mu.Unlock()
}

// End marks the Request ENDED, releasing its Session exactly once (spec
// §4.7.1 "Any state may transition to ENDED on error; ENDED releases the
// Session exactly once").
func (r *Request) End(keepAlive bool) {
	r.mu.Lock()
	already := r.state == Ended
	r.state = Ended
	sess := r.Session
	r.mu.Unlock()

	if already {
		return
	}
	if sess != nil {
		sess.Close(keepAlive)
	}
}

// Ended reports whether a client disconnect or terminal error has already
// closed out this Request (spec §5 "outstanding callbacks must check
// req.ended() and bail out").
func (r *Request) Ended() bool {
	return r.ended.Load()
}

// MarkEnded flags a client disconnect detected asynchronously, without
// running the normal End() side effects (the caller is expected to still
// call End() to release the Session once it regains control).
func (r *Request) MarkEnded() {
	r.ended.Store(true)
}

// DeferDisconnectError stashes a read error observed during readahead so
// it surfaces only after the current response completes (spec §4.7.5).
func (r *Request) DeferDisconnectError(err error) {
	r.mu.Lock()
	r.cachedErr = err
	r.mu.Unlock()
}

// DeferredError returns the error stashed by DeferDisconnectError, if any.
func (r *Request) DeferredError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cachedErr
}

// CacheProbe implements spec §4.7.3: on entry into CHECKING_OUT_SESSION,
// if the cache is enabled and the request is cache-eligible, probe it.
// On hit, the caller should write entry directly to the client and End()
// without ever calling into the Pool.
func (r *Request) CacheProbe(cache *turbocache.Cache, now time.Time) (*turbocache.Entry, bool) {
	r.transition(CheckingOutSession)
	if cache == nil || r.Upgrade {
		return nil, false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return nil, false
	}
	r.Fingerprint = turbocache.Fingerprint(r.Method, r.Host, r.Path, r.Header)
	return cache.Fetch(r.Fingerprint, now)
}

// CheckOutSession asks pool for a session for appGroup, routing through
// the normal Pool.Get callback contract. callback fires with the Session
// or an error from the Pool's error surface (spec §4.7.6).
func (r *Request) CheckOutSession(pool *apppool.Pool, opts apppool.GroupOptions, callback func(*apppool.Session, error)) {
	r.transition(CheckingOutSession)
	pool.Get(opts, func(s *apppool.Session, err error) {
		if r.Ended() {
			if s != nil {
				s.Close(false)
			}
			return
		}
		if err == nil {
			r.mu.Lock()
			r.Session = s
			r.mu.Unlock()
		}
		callback(s, err)
	})
}

// ForwardHeader moves the Request into FORWARDING_HEADER_TO_APP; callers
// write the request line/header envelope to the session's connection.
func (r *Request) ForwardHeader() { r.transition(ForwardingHeaderToApp) }

// ForwardBody moves the Request into FORWARDING_BODY_TO_APP.
func (r *Request) ForwardBody() { r.transition(ForwardingBodyToApp) }

// AwaitAppResponse moves the Request into WAITING_FOR_APP_RESPONSE.
func (r *Request) AwaitAppResponse() { r.transition(WaitingForAppResponse) }

// ForwardResponse moves the Request into FORWARDING_RESPONSE_TO_CLIENT.
func (r *Request) ForwardResponse() { r.transition(ForwardingResponseToClient) }

// PumpUpgrade runs the bidirectional byte pump for an upgraded connection
// (spec §4.7.4): client<->app proceed independently, each side closed on
// EOF of its source with a shutdown(WR) on its sink. The Session is never
// returned to the Socket free list; it is simply closed when either side
// terminates.
func PumpUpgrade(client io.ReadWriteCloser, app io.ReadWriteCloser) error {
	errCh := make(chan error, 2)

	pump := func(dst io.WriteCloser, src io.Reader) {
		_, err := io.Copy(dst, src)
		_ = closeWrite(dst)
		errCh <- err
	}

	go pump(app, client)
	go pump(client, app)

	err1 := <-errCh
	err2 := <-errCh
	_ = client.Close()
	_ = app.Close()

	if err1 != nil {
		return err1
	}
	return err2
}

// halfCloser is implemented by connections that support a half-close
// (e.g. *net.TCPConn, *net.UnixConn); other io.WriteClosers are simply
// closed outright since they have no partial-close concept.
type halfCloser interface {
	CloseWrite() error
}

func closeWrite(w io.WriteCloser) error {
	if hc, ok := w.(halfCloser); ok {
		return hc.CloseWrite()
	}
	return nil
}
