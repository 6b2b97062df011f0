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
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/nabbar/passenger-core/apppool"
	"github.com/nabbar/passenger-core/protocol"
	"github.com/nabbar/passenger-core/turbocache"
)

// requestOOBWHeader is the response header an application sends to ask
// for an out-of-band-work cycle once this request finishes (spec §4.4.5).
// textproto.MIMEHeader.Get canonicalizes its argument, so any case reaches
// the same value.
const requestOOBWHeader = "X-Passenger-Request-OOBW"

// GroupResolver maps an incoming request to the application Group that
// should serve it. Left to the embedding process to configure (spec §2's
// per-application Group routing is driven by whatever virtual-host/mount
// table the admin surface or its config loader builds).
type GroupResolver func(host, path string) (apppool.GroupOptions, bool)

// Server drives a Request end to end over one accepted connection: parse,
// cache probe, Pool checkout, bidirectional forwarding, cache store. It is
// the I/O glue around the pure state machine in Request/types.go (spec
// §4.7), grounded the way the original's RequestHandler::ClientContext
// loop does it, but written as a single blocking goroutine per connection
// rather than a libev continuation chain.
type Server struct {
	Pool    *apppool.Pool
	Cache   *turbocache.Cache
	Metrics *Metrics
	Resolve GroupResolver

	// RequestQueueOverflowStatus overrides the default 503 (spec §7 item 5).
	RequestQueueOverflowStatus int
	// FriendlyErrorPages enables detailed spawn-error bodies (spec §7).
	FriendlyErrorPages bool
	// KeepAliveTimeout bounds how long an idle keep-alive connection waits
	// for the next request line before the Server closes it.
	KeepAliveTimeout time.Duration
}

// HandleConnection reads and answers every request on conn until the
// client closes, a non-keep-alive response is sent, or framing is too
// malformed to recover a byte boundary from (spec §7 "bad request
// framing").
func (s *Server) HandleConnection(conn net.Conn) {
	defer conn.Close()

	br := bufio.NewReader(conn)
	timeout := s.KeepAliveTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
		line, err := protocol.ParseRequestLine(br)
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Time{})

		header, err := protocol.ParseHeaders(br)
		if err != nil {
			s.writeErrorPage(conn, BadRequestFraming())
			return
		}

		req := NewRequest(line.Method, line.Path, header.Get("Host"), http.Header(header))
		if s.Metrics != nil {
			s.Metrics.RequestsTotal.WithLabelValues(req.Method).Inc()
		}

		keepAlive := s.serveOne(conn, br, req)
		if !keepAlive {
			return
		}
	}
}

func (s *Server) serveOne(conn net.Conn, br *bufio.Reader, req *Request) bool {
	now := time.Now()

	if entry, hit := req.CacheProbe(s.Cache, now); hit {
		if s.Metrics != nil {
			s.Metrics.TurbocacheHits.Inc()
		}
		conn.Write(entry.Header)
		conn.Write(entry.Body)
		req.End(true)
		return true
	}
	if s.Cache != nil && s.Metrics != nil {
		s.Metrics.TurbocacheMisses.Inc()
	}

	opts, ok := s.Resolve(req.Host, req.Path)
	if !ok {
		s.writeErrorPage(conn, ErrorPage{Status: http.StatusNotFound, Body: canned400})
		req.End(false)
		return false
	}

	sessCh := make(chan struct {
		sess *apppool.Session
		err  error
	}, 1)
	req.CheckOutSession(s.Pool, opts, func(sess *apppool.Session, err error) {
		sessCh <- struct {
			sess *apppool.Session
			err  error
		}{sess, err}
	})
	result := <-sessCh

	if result.err != nil {
		if s.Metrics != nil {
			s.Metrics.PoolErrorsTotal.WithLabelValues(opts.Name).Inc()
		}
		s.writeErrorPage(conn, MapPoolError(result.err, s.RequestQueueOverflowStatus, s.FriendlyErrorPages))
		req.End(false)
		return false
	}

	return s.forward(conn, br, req, result.sess)
}

// forward opens (or reuses) the backend connection, sends the request,
// reads the response, and relays it to the client (spec §4.7.4/§4.7.5).
func (s *Server) forward(conn net.Conn, br *bufio.Reader, req *Request, sess *apppool.Session) bool {
	appConn, failure := dialSession(sess)
	if failure != nil {
		sess.InitiateFailure()
		s.writeErrorPage(conn, WorkerIOErrorPage())
		req.End(false)
		return false
	}
	sess.Conn = &apppool.Connection{Conn: appConn}

	reqMIME := textproto.MIMEHeader(req.Header)
	bodyLen, _ := protocol.ContentLength(reqMIME)
	decision := DecideBodyStrategy(req.Method, req.Upgrade, bodyLen > 0 || protocol.IsChunked(reqMIME), appProtocolOf(sess.Socket.Protocol))

	req.ForwardHeader()
	if err := writeRequestHead(appConn, sess.Socket.Protocol, req, bodyLen); err != nil {
		sess.Close(false)
		req.End(false)
		return false
	}

	req.ForwardBody()
	if bodyLen > 0 {
		if _, err := io.CopyN(appConn, br, bodyLen); err != nil {
			sess.Close(false)
			req.End(false)
			return false
		}
	} else if protocol.IsChunked(reqMIME) {
		cr := protocol.NewChunkedBodyParser(br)
		if _, err := io.Copy(appConn, cr); err != nil {
			sess.Close(false)
			req.End(false)
			return false
		}
	}

	if decision.HalfCloseAfter && !req.Upgrade {
		_ = closeWrite(appConn)
	}

	if req.Upgrade {
		appRW, ok := appConn.(io.ReadWriteCloser)
		if !ok {
			sess.Close(false)
			req.End(false)
			return false
		}
		_ = PumpUpgrade(struct {
			io.Reader
			io.Writer
			io.Closer
		}{br, conn, conn}, appRW)
		req.MarkEnded()
		req.End(false)
		return false
	}

	req.AwaitAppResponse()
	appBr := bufio.NewReader(appConn)
	status, err := protocol.ParseResponseStatusLine(appBr)
	if err != nil {
		sess.Close(false)
		s.writeErrorPage(conn, WorkerIOErrorPage())
		req.End(false)
		return false
	}
	respHeader, err := protocol.ParseResponseHeaders(appBr)
	if err != nil {
		sess.Close(false)
		s.writeErrorPage(conn, WorkerIOErrorPage())
		req.End(false)
		return false
	}

	req.ForwardResponse()
	body, err := readResponseBody(appBr, respHeader)
	if err != nil {
		sess.Close(false)
		req.End(false)
		return false
	}

	headerBytes := encodeResponseHead(status, respHeader)
	conn.Write(headerBytes)
	conn.Write(body)

	if respHeader.Get(requestOOBWHeader) != "" && sess.Process != nil {
		sess.Process.RequestOOBW()
	}

	keepAlive := !strings.EqualFold(respHeader.Get("Connection"), "close")
	if s.Cache != nil && req.Fingerprint != 0 && turbocache.Cacheable(status.Status, http.Header(respHeader)) {
		s.Cache.Store(&turbocache.Entry{
			Fingerprint: req.Fingerprint,
			Header:      headerBytes,
			Body:        body,
			Date:        time.Now(),
			FreshUntil:  time.Now().Add(time.Second),
		}, time.Now())
	}

	sess.Close(keepAlive)
	req.End(keepAlive)
	return keepAlive
}

// dialSession gets a usable backend connection for sess: an idle one from
// the socket's free list, or a fresh dial (spec §3's connection-pool
// checkout).
func dialSession(sess *apppool.Session) (net.Conn, error) {
	if c, ok := sess.Socket.CheckoutConnection(); ok {
		return c.Conn, nil
	}
	return net.Dial("tcp", sess.Socket.Address)
}

// appProtocolOf translates a Socket's wire protocol into the Controller's
// own AppProtocol tag used by DecideBodyStrategy.
func appProtocolOf(p apppool.SocketProtocol) AppProtocol {
	if p == apppool.ProtocolSession {
		return AppProtocolSession
	}
	return AppProtocolHTTP
}

// writeRequestHead sends the request head to the app over w, using raw
// HTTP/1.1 for ProtocolHTTP sockets and a length-prefixed session envelope
// for ProtocolSession sockets (spec §4.7.4, §6). bodyLen is -1 when the
// request has no declared Content-Length.
func writeRequestHead(w io.Writer, proto apppool.SocketProtocol, req *Request, bodyLen int64) error {
	if proto == apppool.ProtocolSession {
		return writeSessionEnvelope(w, req, bodyLen)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", req.Method, req.Path)
	for k, vs := range req.Header {
		for _, v := range vs {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSessionEnvelope builds the PASSENGER_CONNECT_PASSWORD-bearing
// request envelope a "session"-protocol worker expects in place of a raw
// HTTP/1.1 request line (spec §6).
func writeSessionEnvelope(w io.Writer, req *Request, bodyLen int64) error {
	path, query, _ := strings.Cut(req.Path, "?")

	env := protocol.Envelope{
		"REQUEST_METHOD": req.Method,
		"PATH_INFO":       path,
		"QUERY_STRING":   query,
		"SERVER_NAME":    req.Host,
	}
	if bodyLen >= 0 {
		env["CONTENT_LENGTH"] = fmt.Sprintf("%d", bodyLen)
	}
	if ct := req.Header.Get("Content-Type"); ct != "" {
		env["CONTENT_TYPE"] = ct
	}
	if req.Session != nil && req.Session.Process != nil {
		env["PASSENGER_CONNECT_PASSWORD"] = req.Session.Process.ApiKey()
	}

	if err := protocol.WriteEnvelope(w, env, protocol.StandardEnvelopeOrder); err != nil {
		return err
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, v); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

func encodeResponseHead(status ResponseStatus, header textproto.MIMEHeader) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", status.Status, status.Reason)
	for k, vs := range header {
		for _, v := range vs {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

func readResponseBody(r *bufio.Reader, header textproto.MIMEHeader) ([]byte, error) {
	if n, _ := protocol.ContentLength(header); n >= 0 {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	if protocol.IsChunked(header) {
		return io.ReadAll(protocol.NewChunkedBodyParser(r))
	}
	return io.ReadAll(r)
}

func (s *Server) writeErrorPage(w io.Writer, page ErrorPage) {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", page.Status, http.StatusText(page.Status))
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(page.Body))
	fmt.Fprintf(&b, "Content-Type: text/html\r\n")
	for k, v := range page.Header {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	b.WriteString("\r\n")
	b.WriteString(page.Body)
	io.WriteString(w, b.String())
}

// ResponseStatus aliases protocol.ResponseStatusLine so this file reads
// independently of parser internals.
type ResponseStatus = protocol.ResponseStatusLine

// WorkerIOErrorPage is the ErrorPage rendered when the backend connection
// breaks mid-response (spec §7 item "a worker died mid-response").
func WorkerIOErrorPage() ErrorPage {
	p, _ := WorkerIOError(false)
	return p
}
