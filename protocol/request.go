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

// Package protocol implements the incremental wire-level state machines
// the Controller needs: request-line + header parsing, chunked
// transfer-coding, and response header parsing (spec §2.7, §4.7.2).
//
// Parsing works off a bufio.Reader a byte at a time so it can be driven
// from a non-blocking event loop: ParseRequestLine/ParseHeaders return
// ErrNeedMore when the buffered bytes run out before a full line is seen,
// and the caller is expected to read more and call again.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"net/textproto"
	"strconv"
	"strings"
)

// ErrNeedMore signals that parsing stopped for lack of buffered input, not
// because of malformed data; the caller should read more and retry.
var ErrNeedMore = errors.New("protocol: need more data")

// ErrMalformedRequest is returned for any request line/header the parser
// cannot make sense of (spec §7 "bad request framing" -> 400).
var ErrMalformedRequest = errors.New("protocol: malformed request")

// RequestLine is the parsed first line of an HTTP/1.x request.
type RequestLine struct {
	Method  string
	Path    string
	Query   string
	Version string
}

// ParseRequestLine reads and parses exactly one request line from r. It
// returns ErrNeedMore if r's buffered data ends before a full CRLF-terminated
// line is available; the caller should not have consumed anything from r's
// underlying source yet in that case other than what bufio already buffered.
func ParseRequestLine(r *bufio.Reader) (RequestLine, error) {
	line, err := readCRLFLine(r)
	if err != nil {
		return RequestLine{}, err
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return RequestLine{}, ErrMalformedRequest
	}

	method, uri, version := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(version, "HTTP/") {
		return RequestLine{}, ErrMalformedRequest
	}

	path, query := uri, ""
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		path, query = uri[:i], uri[i+1:]
	}

	return RequestLine{Method: method, Path: path, Query: query, Version: version}, nil
}

// ParseHeaders reads header lines (via net/textproto, the stdlib MIME
// header folding/continuation implementation) until the blank line that
// terminates them. There is no suitable third-party incremental HTTP
// header parser in the dependency set this module draws from, so this is
// one of the few places the ambient stack falls back to the standard
// library (see DESIGN.md).
func ParseHeaders(r *bufio.Reader) (textproto.MIMEHeader, error) {
	tp := textproto.NewReader(r)
	h, err := tp.ReadMIMEHeader()
	if err != nil {
		return nil, fmt.Errorf("protocol: %w", ErrMalformedRequest)
	}
	return h, nil
}

func readCRLFLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", ErrNeedMore
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", ErrMalformedRequest
	}
	return line, nil
}

// ContentLength extracts Content-Length from parsed headers, or -1 if
// absent. An invalid value is reported as ErrMalformedRequest.
func ContentLength(h textproto.MIMEHeader) (int64, error) {
	v := h.Get("Content-Length")
	if v == "" {
		return -1, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrMalformedRequest
	}
	return n, nil
}

// IsChunked reports whether Transfer-Encoding names "chunked" as its final
// coding (RFC 7230 §3.3.1 — only the last coding matters).
func IsChunked(h textproto.MIMEHeader) bool {
	te := h.Get("Transfer-Encoding")
	if te == "" {
		return false
	}
	codings := strings.Split(te, ",")
	last := strings.TrimSpace(codings[len(codings)-1])
	return strings.EqualFold(last, "chunked")
}

// HasUpgrade reports whether the request asked for a protocol upgrade.
func HasUpgrade(h textproto.MIMEHeader) bool {
	return h.Get("Upgrade") != ""
}
