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

package protocol

import (
	"bufio"
	"net/textproto"
	"strconv"
	"strings"
)

// ResponseStatusLine is the parsed first line of a worker's HTTP/1.x
// response.
type ResponseStatusLine struct {
	Version string
	Status  int
	Reason  string
}

// ParseResponseStatusLine parses "HTTP/1.1 200 OK".
func ParseResponseStatusLine(r *bufio.Reader) (ResponseStatusLine, error) {
	line, err := readCRLFLine(r)
	if err != nil {
		return ResponseStatusLine{}, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return ResponseStatusLine{}, ErrMalformedRequest
	}
	status, err := strconv.Atoi(parts[1])
	if err != nil {
		return ResponseStatusLine{}, ErrMalformedRequest
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}
	return ResponseStatusLine{Version: parts[0], Status: status, Reason: reason}, nil
}

// ParseResponseHeaders reuses the same MIME-header state machine as
// request parsing (spec §2.7 names them as a pair of near-identical
// incremental parsers).
func ParseResponseHeaders(r *bufio.Reader) (textproto.MIMEHeader, error) {
	return ParseHeaders(r)
}
