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
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ChunkedBodyParser is an incremental reader for HTTP chunked
// transfer-coding bodies, tracking the state machine across reads so the
// Controller can feed it partial buffers off a non-blocking socket
// (original_source/.../HttpChunkedBodyParser.h: size-line -> chunk-data ->
// trailer CRLF -> next size-line, terminating on a zero-size chunk).
type ChunkedBodyParser struct {
	r         *bufio.Reader
	remaining int64
	done      bool
}

// NewChunkedBodyParser wraps r for chunked decoding.
func NewChunkedBodyParser(r *bufio.Reader) *ChunkedBodyParser {
	return &ChunkedBodyParser{r: r}
}

// Read implements io.Reader, returning io.EOF once the terminating
// zero-length chunk and its trailing CRLF have been consumed.
func (c *ChunkedBodyParser) Read(p []byte) (int, error) {
	if c.done {
		return 0, io.EOF
	}

	if c.remaining == 0 {
		n, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			if err := c.consumeTrailer(); err != nil {
				return 0, err
			}
			c.done = true
			return 0, io.EOF
		}
		c.remaining = n
	}

	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining == 0 && err == nil {
		if _, e := c.r.Discard(2); e != nil { // trailing CRLF after chunk data
			return n, e
		}
	}
	return n, err
}

func (c *ChunkedBodyParser) readChunkSize() (int64, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return 0, ErrNeedMore
	}
	line = strings.TrimRight(line, "\r\n")
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i] // chunk extensions are ignored, not validated
	}
	n, err := strconv.ParseInt(strings.TrimSpace(line), 16, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("protocol: invalid chunk size: %w", ErrMalformedRequest)
	}
	return n, nil
}

func (c *ChunkedBodyParser) consumeTrailer() error {
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return ErrNeedMore
		}
		if strings.TrimRight(line, "\r\n") == "" {
			return nil
		}
	}
}

// ChunkedWriter re-encodes an arbitrary byte stream as chunked
// transfer-coding, used when forwarding a buffered body to a worker that
// expects chunked framing.
type ChunkedWriter struct {
	w io.Writer
}

// NewChunkedWriter wraps w for chunked encoding.
func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w}
}

// Write emits p as one chunk. Zero-length writes are ignored; call Close
// to emit the terminating zero-length chunk.
func (c *ChunkedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(c.w, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := c.w.Write([]byte("\r\n")); err != nil {
		return n, err
	}
	return n, nil
}

// Close writes the terminating zero-length chunk and final CRLF.
func (c *ChunkedWriter) Close() error {
	_, err := c.w.Write([]byte("0\r\n\r\n"))
	return err
}
