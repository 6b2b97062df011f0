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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Envelope is the worker handshake message for "session"-protocol
// sockets: a 4-byte big-endian length prefix followed by NUL-separated
// key/value pairs (spec §6).
type Envelope map[string]string

// EncodeEnvelope serializes e in the wire format, with keys written in
// the order given by order (callers pass the deterministic field order
// their caller built, since Go map iteration order is not stable).
func EncodeEnvelope(e Envelope, order []string) []byte {
	var body bytes.Buffer
	for _, k := range order {
		v, ok := e[k]
		if !ok {
			continue
		}
		body.WriteString(k)
		body.WriteByte(0)
		body.WriteString(v)
		body.WriteByte(0)
	}

	out := make([]byte, 4+body.Len())
	binary.BigEndian.PutUint32(out, uint32(body.Len()))
	copy(out[4:], body.Bytes())
	return out
}

// WriteEnvelope writes EncodeEnvelope's output to w.
func WriteEnvelope(w io.Writer, e Envelope, order []string) error {
	_, err := w.Write(EncodeEnvelope(e, order))
	return err
}

// ReadEnvelope reads one length-prefixed envelope from r.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	return decodeEnvelopeBody(body)
}

func decodeEnvelopeBody(body []byte) (Envelope, error) {
	e := make(Envelope)
	fields := bytes.Split(body, []byte{0})
	// Split on a trailing-NUL-terminated stream leaves one empty final
	// element; drop it so len(fields) is even.
	if len(fields) > 0 && len(fields[len(fields)-1]) == 0 {
		fields = fields[:len(fields)-1]
	}
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("protocol: %w: odd number of envelope fields", ErrMalformedRequest)
	}
	for i := 0; i < len(fields); i += 2 {
		e[string(fields[i])] = string(fields[i+1])
	}
	return e, nil
}

// StandardEnvelopeOrder is the field order used for a request envelope
// built from an incoming HTTP request (spec §6's recognized keys).
var StandardEnvelopeOrder = []string{
	"REQUEST_METHOD",
	"PATH_INFO",
	"QUERY_STRING",
	"SERVER_NAME",
	"CONTENT_LENGTH",
	"CONTENT_TYPE",
	"PASSENGER_CONNECT_PASSWORD",
}
