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

package size

import (
	"encoding/binary"
	"fmt"
)

// MarshalText renders s as its String() representation, so a Size
// round-trips through anything built on encoding.TextMarshaler (JSON,
// YAML, viper).
func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a human size string produced by MarshalText (or
// written by hand in a config file) back into s.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalBinary renders s as a fixed width big-endian uint64.
func (s Size) MarshalBinary() ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(s))
	return b, nil
}

// UnmarshalBinary reads back the format produced by MarshalBinary.
func (s *Size) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("size: invalid binary size payload, expected 8 bytes, got %d", len(data))
	}
	*s = Size(binary.BigEndian.Uint64(data))
	return nil
}

// MarshalTOML renders s as a quoted size string, e.g. "5.00MB".
func (s Size) MarshalTOML() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalTOML accepts a quoted size string or raw bytes, as the TOML
// decoder may hand either representation to an Unmarshaler.
func (s *Size) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("size: value %v is not in valid format for size", data)
	}
}

// MarshalCBOR renders s as a CBOR unsigned integer (major type 0), per
// RFC 8949.
func (s Size) MarshalCBOR() ([]byte, error) {
	v := uint64(s)

	switch {
	case v < 24:
		return []byte{byte(v)}, nil
	case v <= 0xff:
		return []byte{0x18, byte(v)}, nil
	case v <= 0xffff:
		b := make([]byte, 3)
		b[0] = 0x19
		binary.BigEndian.PutUint16(b[1:], uint16(v))
		return b, nil
	case v <= 0xffffffff:
		b := make([]byte, 5)
		b[0] = 0x1a
		binary.BigEndian.PutUint32(b[1:], uint32(v))
		return b, nil
	default:
		b := make([]byte, 9)
		b[0] = 0x1b
		binary.BigEndian.PutUint64(b[1:], v)
		return b, nil
	}
}

// UnmarshalCBOR reads back the format produced by MarshalCBOR.
func (s *Size) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("size: empty CBOR payload")
	}

	head := data[0]
	if head>>5 != 0 {
		return fmt.Errorf("size: not a CBOR unsigned integer (major type %d)", head>>5)
	}

	info := head & 0x1f
	switch {
	case info < 24:
		*s = Size(info)
		return nil
	case info == 24:
		if len(data) < 2 {
			return fmt.Errorf("size: truncated CBOR payload")
		}
		*s = Size(data[1])
		return nil
	case info == 25:
		if len(data) < 3 {
			return fmt.Errorf("size: truncated CBOR payload")
		}
		*s = Size(binary.BigEndian.Uint16(data[1:3]))
		return nil
	case info == 26:
		if len(data) < 5 {
			return fmt.Errorf("size: truncated CBOR payload")
		}
		*s = Size(binary.BigEndian.Uint32(data[1:5]))
		return nil
	case info == 27:
		if len(data) < 9 {
			return fmt.Errorf("size: truncated CBOR payload")
		}
		*s = Size(binary.BigEndian.Uint64(data[1:9]))
		return nil
	default:
		return fmt.Errorf("size: invalid CBOR additional info %d", info)
	}
}
