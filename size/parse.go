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
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reSize = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d+)?)\s*([A-Za-z]{0,2})$`)

var unitMultiplier = map[string]Size{
	"":   SizeUnit,
	"B":  SizeUnit,
	"K":  SizeKilo,
	"KB": SizeKilo,
	"M":  SizeMega,
	"MB": SizeMega,
	"G":  SizeGiga,
	"GB": SizeGiga,
	"T":  SizeTera,
	"TB": SizeTera,
	"P":  SizePeta,
	"PB": SizePeta,
	"E":  SizeExa,
	"EB": SizeExa,
}

// Parse reads a human size such as "512MB" or "1.5GB" into a Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	s = unquote(s)
	s = strings.TrimSpace(s)

	if s == "" {
		return SizeNul, fmt.Errorf("size: invalid size value: empty string")
	}

	m := reSize.FindStringSubmatch(s)
	if m == nil {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return SizeNul, fmt.Errorf("size: missing unit in value %q", s)
		}
		return SizeNul, fmt.Errorf("size: invalid size value %q", s)
	}

	sign, numPart, unitPart := m[1], m[2], strings.ToUpper(m[3])

	if sign == "-" {
		return SizeNul, fmt.Errorf("size: negative values are not allowed: %q", s)
	}

	if unitPart == "" && numPart != "" {
		// a bare number with no letters at all (regex unit group matched empty)
		return SizeNul, fmt.Errorf("size: missing unit in value %q", s)
	}

	mult, ok := unitMultiplier[unitPart]
	if !ok {
		return SizeNul, fmt.Errorf("size: unknown unit %q in value %q", unitPart, s)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return SizeNul, fmt.Errorf("size: invalid numeric value %q: %w", numPart, err)
	}

	val := num * float64(mult)
	if math.IsInf(val, 1) || val > float64(math.MaxUint64) {
		return SizeNul, fmt.Errorf("size: value %q overflows size range", s)
	}

	return Size(math.Round(val)), nil
}

// ParseSize is a deprecated alias of Parse.
func ParseSize(s string) (Size, error) {
	return Parse(s)
}

// ParseByte reads a human size from a byte slice.
func ParseByte(b []byte) (Size, error) {
	return Parse(string(b))
}

// ParseByteAsSize is a deprecated alias of ParseByte.
func ParseByteAsSize(b []byte) (Size, error) {
	return ParseByte(b)
}

// GetSize is a deprecated alias of Parse with a boolean result instead
// of an error.
func GetSize(s string) (Size, bool) {
	v, err := Parse(s)
	if err != nil {
		return SizeNul, false
	}
	return v, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
