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
)

// AddErr adds v to s, saturating and returning an error on overflow.
func (s *Size) AddErr(v uint64) error {
	cur := uint64(*s)
	if v > math.MaxUint64-cur {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: addition overflow")
	}
	*s = Size(cur + v)
	return nil
}

// Add adds v to s, saturating silently on overflow.
func (s *Size) Add(v uint64) {
	_ = s.AddErr(v)
}

// SubErr subtracts v from s, flooring at zero and returning an error
// when v exceeds s.
func (s *Size) SubErr(v uint64) error {
	cur := uint64(*s)
	if v > cur {
		*s = SizeNul
		return fmt.Errorf("size: invalid substractor, value exceeds size")
	}
	*s = Size(cur - v)
	return nil
}

// Sub subtracts v from s, flooring silently at zero.
func (s *Size) Sub(v uint64) {
	_ = s.SubErr(v)
}

// MulErr multiplies s by f, saturating and returning an error on
// overflow. Negative multipliers are treated as zero.
func (s *Size) MulErr(f float64) error {
	if f < 0 {
		f = 0
	}
	res := float64(uint64(*s)) * f
	if math.IsInf(res, 1) || res > float64(math.MaxUint64) {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: multiplication overflow")
	}
	*s = Size(math.Round(res))
	return nil
}

// Mul multiplies s by f, saturating silently on overflow.
func (s *Size) Mul(f float64) {
	_ = s.MulErr(f)
}

// DivErr divides s by f, returning an error for a zero or negative
// divisor instead of dividing.
func (s *Size) DivErr(f float64) error {
	if f <= 0 {
		return fmt.Errorf("size: invalid diviser %v", f)
	}
	*s = Size(math.Round(float64(uint64(*s)) / f))
	return nil
}

// Div divides s by f, leaving s unchanged on a zero or negative divisor.
func (s *Size) Div(f float64) {
	_ = s.DivErr(f)
}
