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

// Package size models byte quantities (buffer sizes, bandwidth caps, cache
// ceilings) as a single uint64-backed Size type, with human friendly
// parsing/formatting and a viper decode hook so config files can spell
// a limit as "512MB" instead of a raw integer.
package size

import (
	"fmt"
	"math"
)

// Size is a count of bytes.
type Size uint64

const SizeNul Size = 0

const (
	SizeUnit Size = 1 << (10 * iota)
	SizeKilo
	SizeMega
	SizeGiga
	SizeTera
	SizePeta
	SizeExa
)

// Format strings for Format, matching the number of decimals kept.
const (
	FormatRound0 = "%.0f"
	FormatRound1 = "%.1f"
	FormatRound2 = "%.2f"
	FormatRound3 = "%.3f"
)

var unitLetters = []string{"", "K", "M", "G", "T", "P", "E"}

var defaultUnit rune = 'B'

// SetDefaultUnit changes the rune Code uses when called with 0.
func SetDefaultUnit(r rune) {
	if r != 0 {
		defaultUnit = r
	}
}

func (s Size) magnitude() int {
	v := uint64(s)
	m := 0
	for v >= 1024 && m < len(unitLetters)-1 {
		v /= 1024
		m++
	}
	return m
}

func (s Size) scaled() float64 {
	m := s.magnitude()
	return float64(s) / math.Pow(1024, float64(m))
}

func suffix(m int, r rune) string {
	if r == 0 || r == 'B' {
		return unitLetters[m] + "B"
	}
	return unitLetters[m] + string(r)
}

// Unit returns the unit string for s: a plain "B"/"KB"/.../"EB" when r is
// 0, or the magnitude letter plus r otherwise (e.g. Unit('i') -> "Ki").
func (s Size) Unit(r rune) string {
	return suffix(s.magnitude(), r)
}

// Code behaves like Unit, falling back to the package default unit
// (see SetDefaultUnit) instead of a bare "B" suffix when r is 0.
func (s Size) Code(r rune) string {
	if r == 0 {
		r = defaultUnit
	}
	return suffix(s.magnitude(), r)
}

// Format renders s, scaled to its natural unit, using a printf style
// verb. FormatRound0..FormatRound3 are convenience verbs for a fixed
// number of decimals.
func (s Size) Format(f string) string {
	return fmt.Sprintf(f, s.scaled())
}

// String renders s scaled to its natural unit with two decimals and a
// unit suffix, e.g. "5.50KB".
func (s Size) String() string {
	return s.Format(FormatRound2) + s.Unit(0)
}

func (s Size) KiloBytes() uint64 { return uint64(s) / uint64(SizeKilo) }
func (s Size) MegaBytes() uint64 { return uint64(s) / uint64(SizeMega) }
func (s Size) GigaBytes() uint64 { return uint64(s) / uint64(SizeGiga) }
func (s Size) TeraBytes() uint64 { return uint64(s) / uint64(SizeTera) }
func (s Size) PetaBytes() uint64 { return uint64(s) / uint64(SizePeta) }
func (s Size) ExaBytes() uint64  { return uint64(s) / uint64(SizeExa) }

// Uint64 returns s as a uint64.
func (s Size) Uint64() uint64 { return uint64(s) }

// Uint32 returns s as a uint32, saturating at math.MaxUint32.
func (s Size) Uint32() uint32 {
	if uint64(s) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(s)
}

// Uint returns s as a uint, saturating at the platform uint max.
func (s Size) Uint() uint {
	if uint64(s) > math.MaxUint {
		return math.MaxUint
	}
	return uint(s)
}

// Int64 returns s as an int64, saturating at math.MaxInt64.
func (s Size) Int64() int64 {
	if uint64(s) > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(s)
}

// Int32 returns s as an int32, saturating at math.MaxInt32.
func (s Size) Int32() int32 {
	if uint64(s) > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(s)
}

// Int returns s as an int, saturating at the platform int max.
func (s Size) Int() int {
	if uint64(s) > math.MaxInt {
		return math.MaxInt
	}
	return int(s)
}

// Float64 returns s as a float64.
func (s Size) Float64() float64 { return float64(s) }

// Float32 returns s as a float32, saturating at math.MaxFloat32.
func (s Size) Float32() float32 {
	f := float64(s)
	if f > math.MaxFloat32 {
		return math.MaxFloat32
	}
	return float32(f)
}

// ParseInt64 builds a Size from the absolute value of an int64.
func ParseInt64(i int64) Size {
	if i < 0 {
		i = -i
	}
	return Size(i)
}

// SizeFromInt64 is an alias of ParseInt64.
func SizeFromInt64(i int64) Size {
	return ParseInt64(i)
}

// ParseUint64 builds a Size from a uint64.
func ParseUint64(u uint64) Size {
	return Size(u)
}

// SizeFromUint64 is an alias of ParseUint64.
func SizeFromUint64(u uint64) Size {
	return ParseUint64(u)
}

// ParseFloat64 builds a Size from a float64: the value is floored,
// then its absolute value is taken and capped at math.MaxUint64.
func ParseFloat64(f float64) Size {
	f = math.Floor(f)
	if f < 0 {
		f = -f
	}
	if f >= float64(math.MaxUint64) {
		return Size(math.MaxUint64)
	}
	return Size(f)
}

// SizeFromFloat64 is an alias of ParseFloat64.
func SizeFromFloat64(f float64) Size {
	return ParseFloat64(f)
}
