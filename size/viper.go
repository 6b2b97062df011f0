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
	"math"
	"reflect"
)

var typeSize = reflect.TypeOf(Size(0))

// ViperDecoderHook returns a mapstructure decode hook that lets a
// config key typed as Size be written in a viper file as "512MB", a
// raw number of bytes, or anything else strconv-able - the hook only
// fires when the target field is a Size, and passes everything else
// through untouched.
func ViperDecoderHook() func(reflect.Type, reflect.Type, interface{}) (interface{}, error) {
	return func(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != typeSize {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return Parse(v)
		case []byte:
			return ParseByte(v)
		case int:
			return Size(absInt(int64(v))), nil
		case int8:
			return Size(absInt(int64(v))), nil
		case int16:
			return Size(absInt(int64(v))), nil
		case int32:
			return Size(absInt(int64(v))), nil
		case int64:
			return Size(absInt(v)), nil
		case uint:
			return Size(v), nil
		case uint8:
			return Size(v), nil
		case uint16:
			return Size(v), nil
		case uint32:
			return Size(v), nil
		case uint64:
			return Size(v), nil
		case float32:
			return Size(floorAbs(float64(v))), nil
		case float64:
			return Size(floorAbs(v)), nil
		default:
			return data, nil
		}
	}
}

func absInt(i int64) uint64 {
	if i < 0 {
		i = -i
	}
	return uint64(i)
}

func floorAbs(f float64) uint64 {
	f = math.Floor(f)
	if f < 0 {
		f = -f
	}
	return uint64(f)
}
