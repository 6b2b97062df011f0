/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package viper

import (
	liberr "github.com/nabbar/passenger-core/errors"
)

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgViper
	ErrorParamMissing
	ErrorHomePathNotFound
	ErrorBasePathNotFound
	ErrorRemoteProvider
	ErrorRemoteProviderSecure
	ErrorRemoteProviderRead
	ErrorRemoteProviderMarshall
	ErrorConfigRead
	ErrorConfigReadDefault
	ErrorConfigIsDefault
)

func init() {
	liberr.RegisterIdFctMessage(ErrorParamEmpty, errorMessage)
}

func errorMessage(code liberr.CodeError) string {
	switch code {
	case ErrorParamEmpty:
		return "given parameter is empty"
	case ErrorParamMissing:
		return "required parameter is missing"
	case ErrorHomePathNotFound:
		return "cannot resolve user home directory"
	case ErrorBasePathNotFound:
		return "cannot retrieve base config path"
	case ErrorRemoteProvider:
		return "remote config provider error"
	case ErrorRemoteProviderSecure:
		return "remote config provider secure keyring error"
	case ErrorRemoteProviderRead:
		return "remote config read error"
	case ErrorRemoteProviderMarshall:
		return "remote config model marshal error"
	case ErrorConfigRead:
		return "config file read error"
	case ErrorConfigReadDefault:
		return "default config read error"
	case ErrorConfigIsDefault:
		return "config loaded from default, file config unavailable"
	default:
		return liberr.NullMessage
	}
}
