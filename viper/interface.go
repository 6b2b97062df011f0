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

// Package viper wraps github.com/spf13/viper with the home/remote config
// resolution, decode hooks and nested-key cleanup every config component
// needs, so components never import spf13/viper directly.
package viper

import (
	"context"
	"io"
	"time"

	liblog "github.com/nabbar/passenger-core/logger"
	loglvl "github.com/nabbar/passenger-core/logger/level"
	"github.com/mitchellh/mapstructure"
	spfvpr "github.com/spf13/viper"
)

// FuncViper resolves the shared Viper instance, mirroring the FuncLog /
// FuncPool lazy-accessor convention used across the module.
type FuncViper func() Viper

// Viper is the golib-flavored facade every config component programs
// against instead of *spfvpr.Viper directly.
type Viper interface {
	// Viper exposes the underlying spf13/viper instance for call sites that
	// need it directly (e.g. binding cobra flags).
	Viper() *spfvpr.Viper

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetTime(key string) time.Time
	GetIntSlice(key string) []int
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	GetStringMapString(key string) map[string]string
	GetStringMapStringSlice(key string) map[string][]string

	UnmarshalKey(key string, out interface{}) error
	Unmarshal(out interface{}) error
	UnmarshalExact(out interface{}) error

	// HookRegister appends a mapstructure decode hook applied on every
	// subsequent Unmarshal* call.
	HookRegister(hook mapstructure.DecodeHookFunc)
	// HookReset discards every hook registered so far.
	HookReset()

	// Unset removes the given dotted keys (and everything nested under
	// them) from the live config tree. No keys is a no-op.
	Unset(keys ...string) error

	SetRemoteProvider(provider string)
	SetRemoteEndpoint(endpoint string)
	SetRemotePath(path string)
	SetRemoteSecureKey(key string)
	SetRemoteModel(model interface{})
	SetRemoteReloadFunc(fct func())
	SetHomeBaseName(name string)
	SetEnvVarsPrefix(prefix string)
	SetDefaultConfig(fct func() io.Reader)

	// SetConfigFile sets an explicit path, or (given an empty path) derives
	// one from the home base name set via SetHomeBaseName.
	SetConfigFile(path string) error

	// Config loads the configuration: file first, default reader as a
	// fallback, then environment variables via AutomaticEnv. min/max bound
	// the log level used while reporting the outcome.
	Config(min, max loglvl.Level) error
}

// Message is the logger facade Config reports through; kept distinct from
// liblog.Logger so the package compiles without a live context if log is nil.
type logFunc = liblog.FuncLog
