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
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	liblog "github.com/nabbar/passenger-core/logger"
	loglvl "github.com/nabbar/passenger-core/logger/level"
	"github.com/mitchellh/mapstructure"
	spfvpr "github.com/spf13/viper"
)

type viperImpl struct {
	mu sync.Mutex

	ctx context.Context
	log logFunc

	spf *spfvpr.Viper

	homeBase   string
	envPrefix  string
	configFile string

	defaultConfig func() io.Reader

	remoteProvider  string
	remoteEndpoint  string
	remotePath      string
	remoteSecureKey string
	remoteModel     interface{}
	remoteReload    func()

	hooks []mapstructure.DecodeHookFunc
}

// New returns a Viper bound to ctx, reporting through log (nil falls back
// to a fresh liblog.New(ctx) on demand).
func New(ctx context.Context, log liblog.FuncLog) Viper {
	if ctx == nil {
		ctx = context.Background()
	}
	return &viperImpl{
		ctx: ctx,
		log: log,
		spf: spfvpr.New(),
	}
}

func (v *viperImpl) logger() liblog.Logger {
	if v.log != nil {
		if l := v.log(); l != nil {
			return l
		}
	}
	return liblog.New(v.ctx)
}

func (v *viperImpl) Viper() *spfvpr.Viper { return v.spf }

func (v *viperImpl) GetBool(key string) bool                            { return v.spf.GetBool(key) }
func (v *viperImpl) GetString(key string) string                        { return v.spf.GetString(key) }
func (v *viperImpl) GetInt(key string) int                              { return v.spf.GetInt(key) }
func (v *viperImpl) GetInt32(key string) int32                          { return v.spf.GetInt32(key) }
func (v *viperImpl) GetInt64(key string) int64                          { return v.spf.GetInt64(key) }
func (v *viperImpl) GetUint(key string) uint                            { return v.spf.GetUint(key) }
func (v *viperImpl) GetUint16(key string) uint16                        { return v.spf.GetUint16(key) }
func (v *viperImpl) GetUint32(key string) uint32                        { return v.spf.GetUint32(key) }
func (v *viperImpl) GetUint64(key string) uint64                        { return v.spf.GetUint64(key) }
func (v *viperImpl) GetFloat64(key string) float64                      { return v.spf.GetFloat64(key) }
func (v *viperImpl) GetDuration(key string) time.Duration               { return v.spf.GetDuration(key) }
func (v *viperImpl) GetTime(key string) time.Time                       { return v.spf.GetTime(key) }
func (v *viperImpl) GetIntSlice(key string) []int                       { return v.spf.GetIntSlice(key) }
func (v *viperImpl) GetStringSlice(key string) []string                 { return v.spf.GetStringSlice(key) }
func (v *viperImpl) GetStringMap(key string) map[string]interface{}     { return v.spf.GetStringMap(key) }
func (v *viperImpl) GetStringMapString(key string) map[string]string    { return v.spf.GetStringMapString(key) }
func (v *viperImpl) GetStringMapStringSlice(key string) map[string][]string {
	return v.spf.GetStringMapStringSlice(key)
}

func (v *viperImpl) decoderOpts() []spfvpr.DecoderConfigOption {
	if len(v.hooks) == 0 {
		return nil
	}
	hook := mapstructure.ComposeDecodeHookFunc(v.hooks...)
	return []spfvpr.DecoderConfigOption{
		func(dc *mapstructure.DecoderConfig) {
			dc.DecodeHook = hook
		},
	}
}

func (v *viperImpl) UnmarshalKey(key string, out interface{}) error {
	return v.spf.UnmarshalKey(key, out, v.decoderOpts()...)
}

func (v *viperImpl) Unmarshal(out interface{}) error {
	return v.spf.Unmarshal(out, v.decoderOpts()...)
}

func (v *viperImpl) UnmarshalExact(out interface{}) error {
	return v.spf.UnmarshalExact(out, v.decoderOpts()...)
}

func (v *viperImpl) HookRegister(hook mapstructure.DecodeHookFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hooks = append(v.hooks, hook)
}

func (v *viperImpl) HookReset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hooks = nil
}

// Unset removes the given dotted keys, pruning any nested map left empty by
// the removal, then rebuilds the underlying viper instance from what
// remains (spf13/viper has no native delete).
func (v *viperImpl) Unset(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	settings := v.spf.AllSettings()
	for _, k := range keys {
		deleteNestedKey(settings, strings.Split(k, "."))
	}

	nv := spfvpr.New()
	if len(settings) > 0 {
		if err := nv.MergeConfigMap(settings); err != nil {
			return ErrorParamEmpty.Error(err)
		}
	}
	if v.envPrefix != "" {
		nv.SetEnvPrefix(v.envPrefix)
		nv.AutomaticEnv()
	}
	v.spf = nv
	return nil
}

func deleteNestedKey(m map[string]interface{}, parts []string) {
	if len(parts) == 0 {
		return
	}
	key := parts[0]
	if len(parts) == 1 {
		delete(m, key)
		return
	}
	sub, ok := m[key]
	if !ok {
		return
	}
	subMap, ok := sub.(map[string]interface{})
	if !ok {
		return
	}
	deleteNestedKey(subMap, parts[1:])
	if len(subMap) == 0 {
		delete(m, key)
	}
}

func (v *viperImpl) SetRemoteProvider(provider string)   { v.remoteProvider = provider }
func (v *viperImpl) SetRemoteEndpoint(endpoint string)    { v.remoteEndpoint = endpoint }
func (v *viperImpl) SetRemotePath(path string)            { v.remotePath = path }
func (v *viperImpl) SetRemoteSecureKey(key string)        { v.remoteSecureKey = key }
func (v *viperImpl) SetRemoteModel(model interface{})     { v.remoteModel = model }
func (v *viperImpl) SetRemoteReloadFunc(fct func())       { v.remoteReload = fct }

func (v *viperImpl) SetHomeBaseName(name string)  { v.homeBase = name }
func (v *viperImpl) SetEnvVarsPrefix(prefix string) { v.envPrefix = prefix }

func (v *viperImpl) SetDefaultConfig(fct func() io.Reader) { v.defaultConfig = fct }

func (v *viperImpl) SetConfigFile(path string) error {
	if path != "" {
		v.configFile = path
		v.spf.SetConfigFile(path)
		return nil
	}

	if v.homeBase == "" {
		return ErrorBasePathNotFound.Error(nil)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ErrorHomePathNotFound.Error(err)
	}

	v.configFile = filepath.Join(home, "."+strings.ToLower(v.homeBase)+".yaml")
	v.spf.SetConfigFile(v.configFile)
	return nil
}

// Config loads the configuration tree: the explicit/derived file first,
// falling back to the default reader if the file can't be read, then
// enables environment variable overrides regardless of outcome. min/max
// only control the level Config reports its outcome at.
func (v *viperImpl) Config(min, max loglvl.Level) error {
	if v.envPrefix != "" {
		v.spf.SetEnvPrefix(v.envPrefix)
	}
	v.spf.AutomaticEnv()

	err := v.spf.ReadInConfig()
	if err == nil {
		v.logger().Info("configuration loaded", nil, max, v.configFile)
		return nil
	}

	if v.defaultConfig != nil {
		if r := v.defaultConfig(); r != nil {
			if e2 := v.spf.ReadConfig(r); e2 != nil {
				v.logger().Error("default configuration read error", e2, min)
				return ErrorConfigReadDefault.Error(err)
			}
		}
		v.logger().Error("configuration file unavailable, using default", err, min)
		return ErrorConfigReadDefault.Error(err)
	}

	v.logger().Error("configuration read error", err, min)
	return ErrorConfigRead.Error(err)
}
