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

package controller

import (
	"runtime"
	"time"

	liberr "github.com/nabbar/passenger-core/errors"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// Config is the viper-decoded shape of this component's config section: the
// request-side listener (spec §2.2) plus the single-application resolver
// (spec §10) this entrypoint wires the Request Controller against.
type Config struct {
	Listen                     string        `mapstructure:"listen" json:"listen"`
	Workers                    int           `mapstructure:"workers" json:"workers"`
	TurbocacheSize             int           `mapstructure:"turbocacheSize" json:"turbocacheSize"`
	RequestQueueOverflowStatus int           `mapstructure:"requestQueueOverflowStatus" json:"requestQueueOverflowStatus"`
	FriendlyErrorPages         bool          `mapstructure:"friendlyErrorPages" json:"friendlyErrorPages"`
	KeepAliveTimeout           time.Duration `mapstructure:"keepAliveTimeout" json:"keepAliveTimeout"`

	// Turbocache*: self-disable thresholds for the response cache (spec §8
	// Scenario 5). Zero values fall back to turbocache's own defaults.
	TurbocacheHitRatio      float64       `mapstructure:"turbocacheHitRatio" json:"turbocacheHitRatio"`
	TurbocacheStoreRatio    float64       `mapstructure:"turbocacheStoreRatio" json:"turbocacheStoreRatio"`
	TurbocacheMeasureWindow time.Duration `mapstructure:"turbocacheMeasureWindow" json:"turbocacheMeasureWindow"`
	TurbocacheCoolOff       time.Duration `mapstructure:"turbocacheCoolOff" json:"turbocacheCoolOff"`
	TurbocacheMaxEntrySize  int           `mapstructure:"turbocacheMaxEntrySize" json:"turbocacheMaxEntrySize"`

	AppRoot      string        `mapstructure:"appRoot" json:"appRoot"`
	AppStartCmd  []string      `mapstructure:"appStartCommand" json:"appStartCommand"`
	AppStartTime time.Duration `mapstructure:"appStartTimeout" json:"appStartTimeout"`

	// ConnectPassword is the PASSENGER_CONNECT_PASSWORD shared between a
	// spawned worker and every session/OOBW envelope sent to it (spec §6).
	ConnectPassword string `mapstructure:"connectPassword" json:"connectPassword"`
	// MaxOutOfBandWorkInstances bounds how many processes in the resolved
	// Group may run OOBW concurrently (spec §4.4.5); 0 means unlimited.
	MaxOutOfBandWorkInstances int `mapstructure:"maxOutOfBandWorkInstances" json:"maxOutOfBandWorkInstances"`
}

func (c Config) Validate() liberr.Error {
	if len(c.Listen) < 1 {
		return ErrorParamInvalid.Error(nil)
	}
	return nil
}

func (o *componentController) RegisterFlag(Command *spfcbr.Command) error {
	key := o._getKey()
	Command.PersistentFlags().String(key+".listen", "0.0.0.0:3000", "application traffic listen address")
	Command.PersistentFlags().Int(key+".workers", runtime.GOMAXPROCS(0), "request acceptor round-robin fan-out")
	Command.PersistentFlags().Int(key+".turbocacheSize", 64, "turbocache slot count (0 disables caching)")
	Command.PersistentFlags().Int(key+".requestQueueOverflowStatus", 0, "status code for a full request queue (0 uses 503)")
	Command.PersistentFlags().Bool(key+".friendlyErrorPages", false, "render detailed spawn-exception bodies instead of a generic 500")
	Command.PersistentFlags().Duration(key+".keepAliveTimeout", 5*time.Second, "idle keep-alive read deadline")
	Command.PersistentFlags().Float64(key+".turbocacheHitRatio", 0, "turbocache minimum hit ratio before self-disabling (0 uses the built-in default)")
	Command.PersistentFlags().Float64(key+".turbocacheStoreRatio", 0, "turbocache minimum store-success ratio before self-disabling (0 uses the built-in default)")
	Command.PersistentFlags().Duration(key+".turbocacheMeasureWindow", 0, "turbocache evaluation window (0 uses the built-in default)")
	Command.PersistentFlags().Duration(key+".turbocacheCoolOff", 0, "turbocache self-disable cool-off period (0 uses the built-in default)")
	Command.PersistentFlags().Int(key+".turbocacheMaxEntrySize", 0, "largest response body turbocache will store, in bytes (0 uses the built-in default)")
	Command.PersistentFlags().String(key+".appRoot", "", "application root directory to spawn (empty disables app traffic)")
	Command.PersistentFlags().StringSlice(key+".appStartCommand", nil, "start command argv for appRoot")
	Command.PersistentFlags().Duration(key+".appStartTimeout", 30*time.Second, "spawn start timeout")
	Command.PersistentFlags().String(key+".connectPassword", "", "PASSENGER_CONNECT_PASSWORD shared with the spawned worker")
	Command.PersistentFlags().Int(key+".maxOutOfBandWorkInstances", 1, "max processes per group running out-of-band work concurrently")
	return nil
}

func (o *componentController) _getConfig() (*Config, liberr.Error) {
	var (
		key string
		cfg Config
		vpr *spfvpr.Viper
	)

	if vpr = o._getSPFViper(); vpr == nil {
		return nil, ErrorComponentNotInitialized.Error(nil)
	} else if key = o._getKey(); len(key) < 1 {
		return nil, ErrorComponentNotInitialized.Error(nil)
	}

	if e := vpr.UnmarshalKey(key, &cfg); e != nil {
		return nil, ErrorParamInvalid.Error(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, ErrorConfigInvalid.Error(err)
	}

	return &cfg, nil
}
