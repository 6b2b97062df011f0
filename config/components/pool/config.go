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

package pool

import (
	"time"

	liberr "github.com/nabbar/passenger-core/errors"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// Config is the viper-decoded shape of this component's config section.
// Max/MaxIdleTime feed apppool.NewPool directly (spec §2's process budget
// and idle-GC threshold); RestartSupersede is the default every Group gets
// unless a GroupResolver overrides it per-application.
type Config struct {
	Max              int           `mapstructure:"max" json:"max"`
	MaxIdleTime      time.Duration `mapstructure:"maxIdleTime" json:"maxIdleTime"`
	RestartSupersede bool          `mapstructure:"restartSupersede" json:"restartSupersede"`
}

func (c Config) Validate() liberr.Error {
	if c.Max <= 0 {
		return ErrorParamInvalid.Error(nil)
	}
	return nil
}

func (o *componentPool) RegisterFlag(Command *spfcbr.Command) error {
	key := o._getKey()
	Command.PersistentFlags().Int(key+".max", 6, "application pool process budget")
	Command.PersistentFlags().Duration(key+".maxIdleTime", 5*time.Minute, "idle worker GC threshold")
	Command.PersistentFlags().Bool(key+".restartSupersede", true, "let a new restart request cancel one already in flight")
	return nil
}

func (o *componentPool) _getConfig() (*Config, liberr.Error) {
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
