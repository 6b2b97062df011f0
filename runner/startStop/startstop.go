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

// Package startStop implements a minimal start/stop/restart runner around a
// pair of user functions, tracking uptime and collecting the errors each
// invocation returns in an errors/pool.Pool.
package startStop

import (
	"context"
	"sync"
	"time"

	"github.com/nabbar/passenger-core/errors/pool"
	"github.com/nabbar/passenger-core/runner"
)

// StartStop is the Runner contract plus error-history introspection used by
// callers (ioutils/aggregator, the event-loop host) that need to surface the
// last failure from an asynchronously started worker.
type StartStop interface {
	runner.Runner
	ErrorsLast() error
	ErrorsList() []error
}

type startStop struct {
	mu sync.Mutex

	fctStart func(ctx context.Context) error
	fctStop  func(ctx context.Context) error

	running bool
	started time.Time

	cancel context.CancelFunc
	errs   pool.Pool
}

// New creates a StartStop runner. Either function may be nil; a nil function
// is treated as a no-op returning nil.
func New(start, stop func(ctx context.Context) error) StartStop {
	return &startStop{
		fctStart: start,
		fctStop:  stop,
		errs:     pool.New(),
	}
}

func (o *startStop) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	c, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.running = true
	o.started = time.Now()
	fct := o.fctStart
	o.mu.Unlock()

	go func() {
		defer runner.RecoveryCaller("runner/startStop/start", recover())

		var err error
		if fct != nil {
			err = fct(c)
		} else {
			<-c.Done()
		}

		o.mu.Lock()
		o.running = false
		o.started = time.Time{}
		o.mu.Unlock()

		if err != nil {
			o.errs.Add(err)
		}
	}()

	return nil
}

func (o *startStop) Stop(ctx context.Context) error {
	o.mu.Lock()
	cancel := o.cancel
	fct := o.fctStop
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if fct == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	err := fct(ctx)
	if err != nil {
		o.errs.Add(err)
	}
	return err
}

func (o *startStop) Restart(ctx context.Context) error {
	if err := o.Stop(ctx); err != nil {
		return err
	}
	return o.Start(ctx)
}

func (o *startStop) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func (o *startStop) Uptime() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running || o.started.IsZero() {
		return 0
	}
	return time.Since(o.started)
}

func (o *startStop) ErrorsLast() error {
	return o.errs.Last()
}

func (o *startStop) ErrorsList() []error {
	return o.errs.Slice()
}
