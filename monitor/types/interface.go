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

// Package types defines the narrow monitor-registration contract that
// config.Component implementations use to publish health checks to
// whatever pool the host application wires up. This module wires it to
// apppool/admin: the Pool registers one Monitor per Group.
package types

import "context"

// Info describes a single monitorable unit (its name and a human label).
type Info interface {
	Name() string
	Label() string
}

// Monitor is a single health-checkable unit. Check returns a non-nil error
// when the unit is unhealthy.
type Monitor interface {
	Info
	Check(ctx context.Context) error
}

// Pool aggregates Monitors registered by components so the admin surface can
// expose a single health snapshot.
type Pool interface {
	Add(m Monitor) error
	Get(name string) Monitor
	List() []Monitor
}

// FuncPool is provided by the host application (config.Config here) so a
// component can register its monitors without importing the host package.
type FuncPool func() Pool

// DefaultConfig returns the default JSON snippet for a monitor's health
// sub-configuration, matching the shape components embed under "health".
func DefaultConfig(indent string) []byte {
	return []byte("{\n" + indent + "\"enable\": false\n}")
}
