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

// Package spawnkit starts application worker processes and waits for their
// spawn handshake, turning a launch command into the Sockets an
// apppool.Process needs. It is invoked by the Pool but never reaches back
// into it (spec §1: "the Pool invokes [SpawningKit] but does not implement
// it").
package spawnkit

import "time"

// Config describes how to launch one application's worker processes.
type Config struct {
	AppRoot          string
	StartCommand     []string
	Env              []string
	User             string
	Group            string
	StartTimeout     time.Duration
	ConnectPassword  string
	SocketConcurrency int
}

// Result is the outcome of one successful spawn: the OS pid, a generation
// identifier (gupid), and the listening socket(s) the worker reported
// during its handshake.
type Result struct {
	Pid         int
	Gupid       string
	SocketName  string
	SocketAddr  string
	Concurrency int
}

// Driver launches one worker process per Spawn call and blocks until its
// handshake completes or StartTimeout elapses.
type Driver interface {
	Spawn(cfg Config) (Result, error)
}
