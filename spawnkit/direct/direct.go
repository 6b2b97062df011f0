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

// Package direct launches application workers as plain child processes
// (os/exec) and reads their spawn handshake off stdout, the simplest of
// the SpawningKit launch strategies (direct spawn, no preloader).
package direct

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	liblog "github.com/nabbar/passenger-core/logger"
	"github.com/nabbar/passenger-core/spawnkit"
)

// handshake lines a worker prints to stdout once its listening socket is
// ready, mirroring the key/value envelope used on the wire (spec §6):
//
//	!> socket_name: main
//	!> socket_address: unix:/tmp/passenger.1234.sock
//	!> concurrency: 1
//	!> Ready
const (
	linePrefix    = "!> "
	lineReady     = "Ready"
	lineSocket    = "socket_name: "
	lineAddress   = "socket_address: "
	lineConcurr   = "concurrency: "
)

// Driver launches workers with os/exec and parses their stdout handshake.
type Driver struct {
	log liblog.Logger

	mu       sync.Mutex
	gen      uint64
	children map[int]*exec.Cmd
}

// New creates a Driver that logs through the given logger (nil disables
// logging).
func New(log liblog.Logger) *Driver {
	return &Driver{log: log, children: make(map[int]*exec.Cmd)}
}

var genCounter uint64

func nextGupid(appRoot string) string {
	n := atomic.AddUint64(&genCounter, 1)
	return fmt.Sprintf("%s-%d-%d", appRoot, time.Now().UnixNano(), n)
}

// Spawn implements spawnkit.Driver: starts cfg.StartCommand, waits for the
// handshake on stdout, and returns once the worker reports itself ready or
// cfg.StartTimeout elapses.
func (d *Driver) Spawn(cfg spawnkit.Config) (spawnkit.Result, error) {
	if len(cfg.StartCommand) == 0 {
		return spawnkit.Result{}, fmt.Errorf("spawnkit/direct: empty start command")
	}

	cmd := exec.Command(cfg.StartCommand[0], cfg.StartCommand[1:]...)
	cmd.Dir = cfg.AppRoot
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Env = append(cmd.Env, "PASSENGER_CONNECT_PASSWORD="+cfg.ConnectPassword)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return spawnkit.Result{}, fmt.Errorf("spawnkit/direct: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return spawnkit.Result{}, fmt.Errorf("spawnkit/direct: start: %w", err)
	}

	d.mu.Lock()
	d.children[cmd.Process.Pid] = cmd
	d.mu.Unlock()

	res := spawnkit.Result{
		Pid:         cmd.Process.Pid,
		Gupid:       nextGupid(cfg.AppRoot),
		Concurrency: cfg.SocketConcurrency,
	}

	type parseResult struct {
		res spawnkit.Result
		err error
	}
	ch := make(chan parseResult, 1)

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, linePrefix) {
				continue
			}
			body := strings.TrimPrefix(line, linePrefix)
			switch {
			case body == lineReady:
				ch <- parseResult{res: res}
				return
			case strings.HasPrefix(body, lineSocket):
				res.SocketName = strings.TrimPrefix(body, lineSocket)
			case strings.HasPrefix(body, lineAddress):
				res.SocketAddr = strings.TrimPrefix(body, lineAddress)
			case strings.HasPrefix(body, lineConcurr):
				if n, perr := strconv.Atoi(strings.TrimPrefix(body, lineConcurr)); perr == nil {
					res.Concurrency = n
				}
			}
		}
		ch <- parseResult{err: fmt.Errorf("spawnkit/direct: worker exited before handshake completed")}
	}()

	timeout := cfg.StartTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	select {
	case pr := <-ch:
		if pr.err != nil {
			_ = cmd.Process.Kill()
			d.forget(cmd.Process.Pid)
			return spawnkit.Result{}, pr.err
		}
		if d.log != nil {
			d.log.Info("spawned worker", pr.res)
		}
		return pr.res, nil
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		d.forget(cmd.Process.Pid)
		return spawnkit.Result{}, fmt.Errorf("spawnkit/direct: spawn handshake timed out after %s", timeout)
	}
}

func (d *Driver) forget(pid int) {
	d.mu.Lock()
	delete(d.children, pid)
	d.mu.Unlock()
}

// Kill terminates a spawned child by pid, used when a Process is detached
// or fails OOBW.
func (d *Driver) Kill(pid int) error {
	d.mu.Lock()
	cmd, ok := d.children[pid]
	d.mu.Unlock()
	if !ok || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
