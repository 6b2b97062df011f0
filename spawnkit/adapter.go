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

package spawnkit

import (
	"github.com/nabbar/passenger-core/apppool"
	"github.com/nabbar/passenger-core/fdlog"
)

// GroupAdapter turns a Driver plus a fixed Config template into an
// apppool.Spawner, translating apppool.GroupOptions into one spawnkit
// request per call and the resulting Result into an apppool.Process.
type GroupAdapter struct {
	Driver   Driver
	Template Config
	Journal  *fdlog.Journal
}

// Spawn implements apppool.Spawner.
func (a *GroupAdapter) Spawn(opts apppool.GroupOptions) (*apppool.Process, error) {
	res, err := a.Driver.Spawn(a.Template)
	if err != nil {
		return nil, apppool.ErrSpawnException("direct", err.Error(), err)
	}

	sock := apppool.NewSocket(res.SocketName, res.SocketAddr, apppool.ProtocolSession, res.Concurrency)
	return apppool.NewProcess(res.Pid, res.Gupid, []*apppool.Socket{sock}, a.Journal), nil
}
