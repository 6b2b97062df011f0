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

package admin

import (
	"fmt"
	"net/http"
	"strings"

	ginsdk "github.com/gin-gonic/gin"
)

func (s *Server) handlePing(c *ginsdk.Context) {
	c.JSON(http.StatusOK, ginsdk.H{"pong": true})
}

// handleStatus renders a plain-text snapshot of every Group's counters
// plus any registered health Monitors, the `/status.txt`-equivalent spec
// §9 says the admin surface exports the Pool's counters through.
func (s *Server) handleStatus(c *ginsdk.Context) {
	var b strings.Builder

	if s.cfg.Pool != nil {
		fmt.Fprintf(&b, "pool max: %d\n", s.cfg.Pool.Max())
		fmt.Fprintf(&b, "pool alive: %d\n\n", s.cfg.Pool.AliveCount())

		for _, g := range s.cfg.Pool.Stats() {
			fmt.Fprintf(&b, "group %s: enabled=%d disabling=%d disabled=%d alive=%d waiters=%t\n",
				g.Name, g.Enabled, g.Disabling, g.Disabled, g.Alive, g.HasWaiters)
		}
	}

	if s.cfg.Monitors != nil {
		b.WriteString("\nmonitors:\n")
		for _, m := range s.cfg.Monitors.List() {
			status := "ok"
			if err := m.Check(c.Request.Context()); err != nil {
				status = "error: " + err.Error()
			}
			fmt.Fprintf(&b, "  %s (%s): %s\n", m.Name(), m.Label(), status)
		}
	}

	c.String(http.StatusOK, "%s", b.String())
}

// handleConfig renders the process's static identity and Pool budget as
// JSON, the parts of `/config.json` that exist in this module (spec §9:
// real Pool/Controller introspection stands in for spec.md's stated
// out-of-scope collaborators).
func (s *Server) handleConfig(c *ginsdk.Context) {
	body := ginsdk.H{}

	if s.cfg.Version != nil {
		body["package"] = s.cfg.Version.GetPackage()
		body["release"] = s.cfg.Version.GetRelease()
		body["build"] = s.cfg.Version.GetBuild()
	}
	if s.cfg.Pool != nil {
		body["pool_max"] = s.cfg.Pool.Max()
		body["groups"] = s.cfg.Pool.GroupNames()
	}

	c.JSON(http.StatusOK, body)
}

// handleShutdown triggers the same graceful-shutdown path a SIGTERM would
// (spec §6).
func (s *Server) handleShutdown(c *ginsdk.Context) {
	if s.cfg.Shutdown == nil {
		c.JSON(http.StatusServiceUnavailable, ginsdk.H{"error": "shutdown not wired"})
		return
	}
	s.cfg.Shutdown()
	c.JSON(http.StatusOK, ginsdk.H{"shutdown": true})
}

// handleDisableProcess marks the process named by the gupid path param as
// disabling (spec §4.5.1's Pool-level `disableProcess`). A process with no
// active sessions drops straight to disabled; otherwise it drains first and
// the response reports deferred=true.
func (s *Server) handleDisableProcess(c *ginsdk.Context) {
	if s.cfg.Pool == nil {
		c.JSON(http.StatusServiceUnavailable, ginsdk.H{"error": "pool not wired"})
		return
	}

	gupid := c.Param("gupid")
	deferred, ok := s.cfg.Pool.DisableProcess(gupid)
	if !ok {
		c.JSON(http.StatusNotFound, ginsdk.H{"error": "unknown gupid"})
		return
	}

	c.JSON(http.StatusOK, ginsdk.H{"gupid": gupid, "deferred": deferred})
}
