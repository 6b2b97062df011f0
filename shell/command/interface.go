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

// Package command is a tiny named-function registry: a CommandInfo names
// and describes an operation, a Command additionally knows how to run it.
// config.Config.GetShellCommand uses it to expose component lifecycle
// actions (list/start/stop/restart) to whatever CLI or shell wraps it.
package command

import "io"

// RunFunc is the body of a Command: write progress to out, failures to
// err, and read any positional arguments off args.
type RunFunc func(out, err io.Writer, args []string)

type CommandInfo interface {
	Name() string
	Describe() string
}

type Command interface {
	CommandInfo
	Run(out, err io.Writer, args []string)
}

type info struct {
	name string
	desc string
}

func (i *info) Name() string {
	return i.name
}

func (i *info) Describe() string {
	return i.desc
}

type cmd struct {
	info
	fn RunFunc
}

func (c *cmd) Run(out, err io.Writer, args []string) {
	if c.fn != nil {
		c.fn(out, err, args)
	}
}

// Info builds a name/description pair with no attached behavior.
func Info(name, describe string) CommandInfo {
	return &info{name: name, desc: describe}
}

// New builds a Command. A nil fn makes Run a no-op instead of panicking.
func New(name, describe string, fn RunFunc) Command {
	return &cmd{info: info{name: name, desc: describe}, fn: fn}
}
