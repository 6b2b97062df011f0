/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package version carries the build-time identity (package, release, build
// hash, license, author) every binary reports through --version and the
// admin /ping.json endpoint.
package version

import "time"

// License identifies one of the SPDX-ish license texts NewVersion can stamp
// a binary with.
type License uint8

const (
	License_MIT License = iota
	License_Apache_v2
	License_GNU_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_GNU_Affero_GPL_v3
	License_Mozilla_PL_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

// Version is the read-only identity of a built binary.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetHeader() string
	GetInfo() string
	GetRootPackagePath() string

	GetLicenseName() string
	GetLicenseLegal(extra ...License) string
	GetLicenseBoiler(extra ...License) string
	GetLicenseFull() string

	PrintInfo()
	PrintLicense(extra ...License)
}

// NewVersion builds a Version. date is parsed as RFC3339 and falls back to
// time.Now() if it doesn't parse. pkg may be empty or "noname", in which
// case the package name is derived from ref's reflected package path.
// numSubPackage trims that many trailing path segments off the root
// package path (0 keeps it as-is).
func NewVersion(lic License, pkg, description, date, build, release, author, prefix string, ref interface{}, numSubPackage int) Version {
	return newVersion(lic, pkg, description, date, build, release, author, prefix, ref, numSubPackage)
}
