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

package version

import (
	"fmt"
	goPath "path"
	"reflect"
	"runtime"
	"strings"
	"time"
)

const starLine = "********************************************************************************"

type versionImpl struct {
	license License
	pkg         string
	description string
	date        time.Time
	build       string
	release     string
	author      string
	prefix      string
	rootPath    string
}

func newVersion(lic License, pkg, description, date, build, release, author, prefix string, ref interface{}, numSubPackage int) Version {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t = time.Now()
	}

	root := ""
	if ref != nil {
		root = reflect.TypeOf(ref).PkgPath()
	}
	for i := 0; i < numSubPackage && root != "" && root != "."; i++ {
		root = goPath.Dir(root)
	}

	if pkg == "" || strings.EqualFold(pkg, "noname") {
		pkg = goPath.Base(root)
	}

	return &versionImpl{
		license:     lic,
		pkg:         pkg,
		description: description,
		date:        t,
		build:       build,
		release:     release,
		author:      author,
		prefix:      strings.ToUpper(prefix),
		rootPath:    root,
	}
}

func (v *versionImpl) GetPackage() string        { return v.pkg }
func (v *versionImpl) GetDescription() string    { return v.description }
func (v *versionImpl) GetBuild() string          { return v.build }
func (v *versionImpl) GetRelease() string        { return v.release }
func (v *versionImpl) GetPrefix() string         { return v.prefix }
func (v *versionImpl) GetTime() time.Time        { return v.date }
func (v *versionImpl) GetRootPackagePath() string { return v.rootPath }

func (v *versionImpl) GetDate() string {
	return v.date.Format("Jan 2, 2006 15:04:05 MST")
}

func (v *versionImpl) GetAuthor() string {
	return fmt.Sprintf("%s (source: %s)", v.author, v.rootPath)
}

func (v *versionImpl) GetAppId() string {
	return fmt.Sprintf("%s-%s-%s-Runtime-%s", v.release, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func (v *versionImpl) GetHeader() string {
	return fmt.Sprintf("%s release %s (build %s)", v.pkg, v.release, v.build)
}

func (v *versionImpl) GetInfo() string {
	return fmt.Sprintf("%s\n%s\nRelease: %s\nBuild:   %s\nDate:    %s\nAuthor:  %s", v.GetHeader(), v.description, v.release, v.build, v.GetDate(), v.GetAuthor())
}

func (v *versionImpl) GetLicenseName() string {
	return licenseName(v.license)
}

func (v *versionImpl) GetLicenseLegal(extra ...License) string {
	out := licenseLegal(v.license)
	for _, e := range extra {
		out += "\n" + starLine + "\n" + licenseLegal(e) + "\n" + starLine + "\n"
	}
	return out
}

func (v *versionImpl) GetLicenseBoiler(extra ...License) string {
	out := licenseBoiler(v.license, v.date.Year(), v.author)
	for _, e := range extra {
		out += "\n" + starLine + "\n" + licenseBoiler(e, v.date.Year(), v.author) + "\n" + starLine + "\n"
	}
	return out
}

func (v *versionImpl) GetLicenseFull() string {
	return v.GetHeader() + "\n\n" + v.GetLicenseBoiler() + "\n\n" + v.GetLicenseLegal()
}

func (v *versionImpl) PrintInfo() {
	println(v.GetHeader())
	println(v.GetInfo())
}

func (v *versionImpl) PrintLicense(extra ...License) {
	println(v.GetLicenseBoiler(extra...))
}
