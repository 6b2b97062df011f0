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

package turbocache

import (
	"hash/fnv"
	"net/http"
	"sort"
)

// HeaderAllowlist is the small set of request headers allowed to vary the
// cache key (spec §3 "a small configured subset of headers").
var HeaderAllowlist = []string{"Accept-Encoding", "Accept-Language"}

// Fingerprint computes the cache key for one request: method, host, path,
// and the allowlisted header values, in a fixed order so that equivalent
// requests always hash identically.
func Fingerprint(method, host, path string, header http.Header) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(method))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(host))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(path))

	keys := make([]string, len(HeaderAllowlist))
	copy(keys, HeaderAllowlist)
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{'='})
		_, _ = h.Write([]byte(header.Get(k)))
	}

	return h.Sum64()
}

// Cacheable reports whether a response with the given status and headers
// is eligible for storage (spec §4.6): no Set-Cookie, and Vary (if any)
// stays within the allowlist.
func Cacheable(status int, header http.Header) bool {
	if status != http.StatusOK {
		return false
	}
	if header.Get("Set-Cookie") != "" {
		return false
	}
	if v := header.Get("Vary"); v != "" && v != "*" {
		for _, want := range splitCommaList(v) {
			if !contains(HeaderAllowlist, want) {
				return false
			}
		}
	} else if v == "*" {
		return false
	}
	return true
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			field := trimSpace(s[start:i])
			if field != "" {
				out = append(out, field)
			}
			start = i + 1
		}
	}
	return out
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
