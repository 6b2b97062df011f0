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

// Package admin implements the authorization contract of the local admin
// HTTP surface: basic-auth against a configured account list, Unix-socket
// peer-credential short-circuit for uid 0 and the listener's owning uid,
// and the four routes the Core agent exposes (spec §6, §11). Everything
// else about those routes' payload shape is this module's own choice,
// since spec.md treats the admin surface's behavior (not its
// authorization contract) as out of scope.
package admin

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	liberr "github.com/nabbar/passenger-core/errors"
	rtrhdr "github.com/nabbar/passenger-core/router/authheader"
)

// Account is one admin-auth credential pair (spec §6 "configured account
// list").
type Account struct {
	Username string
	Password string
}

// AccountList is the full configured set of admin accounts. An empty list
// means the admin surface has no basic-auth account configured at all —
// per spec §6, admin endpoints must never be exposed without
// authentication once any account IS configured, so an empty list alone
// does not open access; only a peer-credential match does.
type AccountList []Account

func (a AccountList) match(user, pass string) bool {
	for _, acc := range a {
		userOK := subtle.ConstantTimeCompare([]byte(acc.Username), []byte(user)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(acc.Password), []byte(pass)) == 1
		if userOK && passOK {
			return true
		}
	}
	return false
}

// checkBasicAuth decodes a raw base64 "user:pass" credential (the part of
// the Authorization header after the "Basic " scheme, which router/auth
// already strips) against accounts.
func checkBasicAuth(accounts AccountList, credential string) (rtrhdr.AuthCode, liberr.Error) {
	raw, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return rtrhdr.AuthCodeRequire, CodeCredentialsInvalid.Error(err)
	}

	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return rtrhdr.AuthCodeRequire, CodeCredentialsInvalid.Error(nil)
	}

	if accounts.match(user, pass) {
		return rtrhdr.AuthCodeSuccess, nil
	}
	return rtrhdr.AuthCodeForbidden, CodeCredentialsInvalid.Error(nil)
}
