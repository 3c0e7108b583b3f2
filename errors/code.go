/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errors gives every package in this module a small numeric error
// code (CodeError) plus a registered message, so a handler or an HTTP
// response can report "what failed" without string-matching error text.
package errors

import "sort"

// CodeError is a package-scoped error code. Each package owns a disjoint
// range starting at its MinPkgX constant (see modules.go) and registers one
// Message function covering that whole range.
type CodeError uint16

// UnknownError is returned by Message when no package has claimed the code.
const UnknownError CodeError = 0

const unknownMessage = "unknown error"

// Message renders a CodeError into a human-readable string. A package
// registers one of these per code range via RegisterIdFctMessage.
type Message func(code CodeError) string

type registration struct {
	min CodeError
	fct Message
}

var registry []registration

// RegisterIdFctMessage associates fct with every CodeError >= minCode, up to
// (but excluding) the next higher registered minCode. Packages call this
// from init() with their own MinPkgX constant.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	registry = append(registry, registration{min: minCode, fct: fct})
	sort.Slice(registry, func(i, j int) bool { return registry[i].min < registry[j].min })
}

// Message looks up the message registered for c's package range.
func (c CodeError) Message() string {
	if c == UnknownError {
		return unknownMessage
	}

	var found Message
	for _, r := range registry {
		if c < r.min {
			break
		}
		found = r.fct
	}

	if found == nil {
		return unknownMessage
	}
	if m := found(c); m != "" {
		return m
	}
	return unknownMessage
}

// Error builds an Error carrying this code, its registered message, and an
// optional wrapped cause (the first non-nil entry of p, if any).
func (c CodeError) Error(p ...error) Error {
	var parent error
	for _, e := range p {
		if e != nil {
			parent = e
			break
		}
	}
	return &codedError{code: c, msg: c.Message(), parent: parent}
}
