/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package server

import "github.com/sabouaram/svcpipe/errors"

const (
	// ErrorTimeout: request exceeded Config.RequestTimeout.
	ErrorTimeout errors.CodeError = iota + errors.MinPkgServer
	// ErrorOverloaded: queue at or above RequestBufferSize.
	ErrorOverloaded
	// ErrorUser: processRequest returned a non-nil error.
	ErrorUser
)

func init() {
	errors.RegisterIdFctMessage(ErrorTimeout, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorTimeout:
		return "request timed out"
	case ErrorOverloaded:
		return "server overloaded"
	case ErrorUser:
		return "request processing failed"
	}

	return ""
}

// kindTag returns the metric tag name for an error kind, alphanumerics
// only (spec §4.1 "tagging with the cause's kind name, with
// non-alphanumerics stripped").
func kindTag(code errors.CodeError) string {
	switch code {
	case ErrorTimeout:
		return "timeout"
	case ErrorOverloaded:
		return "overloaded"
	case ErrorUser:
		return "user"
	default:
		return "unknown"
	}
}
