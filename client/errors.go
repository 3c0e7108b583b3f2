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

package client

import "github.com/sabouaram/svcpipe/errors"

const (
	// ErrorNotConnected: send attempted while disconnected, while
	// disconnecting, or after a write failure.
	ErrorNotConnected errors.CodeError = iota + errors.MinPkgClient
	// ErrorConnectionLost: request was in flight when the connection dropped.
	ErrorConnectionLost
	// ErrorStaleClient: connect() or reconnect attempted on a terminally
	// disconnected client.
	ErrorStaleClient
	// ErrorOverloaded: the controller's pending buffer was full.
	ErrorOverloaded
	// ErrorTimeout: the controller cancelled a pending write before it
	// reached the wire.
	ErrorTimeout
)

func init() {
	errors.RegisterIdFctMessage(ErrorNotConnected, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorNotConnected:
		return "client not connected"
	case ErrorConnectionLost:
		return "connection closed while request was in transit"
	case ErrorStaleClient:
		return "client is permanently disconnected"
	case ErrorOverloaded:
		return "client overloaded"
	case ErrorTimeout:
		return "request cancelled before being sent"
	}

	return ""
}
