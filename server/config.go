/*
MIT License

Copyright (c) 2022 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package server

import (
	"time"

	"github.com/sabouaram/svcpipe/duration"
)

// Config holds ServiceServer's tunables (spec §4.1, §6.4).
type Config[Req any, Resp any] struct {
	// Name is the metric/log prefix for this server instance.
	Name string

	// RequestTimeout: promises older than this at the idle sweep
	// complete with ErrorTimeout.
	RequestTimeout duration.Duration

	// RequestBufferSize: soft cap on in-flight promises. Once reached,
	// further requests are accepted but immediately rejected with
	// ErrorOverloaded. Defaults to 100.
	RequestBufferSize int `validate:"gte=0"`

	// LogErrors gates error logging on handleFailure. Defaults to true.
	LogErrors bool

	// TagsFor derives metric tags from a request/response pair.
	// Defaults to an empty-tag function if unset.
	TagsFor func(Req, Resp) map[string]string

	// Schedule requests a timed callback from the worker running this
	// server (spec §4.1 "schedule(delay, message)"), normally bound to
	// the connection's worker.Loop.Schedule. No-op if unset.
	Schedule func(delay time.Duration, fn func())
}

// DefaultConfig returns the spec's documented defaults (§6.4):
// RequestBufferSize=100, LogErrors=true. Callers building a Config
// literal should start from this rather than a zero value, since Go's
// zero bool would otherwise silently disable error logging.
func DefaultConfig[Req any, Resp any]() Config[Req, Resp] {
	return Config[Req, Resp]{
		RequestBufferSize: 100,
		LogErrors:         true,
	}
}

func (c Config[Req, Resp]) withDefaults() Config[Req, Resp] {
	if c.RequestBufferSize <= 0 {
		c.RequestBufferSize = 100
	}
	if c.TagsFor == nil {
		c.TagsFor = func(Req, Resp) map[string]string { return nil }
	}
	if c.Schedule == nil {
		c.Schedule = func(time.Duration, func()) {}
	}
	return c
}
