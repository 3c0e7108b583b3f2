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

// Package promise implements the server side of the pipelining state
// machine (spec §3, §4.3): one Promise per in-flight request, held in
// order inside a Queue, flushed strictly head-first.
package promise

import (
	"github.com/sabouaram/svcpipe/errors"
)

// Promise holds one received request awaiting a response. At most one
// response is ever assigned (spec §3 invariant); a promise is never
// observed completed twice (spec §8 invariant 2).
type Promise[Req any, Resp any] struct {
	request      Req
	creationTime int64 // monotonic milliseconds
	completed    bool
	response     Resp
	onComplete   func(Resp)
}

// New creates a Promise for request, stamped with creationTime (monotonic
// milliseconds, supplied by the caller so tests can control the clock).
func New[Req any, Resp any](request Req, creationTime int64) *Promise[Req, Resp] {
	return &Promise[Req, Resp]{
		request:      request,
		creationTime: creationTime,
	}
}

func (p *Promise[Req, Resp]) Request() Req        { return p.request }
func (p *Promise[Req, Resp]) CreationTime() int64 { return p.creationTime }
func (p *Promise[Req, Resp]) IsComplete() bool    { return p.completed }

// Response returns the completed response and whether completion has
// happened yet.
func (p *Promise[Req, Resp]) Response() (Resp, bool) {
	return p.response, p.completed
}

// Complete assigns the response exactly once. A second call is a no-op
// (returns ErrorAlreadyCompleted), preserving the at-most-one-completion
// invariant under concurrent-looking completion sources (handler success,
// timeout sweep, overload rejection all call Complete on the same
// worker goroutine, so no lock is required — spec §5).
func (p *Promise[Req, Resp]) Complete(resp Resp) errors.Error {
	if p.completed {
		return ErrorAlreadyCompleted.Error()
	}

	p.completed = true
	p.response = resp

	if p.onComplete != nil {
		p.onComplete(resp)
	}

	return nil
}

// OnComplete registers the callback the owning Server uses to trigger the
// ordering pass (spec §4.1 "triggered whenever a promise completes").
// Only meaningful when set before Complete is called.
func (p *Promise[Req, Resp]) OnComplete(fn func(Resp)) {
	p.onComplete = fn
}
