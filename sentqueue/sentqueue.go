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

// Package sentqueue implements the client side of the pipelining state
// machine (spec §4.2, §4.3): one SourcedRequest per write in flight,
// correlated to its response purely by wire order.
package sentqueue

import "github.com/sabouaram/svcpipe/errors"

// SourcedRequest is a request that has been written to the wire and is
// awaiting its response. handler is invoked exactly once, with either a
// decoded response or an error (timeout, connection loss, desync).
type SourcedRequest[Resp any] struct {
	payload   interface{}
	handler   func(Resp, error)
	startTime int64 // monotonic milliseconds
	fired     bool
}

// New creates a SourcedRequest. payload is kept only for diagnostics
// (logging, metrics tags); handler is the single-shot completion callback.
func New[Resp any](payload interface{}, startTime int64, handler func(Resp, error)) *SourcedRequest[Resp] {
	return &SourcedRequest[Resp]{
		payload:   payload,
		handler:   handler,
		startTime: startTime,
	}
}

func (s *SourcedRequest[Resp]) Payload() interface{} { return s.payload }
func (s *SourcedRequest[Resp]) StartTime() int64     { return s.startTime }

// Complete invokes handler exactly once. Subsequent calls are no-ops,
// since a SourcedRequest may be completed from more than one source in
// the client state machine (a matched response, a failed or cancelled
// write, purgeBuffers on connection loss) but must only ever fire once.
func (s *SourcedRequest[Resp]) Complete(resp Resp, err error) {
	if s.fired {
		return
	}
	s.fired = true
	if s.handler != nil {
		s.handler(resp, err)
	}
}

// Queue is the FIFO of in-flight sent requests. The nth response decoded
// from the connection completes the nth entry (spec §3 invariant):
// correlation is positional, there is no request ID on the wire.
type Queue[Resp any] struct {
	items []*SourcedRequest[Resp]
}

// NewQueue returns an empty Queue.
func NewQueue[Resp any]() *Queue[Resp] {
	return &Queue[Resp]{}
}

// Push enqueues s after its request has been written to the wire.
func (q *Queue[Resp]) Push(s *SourcedRequest[Resp]) {
	q.items = append(q.items, s)
}

// Len reports the number of requests awaiting a response.
func (q *Queue[Resp]) Len() int {
	return len(q.items)
}

// PopFront removes and returns the head entry without completing it,
// letting the caller record metrics against its startTime before
// invoking its handler (client response correlation, spec §4.2).
func (q *Queue[Resp]) PopFront() (*SourcedRequest[Resp], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	s := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return s, true
}

// Complete dequeues the head entry and completes it with resp. Returns
// ErrorDesync if the queue is empty, signalling a response arrived with
// nothing outstanding to match it to.
func (q *Queue[Resp]) Complete(resp Resp) errors.Error {
	if len(q.items) == 0 {
		return ErrorDesync.Error()
	}

	s := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	s.Complete(resp, nil)
	return nil
}

// SweepExpired walks the queue head-first, calling expired for each entry
// whose startTime is older than deadline, stopping at the first one that
// isn't — requests are enqueued in increasing startTime order.
func (q *Queue[Resp]) SweepExpired(deadline int64, expired func(*SourcedRequest[Resp])) {
	cut := 0
	for _, s := range q.items {
		if s.startTime >= deadline {
			break
		}
		expired(s)
		cut++
	}
	q.items = q.items[cut:]
}

// Drain removes every remaining entry, invoking drop on each — used by
// purgeBuffers on connection loss (spec §4.2).
func (q *Queue[Resp]) Drain(drop func(*SourcedRequest[Resp])) {
	items := q.items
	q.items = nil
	for _, s := range items {
		drop(s)
	}
}
