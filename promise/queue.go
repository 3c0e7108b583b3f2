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

package promise

// Queue is the FIFO of in-flight promises backing the ordering pass (spec
// §4.1): requests are appended at the tail in arrival order and only ever
// flushed to the wire from the head, so head-of-line order is enforced by
// construction rather than by re-sorting completed responses.
type Queue[Req any, Resp any] struct {
	items []*Promise[Req, Resp]
}

// NewQueue returns an empty Queue.
func NewQueue[Req any, Resp any]() *Queue[Req, Resp] {
	return &Queue[Req, Resp]{}
}

// Push appends p at the tail. O(1) amortized.
func (q *Queue[Req, Resp]) Push(p *Promise[Req, Resp]) {
	q.items = append(q.items, p)
}

// Front returns the head promise without removing it, and whether the
// queue is non-empty.
func (q *Queue[Req, Resp]) Front() (*Promise[Req, Resp], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// PopFront removes and returns the head promise, complete or not. The
// ordering pass itself pops through FlushReady.
func (q *Queue[Req, Resp]) PopFront() (*Promise[Req, Resp], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return p, true
}

// Len reports the number of promises still held (completed or not).
func (q *Queue[Req, Resp]) Len() int {
	return len(q.items)
}

// FlushReady pops and yields every completed promise starting at the head,
// stopping at the first not-yet-complete one. This is the core of the
// ordering pass: a completed second request never jumps ahead of an
// incomplete first one (spec §8 invariant 1).
func (q *Queue[Req, Resp]) FlushReady(yield func(*Promise[Req, Resp])) {
	for len(q.items) > 0 && q.items[0].IsComplete() {
		p := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		yield(p)
	}
}

// SweepExpired walks the queue head-first, calling expired for each
// not-yet-complete promise whose creationTime is older than deadline.
// Scanning stops at the first promise younger than deadline, since
// promises are held in arrival order and therefore in increasing
// creationTime order (spec §4.1 idle/timeout sweep: O(n) worst case, but
// the common case — nothing timed out — exits after the first check).
func (q *Queue[Req, Resp]) SweepExpired(deadline int64, expired func(*Promise[Req, Resp])) {
	// expired may complete p and so run the ordering pass, which pops
	// entries off q.items; walk a snapshot so those pops are not observed.
	items := append([]*Promise[Req, Resp](nil), q.items...)
	for _, p := range items {
		if p.IsComplete() {
			continue
		}
		if p.CreationTime() >= deadline {
			return
		}
		expired(p)
	}
}

// Drain removes every remaining promise, invoking drop on each (draining
// state / connection close accounting, spec §4.1).
func (q *Queue[Req, Resp]) Drain(drop func(*Promise[Req, Resp])) {
	items := q.items
	q.items = nil
	for _, p := range items {
		drop(p)
	}
}
