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

// Package deferred models the cooperative, single-shot callback value
// described in spec §9: a result that may already be available or may
// complete on a later turn of the owning worker's event loop. It is
// intentionally not a generic goroutine-safe future: completion and the
// attached arm both run on the owning worker, serialized by it, matching
// the single-threaded confinement the rest of this module relies on.
package deferred

// Deferred[T] is completed exactly once, either immediately (Done) or
// later via a Promise[T]. OnComplete may be called before or after
// completion; if called after, the arm runs synchronously and immediately.
type Deferred[T any] struct {
	done bool
	val  T
	err  error
	arm  func(T, error)
}

// Done returns an already-completed Deferred, mirroring the server's
// "already-completed deferred result" construction for synchronous
// processRequest/processFailure outcomes (spec §4.1 dispatch policy).
func Done[T any](val T, err error) *Deferred[T] {
	return &Deferred[T]{done: true, val: val, err: err}
}

// New returns a Promise/Deferred pair: Complete on the Promise resolves
// the paired Deferred.
func New[T any]() (*Promise[T], *Deferred[T]) {
	d := &Deferred[T]{}
	return &Promise[T]{d: d}, d
}

// OnComplete attaches the completion arm. Spec §4.1/§4.2: "Attach a
// completion arm to the deferred result" — this is that attachment point.
// Only the first registered arm is honored, matching the promise's
// at-most-once-completion contract (spec §3 invariant, §8 invariant 2).
func (d *Deferred[T]) OnComplete(fn func(T, error)) {
	if d.arm != nil {
		return
	}
	d.arm = fn
	if d.done {
		fn(d.val, d.err)
	}
}

func (d *Deferred[T]) complete(val T, err error) {
	if d.done {
		return
	}
	d.done = true
	d.val = val
	d.err = err
	if d.arm != nil {
		d.arm(val, err)
	}
}

// Promise[T] is the write side of a Deferred[T], handed to whoever will
// eventually produce the value (a user's processRequest implementation, a
// response handler awaiting a matched reply, ...).
type Promise[T any] struct {
	d *Deferred[T]
}

func (p *Promise[T]) Complete(val T, err error) {
	p.d.complete(val, err)
}
