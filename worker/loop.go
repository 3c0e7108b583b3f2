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

// Package worker stands in for the external worker/scheduler spec.md scopes
// out of this engine (§6.2): a single goroutine that every ServiceServer or
// ServiceClient instance bound to it is confined to, so their internal
// state needs no locking (spec §5).
package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/svcpipe/errors"
)

// Loop is a single-goroutine cooperative event loop. Every closure posted
// to it, whether through Post or as a Schedule callback, executes
// serialized with every other one, on the same goroutine.
type Loop struct {
	queue  chan func()
	stop   chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	closed bool

	eg *errgroup.Group
}

// New starts a Loop with the given pending-message buffer size.
func New(bufferSize int) *Loop {
	l := &Loop{
		queue: make(chan func(), bufferSize),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		eg:    &errgroup.Group{},
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.stop:
			// drain whatever is already queued before exiting, so a
			// gracefulDisconnect scheduled just before Stop still runs.
			for {
				select {
				case fn := <-l.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post marshals fn onto the loop from any goroutine (the cross-goroutine
// entry point spec.md calls `shared()`). Blocks until fn is accepted onto
// the queue; returns ErrorClosed if the loop has already been stopped.
func (l *Loop) Post(fn func()) errors.Error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrorClosed.Error()
	}
	l.mu.Unlock()

	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrorClosed.Error()
	}
}

// Schedule requests that fn run on the loop after delay, matching spec.md's
// `schedule(delay, message)` contract. The timer fires on its own
// goroutine but Post ensures fn itself still runs serialized on the loop.
func (l *Loop) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		_ = l.Post(fn)
	})
}

// Spawn runs fn on a helper goroutine tracked by the loop's errgroup, for
// a user's processRequest/handler implementation that wants to do blocking
// work off the loop goroutine and complete its deferred result later via
// Post. Stop waits for all such helpers to finish.
func (l *Loop) Spawn(fn func(ctx context.Context) error) {
	l.eg.Go(func() error {
		return fn(context.Background())
	})
}

// Stop drains the pending queue, waits for any Spawn'd helpers to finish,
// and stops the loop goroutine. Safe to call once.
func (l *Loop) Stop() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.stop)
	<-l.done

	return l.eg.Wait()
}
