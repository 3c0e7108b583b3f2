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

// Package tcp is a net.Conn-backed ioc.Controller: the concrete byte-level
// collaborator spec.md §6.1 leaves external to the engine. Reading and
// writing run on their own goroutines (actual syscalls block); every
// callback handed back to the core is marshalled onto the owning
// worker.Loop via Post, so the core itself only ever observes its own
// goroutine.
package tcp

import (
	"net"
	"sync"

	"github.com/sabouaram/svcpipe/ioc"
	"github.com/sabouaram/svcpipe/logger"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/worker"
)

type writeItem struct {
	payload  []byte
	onResult ioc.OnResult
}

// Conn adapts a net.Conn, framed by codec, to ioc.Controller[Out]. In is
// the decoded message type delivered to onMessage; Out is the message
// type Push accepts for writing.
type Conn[In any, Out any] struct {
	id    string
	name  string
	nc    net.Conn
	codec Codec[In, Out]
	loop  *worker.Loop
	rec   metrics.Recorder
	log   logger.Logger

	onMessage func(In)
	onClosed  func(error)

	mu           sync.Mutex
	cond         *sync.Cond
	pending      []writeItem
	pendingCap   int
	writesPaused bool
	readsPaused  bool
	closed       bool

	wake chan struct{}
}

// NewConn wraps nc. pendingCap is the hard cap on queued-but-not-written
// messages (ioc.Controller.Push's "pending buffer"); 0 means unbounded.
// Reads start paused; the caller unpauses via ReadyForData once its state
// machine is ready to receive (mirrors client.Client.Connected and
// ServeServer's post-accept wiring).
func NewConn[In any, Out any](
	id string,
	nc net.Conn,
	codec Codec[In, Out],
	loop *worker.Loop,
	pendingCap int,
	rec metrics.Recorder,
	log logger.Logger,
	name string,
	onMessage func(In),
	onClosed func(error),
) *Conn[In, Out] {
	if rec == nil {
		rec = metrics.Noop()
	}
	c := &Conn[In, Out]{
		id:          id,
		name:        name,
		nc:          nc,
		codec:       codec,
		loop:        loop,
		rec:         rec,
		log:         log,
		onMessage:   onMessage,
		onClosed:    onClosed,
		pendingCap:  pendingCap,
		readsPaused: true,
		wake:        make(chan struct{}, 1),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Start launches the read and write goroutines. Callers invoke this once
// per accepted/dialed connection.
func (c *Conn[In, Out]) Start() {
	go c.readLoop()
	go c.writeLoop()
}

func (c *Conn[In, Out]) ID() string { return c.id }

// Push implements ioc.Controller.
func (c *Conn[In, Out]) Push(message Out, onResult ioc.OnResult) bool {
	body, err := c.codec.Encode(message)
	if err != nil {
		c.loop.Post(func() { onResult(ioc.Failure) })
		return true
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if c.pendingCap > 0 && len(c.pending) >= c.pendingCap {
		c.mu.Unlock()
		return false
	}
	c.pending = append(c.pending, writeItem{payload: body, onResult: onResult})
	paused := c.writesPaused
	c.mu.Unlock()

	if !paused {
		c.wakeWriter()
	}
	return true
}

func (c *Conn[In, Out]) PauseReads() {
	c.mu.Lock()
	c.readsPaused = true
	c.mu.Unlock()
}

func (c *Conn[In, Out]) ResumeReads() {
	c.mu.Lock()
	c.readsPaused = false
	c.mu.Unlock()
	c.cond.Broadcast()
}

func (c *Conn[In, Out]) ReadyForData() { c.ResumeReads() }

func (c *Conn[In, Out]) PauseWrites() {
	c.mu.Lock()
	c.writesPaused = true
	c.mu.Unlock()
}

func (c *Conn[In, Out]) ResumeWrites() {
	c.mu.Lock()
	c.writesPaused = false
	c.mu.Unlock()
	c.wakeWriter()
}

// PurgeOutgoing drops every queued-but-not-written message.
func (c *Conn[In, Out]) PurgeOutgoing() {
	c.mu.Lock()
	dropped := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, item := range dropped {
		item := item
		c.loop.Post(func() { item.onResult(ioc.Cancelled) })
	}
}

// PurgePending is identical to PurgeOutgoing: this Controller keeps a
// single internal write queue (spec §6.1's allowance for that case).
func (c *Conn[In, Out]) PurgePending() { c.PurgeOutgoing() }

func (c *Conn[In, Out]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
	c.wakeWriter()
	return c.nc.Close()
}

func (c *Conn[In, Out]) wakeWriter() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Conn[In, Out]) writeLoop() {
	for {
		c.mu.Lock()
		for len(c.pending) == 0 && !c.closed {
			c.mu.Unlock()
			<-c.wake
			c.mu.Lock()
		}
		if c.closed {
			c.mu.Unlock()
			return
		}
		if c.writesPaused {
			c.mu.Unlock()
			<-c.wake
			continue
		}
		item := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()

		if _, err := c.nc.Write(item.payload); err != nil {
			c.rec.Rate(c.name, "write_errors", nil)
			c.loop.Post(func() { item.onResult(ioc.Failure) })
			c.fail(err)
			return
		}
		c.loop.Post(func() { item.onResult(ioc.Success) })
	}
}

func (c *Conn[In, Out]) readLoop() {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)

	for {
		c.mu.Lock()
		for c.readsPaused && !c.closed {
			c.cond.Wait()
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		n, err := c.nc.Read(tmp)
		if err != nil {
			c.fail(err)
			return
		}
		buf = append(buf, tmp[:n]...)

		for {
			msg, consumed, derr := c.codec.Decode(buf)
			if derr != nil {
				c.fail(derr)
				return
			}
			if consumed == 0 {
				break
			}
			buf = buf[consumed:]
			m := msg
			c.loop.Post(func() { c.onMessage(m) })
		}
	}
}

func (c *Conn[In, Out]) fail(cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
	_ = c.nc.Close()
	if c.onClosed != nil {
		c.loop.Post(func() { c.onClosed(cause) })
	}
}
