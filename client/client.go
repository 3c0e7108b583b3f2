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

// Package client implements ServiceClient: the send-correlate-reconnect
// half of the pipelining engine (spec §4.2). One instance is confined to
// a single connection and a single worker.
package client

import (
	"time"

	"github.com/sabouaram/svcpipe/deferred"
	"github.com/sabouaram/svcpipe/errors"
	"github.com/sabouaram/svcpipe/ioc"
	"github.com/sabouaram/svcpipe/logger"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/reconnect"
	"github.com/sabouaram/svcpipe/sentqueue"
)

// State is the client's connection lifecycle (spec §4.2 "State machine").
type State uint8

const (
	Initial State = iota
	Connecting
	Connected
	Reconnecting
	Failed
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	case Failed:
		return "failed"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client is ServiceClient: sends requests over a single connection and
// correlates incoming responses by FIFO order.
type Client[Req any, Resp any] struct {
	config Config
	out    ioc.Controller[Req]
	rec    metrics.Recorder
	log    logger.Logger
	rc     *reconnect.Controller

	sent                 *sentqueue.Queue[Resp]
	state                State
	writer               bool
	writesPaused         bool
	disconnecting        bool
	manuallyDisconnected bool

	now func() int64
}

// New builds a Client bound to out (the I/O controller requests are
// written to) and rec (the metrics sink). log may be nil.
func New[Req any, Resp any](cfg Config, out ioc.Controller[Req], rec metrics.Recorder, log logger.Logger) *Client[Req, Resp] {
	if rec == nil {
		rec = metrics.Noop()
	}
	cfg = cfg.withDefaults()
	return &Client[Req, Resp]{
		config: cfg,
		out:    out,
		rec:    rec,
		log:    log,
		rc:     reconnect.New(cfg.ConnectionAttempts),
		sent:   sentqueue.NewQueue[Resp](),
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

func (c *Client[Req, Resp]) State() State { return c.state }
func (c *Client[Req, Resp]) IsConnected() bool { return c.writer && c.state == Connected }
func (c *Client[Req, Resp]) SentQueueLen() int { return c.sent.Len() }

// Connect instructs the worker to initiate a connection (spec §4.2). The
// actual dial is the transport's responsibility; this only validates and
// transitions state.
func (c *Client[Req, Resp]) Connect() errors.Error {
	if c.manuallyDisconnected {
		return ErrorStaleClient.Error()
	}
	c.state = Connecting
	return nil
}

// Send enqueues request for writing (spec §4.2 "Send pipeline
// (attemptWrite)"). The returned deferred completes with the response or
// a typed error (§7).
func (c *Client[Req, Resp]) Send(request Req) *deferred.Deferred[Resp] {
	p, d := deferred.New[Resp]()
	var zero Resp

	if c.disconnecting {
		p.Complete(zero, ErrorNotConnected.Error())
		return d
	}

	if !c.writer && c.config.FailFast {
		c.rec.Rate(c.config.Name, "dropped_requests", nil)
		p.Complete(zero, ErrorNotConnected.Error())
		return d
	}

	sr := sentqueue.New[Resp](request, c.now(), func(resp Resp, err error) {
		p.Complete(resp, err)
	})

	accepted := c.out.Push(request, func(r ioc.PushResult) {
		switch r {
		case ioc.Success:
			c.sent.Push(sr)
		case ioc.Failure:
			sr.Complete(zero, ErrorNotConnected.Error())
		case ioc.Cancelled:
			sr.Complete(zero, ErrorTimeout.Error())
		}
	})

	if !accepted {
		sr.Complete(zero, ErrorOverloaded.Error())
		return d
	}

	if c.sent.Len() >= c.config.SentBufferSize {
		c.writesPaused = true
		c.out.PauseWrites()
	}

	return d
}

// HandleResponse is the response-correlation entry point (spec §4.2):
// the nth decoded response completes the nth SentQueue entry.
func (c *Client[Req, Resp]) HandleResponse(resp Resp) errors.Error {
	s, ok := c.sent.PopFront()
	if !ok {
		return sentqueue.ErrorDesync.Error()
	}

	now := c.now()
	c.rec.Histogram(c.config.Name, "latency", float64(now-s.StartTime()), nil)
	c.rec.Rate(c.config.Name, "requests", nil)

	s.Complete(resp, nil)
	c.checkDrainComplete()

	if c.writesPaused && c.sent.Len() < c.config.SentBufferSize {
		c.writesPaused = false
		c.out.ResumeWrites()
	}

	return nil
}

// GracefulDisconnect sets disconnecting/manuallyDisconnected, cancels the
// controller's not-yet-written pending queue, and schedules the close
// once SentQueue drains (spec §4.2).
func (c *Client[Req, Resp]) GracefulDisconnect() {
	if c.state == Closed {
		return
	}
	c.disconnecting = true
	c.manuallyDisconnected = true
	c.out.PurgePending()
	c.checkDrainComplete()
}

func (c *Client[Req, Resp]) checkDrainComplete() {
	if !c.disconnecting {
		return
	}
	if c.sent.Len() == 0 {
		c.state = Closed
	} else {
		c.state = Draining
	}
}

// Connected resets per-connection state on a successful connect (spec
// §4.2 "connected(endpoint)").
func (c *Client[Req, Resp]) Connected(endpoint string) {
	c.writer = true
	c.rc.Reset()
	c.out.ReadyForData()
	c.state = Connected
}

// ConnectionClosed handles a clean close (spec §4.2 "connectionClosed").
func (c *Client[Req, Resp]) ConnectionClosed(cause error) {
	c.manuallyDisconnected = true
	c.purgeBuffers(cause)
	c.state = Closed
}

// ConnectionLost handles an error close and attempts a reconnect (spec
// §4.2 "connectionLost").
func (c *Client[Req, Resp]) ConnectionLost(cause error) {
	c.purgeBuffers(cause)
	c.rec.Rate(c.config.Name, "disconnects", nil)
	c.attemptReconnect()
}

// ConnectionFailed handles a failed initial connect attempt (spec §4.2
// "connectionFailed").
func (c *Client[Req, Resp]) ConnectionFailed() {
	c.rec.Rate(c.config.Name, "connection_failures", nil)
	c.attemptReconnect()
}

func (c *Client[Req, Resp]) attemptReconnect() {
	if c.disconnecting {
		return
	}

	delay, ok := c.rc.Attempt()
	if !ok {
		c.state = Failed
		if c.log != nil {
			c.log.Entry(logger.WarnLevel, "reconnect attempts exhausted").
				FieldAdd("name", c.config.Name).Log()
		}
		return
	}

	c.state = Reconnecting
	c.config.Schedule(delay, c.config.OnReconnect)
}

// purgeBuffers fails every outstanding request with ConnectionLost and
// purges the controller's write-side queues (spec §4.2 "purgeBuffers").
func (c *Client[Req, Resp]) purgeBuffers(cause error) {
	c.writer = false

	c.sent.Drain(func(s *sentqueue.SourcedRequest[Resp]) {
		c.rec.Rate(c.config.Name, "errors", metrics.NewTags("kind", "connection_lost"))
		var zero Resp
		s.Complete(zero, ErrorConnectionLost.Error(cause))
	})

	c.out.PurgeOutgoing()
	if c.config.FailFast {
		c.out.PurgePending()
	}
}
