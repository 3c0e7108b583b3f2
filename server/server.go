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

// Package server implements ServiceServer: the accept-dispatch-order half
// of the pipelining engine (spec §4.1). One instance is confined to a
// single connection and a single worker; every exported method other than
// the ones explicitly documented as cross-goroutine safe must be called
// from that worker.
package server

import (
	"time"

	"github.com/sabouaram/svcpipe/deferred"
	"github.com/sabouaram/svcpipe/errors"
	"github.com/sabouaram/svcpipe/ioc"
	"github.com/sabouaram/svcpipe/logger"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/promise"
)

// State is the server's connection lifecycle (spec §4.1 "State machine").
type State uint8

const (
	Active State = iota
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handler is the pair of user hooks a ServiceServer is parameterized by
// (spec §9 "subclass hooks → interface abstraction").
type Handler[Req any, Resp any] interface {
	// ProcessRequest may complete synchronously (return an already-done
	// deferred) or later, on a future worker turn.
	ProcessRequest(request Req) *deferred.Deferred[Resp]
	// ProcessFailure converts cause into a protocol-level response. Must
	// be total: it may not itself fail.
	ProcessFailure(request Req, cause error) Resp
}

// Server is ServiceServer: accepts decoded requests, dispatches them to
// Handler, and writes responses back strictly in arrival order.
type Server[Req any, Resp any] struct {
	config  Config[Req, Resp]
	handler Handler[Req, Resp]
	out     ioc.Controller[Resp]
	rec     metrics.Recorder
	log     logger.Logger

	queue              *promise.Queue[Req, Resp]
	concurrentRequests int
	requestsAccepted   int
	state              State

	now func() int64
}

// New builds a Server bound to out (the I/O controller this instance
// writes responses to) and rec (the metrics sink). log may be nil.
func New[Req any, Resp any](cfg Config[Req, Resp], h Handler[Req, Resp], out ioc.Controller[Resp], rec metrics.Recorder, log logger.Logger) *Server[Req, Resp] {
	if rec == nil {
		rec = metrics.Noop()
	}
	return &Server[Req, Resp]{
		config:  cfg.withDefaults(),
		handler: h,
		out:     out,
		rec:     rec,
		log:     log,
		queue:   promise.NewQueue[Req, Resp](),
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// State reports the current lifecycle state.
func (s *Server[Req, Resp]) State() State { return s.state }

// ConcurrentRequests reports the number of promises currently in flight
// (enqueued but not yet flushed).
func (s *Server[Req, Resp]) ConcurrentRequests() int { return s.concurrentRequests }

// ProcessMessage is the codec layer's inbound hook, invoked once per
// decoded request (spec §4.1 dispatch policy).
func (s *Server[Req, Resp]) ProcessMessage(request Req) {
	p := promise.New[Req, Resp](request, s.now())
	s.queue.Push(p)
	s.concurrentRequests++
	s.requestsAccepted++
	p.OnComplete(func(Resp) { s.orderingPass() })

	// The queue size at this point includes the promise just pushed:
	// the request that brings the queue exactly to RequestBufferSize is
	// still processed normally; anything past that is overloaded (spec
	// §4.1 "once the queue reaches it, further requests ... rejected").
	if s.queue.Len() <= s.config.RequestBufferSize {
		d := s.handler.ProcessRequest(request)
		d.OnComplete(func(resp Resp, err error) {
			if err != nil {
				resp = s.handleFailure(request, ErrorUser.Error(err))
			}
			_ = p.Complete(resp)
		})
	} else {
		resp := s.handleFailure(request, ErrorOverloaded.Error())
		_ = p.Complete(resp)
	}
}

// handleFailure increments the error rate (tagged by cause kind),
// optionally logs, and converts cause into a response via ProcessFailure.
func (s *Server[Req, Resp]) handleFailure(request Req, cause errors.Error) Resp {
	kind := kindTag(cause.GetCode())
	s.rec.Rate(s.config.Name, "errors", metrics.NewTags("kind", kind))

	if s.config.LogErrors && s.log != nil {
		s.log.Entry(logger.ErrorLevel, "request failed").FieldAdd("kind", kind).ErrorAdd(cause).Log()
	}

	return s.handler.ProcessFailure(request, cause)
}

// orderingPass is the only writer to the wire (spec §4.1 "Ordering
// pass"). It flushes every already-completed promise starting at the
// head, stopping at the first incomplete one.
func (s *Server[Req, Resp]) orderingPass() {
	if s.state == Closed {
		return
	}

	s.queue.FlushReady(func(p *promise.Promise[Req, Resp]) {
		resp, _ := p.Response()
		now := s.now()

		tags := metrics.NewTags()
		if m := s.config.TagsFor(p.Request(), resp); m != nil {
			kv := make([]string, 0, len(m)*2)
			for k, v := range m {
				kv = append(kv, k, v)
			}
			tags = metrics.NewTags(kv...)
		}

		s.rec.Rate(s.config.Name, "requests", tags)
		s.rec.Histogram(s.config.Name, "latency", float64(now-p.CreationTime()), tags)
		s.concurrentRequests--

		accepted := s.out.Push(resp, func(r ioc.PushResult) {
			// Ambiguous source behavior (spec §9): the original prints
			// "dropped reply" on a non-success write. We surface it as
			// a metric instead of writing to stdout.
			if r != ioc.Success {
				s.rec.Rate(s.config.Name, "dropped_requests", nil)
			}
		})
		if !accepted {
			s.rec.Rate(s.config.Name, "dropped_requests", nil)
		}

		s.checkGracefulDisconnect()
	})
}

// IdleSweep is called periodically by the worker (spec §4.1 "Idle /
// timeout sweep"). now is monotonic milliseconds, matching Promise's
// creationTime unit.
func (s *Server[Req, Resp]) IdleSweep(now int64) {
	deadline := now - s.config.RequestTimeout.Time().Milliseconds()
	s.queue.SweepExpired(deadline, func(p *promise.Promise[Req, Resp]) {
		resp := s.handleFailure(p.Request(), ErrorTimeout.Error())
		_ = p.Complete(resp)
	})
}

// Schedule requests a timed callback from the worker running this server
// (spec §4.1 "schedule(delay, message)"). No-op if the handler is unbound,
// i.e. Config.Schedule was left nil.
func (s *Server[Req, Resp]) Schedule(delay time.Duration, fn func()) {
	s.config.Schedule(delay, fn)
}

// StartIdleSweep uses Schedule to call IdleSweep every interval, for as
// long as the connection stays open, so RequestTimeout is actually
// enforced by a real worker rather than only by a test calling IdleSweep
// directly. A non-positive interval disables the sweep.
func (s *Server[Req, Resp]) StartIdleSweep(interval time.Duration) {
	if interval <= 0 {
		return
	}

	var tick func()
	tick = func() {
		if s.state == Closed {
			return
		}
		s.IdleSweep(s.now())
		s.Schedule(interval, tick)
	}
	s.Schedule(interval, tick)
}

// GracefulDisconnect pauses reads and begins draining (spec §4.1): no new
// work is accepted, but in-flight promises may still complete and flush.
func (s *Server[Req, Resp]) GracefulDisconnect() {
	if s.state == Closed {
		return
	}
	s.state = Draining
	s.out.PauseReads()
	s.checkGracefulDisconnect()
}

func (s *Server[Req, Resp]) checkGracefulDisconnect() {
	if s.state == Draining && s.queue.Len() == 0 {
		s.ConnectionClosed()
	}
}

// ConnectionClosed finalizes accounting on connection close, clean or
// error (spec §4.1 "Connection close"). Any undelivered responses are
// discarded since the socket is gone.
func (s *Server[Req, Resp]) ConnectionClosed() {
	if s.state == Closed {
		return
	}

	s.rec.Histogram(s.config.Name, "requests_per_connection", float64(s.requestsAccepted), nil)

	remaining := s.queue.Len()
	s.queue.Drain(func(*promise.Promise[Req, Resp]) {})
	s.concurrentRequests -= remaining

	s.state = Closed
}
