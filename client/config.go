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

package client

import (
	"time"

	"github.com/sabouaram/svcpipe/duration"
	"github.com/sabouaram/svcpipe/reconnect"
)

// Config holds ServiceClient's tunables (spec §4.2, §6.4).
type Config struct {
	// Address is the remote endpoint this client connects to. Interpreted
	// by the transport implementation, not by the core itself.
	Address string `validate:"required"`

	// RequestTimeout is documentary: per spec §9's design note, the
	// client-side pending/timeout sweep is the controller's cancellation
	// mechanism (a Cancelled push result), not a client-owned idle check.
	RequestTimeout duration.Duration

	// Name is the metric/log prefix for this client instance.
	Name string

	// PendingBufferSize: hard cap on requests accepted by the I/O
	// controller but not yet written. Defaults to 100. The client core
	// does not read it and does not pass it to the controller: the cap in
	// effect is the one the controller was built with (for transport/tcp,
	// ClientOptions.PendingWriteBuffer), surfacing as ErrorOverloaded.
	PendingBufferSize int `validate:"gte=0"`

	// SentBufferSize: soft cap on SentQueue; writes are paused once
	// reached, until the queue drains below it. Reads are not paused.
	// Defaults to 20.
	SentBufferSize int `validate:"gte=0"`

	// FailFast: when true, connection loss also fails every not-yet-sent
	// pending request, not only the ones already written.
	FailFast bool

	// ConnectionAttempts is the reconnect bound-retry policy.
	ConnectionAttempts reconnect.Policy

	// Schedule requests a timed callback from the worker, normally bound
	// to the connection's worker.Loop.Schedule (mirrors server.Config's
	// Schedule field, spec §4.1 "schedule(delay, message)"); no-op if
	// unset.
	Schedule func(delay time.Duration, fn func())

	// OnReconnect is invoked once the configured interval elapses after a
	// reconnect attempt is scheduled; the transport binds this to its
	// actual dial logic. No-op if unset.
	OnReconnect func()
}

// DefaultConfig returns the spec's documented defaults (§6.4):
// PendingBufferSize=100, SentBufferSize=20, FailFast=false.
func DefaultConfig() Config {
	return Config{
		PendingBufferSize: 100,
		SentBufferSize:    20,
	}
}

func (c Config) withDefaults() Config {
	if c.PendingBufferSize <= 0 {
		c.PendingBufferSize = 100
	}
	if c.SentBufferSize <= 0 {
		c.SentBufferSize = 20
	}
	if c.Schedule == nil {
		c.Schedule = func(time.Duration, func()) {}
	}
	if c.OnReconnect == nil {
		c.OnReconnect = func() {}
	}
	return c
}
