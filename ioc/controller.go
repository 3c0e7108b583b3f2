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

// Package ioc defines the byte-level I/O controller contract consumed by
// both the server and client cores (spec §6.1). It is the only surface
// between the pipelining state machines and the socket: the controller
// owns encode/decode, write scheduling and read/write pausing; the cores
// own ordering, timeouts and correlation.
package ioc

// PushResult is the outcome of one queued write, delivered asynchronously
// to the completion callback passed to Push.
type PushResult uint8

const (
	// Success: the message was written to the socket.
	Success PushResult = iota
	// Failure: the write failed (socket error).
	Failure
	// Cancelled: the message was dropped before being written, e.g. by
	// PurgeOutgoing/PurgePending or because its deadline elapsed in the
	// controller's own pending-queue timeout mechanism.
	Cancelled
)

func (r PushResult) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OnResult is invoked exactly once per Push call, on the owning worker.
type OnResult func(PushResult)

// Controller is the byte-level I/O contract a ServiceServer or
// ServiceClient core is composed with. Out is the message type this side
// writes to the wire (responses for a server, requests for a client).
type Controller[Out any] interface {
	// Push enqueues message for encoding and writing. It carries no
	// timestamp: the server records latency from the promise's creation
	// time itself, before pushing.
	//
	// Returns false if the controller's pending buffer is full (hard cap);
	// in that case onResult is never invoked.
	Push(message Out, onResult OnResult) (accepted bool)

	PauseReads()
	ResumeReads()
	PauseWrites()
	ResumeWrites()
	ReadyForData()

	// PurgeOutgoing drops every not-yet-written queued message, invoking
	// each one's onResult with Cancelled.
	PurgeOutgoing()
	// PurgePending drops every message accepted into the pending buffer
	// but not yet handed to the socket, invoking each one's onResult with
	// Cancelled. On an implementation with a single internal queue this
	// may be identical to PurgeOutgoing.
	PurgePending()

	// Close tears down the underlying connection.
	Close() error
}
