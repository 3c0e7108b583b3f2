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

package tcp

import (
	"net"

	"github.com/hashicorp/go-uuid"
	"golang.org/x/net/netutil"

	"github.com/sabouaram/svcpipe/logger"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/worker"
)

// ServerOptions configures ListenServer.
type ServerOptions struct {
	// MaxConnections caps concurrently accepted connections via
	// netutil.LimitListener; 0 means unbounded.
	MaxConnections int

	// PendingWriteBuffer is each accepted connection's Conn.pendingCap.
	PendingWriteBuffer int

	Name string
	Rec  metrics.Recorder
	Log  logger.Logger
}

// Accepted is handed one freshly accepted connection, already wrapped as
// a Conn but not yet Start()ed, so the caller can wire onMessage/onClosed
// to a server.Server instance bound to its own worker.Loop before the
// read/write goroutines begin delivering callbacks.
type Accepted[In any, Out any] func(id string, loop *worker.Loop, newConn func(onMessage func(In), onClosed func(error)) *Conn[In, Out])

// ListenServer accepts connections on addr until the listener is closed,
// handing each one to accept. Every connection gets its own worker.Loop,
// matching spec.md's "one ServiceServer instance confined to a single
// connection and a single worker" model.
func ListenServer[In any, Out any](addr string, codec func() Codec[In, Out], opt ServerOptions, accept Accepted[In, Out]) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ErrorListen.Error(err)
	}
	if opt.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, opt.MaxConnections)
	}

	go func() {
		for {
			nc, aerr := ln.Accept()
			if aerr != nil {
				return
			}

			id, uerr := uuid.GenerateUUID()
			if uerr != nil {
				id = "unknown"
			}

			loop := worker.New(opt.PendingWriteBuffer)
			accept(id, loop, func(onMessage func(In), onClosed func(error)) *Conn[In, Out] {
				return NewConn[In, Out](id, nc, codec(), loop, opt.PendingWriteBuffer, opt.Rec, opt.Log, opt.Name, onMessage, onClosed)
			})
		}
	}()

	return ln, nil
}
