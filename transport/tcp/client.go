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

	"github.com/sabouaram/svcpipe/logger"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/worker"
)

// ClientOptions configures Dial.
type ClientOptions struct {
	PendingWriteBuffer int
	Name               string
	Rec                metrics.Recorder
	Log                logger.Logger
}

// Dial connects to addr and wraps the resulting net.Conn as a Conn bound
// to loop, wiring onMessage/onClosed to a client.Client instance's
// HandleResponse/ConnectionLost. The caller still owns Connect/Connected
// sequencing (spec.md §4.2) and must call Conn.Start() once wired.
func Dial[In any, Out any](addr string, codec Codec[In, Out], loop *worker.Loop, opt ClientOptions, onMessage func(In), onClosed func(error)) (*Conn[In, Out], error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, ErrorDial.Error(err)
	}

	id, uerr := uuid.GenerateUUID()
	if uerr != nil {
		id = "unknown"
	}

	return NewConn[In, Out](id, nc, codec, loop, opt.PendingWriteBuffer, opt.Rec, opt.Log, opt.Name, onMessage, onClosed), nil
}
