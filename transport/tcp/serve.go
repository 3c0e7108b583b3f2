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
	"time"

	"github.com/sabouaram/svcpipe/server"
	"github.com/sabouaram/svcpipe/worker"
)

// ServeOptions is ServerOptions plus the idle sweep period for the
// server.Server instances ServeServer assembles.
type ServeOptions struct {
	ServerOptions

	// IdleSweepInterval is how often each connection's server.Server runs
	// IdleSweep (spec §4.5: the worker calls it "periodically"). 0
	// disables the sweep, leaving Config.RequestTimeout unenforced.
	IdleSweepInterval time.Duration
}

// ServeServer listens on addr and runs a fully wired ServiceServer per
// accepted connection: the Conn is both the server's ioc.Controller and
// the source feeding ProcessMessage, cfg.Schedule is bound to the
// connection's own worker.Loop, and (given a positive IdleSweepInterval)
// IdleSweep is scheduled to run periodically so RequestTimeout is actually
// enforced against a live socket rather than only in tests.
func ServeServer[Req any, Resp any](
	addr string,
	codec func() Codec[Req, Resp],
	opt ServeOptions,
	cfg server.Config[Req, Resp],
	h server.Handler[Req, Resp],
) (net.Listener, error) {
	return ListenServer[Req, Resp](addr, codec, opt.ServerOptions, func(id string, loop *worker.Loop, newConn func(onMessage func(Req), onClosed func(error)) *Conn[Req, Resp]) {
		connCfg := cfg
		if connCfg.Name != "" {
			connCfg.Name = connCfg.Name + "-" + id
		} else {
			connCfg.Name = id
		}
		connCfg.Schedule = loop.Schedule

		var conn *Conn[Req, Resp]
		var srv *server.Server[Req, Resp]

		conn = newConn(
			func(req Req) { srv.ProcessMessage(req) },
			func(cause error) { srv.ConnectionClosed() },
		)
		srv = server.New[Req, Resp](connCfg, h, conn, opt.Rec, opt.Log)
		srv.StartIdleSweep(opt.IdleSweepInterval)

		conn.Start()
		conn.ReadyForData()
	})
}
