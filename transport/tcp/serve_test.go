/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package tcp_test

import (
	"net"
	"time"

	"github.com/sabouaram/svcpipe/deferred"
	"github.com/sabouaram/svcpipe/duration"
	"github.com/sabouaram/svcpipe/ioc"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/server"
	"github.com/sabouaram/svcpipe/transport/tcp"
	"github.com/sabouaram/svcpipe/worker"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stallingHandler never completes ProcessRequest on its own; only the
// idle sweep can resolve a pending request.
type stallingHandler struct{}

func (stallingHandler) ProcessRequest(string) *deferred.Deferred[string] {
	_, d := deferred.New[string]()
	return d
}

func (stallingHandler) ProcessFailure(_ string, cause error) string {
	return "failed:" + cause.Error()
}

func dialClient(addr string) (*tcp.Conn[string, string], chan string) {
	nc, err := net.Dial("tcp", addr)
	Expect(err).NotTo(HaveOccurred())

	msgs := make(chan string, 4)
	loop := worker.New(4)
	conn := tcp.NewConn[string, string]("client", nc, tcp.NewCborCodec[string, string](), loop, 0, metrics.Noop(), nil, "client", func(m string) {
		msgs <- m
	}, nil)
	conn.Start()
	conn.ReadyForData()
	return conn, msgs
}

var _ = Describe("ServeServer", func() {
	It("wires Config.Schedule to the connection's worker loop so RequestTimeout is enforced without a manual IdleSweep call", func() {
		ln, err := tcp.ServeServer[string, string](
			"127.0.0.1:0",
			func() tcp.Codec[string, string] { return tcp.NewCborCodec[string, string]() },
			tcp.ServeOptions{IdleSweepInterval: 5 * time.Millisecond},
			func() server.Config[string, string] {
				cfg := server.DefaultConfig[string, string]()
				cfg.Name = "stall"
				cfg.RequestTimeout = duration.Duration(10 * time.Millisecond)
				return cfg
			}(),
			stallingHandler{},
		)
		Expect(err).NotTo(HaveOccurred())
		defer ln.Close()

		client, received := dialClient(ln.Addr().String())
		defer client.Close()

		accepted := client.Push("A", func(ioc.PushResult) {})
		Expect(accepted).To(BeTrue())

		Eventually(received, time.Second).Should(Receive(ContainSubstring("timed out")))
	})
})
