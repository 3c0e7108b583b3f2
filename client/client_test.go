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

package client_test

import (
	"time"

	"github.com/sabouaram/svcpipe/client"
	"github.com/sabouaram/svcpipe/metrics"
	"github.com/sabouaram/svcpipe/reconnect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	It("S4: correlates responses to handlers in FIFO order, pausing and resuming writes at the soft cap", func() {
		ctl := &fakeController{}
		cfg := client.DefaultConfig()
		cfg.Name = "cli"
		cfg.SentBufferSize = 2
		c := client.New[string, string](cfg, ctl, metrics.Noop(), nil)
		Expect(c.Connect()).To(BeNil())
		c.Connected("addr")

		var r1, r2, r3 string
		var e1, e2, e3 error
		c.Send("q1").OnComplete(func(r string, err error) { r1, e1 = r, err })
		c.Send("q2").OnComplete(func(r string, err error) { r2, e2 = r, err })
		c.Send("q3").OnComplete(func(r string, err error) { r3, e3 = r, err })

		Expect(ctl.written).To(Equal([]string{"q1", "q2"}), "q3 stays pending while writes are paused")
		Expect(ctl.paused).To(BeTrue())

		Expect(c.HandleResponse("s1")).To(BeNil())
		Expect(r1).To(Equal("s1"))
		Expect(e1).To(BeNil())
		Expect(ctl.written).To(Equal([]string{"q1", "q2", "q3"}), "resuming writes flushes q3")

		Expect(c.HandleResponse("s2")).To(BeNil())
		Expect(r2).To(Equal("s2"))

		Expect(c.HandleResponse("s3")).To(BeNil())
		Expect(r3).To(Equal("s3"))
	})

	It("raises a desync error when a response arrives with nothing outstanding", func() {
		ctl := &fakeController{}
		c := client.New[string, string](client.DefaultConfig(), ctl, metrics.Noop(), nil)
		err := c.HandleResponse("unexpected")
		Expect(err).NotTo(BeNil())
	})

	It("S5: fails every sent and pending request on connection loss under failFast", func() {
		ctl := &fakeController{}
		cfg := client.DefaultConfig()
		cfg.Name = "cli"
		cfg.SentBufferSize = 2
		cfg.FailFast = true
		c := client.New[string, string](cfg, ctl, metrics.Noop(), nil)
		Expect(c.Connect()).To(BeNil())
		c.Connected("addr")

		var errs []error
		for i := 0; i < 5; i++ {
			c.Send("q").OnComplete(func(r string, err error) { errs = append(errs, err) })
		}
		// q1, q2 flushed to "the wire" and pause writes; q3, q4, q5 sit
		// unflushed in the controller's pending buffer.
		Expect(ctl.written).To(HaveLen(2))
		Expect(errs).To(BeEmpty())

		c.ConnectionLost(nil)

		Expect(errs).To(HaveLen(5))
		for _, err := range errs {
			Expect(err).NotTo(BeNil())
		}
	})

	It("rejects a send with ClientOverloaded once the controller's pending buffer is full", func() {
		ctl := &fakeController{cap: 1, paused: true}
		c := client.New[string, string](client.DefaultConfig(), ctl, metrics.Noop(), nil)
		Expect(c.Connect()).To(BeNil())
		c.Connected("addr")

		var e1, e2 error
		c.Send("q1").OnComplete(func(r string, err error) { e1 = err })
		c.Send("q2").OnComplete(func(r string, err error) { e2 = err })

		Expect(e1).To(BeNil())
		Expect(e2).NotTo(BeNil())
	})

	It("S6: connect fails with StaleClient after a graceful disconnect completes", func() {
		ctl := &fakeController{}
		c := client.New[string, string](client.DefaultConfig(), ctl, metrics.Noop(), nil)
		Expect(c.Connect()).To(BeNil())
		c.Connected("addr")

		c.GracefulDisconnect()
		Expect(c.State()).To(Equal(client.Closed))

		err := c.Connect()
		Expect(err).NotTo(BeNil())
	})

	It("invariant 6: reconnect schedule events never exceed the configured max attempts", func() {
		ctl := &fakeController{}
		max := 2
		cfg := client.DefaultConfig()
		cfg.ConnectionAttempts = reconnect.Policy{MaxAttempts: &max}

		var schedules int
		cfg.Schedule = func(delay time.Duration, fn func()) {
			schedules++
		}

		c := client.New[string, string](cfg, ctl, metrics.Noop(), nil)
		Expect(c.Connect()).To(BeNil())
		c.Connected("addr")

		c.ConnectionLost(nil)
		c.ConnectionFailed()
		c.ConnectionFailed()
		c.ConnectionFailed()

		Expect(schedules).To(BeNumerically("<=", 2))
		Expect(c.State()).To(Equal(client.Failed))
	})
})
