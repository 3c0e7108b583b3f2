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

package promise_test

import (
	"github.com/sabouaram/svcpipe/promise"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Queue", func() {
	It("flushes only completed promises from the head, in order", func() {
		q := promise.NewQueue[string, int]()

		p1 := promise.New[string, int]("a", 1)
		p2 := promise.New[string, int]("b", 2)
		p3 := promise.New[string, int]("c", 3)

		q.Push(p1)
		q.Push(p2)
		q.Push(p3)
		Expect(q.Len()).To(Equal(3))

		// complete out of order: p3 then p1. Nothing should flush yet
		// because p2, at the head position after p1, is still pending.
		Expect(p3.Complete(30)).To(BeNil())
		Expect(p1.Complete(10)).To(BeNil())

		var flushed []int
		q.FlushReady(func(p *promise.Promise[string, int]) {
			r, _ := p.Response()
			flushed = append(flushed, r)
		})
		Expect(flushed).To(Equal([]int{10}))
		Expect(q.Len()).To(Equal(2))

		// completing p2 unblocks both p2 and the already-completed p3.
		Expect(p2.Complete(20)).To(BeNil())
		flushed = nil
		q.FlushReady(func(p *promise.Promise[string, int]) {
			r, _ := p.Response()
			flushed = append(flushed, r)
		})
		Expect(flushed).To(Equal([]int{20, 30}))
		Expect(q.Len()).To(Equal(0))
	})

	It("sweeps expired promises from the head and stops at the first unexpired one", func() {
		q := promise.NewQueue[string, int]()

		p1 := promise.New[string, int]("a", 100)
		p2 := promise.New[string, int]("b", 200)
		p3 := promise.New[string, int]("c", 900)

		q.Push(p1)
		q.Push(p2)
		q.Push(p3)

		var expired []string
		q.SweepExpired(500, func(p *promise.Promise[string, int]) {
			expired = append(expired, p.Request())
		})

		Expect(expired).To(Equal([]string{"a", "b"}))
	})

	It("does not sweep already-completed promises", func() {
		q := promise.NewQueue[string, int]()

		p1 := promise.New[string, int]("a", 100)
		Expect(p1.Complete(1)).To(BeNil())
		q.Push(p1)

		var expired []string
		q.SweepExpired(500, func(p *promise.Promise[string, int]) {
			expired = append(expired, p.Request())
		})

		Expect(expired).To(BeEmpty())
	})

	It("drains every remaining promise", func() {
		q := promise.NewQueue[string, int]()
		q.Push(promise.New[string, int]("a", 1))
		q.Push(promise.New[string, int]("b", 2))

		var dropped []string
		q.Drain(func(p *promise.Promise[string, int]) {
			dropped = append(dropped, p.Request())
		})

		Expect(dropped).To(Equal([]string{"a", "b"}))
		Expect(q.Len()).To(Equal(0))
	})
})
