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

package sentqueue_test

import (
	"github.com/sabouaram/svcpipe/sentqueue"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Queue", func() {
	It("completes the head entry positionally, by arrival order", func() {
		q := sentqueue.NewQueue[int]()

		var got []int
		q.Push(sentqueue.New[int]("req-a", 1, func(r int, err error) {
			Expect(err).To(BeNil())
			got = append(got, r)
		}))
		q.Push(sentqueue.New[int]("req-b", 2, func(r int, err error) {
			Expect(err).To(BeNil())
			got = append(got, r)
		}))

		Expect(q.Complete(100)).To(BeNil())
		Expect(q.Complete(200)).To(BeNil())
		Expect(got).To(Equal([]int{100, 200}))
		Expect(q.Len()).To(Equal(0))
	})

	It("raises ErrorDesync when a response arrives with nothing outstanding", func() {
		q := sentqueue.NewQueue[int]()
		err := q.Complete(1)
		Expect(err).NotTo(BeNil())
		Expect(err.GetCode()).To(Equal(sentqueue.ErrorDesync))
	})

	It("fires each handler at most once", func() {
		q := sentqueue.NewQueue[int]()
		calls := 0
		s := sentqueue.New[int]("req", 1, func(r int, err error) { calls++ })
		q.Push(s)
		Expect(q.Complete(1)).To(BeNil())
		s.Complete(2, nil)
		Expect(calls).To(Equal(1))
	})

	It("sweeps expired entries from the head, stopping at the first unexpired one", func() {
		q := sentqueue.NewQueue[int]()

		var expiredPayloads []interface{}
		q.Push(sentqueue.New[int]("a", 100, func(r int, err error) {}))
		q.Push(sentqueue.New[int]("b", 200, func(r int, err error) {}))
		q.Push(sentqueue.New[int]("c", 900, func(r int, err error) {}))

		q.SweepExpired(500, func(s *sentqueue.SourcedRequest[int]) {
			expiredPayloads = append(expiredPayloads, s.Payload())
		})

		Expect(expiredPayloads).To(Equal([]interface{}{"a", "b"}))
		Expect(q.Len()).To(Equal(1))
	})

	It("drains every remaining entry", func() {
		q := sentqueue.NewQueue[int]()
		q.Push(sentqueue.New[int]("a", 1, func(r int, err error) {}))
		q.Push(sentqueue.New[int]("b", 2, func(r int, err error) {}))

		var dropped []interface{}
		q.Drain(func(s *sentqueue.SourcedRequest[int]) {
			dropped = append(dropped, s.Payload())
		})

		Expect(dropped).To(Equal([]interface{}{"a", "b"}))
		Expect(q.Len()).To(Equal(0))
	})
})
