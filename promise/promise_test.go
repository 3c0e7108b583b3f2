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

var _ = Describe("Promise", func() {
	It("starts incomplete", func() {
		p := promise.New[string, int]("hello", 10)

		Expect(p.Request()).To(Equal("hello"))
		Expect(p.CreationTime()).To(Equal(int64(10)))
		Expect(p.IsComplete()).To(BeFalse())

		_, ok := p.Response()
		Expect(ok).To(BeFalse())
	})

	It("completes exactly once", func() {
		p := promise.New[string, int]("hello", 10)

		Expect(p.Complete(42)).To(BeNil())
		Expect(p.IsComplete()).To(BeTrue())

		resp, ok := p.Response()
		Expect(ok).To(BeTrue())
		Expect(resp).To(Equal(42))

		err := p.Complete(99)
		Expect(err).NotTo(BeNil())

		resp, ok = p.Response()
		Expect(ok).To(BeTrue())
		Expect(resp).To(Equal(42))
	})

	It("invokes the completion arm synchronously", func() {
		p := promise.New[string, int]("hello", 10)

		var seen int
		var called bool
		p.OnComplete(func(r int) {
			called = true
			seen = r
		})

		Expect(called).To(BeFalse())
		Expect(p.Complete(7)).To(BeNil())
		Expect(called).To(BeTrue())
		Expect(seen).To(Equal(7))
	})
})
