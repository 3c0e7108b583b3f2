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
	"github.com/sabouaram/svcpipe/transport/tcp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CborCodec", func() {
	It("round-trips a single frame", func() {
		c := tcp.NewCborCodec[string, string]()

		frame, err := c.Encode("hello")
		Expect(err).To(BeNil())

		msg, n, err := c.Decode(frame)
		Expect(err).To(BeNil())
		Expect(n).To(Equal(len(frame)))
		Expect(msg).To(Equal("hello"))
	})

	It("reports 0 consumed when the buffer holds a partial frame", func() {
		c := tcp.NewCborCodec[string, string]()

		frame, err := c.Encode("hello")
		Expect(err).To(BeNil())

		_, n, err := c.Decode(frame[:len(frame)-1])
		Expect(err).To(BeNil())
		Expect(n).To(Equal(0))
	})

	It("decodes two back-to-back frames from one buffer", func() {
		c := tcp.NewCborCodec[string, string]()

		f1, _ := c.Encode("one")
		f2, _ := c.Encode("two")
		buf := append(append([]byte{}, f1...), f2...)

		msg1, n1, err := c.Decode(buf)
		Expect(err).To(BeNil())
		Expect(msg1).To(Equal("one"))

		msg2, n2, err := c.Decode(buf[n1:])
		Expect(err).To(BeNil())
		Expect(msg2).To(Equal("two"))
		Expect(n1 + n2).To(Equal(len(buf)))
	})
})
