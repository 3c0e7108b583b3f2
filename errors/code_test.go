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

package errors_test

import (
	goerrors "errors"

	. "github.com/sabouaram/svcpipe/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testCode CodeError = iota + 50000

var _ = Describe("CodeError", func() {
	BeforeEach(func() {
		RegisterIdFctMessage(testCode, func(code CodeError) string {
			switch code {
			case testCode:
				return "boom"
			}
			return ""
		})
	})

	It("resolves the message registered for its code", func() {
		Expect(testCode.Message()).To(Equal("boom"))
	})

	It("falls back to the unknown message for an unregistered code", func() {
		Expect(CodeError(1).Message()).To(Equal("unknown error"))
	})

	It("builds a wrapped Error carrying the code and message", func() {
		cause := goerrors.New("disk full")

		e := testCode.Error(cause)

		Expect(e.GetCode()).To(Equal(testCode))
		Expect(e.Error()).To(Equal("boom: disk full"))
	})

	It("omits the cause when none is given", func() {
		e := testCode.Error()

		Expect(e.Error()).To(Equal("boom"))
	})

	It("skips a nil cause and keeps looking for a real one", func() {
		e := testCode.Error(nil, goerrors.New("retry"))

		Expect(e.Error()).To(Equal("boom: retry"))
	})
})
