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

package admin_test

import (
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/sabouaram/svcpipe/admin"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	It("reports 200 on /healthz when no health check is configured", func() {
		s := admin.New(admin.Config{})

		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("reports 503 with a JSON body when the health check fails", func() {
		s := admin.New(admin.Config{Health: func() error { return errors.New("db down") }})

		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.Len()).To(BeNumerically(">", 0))
	})

	It("serves Prometheus text format on /metrics", func() {
		s := admin.New(admin.Config{})

		req := httptest.NewRequest("GET", "/metrics", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("text/plain"))
	})
})
