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

package worker_test

import (
	"context"
	"sync"
	"time"

	"github.com/sabouaram/svcpipe/worker"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Loop", func() {
	It("runs posted closures serialized, in order", func() {
		l := worker.New(16)
		defer l.Stop()

		var mu sync.Mutex
		var order []int
		var wg sync.WaitGroup

		for i := 0; i < 5; i++ {
			wg.Add(1)
			n := i
			Expect(l.Post(func() {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				wg.Done()
			})).To(BeNil())
		}

		wg.Wait()
		mu.Lock()
		defer mu.Unlock()
		Expect(order).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("runs Schedule callbacks on the loop after the delay", func() {
		l := worker.New(4)
		defer l.Stop()

		done := make(chan struct{})
		l.Schedule(10*time.Millisecond, func() {
			close(done)
		})

		select {
		case <-done:
		case <-time.After(time.Second):
			Fail("schedule callback never ran")
		}
	})

	It("rejects Post once stopped", func() {
		l := worker.New(4)
		Expect(l.Stop()).To(BeNil())

		err := l.Post(func() {})
		Expect(err).NotTo(BeNil())
	})

	It("waits for spawned helpers on Stop", func() {
		l := worker.New(4)

		l.Spawn(func(ctx context.Context) error {
			return nil
		})

		Expect(l.Stop()).To(BeNil())
	})
})
