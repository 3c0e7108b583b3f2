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

// Package reconnect implements the bounded-retry policy a ServiceClient
// consults on every connection loss or failed initial connect.
package reconnect

import (
	"time"

	"github.com/sabouaram/svcpipe/duration"
)

// Policy is the connectionAttempts configuration: a fixed retry interval
// and an optional cap on the number of attempts. A nil MaxAttempts means
// unbounded retries.
type Policy struct {
	Interval    duration.Duration
	MaxAttempts *int `validate:"omitempty,gte=1"`
}

// Controller tracks the attempt count for one connection's lifetime.
// Reset to zero whenever the client successfully connects (spec §4.2
// "connected(endpoint): ... reset connectionAttempts").
type Controller struct {
	policy   Policy
	attempts int
}

// New builds a Controller bound to policy.
func New(policy Policy) *Controller {
	return &Controller{policy: policy}
}

// Reset zeroes the attempt counter, called on a successful connect.
func (c *Controller) Reset() {
	c.attempts = 0
}

// Attempts reports the number of reconnect attempts made since the last
// Reset.
func (c *Controller) Attempts() int {
	return c.attempts
}

// IsExpended reports whether the configured MaxAttempts has been reached;
// with MaxAttempts unset it never expends.
func (c *Controller) IsExpended(n int) bool {
	if c.policy.MaxAttempts == nil {
		return false
	}
	return n >= *c.policy.MaxAttempts
}

// NextDelay returns the fixed retry interval. spec.md's reconnect policy
// is a flat interval with no backoff; Attempt below increments the
// counter so a future backoff policy can be layered on top without
// changing this method's signature.
func (c *Controller) NextDelay() time.Duration {
	return c.policy.Interval.Time()
}

// Attempt records one more reconnect attempt and reports whether it
// should proceed (ok) and, if so, the delay to wait before it (spec
// §4.2 "Reconnect attempt"). When the policy is expended, ok is false
// and the caller should give up.
func (c *Controller) Attempt() (delay time.Duration, ok bool) {
	if c.IsExpended(c.attempts) {
		return 0, false
	}
	c.attempts++
	return c.NextDelay(), true
}
