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

// Package metrics defines the pluggable sink contract consumed by the
// server and client cores (spec §6.3): Rate, Histogram and Counter,
// addressed by hierarchical name and tagged with string key/value pairs.
package metrics

// Tags is an ordered-by-caller set of string label pairs attached to one
// metric observation. Implementations are free to treat it as a map; it is
// passed as a slice to keep call sites allocation-light on the hot path.
type Tags []Tag

type Tag struct {
	Key   string
	Value string
}

func NewTags(kv ...string) Tags {
	t := make(Tags, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

// Recorder is the sink every core instance is configured with. Name is
// relative to the instance's configured prefix (e.g. "requests",
// "latency"); implementations are responsible for joining it with the
// prefix however is idiomatic for their backend.
type Recorder interface {
	// Rate increments a named counter-like rate metric by one.
	Rate(prefix, name string, tags Tags)
	// Histogram records an observation (typically a duration in
	// milliseconds) against a named histogram.
	Histogram(prefix, name string, value float64, tags Tags)
	// Counter adjusts a named gauge-like counter by delta (can be negative).
	Counter(prefix, name string, delta float64, tags Tags)
}
