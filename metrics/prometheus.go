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

package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Recorder backed by github.com/prometheus/client_golang.
// One CounterVec is registered per (prefix, rate name) pair, one GaugeVec
// per (prefix, counter name) pair, since Counter deltas may be negative,
// and one HistogramVec per (prefix, histogram name) pair, lazily, the first time
// that name is observed, since the set of request kinds/tags a given
// server or client instance will see isn't known up front.
type Prometheus struct {
	reg prometheus.Registerer

	mu    sync.Mutex
	rates map[string]*prometheus.CounterVec
	hists map[string]*prometheus.HistogramVec
	ctrs  map[string]*prometheus.GaugeVec
}

// NewPrometheus builds a Recorder registering its vectors on reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler wired by the admin package.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	return &Prometheus{
		reg:   reg,
		rates: make(map[string]*prometheus.CounterVec),
		hists: make(map[string]*prometheus.HistogramVec),
		ctrs:  make(map[string]*prometheus.GaugeVec),
	}
}

func metricName(prefix, name string) string {
	return sanitize(prefix) + "_" + sanitize(name)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

func labelNames(tags Tags) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Key
	}
	return names
}

func labelValues(tags Tags) prometheus.Labels {
	l := make(prometheus.Labels, len(tags))
	for _, t := range tags {
		l[t.Key] = t.Value
	}
	return l
}

func (p *Prometheus) Rate(prefix, name string, tags Tags) {
	p.mu.Lock()
	key := metricName(prefix, name)
	v, ok := p.rates[key]
	if !ok {
		v = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: key,
			Help: "rate metric " + key,
		}, labelNames(tags))
		_ = p.reg.Register(v)
		p.rates[key] = v
	}
	p.mu.Unlock()

	v.With(labelValues(tags)).Inc()
}

func (p *Prometheus) Histogram(prefix, name string, value float64, tags Tags) {
	p.mu.Lock()
	key := metricName(prefix, name)
	v, ok := p.hists[key]
	if !ok {
		v = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: key,
			Help: "histogram metric " + key,
		}, labelNames(tags))
		_ = p.reg.Register(v)
		p.hists[key] = v
	}
	p.mu.Unlock()

	v.With(labelValues(tags)).Observe(value)
}

func (p *Prometheus) Counter(prefix, name string, delta float64, tags Tags) {
	p.mu.Lock()
	key := metricName(prefix, name)
	v, ok := p.ctrs[key]
	if !ok {
		v = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: key,
			Help: "counter metric " + key,
		}, labelNames(tags))
		_ = p.reg.Register(v)
		p.ctrs[key] = v
	}
	p.mu.Unlock()

	v.With(labelValues(tags)).Add(delta)
}
