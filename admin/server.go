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

// Package admin is the optional HTTP surface around a running server/client
// instance: a liveness probe and a Prometheus scrape endpoint. It has no
// part in the pipelining state machines themselves.
package admin

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabouaram/svcpipe/errors"
)

// HealthFunc reports whether the monitored component is healthy. A non-nil
// error is surfaced as the HTTP body via errors.ReturnGin.
type HealthFunc func() error

// Config holds the admin server's tunables.
type Config struct {
	Address string
	Health  HealthFunc
	Reg     prometheus.Gatherer
}

// Server is a small gin.Engine exposing GET /healthz and GET /metrics.
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New builds a Server. If cfg.Reg is nil, prometheus.DefaultGatherer is
// used; if cfg.Health is nil, /healthz always reports healthy.
func New(cfg Config) *Server {
	if cfg.Health == nil {
		cfg.Health = func() error { return nil }
	}
	if cfg.Reg == nil {
		cfg.Reg = prometheus.DefaultGatherer
	}

	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())

	e.GET("/healthz", func(c *gin.Context) {
		if err := cfg.Health(); err != nil {
			ret := errors.NewDefaultReturn()
			ce := ErrorUnhealthy.Error(err)
			ce.Return(ret)
			ret.GinTonicAbort(c, http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusOK)
	})

	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Reg, promhttp.HandlerOpts{})))

	return &Server{
		engine: e,
		http:   &http.Server{Addr: cfg.Address, Handler: e},
	}
}

// Handler exposes the underlying HTTP handler for use with httptest or a
// caller-owned http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

// Serve accepts connections on ln until the server is shut down.
func (s *Server) Serve(ln net.Listener) error {
	err := s.http.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// ListenAndServe binds Config.Address and serves until shut down.
func (s *Server) ListenAndServe() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting up to timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
