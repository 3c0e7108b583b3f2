/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

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

package logger

import (
	"fmt"
	"io"
	"log"

	"github.com/hashicorp/go-hclog"
)

// AsHCLog adapts a Logger to hclog.Logger, for handing to dependencies that
// expect the hashicorp logging contract instead of this package's own.
func AsHCLog(l Logger, name string) hclog.Logger {
	return &hclogBridge{name: name, l: l}
}

type hclogBridge struct {
	name string
	l    Logger
	flw  Fields
}

func (b *hclogBridge) log(lvl Level, msg string, args ...interface{}) {
	e := b.l.WithFields(b.flw).Entry(lvl, msg)
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			e = e.FieldAdd(k, args[i+1])
		}
	}
	e.Log()
}

func (b *hclogBridge) Trace(msg string, args ...interface{}) { b.log(DebugLevel, msg, args...) }
func (b *hclogBridge) Debug(msg string, args ...interface{}) { b.log(DebugLevel, msg, args...) }
func (b *hclogBridge) Info(msg string, args ...interface{})  { b.log(InfoLevel, msg, args...) }
func (b *hclogBridge) Warn(msg string, args ...interface{})  { b.log(WarnLevel, msg, args...) }
func (b *hclogBridge) Error(msg string, args ...interface{}) { b.log(ErrorLevel, msg, args...) }

func (b *hclogBridge) IsTrace() bool { return true }
func (b *hclogBridge) IsDebug() bool { return true }
func (b *hclogBridge) IsInfo() bool  { return true }
func (b *hclogBridge) IsWarn() bool  { return true }
func (b *hclogBridge) IsError() bool { return true }

func (b *hclogBridge) ImpliedArgs() []interface{} { return nil }

func (b *hclogBridge) With(args ...interface{}) hclog.Logger {
	flw := b.flw
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			flw = flw.Add(k, args[i+1])
		}
	}
	return &hclogBridge{name: b.name, l: b.l, flw: flw}
}

func (b *hclogBridge) Name() string { return b.name }

func (b *hclogBridge) Named(name string) hclog.Logger {
	if b.name == "" {
		return b.With().(*hclogBridge).named(name)
	}
	return b.With().(*hclogBridge).named(b.name + "." + name)
}

func (b *hclogBridge) named(name string) hclog.Logger {
	b.name = name
	return b
}

func (b *hclogBridge) ResetNamed(name string) hclog.Logger {
	return b.named(name)
}

func (b *hclogBridge) SetLevel(level hclog.Level) {}

func (b *hclogBridge) GetLevel() hclog.Level { return hclog.Info }

func (b *hclogBridge) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace, hclog.Debug:
		b.log(DebugLevel, msg, args...)
	case hclog.Warn:
		b.log(WarnLevel, msg, args...)
	case hclog.Error:
		b.log(ErrorLevel, msg, args...)
	default:
		b.log(InfoLevel, msg, args...)
	}
}

func (b *hclogBridge) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(b.StandardWriter(opts), "", 0)
}

func (b *hclogBridge) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return &stdWriter{b: b}
}

type stdWriter struct{ b *hclogBridge }

func (w *stdWriter) Write(p []byte) (int, error) {
	w.b.log(InfoLevel, fmt.Sprintf("%s", p))
	return len(p), nil
}
