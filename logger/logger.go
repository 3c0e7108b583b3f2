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
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the facade every core component logs through. It never panics
// or exits on its own: FatalLevel/PanicLevel entries are left to the caller
// to act on.
type Logger interface {
	SetLevel(l Level)
	GetLevel() Level
	WithFields(f Fields) Logger
	Entry(l Level, message string) *Entry
}

type logger struct {
	lvl Level
	std *logrus.Logger
	flw Fields
}

// New returns a Logger writing JSON-formatted entries to stderr at InfoLevel.
func New() Logger {
	std := logrus.New()
	std.SetOutput(os.Stderr)
	std.SetFormatter(&logrus.JSONFormatter{})
	std.SetLevel(InfoLevel.Logrus())

	return &logger{
		lvl: InfoLevel,
		std: std,
		flw: NewFields(),
	}
}

func (g *logger) SetLevel(l Level) {
	g.lvl = l
	g.std.SetLevel(l.Logrus())
}

func (g *logger) GetLevel() Level {
	return g.lvl
}

func (g *logger) WithFields(f Fields) Logger {
	return &logger{
		lvl: g.lvl,
		std: g.std,
		flw: g.flw.Merge(f),
	}
}

func (g *logger) Entry(l Level, message string) *Entry {
	return &Entry{
		lvl: l,
		msg: message,
		flw: g.flw,
		std: g.std,
	}
}

// Entry is a single log line under construction; Log emits it.
type Entry struct {
	lvl Level
	msg string
	flw Fields
	std *logrus.Logger
}

func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	e.flw = e.flw.Add(key, val)
	return e
}

func (e *Entry) ErrorAdd(err error) *Entry {
	if err == nil {
		return e
	}
	return e.FieldAdd("error", err.Error())
}

func (e *Entry) Log() {
	if e.lvl == NilLevel {
		return
	}
	if e.lvl == PanicLevel {
		// logrus panics after writing a PanicLevel entry; the line is
		// already written, so the panic is swallowed here.
		defer func() { _ = recover() }()
	}

	e.std.WithFields(e.flw.Logrus()).Log(e.lvl.Logrus(), e.msg)
}
