/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

// Error is a CodeError wrapped as a plain Go error, with the code still
// reachable (for tagging metrics/logs) and a way to copy itself into a
// caller-supplied Return sink (e.g. an HTTP error body).
type Error interface {
	error
	GetCode() CodeError
	Return(r Return)
}

type codedError struct {
	code   CodeError
	msg    string
	parent error
}

func (e *codedError) Error() string {
	if e.parent == nil {
		return e.msg
	}
	return e.msg + ": " + e.parent.Error()
}

func (e *codedError) GetCode() CodeError {
	return e.code
}

func (e *codedError) Return(r Return) {
	r.SetError(int(e.code), e.Error())
}
