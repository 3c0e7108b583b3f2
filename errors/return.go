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

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Return is a sink an Error copies its code and message into. DefaultReturn
// is the only implementation this module needs; callers with their own
// response envelope can implement it directly.
type Return interface {
	SetError(code int, msg string)
}

// ReturnGin is a Return that can also abort an in-flight gin request.
type ReturnGin interface {
	Return
	GinTonicAbort(ctx *gin.Context, httpCode int)
}

// DefaultReturn is a minimal JSON error body: {"code": n, "message": "..."}.
type DefaultReturn struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewDefaultReturn() *DefaultReturn {
	return &DefaultReturn{}
}

func (r *DefaultReturn) SetError(code int, msg string) {
	r.Code = code
	r.Message = msg
}

func (r *DefaultReturn) JSON() []byte {
	b, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return b
}

// GinTonicAbort writes r as the JSON body and aborts ctx with httpCode (or
// http.StatusInternalServerError if httpCode is 0). A no-op on an already
// aborted or nil context.
func (r *DefaultReturn) GinTonicAbort(ctx *gin.Context, httpCode int) {
	if ctx == nil || ctx.IsAborted() {
		return
	}

	if httpCode == 0 {
		httpCode = http.StatusInternalServerError
	}

	ctx.AbortWithStatusJSON(httpCode, r)
}
