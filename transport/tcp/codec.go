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

package tcp

import (
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"
)

// Codec frames and serializes messages over a byte stream (spec §9's
// "generic over codec" design note). Decode is handed everything read
// so far and returns the decoded value plus how many bytes it consumed;
// returning n == 0 means "need more bytes".
type Codec[In any, Out any] interface {
	Encode(Out) ([]byte, error)
	Decode([]byte) (In, int, error)
	Reset()
}

// CborCodec frames each message as a 4-byte big-endian length prefix
// followed by a CBOR-encoded payload. It carries no decode-side state, so
// Reset is a no-op.
type CborCodec[In any, Out any] struct{}

func NewCborCodec[In any, Out any]() *CborCodec[In, Out] {
	return &CborCodec[In, Out]{}
}

func (c *CborCodec[In, Out]) Encode(msg Out) ([]byte, error) {
	body, err := cbor.Marshal(msg)
	if err != nil {
		return nil, ErrorEncode.Error(err)
	}

	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

func (c *CborCodec[In, Out]) Decode(buf []byte) (In, int, error) {
	var zero In

	if len(buf) < 4 {
		return zero, 0, nil
	}

	size := int(binary.BigEndian.Uint32(buf))
	if len(buf) < 4+size {
		return zero, 0, nil
	}

	var msg In
	if err := cbor.Unmarshal(buf[4:4+size], &msg); err != nil {
		return zero, 0, ErrorDecode.Error(err)
	}

	return msg, 4 + size, nil
}

func (c *CborCodec[In, Out]) Reset() {}
