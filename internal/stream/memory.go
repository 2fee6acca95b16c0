// Copyright (c) 2025 The Bootable Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package stream

import "github.com/return-infinity/bootable/internal/bootrc"

// MemoryStream is a growable in-memory Stream, useful for tests and for
// building a filesystem image before it is known how large its backing
// partition window needs to be.
type MemoryStream struct {
	buf []byte
	pos uint64
}

// NewMemory creates an empty memory-backed stream.
func NewMemory() *MemoryStream {
	return &MemoryStream{}
}

// Bytes returns the stream's current contents. The slice is shared with
// the stream's internal buffer and must not be retained across further
// writes.
func (s *MemoryStream) Bytes() []byte { return s.buf }

func (s *MemoryStream) Size() (uint64, error) {
	return uint64(len(s.buf)), nil
}

func (s *MemoryStream) Pos() (uint64, error) {
	return s.pos, nil
}

func (s *MemoryStream) SetPos(pos uint64) error {
	s.pos = pos
	return nil
}

func (s *MemoryStream) Read(buf []byte) error {
	if s.pos+uint64(len(buf)) > uint64(len(s.buf)) {
		return bootrc.New(bootrc.KindIO, "short read at offset %d: %d bytes requested, %d available", s.pos, len(buf), uint64(len(s.buf))-s.pos)
	}
	copy(buf, s.buf[s.pos:s.pos+uint64(len(buf))])
	s.pos += uint64(len(buf))
	return nil
}

func (s *MemoryStream) Write(buf []byte) error {
	end := s.pos + uint64(len(buf))
	if end > uint64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:end], buf)
	s.pos = end
	return nil
}
