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

// Package codec encodes and decodes little-endian fixed-width integers
// over a stream.Stream, so the same field-by-field readers and writers
// compose with file-backed, in-memory, and partition-windowed streams
// alike.
package codec

import (
	"encoding/binary"

	"github.com/return-infinity/bootable/internal/stream"
)

// EncodeU16 writes a little-endian uint16 to s.
func EncodeU16(v uint16, s stream.Stream) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return s.Write(buf[:])
}

// EncodeU32 writes a little-endian uint32 to s.
func EncodeU32(v uint32, s stream.Stream) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return s.Write(buf[:])
}

// EncodeU64 writes a little-endian uint64 to s.
func EncodeU64(v uint64, s stream.Stream) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return s.Write(buf[:])
}

// DecodeU16 reads a little-endian uint16 from s.
func DecodeU16(out *uint16, s stream.Stream) error {
	var buf [2]byte
	if err := s.Read(buf[:]); err != nil {
		return err
	}
	*out = binary.LittleEndian.Uint16(buf[:])
	return nil
}

// DecodeU32 reads a little-endian uint32 from s.
func DecodeU32(out *uint32, s stream.Stream) error {
	var buf [4]byte
	if err := s.Read(buf[:]); err != nil {
		return err
	}
	*out = binary.LittleEndian.Uint32(buf[:])
	return nil
}

// DecodeU64 reads a little-endian uint64 from s.
func DecodeU64(out *uint64, s stream.Stream) error {
	var buf [8]byte
	if err := s.Read(buf[:]); err != nil {
		return err
	}
	*out = binary.LittleEndian.Uint64(buf[:])
	return nil
}
