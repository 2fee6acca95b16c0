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

// Package stream defines the uniform seekable byte-stream capability
// used throughout the image-construction engine: get-size, get-position,
// set-position, read(N), write(N). Reads and writes are all-or-nothing;
// a short read or write is reported as an I/O error rather than a
// partial result, matching the stream contract every higher layer
// (codec, GPT, filesystem tree) relies on.
package stream

import "github.com/return-infinity/bootable/internal/bootrc"

// Stream is the capability set every byte source in this module is
// built on. Implementations are not required to be safe for concurrent
// use; the engine has exactly one writer on the disk stream at a time.
type Stream interface {
	// Size returns the total addressable size of the stream in bytes.
	Size() (uint64, error)
	// Pos returns the current absolute byte offset.
	Pos() (uint64, error)
	// SetPos moves the current offset. Implementations backed by a
	// fixed-size window reject positions beyond their bound with
	// KindInvalidArgument.
	SetPos(pos uint64) error
	// Read fills buf completely or returns an error: KindIO for a short
	// or failed read, KindInvalidArgument from a fixed-size window when
	// buf would run past its bound.
	Read(buf []byte) error
	// Write writes all of buf or returns an error: KindIO for a short
	// or failed write, KindInvalidArgument from a fixed-size window when
	// buf would run past its bound.
	Write(buf []byte) error
}

// NotImplemented returns the standard error for a stream that lacks a
// given capability.
func NotImplemented(op string) error {
	return bootrc.New(bootrc.KindNotImplemented, "stream does not support %s", op)
}
