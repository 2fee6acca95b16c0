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

// Package partition implements the windowed partition stream: a view
// over a disk stream.Stream that translates a relative position into
// an absolute one and refuses positions past its own size, so higher
// layers (filesystem export, kernel/loader writes) never need to know
// where on the disk their partition lives.
package partition

import (
	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/stream"
)

// Stream is a bounded, relocatable view over a parent stream.Stream. It
// borrows the parent's cursor for the duration of each operation: it
// sets the parent's position to offset+pos immediately before reading or
// writing, so callers must not interleave operations on two Stream
// views (or the raw parent) without expecting the cursor to move.
type Stream struct {
	parent stream.Stream
	offset uint64
	size   uint64
	pos    uint64
}

// New constructs a partition stream over parent spanning
// [offset, offset+size).
func New(parent stream.Stream, offset, size uint64) *Stream {
	return &Stream{parent: parent, offset: offset, size: size}
}

// Offset returns the partition's absolute byte offset into the parent stream.
func (p *Stream) Offset() uint64 { return p.offset }

func (p *Stream) Size() (uint64, error) { return p.size, nil }

func (p *Stream) Pos() (uint64, error) { return p.pos, nil }

// SetPos requires pos <= size; a position past the window is an
// invalid argument, not an implicit grow.
func (p *Stream) SetPos(pos uint64) error {
	if pos > p.size {
		return bootrc.New(bootrc.KindInvalidArgument, "position %d exceeds partition size %d", pos, p.size)
	}
	p.pos = pos
	return nil
}

func (p *Stream) Read(buf []byte) error {
	if p.pos+uint64(len(buf)) > p.size {
		return bootrc.New(bootrc.KindInvalidArgument, "read of %d bytes at position %d exceeds partition size %d", len(buf), p.pos, p.size)
	}
	if err := p.parent.SetPos(p.offset + p.pos); err != nil {
		return err
	}
	if err := p.parent.Read(buf); err != nil {
		return err
	}
	p.pos += uint64(len(buf))
	return nil
}

func (p *Stream) Write(buf []byte) error {
	if p.pos+uint64(len(buf)) > p.size {
		return bootrc.New(bootrc.KindInvalidArgument, "write of %d bytes at position %d exceeds partition size %d", len(buf), p.pos, p.size)
	}
	if err := p.parent.SetPos(p.offset + p.pos); err != nil {
		return err
	}
	if err := p.parent.Write(buf); err != nil {
		return err
	}
	p.pos += uint64(len(buf))
	return nil
}
