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

import (
	"io"
	"os"

	"github.com/return-infinity/bootable/internal/bootrc"
)

// FileStream adapts an *os.File to the Stream capability.
type FileStream struct {
	f *os.File
}

// NewFile wraps an already-open file handle as a Stream. The file must
// support both reading and writing for the engine's `init` path; a
// read-only handle still works for import-only operations as long as no
// write is attempted.
func NewFile(f *os.File) *FileStream {
	return &FileStream{f: f}
}

func (s *FileStream) Size() (uint64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, bootrc.Wrap(bootrc.KindIO, err, "stat disk file")
	}
	return uint64(info.Size()), nil
}

func (s *FileStream) Pos() (uint64, error) {
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, bootrc.Wrap(bootrc.KindIO, err, "get disk file position")
	}
	return uint64(pos), nil
}

func (s *FileStream) SetPos(pos uint64) error {
	if _, err := s.f.Seek(int64(pos), io.SeekStart); err != nil {
		return bootrc.Wrap(bootrc.KindIO, err, "set disk file position to %d", pos)
	}
	return nil
}

func (s *FileStream) Read(buf []byte) error {
	if _, err := io.ReadFull(s.f, buf); err != nil {
		return bootrc.Wrap(bootrc.KindIO, err, "read %d bytes from disk file", len(buf))
	}
	return nil
}

func (s *FileStream) Write(buf []byte) error {
	n, err := s.f.Write(buf)
	if err != nil {
		return bootrc.Wrap(bootrc.KindIO, err, "write %d bytes to disk file", len(buf))
	}
	if n != len(buf) {
		return bootrc.New(bootrc.KindIO, "short write to disk file: wrote %d of %d bytes", n, len(buf))
	}
	return nil
}

// File returns the underlying *os.File, for callers (diskio) that need
// to Close, Truncate, or Sync it directly.
func (s *FileStream) File() *os.File { return s.f }
