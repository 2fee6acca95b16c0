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

// Package pure64fs implements the hierarchical file system embedded in
// a bootable filesystem partition: a single root directory holding
// subdirectories and files, serialized depth-first (a directory's
// subdirectories, then its files).
package pure64fs

import (
	"github.com/return-infinity/bootable/internal/codec"
	"github.com/return-infinity/bootable/internal/stream"
)

// File is a single named file with opaque data.
type File struct {
	Name string
	Data []byte
}

// Export encodes f's wire form: name length, data length, name bytes, data bytes.
func (f *File) Export(s stream.Stream) error {
	if err := codec.EncodeU64(uint64(len(f.Name)), s); err != nil {
		return err
	}
	if err := codec.EncodeU64(uint64(len(f.Data)), s); err != nil {
		return err
	}
	if err := s.Write([]byte(f.Name)); err != nil {
		return err
	}
	return s.Write(f.Data)
}

// Import decodes a File from s.
func (f *File) Import(s stream.Stream) error {
	var nameSize, dataSize uint64
	if err := codec.DecodeU64(&nameSize, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&dataSize, s); err != nil {
		return err
	}

	name := make([]byte, nameSize)
	if err := s.Read(name); err != nil {
		return err
	}
	f.Name = string(name)

	data := make([]byte, dataSize)
	if err := s.Read(data); err != nil {
		return err
	}
	f.Data = data

	return nil
}

// wireSize returns the number of bytes f occupies in its serialized form.
func (f *File) wireSize() uint64 {
	return 16 + uint64(len(f.Name)) + uint64(len(f.Data))
}
