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

package pure64fs

import (
	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/codec"
	"github.com/return-infinity/bootable/internal/stream"
)

// Dir is a directory: a name, a set of subdirectories, and a set of files.
type Dir struct {
	Name    string
	Subdirs []Dir
	Files   []File
}

// nameExists reports whether name is already used by a direct child
// file or subdirectory; files and subdirectories share one namespace.
func (d *Dir) nameExists(name string) bool {
	for i := range d.Files {
		if d.Files[i].Name == name {
			return true
		}
	}
	for i := range d.Subdirs {
		if d.Subdirs[i].Name == name {
			return true
		}
	}
	return false
}

// AddFile appends a new, empty file named name to d.
func (d *Dir) AddFile(name string) error {
	if d.nameExists(name) {
		return bootrc.New(bootrc.KindAlreadyExists, "%q already exists", name)
	}
	d.Files = append(d.Files, File{Name: name})
	return nil
}

// AddSubdir appends a new, empty subdirectory named name to d.
func (d *Dir) AddSubdir(name string) error {
	if d.nameExists(name) {
		return bootrc.New(bootrc.KindAlreadyExists, "%q already exists", name)
	}
	d.Subdirs = append(d.Subdirs, Dir{Name: name})
	return nil
}

// wireSize returns the number of bytes d occupies in its serialized
// form, including all descendants.
func (d *Dir) wireSize() uint64 {
	size := uint64(24 + len(d.Name))
	for i := range d.Subdirs {
		size += d.Subdirs[i].wireSize()
	}
	for i := range d.Files {
		size += d.Files[i].wireSize()
	}
	return size
}

// Export encodes d depth-first: its own header and name, then every
// subdirectory in full, then every file in full.
func (d *Dir) Export(s stream.Stream) error {
	if err := codec.EncodeU64(uint64(len(d.Name)), s); err != nil {
		return err
	}
	if err := codec.EncodeU64(uint64(len(d.Subdirs)), s); err != nil {
		return err
	}
	if err := codec.EncodeU64(uint64(len(d.Files)), s); err != nil {
		return err
	}
	if err := s.Write([]byte(d.Name)); err != nil {
		return err
	}

	for i := range d.Subdirs {
		if err := d.Subdirs[i].Export(s); err != nil {
			return err
		}
	}

	for i := range d.Files {
		if err := d.Files[i].Export(s); err != nil {
			return err
		}
	}

	return nil
}

// Import decodes d from s, reading its children in the same
// subdirectories-then-files order Export writes them.
func (d *Dir) Import(s stream.Stream) error {
	var nameSize, subdirCount, fileCount uint64
	if err := codec.DecodeU64(&nameSize, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&subdirCount, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&fileCount, s); err != nil {
		return err
	}

	name := make([]byte, nameSize)
	if err := s.Read(name); err != nil {
		return err
	}
	d.Name = string(name)

	d.Subdirs = make([]Dir, subdirCount)
	for i := range d.Subdirs {
		if err := d.Subdirs[i].Import(s); err != nil {
			return err
		}
	}

	d.Files = make([]File, fileCount)
	for i := range d.Files {
		if err := d.Files[i].Import(s); err != nil {
			return err
		}
	}

	return nil
}
