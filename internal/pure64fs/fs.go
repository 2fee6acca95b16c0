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
	"github.com/return-infinity/bootable/internal/path"
	"github.com/return-infinity/bootable/internal/stream"
)

// Signature is the fixed 8-byte tag ("Pure64FS" read little-endian)
// that opens a serialized file system image.
const Signature uint64 = 0x5346343665727550

// FS is a hierarchical file system rooted at a single directory.
type FS struct {
	Signature uint64
	Size      uint64
	Root      Dir
}

// New returns an empty, unnamed file system ready for Export.
func New() *FS {
	return &FS{Signature: Signature}
}

// Export stamps fs.Size from the current tree and writes the
// signature, size, and root directory to s.
func (fs *FS) Export(s stream.Stream) error {
	fs.Size = 16 + fs.Root.wireSize()

	if err := codec.EncodeU64(fs.Signature, s); err != nil {
		return err
	}
	if err := codec.EncodeU64(fs.Size, s); err != nil {
		return err
	}
	return fs.Root.Export(s)
}

// Import reads a file system from s and verifies its signature.
func (fs *FS) Import(s stream.Stream) error {
	if err := codec.DecodeU64(&fs.Signature, s); err != nil {
		return err
	}
	if fs.Signature != Signature {
		return bootrc.New(bootrc.KindInvalidArgument, "file system signature 0x%016x does not match 0x%016x", fs.Signature, Signature)
	}
	if err := codec.DecodeU64(&fs.Size, s); err != nil {
		return err
	}
	return fs.Root.Import(s)
}

// resolveParent walks p's components except the last, returning the
// directory that should contain the final component. Every component
// but the basename must already exist as a subdirectory.
func (fs *FS) resolveParent(p *path.Path) (*Dir, error) {
	dir := &fs.Root
	for i := 0; i < p.NameCount()-1; i++ {
		name, _ := p.Name(i)
		next := findSubdir(dir, name)
		if next == nil {
			return nil, bootrc.New(bootrc.KindNotFound, "%q not found", name)
		}
		dir = next
	}
	return dir, nil
}

func findSubdir(dir *Dir, name string) *Dir {
	for i := range dir.Subdirs {
		if dir.Subdirs[i].Name == name {
			return &dir.Subdirs[i]
		}
	}
	return nil
}

func findFile(dir *Dir, name string) *File {
	for i := range dir.Files {
		if dir.Files[i].Name == name {
			return &dir.Files[i]
		}
	}
	return nil
}

// MakeDir creates a new empty subdirectory at pathStr.
func (fs *FS) MakeDir(pathStr string) error {
	p := path.ParseNormalized(pathStr)
	if p.NameCount() == 0 {
		return bootrc.New(bootrc.KindInvalidArgument, "empty path")
	}

	parent, err := fs.resolveParent(p)
	if err != nil {
		return err
	}

	name, _ := p.Name(p.NameCount() - 1)
	return parent.AddSubdir(name)
}

// MakeFile creates a new empty file at pathStr.
func (fs *FS) MakeFile(pathStr string) error {
	p := path.ParseNormalized(pathStr)
	if p.NameCount() == 0 {
		return bootrc.New(bootrc.KindInvalidArgument, "empty path")
	}

	parent, err := fs.resolveParent(p)
	if err != nil {
		return err
	}

	name, _ := p.Name(p.NameCount() - 1)
	return parent.AddFile(name)
}

// OpenDir resolves pathStr to a directory, or returns nil if any
// component is missing.
func (fs *FS) OpenDir(pathStr string) *Dir {
	p := path.ParseNormalized(pathStr)
	dir := &fs.Root
	for i := 0; i < p.NameCount(); i++ {
		name, _ := p.Name(i)
		next := findSubdir(dir, name)
		if next == nil {
			return nil
		}
		dir = next
	}
	return dir
}

// OpenFile resolves pathStr to a file, or returns nil if it does not
// exist.
func (fs *FS) OpenFile(pathStr string) *File {
	p := path.ParseNormalized(pathStr)
	if p.NameCount() == 0 {
		return nil
	}

	dir := &fs.Root
	for i := 0; i < p.NameCount()-1; i++ {
		name, _ := p.Name(i)
		next := findSubdir(dir, name)
		if next == nil {
			return nil
		}
		dir = next
	}

	name, _ := p.Name(p.NameCount() - 1)
	return findFile(dir, name)
}
