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

package imagebuild

import (
	"os"

	"github.com/return-infinity/bootable/internal/bootrc"
)

// List returns the names of the subdirectories and files directly
// under pathStr.
func (b *Builder) List(pathStr string) (dirs []string, files []string, err error) {
	dir := b.FS.OpenDir(pathStr)
	if dir == nil {
		return nil, nil, bootrc.New(bootrc.KindNotFound, "%q not found", pathStr)
	}

	for i := range dir.Subdirs {
		dirs = append(dirs, dir.Subdirs[i].Name)
	}
	for i := range dir.Files {
		files = append(files, dir.Files[i].Name)
	}
	return dirs, files, nil
}

// Cat returns the contents of the file at pathStr.
func (b *Builder) Cat(pathStr string) ([]byte, error) {
	file := b.FS.OpenFile(pathStr)
	if file == nil {
		return nil, bootrc.New(bootrc.KindNotFound, "%q not found", pathStr)
	}
	return file.Data, nil
}

// MakeDir creates an empty directory at pathStr.
func (b *Builder) MakeDir(pathStr string) error {
	return b.FS.MakeDir(pathStr)
}

// Copy reads hostPath off the local file system and stores it as a new
// file at pathStr in the embedded file system.
func (b *Builder) Copy(hostPath, pathStr string) error {
	data, err := os.ReadFile(hostPath)
	if err != nil {
		return bootrc.Wrap(bootrc.KindNotFound, err, "reading %q", hostPath)
	}

	if err := b.FS.MakeFile(pathStr); err != nil {
		return err
	}

	file := b.FS.OpenFile(pathStr)
	file.Data = data
	return nil
}
