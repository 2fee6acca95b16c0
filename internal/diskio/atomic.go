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

package diskio

import (
	"github.com/google/renameio/v2"

	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/stream"
)

// PendingDisk is a disk image being assembled under a temporary name
// alongside its final path. The image only becomes visible at path
// once Commit renames it into place, so an init that dies partway
// through writing the bootsector, GPT, or filesystem never leaves a
// half-built image at the configured path.
type PendingDisk struct {
	pf *renameio.PendingFile
}

// CreatePendingDisk opens a temp file next to path and returns it as a
// Stream ready for the builder's usual sequence of SetPos/Write calls,
// plus the PendingDisk handle used to Commit or Abort it once the
// image is fully written.
func CreatePendingDisk(path string) (*stream.FileStream, *PendingDisk, error) {
	path = NormalizeVolumePath(path)

	pf, err := renameio.NewPendingFile(path)
	if err != nil {
		return nil, nil, bootrc.Wrap(bootrc.KindIO, err, "creating temp file for %q", path)
	}

	return stream.NewFile(pf.File), &PendingDisk{pf: pf}, nil
}

// Commit renames the pending disk image into place at its final path.
func (p *PendingDisk) Commit() error {
	if err := p.pf.CloseAtomicallyReplace(); err != nil {
		return bootrc.Wrap(bootrc.KindIO, err, "publishing disk image")
	}
	return nil
}

// Abort discards the pending disk image without publishing it, leaving
// whatever existed at the final path (if anything) untouched.
func (p *PendingDisk) Abort() error {
	if err := p.pf.Cleanup(); err != nil {
		return bootrc.Wrap(bootrc.KindIO, err, "discarding pending disk image")
	}
	return nil
}
