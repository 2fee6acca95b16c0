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
	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/config"
	"github.com/return-infinity/bootable/internal/diskio"
	"github.com/return-infinity/bootable/internal/gpt"
	"github.com/return-infinity/bootable/internal/logger"
	"github.com/return-infinity/bootable/internal/partition"
	"github.com/return-infinity/bootable/internal/pure64fs"
	"github.com/return-infinity/bootable/internal/stream"
)

// Builder drives the construction and subsequent mutation of a single
// disk image: configuration, the disk stream, the in-memory filesystem
// tree, and the imported partition table.
type Builder struct {
	Config *config.Config
	Disk   *stream.FileStream
	FS     *pure64fs.FS
	GPT    *gpt.GPT
	Log    *logger.Logger
}

// New returns a Builder over an already-loaded configuration. The
// caller must call CreateDisk or OpenDisk before any other operation.
func New(cfg *config.Config, log *logger.Logger) *Builder {
	return &Builder{Config: cfg, FS: pure64fs.New(), Log: log}
}

// CreateDisk builds a fresh disk image under a temp name alongside
// path and writes its full initial layout into it: bootsector,
// partitions (flat or GPT), and for a GPT+fs_loader disk the embedded
// filesystem tree. The temp file is only renamed into place once every
// step succeeds, so a failed init never leaves a half-built image at
// path.
func (b *Builder) CreateDisk(path string) error {
	disk, pending, err := diskio.CreatePendingDisk(path)
	if err != nil {
		return err
	}
	b.Disk = disk

	if err := diskio.Preallocate(b.Disk.File(), b.Config.DiskSize); err != nil {
		pending.Abort()
		return err
	}

	if err := b.writeBootsector(); err != nil {
		pending.Abort()
		return err
	}

	if err := b.writePartitions(); err != nil {
		pending.Abort()
		return err
	}

	if err := pending.Commit(); err != nil {
		return err
	}
	b.Disk = nil
	return nil
}

// OpenDisk opens an already-built image for ls/cat/cp/mkdir mutation,
// importing the GPT and the embedded filesystem it describes.
func (b *Builder) OpenDisk(path string) error {
	disk, err := diskio.OpenDisk(path)
	if err != nil {
		return err
	}
	b.Disk = disk

	if b.Config.PartitionScheme != config.PartitionSchemeGPT {
		return bootrc.New(bootrc.KindNotImplemented, "ls/cat/cp/mkdir require a gpt-partitioned disk")
	}

	g := gpt.New()
	if err := g.Import(b.Disk); err != nil {
		return err
	}
	b.GPT = g

	if !b.Config.FSLoader {
		return nil
	}

	fsPartition, err := b.fsPartitionStream(g)
	if err != nil {
		return err
	}

	return b.FS.Import(fsPartition)
}

// SaveDisk re-imports the GPT, writes back the in-memory filesystem
// tree, and re-exports the GPT, recomputing all four checksums.
func (b *Builder) SaveDisk() error {
	if b.Config.PartitionScheme != config.PartitionSchemeGPT {
		return bootrc.New(bootrc.KindNotImplemented, "saving requires a gpt-partitioned disk")
	}

	g := gpt.New()
	if err := g.Import(b.Disk); err != nil {
		return err
	}
	b.GPT = g

	fsPartition, err := b.fsPartitionStream(g)
	if err != nil {
		return err
	}
	if err := b.FS.Export(fsPartition); err != nil {
		return err
	}

	return g.Export(b.Disk)
}

// Close releases the underlying disk image file.
func (b *Builder) Close() error {
	if b.Disk == nil {
		return nil
	}
	return b.Disk.File().Close()
}

func (b *Builder) fsPartitionStream(g *gpt.GPT) (stream.Stream, error) {
	entry := g.GetEntry(2)
	if entry == nil || !entry.IsUsed() {
		return nil, bootrc.New(bootrc.KindNotFound, "no filesystem partition entry")
	}
	return partition.New(b.Disk, entry.Offset(), b.Config.FSSize), nil
}

func (b *Builder) writeBootsector() error {
	if b.Config.Bootsector == config.BootsectorNone {
		return nil
	}

	suffix, err := bootsectorResource(b.Config.Bootsector)
	if err != nil {
		return err
	}

	data, err := readResource(b.Config, suffix)
	if err != nil {
		if b.Log != nil {
			b.Log.Errorf("failed to open bootsector: %v", err)
		}
		return err
	}

	if err := b.Disk.SetPos(0); err != nil {
		return err
	}
	return b.Disk.Write(data)
}

func (b *Builder) writePartitions() error {
	switch b.Config.PartitionScheme {
	case config.PartitionSchemeNone:
		return b.writeFlatPartition()
	case config.PartitionSchemeGPT:
		return b.writeGPTPartitions()
	default:
		return nil
	}
}

func (b *Builder) writeFlatPartition() error {
	if err := b.writeStageTwoFlat(); err != nil {
		return err
	}

	if b.Config.FSLoader {
		// TODO: filesystem loader support with a flat (non-GPT) partition scheme.
		return bootrc.New(bootrc.KindNotImplemented, "fs_loader is not supported with a flat partition scheme")
	}

	return b.writeKernelFlat()
}

func (b *Builder) writeStageTwoFlat() error {
	offset := b.Config.Bootsector.Size()

	data, err := readResource(b.Config, stageTwoResource)
	if err != nil {
		if b.Log != nil {
			b.Log.Errorf("failed to open 2nd stage bootloader file: %v", err)
		}
		return err
	}

	if err := b.Disk.SetPos(offset); err != nil {
		return err
	}
	return b.Disk.Write(data)
}

func (b *Builder) writeKernelFlat() error {
	path := b.Config.KernelPath
	if path == "" {
		path = "kernel"
	}

	data, err := readFile(path)
	if err != nil {
		if b.Log != nil {
			b.Log.Errorf("failed to open %q", path)
		}
		return err
	}

	offset := b.Config.Bootsector.Size() + stageTwoDataSize

	if err := b.Disk.SetPos(offset); err != nil {
		return err
	}
	return b.Disk.Write(data)
}
