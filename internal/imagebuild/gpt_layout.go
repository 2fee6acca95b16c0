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
	"github.com/return-infinity/bootable/internal/config"
	"github.com/return-infinity/bootable/internal/diskfmt"
	"github.com/return-infinity/bootable/internal/gpt"
	"github.com/return-infinity/bootable/internal/partition"
	"github.com/return-infinity/bootable/internal/uuid"
)

// Entry index assignment is fixed: entry 0 is always stage two, entry
// 1 is always stage three (either a kernel or the filesystem loader),
// entry 2 is the embedded filesystem when fs_loader is enabled. The
// MBR's boot code and the filesystem loader both address partitions by
// these indexes.
const (
	entryStageTwo   = 0
	entryStageThree = 1
	entryFS         = 2
)

func (b *Builder) writeGPTPartitions() error {
	g := gpt.New()
	if err := g.Format(b.Config.DiskSize); err != nil {
		return err
	}
	g.SetDiskUUID(uuid.Random())
	b.GPT = g

	if err := b.writeStageTwoGPT(g); err != nil {
		return err
	}

	if err := b.writeStageThreeGPT(g); err != nil {
		return err
	}

	if err := b.writeFSGPT(g); err != nil {
		return err
	}

	for i := range b.Config.Partitions {
		if err := b.writeConfigPartition(g, &b.Config.Partitions[i]); err != nil {
			return err
		}
	}

	if err := b.updateMBRGPT(g); err != nil {
		return err
	}

	return g.Export(b.Disk)
}

func (b *Builder) writeStageTwoGPT(g *gpt.GPT) error {
	if err := g.SetEntryType(entryStageTwo, uuidStageTwo); err != nil {
		return err
	}
	if err := g.SetEntryName(entryStageTwo, utf16Units("Pure64 Stage Two")); err != nil {
		return err
	}

	data, err := readResource(b.Config, stageTwoResource)
	if err != nil {
		if b.Log != nil {
			b.Log.Errorf("failed to open 2nd stage bootloader file: %v", err)
		}
		return err
	}

	if err := g.SetEntrySize(entryStageTwo, stageTwoDataSize); err != nil {
		return err
	}

	entry := g.GetEntry(entryStageTwo)
	if err := b.Disk.SetPos(entry.Offset()); err != nil {
		return err
	}
	return b.Disk.Write(data)
}

func (b *Builder) writeStageThreeGPT(g *gpt.GPT) error {
	if b.Config.FSLoader {
		return b.writeLoaderGPT(g)
	}
	return b.writeKernelGPT(g)
}

func (b *Builder) writeLoaderGPT(g *gpt.GPT) error {
	if err := g.SetEntryType(entryStageThree, uuidStageThree); err != nil {
		return err
	}
	if err := g.SetEntryName(entryStageThree, utf16Units("Pure64 FS Loader")); err != nil {
		return err
	}

	data, err := readResource(b.Config, fsLoaderResource)
	if err != nil {
		if b.Log != nil {
			b.Log.Errorf("failed to open file system loader: %v", err)
		}
		return err
	}

	if err := g.SetEntrySize(entryStageThree, uint64(len(data))); err != nil {
		return err
	}

	entry := g.GetEntry(entryStageThree)
	if err := b.Disk.SetPos(entry.Offset()); err != nil {
		return err
	}
	return b.Disk.Write(data)
}

func (b *Builder) writeKernelGPT(g *gpt.GPT) error {
	if err := g.SetEntryType(entryStageThree, uuidStageThree); err != nil {
		return err
	}
	if err := g.SetEntryName(entryStageThree, utf16Units("Pure64 Kernel")); err != nil {
		return err
	}

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

	if err := g.SetEntrySize(entryStageThree, uint64(len(data))); err != nil {
		return err
	}

	entry := g.GetEntry(entryStageThree)
	if err := b.Disk.SetPos(entry.Offset()); err != nil {
		return err
	}
	return b.Disk.Write(data)
}

func (b *Builder) writeFSGPT(g *gpt.GPT) error {
	if !b.Config.FSLoader {
		return nil
	}

	if err := g.SetEntryType(entryFS, uuidFileSystem); err != nil {
		return err
	}
	if err := g.SetEntryName(entryFS, utf16Units("Pure64 File System")); err != nil {
		return err
	}
	if err := g.SetEntrySize(entryFS, b.Config.FSSize); err != nil {
		return err
	}

	entry := g.GetEntry(entryFS)
	fsStream := partition.New(b.Disk, entry.Offset(), b.Config.FSSize)

	if err := b.FS.MakeDir("/boot"); err != nil {
		return err
	}

	return b.FS.Export(fsStream)
}

// writeConfigPartition reserves a GPT entry for a user-configured
// extra partition, tagging it with the dummy placeholder type UUID and
// copying its name.
//
// TODO: honor the partition's file, size, and offset fields; there is
// no rule yet for how big an unsized extra partition should be.
func (b *Builder) writeConfigPartition(g *gpt.GPT, p *config.Partition) error {
	entryIndex, err := g.FindUnusedEntry()
	if err != nil {
		return err
	}

	if err := g.SetEntryType(entryIndex, dummyPartitionTypeUUID); err != nil {
		return err
	}

	return g.SetEntryNameUTF8(entryIndex, p.Name)
}

// updateMBRGPT patches the MBR's two DAPs to point at entry 0 (stage
// two) and entry 1 (stage three). Sector counts come from the entries'
// own LBA ranges rather than re-statting a resource file, since entry 1
// holds whichever of the kernel or the filesystem loader was actually
// written there and SetEntrySize already recorded its true length.
func (b *Builder) updateMBRGPT(g *gpt.GPT) error {
	var mbr diskfmt.MBR
	mbr.Zero()
	if err := mbr.Read(b.Disk); err != nil {
		return err
	}

	stageTwoEntry := g.GetEntry(entryStageTwo)
	stageThreeEntry := g.GetEntry(entryStageThree)

	mbr.St2DAP.Sector = stageTwoEntry.FirstLBA
	mbr.St2DAP.SectorCount = uint16(stageTwoEntry.Size() / 512)

	mbr.St3DAP.Sector = stageThreeEntry.FirstLBA
	mbr.St3DAP.SectorCount = uint16(stageThreeEntry.Size() / 512)

	return mbr.Write(b.Disk)
}

// utf16Units encodes an ASCII string as UTF-16 code units for GPT
// entry name fields; every caller passes a 7-bit-clean literal string.
func utf16Units(s string) []uint16 {
	units := make([]uint16, len(s))
	for i := 0; i < len(s); i++ {
		units[i] = uint16(s[i])
	}
	return units
}
