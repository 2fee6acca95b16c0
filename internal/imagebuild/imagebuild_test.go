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
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/return-infinity/bootable/internal/config"
	"github.com/return-infinity/bootable/internal/gpt"
	"github.com/return-infinity/bootable/internal/logger"
	"github.com/return-infinity/bootable/internal/pure64fs"
	"github.com/return-infinity/bootable/internal/stream"
	"github.com/stretchr/testify/require"
)

func writeResource(t *testing.T, root, suffix string, size int) {
	t.Helper()
	writeResourceFill(t, root, suffix, size, 0)
}

// writeResourceFill writes a resource filled with a recognizable byte
// so tests can check where on the disk each resource landed.
func writeResourceFill(t *testing.T, root, suffix string, size int, fill byte) {
	t.Helper()
	path := filepath.Join(root, suffix)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	resourceRoot := t.TempDir()
	writeResource(t, resourceRoot, "x86_64/bootsectors/mbr.sys", 512)
	writeResource(t, resourceRoot, "x86_64/bootable.sys", 2048)
	writeResource(t, resourceRoot, "x86_64/fs-loader.sys", 4096)

	return &config.Config{
		Arch:            "x86_64",
		Bootsector:      config.BootsectorMBR,
		PartitionScheme: config.PartitionSchemeGPT,
		FSLoader:        true,
		DiskSize:        64 << 20,
		FSSize:          16 << 20,
		ResourcePath:    resourceRoot,
	}
}

func newLog() *logger.Logger {
	return logger.New(io.Discard, logger.ErrorLevel)
}

func TestCreateAndOpenDisk(t *testing.T) {
	cfg := testConfig(t)
	diskPath := filepath.Join(t.TempDir(), "disk.img")

	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	b2 := New(cfg, newLog())
	require.NoError(t, b2.OpenDisk(diskPath))
	defer b2.Close()

	dirs, _, err := b2.List("/")
	require.NoError(t, err)
	require.Contains(t, dirs, "boot")
}

func TestMkdirCpPersistAcrossReopen(t *testing.T) {
	cfg := testConfig(t)
	diskPath := filepath.Join(t.TempDir(), "disk.img")

	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	b2 := New(cfg, newLog())
	require.NoError(t, b2.OpenDisk(diskPath))
	require.NoError(t, b2.MakeDir("/boot/grub"))

	hostFile := filepath.Join(t.TempDir(), "grub.cfg")
	require.NoError(t, os.WriteFile(hostFile, []byte("default=0\n"), 0o644))
	require.NoError(t, b2.Copy(hostFile, "/boot/grub/grub.cfg"))

	require.NoError(t, b2.SaveDisk())
	require.NoError(t, b2.Close())

	b3 := New(cfg, newLog())
	require.NoError(t, b3.OpenDisk(diskPath))
	defer b3.Close()

	dirs, _, err := b3.List("/boot")
	require.NoError(t, err)
	require.Contains(t, dirs, "grub")

	data, err := b3.Cat("/boot/grub/grub.cfg")
	require.NoError(t, err)
	require.Equal(t, "default=0\n", string(data))
}

func TestListUnknownPathFails(t *testing.T) {
	cfg := testConfig(t)
	diskPath := filepath.Join(t.TempDir(), "disk.img")

	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	b2 := New(cfg, newLog())
	require.NoError(t, b2.OpenDisk(diskPath))
	defer b2.Close()

	_, _, err := b2.List("/does-not-exist")
	require.Error(t, err)
}

// TestCreateDiskFlatLayout checks the flat (no partition table) image
// byte for byte: bootsector at offset 0, stage two right after it, and
// the kernel at bootsector size + the fixed stage-two reservation.
func TestCreateDiskFlatLayout(t *testing.T) {
	resourceRoot := t.TempDir()
	writeResourceFill(t, resourceRoot, "x86_64/bootsectors/mbr.sys", 512, 0xB5)
	writeResourceFill(t, resourceRoot, "x86_64/bootable.sys", 2048, 0x52)

	kernelPath := filepath.Join(t.TempDir(), "kernel")
	kernel := make([]byte, 16)
	for i := range kernel {
		kernel[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(kernelPath, kernel, 0o644))

	cfg := &config.Config{
		Arch:            "x86_64",
		Bootsector:      config.BootsectorMBR,
		PartitionScheme: config.PartitionSchemeNone,
		DiskSize:        1 << 20,
		KernelPath:      kernelPath,
		ResourcePath:    resourceRoot,
	}

	diskPath := filepath.Join(t.TempDir(), "disk.img")
	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	disk, err := os.ReadFile(diskPath)
	require.NoError(t, err)
	require.Len(t, disk, 1<<20)

	for i := 0; i < 512; i++ {
		require.Equal(t, byte(0xB5), disk[i], "bootsector byte %d", i)
	}
	for i := 512; i < 512+2048; i++ {
		require.Equal(t, byte(0x52), disk[i], "stage two byte %d", i)
	}
	require.Equal(t, kernel, disk[0x1200:0x1210])
}

// TestCreateDiskGPTLayout checks the GPT+fs_loader image: the header
// signature at LBA 1, the three well-known entries, and the embedded
// filesystem's signature at entry 2's offset.
func TestCreateDiskGPTLayout(t *testing.T) {
	cfg := testConfig(t)
	diskPath := filepath.Join(t.TempDir(), "disk.img")

	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	disk, err := os.ReadFile(diskPath)
	require.NoError(t, err)
	require.Equal(t, "EFI PART", string(disk[512:520]))

	f, err := os.Open(diskPath)
	require.NoError(t, err)
	defer f.Close()

	g := gpt.New()
	require.NoError(t, g.Import(stream.NewFile(f)))

	require.True(t, g.GetEntry(0).IsType(uuidStageTwo))
	require.True(t, g.GetEntry(1).IsType(uuidStageThree))
	require.True(t, g.GetEntry(2).IsType(uuidFileSystem))
	require.Equal(t, "Pure64 FS Loader", g.GetEntry(1).NameString())

	fsOffset := g.GetEntry(2).Offset()
	require.Equal(t, pure64fs.Signature, binary.LittleEndian.Uint64(disk[fsOffset:fsOffset+8]))
}

// TestMakeDirDuplicateFails re-adds an existing directory and expects
// the name-collision error without the tree changing.
func TestMakeDirDuplicateFails(t *testing.T) {
	cfg := testConfig(t)
	diskPath := filepath.Join(t.TempDir(), "disk.img")

	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	b2 := New(cfg, newLog())
	require.NoError(t, b2.OpenDisk(diskPath))
	defer b2.Close()

	require.NoError(t, b2.MakeDir("/etc"))
	err := b2.MakeDir("/etc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	dirs, _, listErr := b2.List("/")
	require.NoError(t, listErr)
	require.Equal(t, []string{"boot", "etc"}, dirs)
}

// TestCreateDiskFSOverflowFails asks for a filesystem partition larger
// than the disk's usable region.
func TestCreateDiskFSOverflowFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.FSSize = cfg.DiskSize

	diskPath := filepath.Join(t.TempDir(), "disk.img")
	b := New(cfg, newLog())
	defer b.Close()
	require.Error(t, b.CreateDisk(diskPath))

	_, err := os.Stat(diskPath)
	require.True(t, os.IsNotExist(err))
}

func TestOpenDiskRequiresGPT(t *testing.T) {
	cfg := testConfig(t)
	cfg.PartitionScheme = config.PartitionSchemeNone
	cfg.FSLoader = false
	cfg.KernelPath = filepath.Join(t.TempDir(), "kernel")
	require.NoError(t, os.WriteFile(cfg.KernelPath, make([]byte, 1024), 0o644))

	diskPath := filepath.Join(t.TempDir(), "disk.img")

	b := New(cfg, newLog())
	require.NoError(t, b.CreateDisk(diskPath))
	require.NoError(t, b.Close())

	b2 := New(cfg, newLog())
	defer b2.Close()
	require.Error(t, b2.OpenDisk(diskPath))
}
