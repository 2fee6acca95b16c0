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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bootable.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadScalarFields(t *testing.T) {
	path := writeConfig(t, `
# a comment
arch=x86_64
bootsector=mbr
partition_scheme=gpt
fs_loader=true
disk_size=64MB
fs_size=16MB
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "x86_64", cfg.Arch)
	require.Equal(t, BootsectorMBR, cfg.Bootsector)
	require.Equal(t, PartitionSchemeGPT, cfg.PartitionScheme)
	require.True(t, cfg.FSLoader)
	require.Equal(t, uint64(64<<20), cfg.DiskSize)
	require.Equal(t, uint64(16<<20), cfg.FSSize)
}

func TestLoadDefaultsBootsectorAndScheme(t *testing.T) {
	path := writeConfig(t, "arch=x86_64\nkernel_path=kernel\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BootsectorMBR, cfg.Bootsector)
	require.Equal(t, PartitionSchemeGPT, cfg.PartitionScheme)
	require.Equal(t, uint64(1<<20), cfg.DiskSize)
	require.Equal(t, uint64(512<<10), cfg.FSSize)
}

func TestLoadPartitionSections(t *testing.T) {
	path := writeConfig(t, `
arch=x86_64
bootsector=mbr
fs_loader=true

[partition]
name=data
size=8MB

[partition]
name=logs
offset=2048
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Partitions, 2)

	require.Equal(t, "data", cfg.Partitions[0].Name)
	require.Equal(t, uint64(8<<20), cfg.Partitions[0].Size)
	require.True(t, cfg.Partitions[0].SizeSpecified)

	require.Equal(t, "logs", cfg.Partitions[1].Name)
	require.Equal(t, uint64(2048), cfg.Partitions[1].Offset)
	require.True(t, cfg.Partitions[1].OffsetSpecified)
}

func TestValidateRequiresArch(t *testing.T) {
	path := writeConfig(t, "kernel_path=kernel\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateFSLoaderRequiresMBR(t *testing.T) {
	path := writeConfig(t, "arch=x86_64\nfs_loader=true\nbootsector=pxe\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateKernelPathRequiredWithoutFSLoader(t *testing.T) {
	path := writeConfig(t, "arch=x86_64\nbootsector=mbr\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadUnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "arch=x86_64\nbootsector=mbr\nkernel_path=kernel\nbogus=1\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestParseBootsectorAndScheme(t *testing.T) {
	bs, err := ParseBootsector("multiboot2")
	require.NoError(t, err)
	require.Equal(t, BootsectorMultiboot2, bs)

	_, err = ParseBootsector("nonsense")
	require.Error(t, err)

	ps, err := ParsePartitionScheme("gpt")
	require.NoError(t, err)
	require.Equal(t, PartitionSchemeGPT, ps)
}

func TestBootsectorSize(t *testing.T) {
	require.Equal(t, uint64(512), BootsectorMBR.Size())
	require.Equal(t, uint64(1024), BootsectorPXE.Size())
	require.Equal(t, uint64(512), BootsectorNone.Size())
}
