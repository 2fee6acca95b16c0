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
package gpt

import (
	"encoding/binary"
	"testing"

	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/crc32x"
	"github.com/return-infinity/bootable/internal/stream"
	"github.com/return-infinity/bootable/internal/uuid"
	"github.com/stretchr/testify/require"
)

const testDiskSize = 64 * 1024 * 1024

func TestFormatLayout(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	backupLBA := uint64((testDiskSize - 512) / 512)

	require.Equal(t, uint64(1), g.PrimaryHeader.CurrentLBA)
	require.Equal(t, backupLBA, g.PrimaryHeader.BackupLBA)
	require.Equal(t, uint64(34), g.PrimaryHeader.FirstUsableLBA)
	require.Equal(t, backupLBA-33, g.PrimaryHeader.LastUsableLBA)
	require.Equal(t, uint64(2), g.PrimaryHeader.PartitionEntriesLBA)

	require.Equal(t, backupLBA, g.BackupHeader.CurrentLBA)
	require.Equal(t, g.PrimaryHeader.CurrentLBA, g.BackupHeader.BackupLBA)
	require.Equal(t, backupLBA-32, g.BackupHeader.PartitionEntriesLBA)
	require.Equal(t, g.PrimaryHeader.FirstUsableLBA, g.BackupHeader.FirstUsableLBA)
	require.Equal(t, g.PrimaryHeader.LastUsableLBA, g.BackupHeader.LastUsableLBA)

	require.Equal(t, uint32(EntryCount), g.PrimaryHeader.PartitionEntryCount)
	require.Len(t, g.PrimaryEntries, EntryCount)
	require.Len(t, g.BackupEntries, EntryCount)

	for i := range g.PrimaryEntries {
		require.False(t, g.PrimaryEntries[i].IsUsed())
	}
}

func TestFindUnusedEntry(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	idx, err := g.FindUnusedEntry()
	require.NoError(t, err)
	require.Equal(t, uint32(0), idx)

	require.NoError(t, g.SetEntrySize(0, 4096))

	idx, err = g.FindUnusedEntry()
	require.NoError(t, err)
	require.Equal(t, uint32(1), idx)
}

func TestFindUnusedEntryExhausted(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	for i := uint32(0); i < g.PrimaryHeader.PartitionEntryCount; i++ {
		g.PrimaryEntries[i].FirstLBA = 100 + uint64(i)
		g.PrimaryEntries[i].LastLBA = 100 + uint64(i)
	}

	_, err := g.FindUnusedEntry()
	require.Error(t, err)
}

func TestSetEntrySizeAllocatesSequentially(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	require.NoError(t, g.SetEntrySize(0, 4096))
	first := g.GetEntry(0)

	require.NoError(t, g.SetEntrySize(1, 8192))
	second := g.GetEntry(1)

	require.Greater(t, second.FirstLBA, first.LastLBA)
}

// TestSetEntrySizeSweepBug pins the documented out-of-order sweep bug:
// because the sweep walks entries in array (index) order rather than by
// ascending LBA, a bump triggered by a high-index entry can land the new
// range inside a lower-index entry's range that the sweep already walked
// past earlier in the same call, producing an undetected overlap instead
// of an error.
//
//   - entry 50 claims [FU, FU+7] first.
//   - entry 3 is allocated second; the sweep sees only entry 50 (index 3
//     is below it) and is bumped to [FU+8, FU+23].
//   - entry 80 is allocated third. The sweep first visits entry 3
//     (index 3 < 80) while its candidate range [FU, FU+7] does not yet
//     overlap entry 3's [FU+8, FU+23], so no bump happens there. It then
//     visits entry 50 and bumps to [FU+8, FU+15] — which lands squarely
//     inside entry 3's already-allocated range, and is never rechecked
//     against entry 3 because that index was already passed.
func TestSetEntrySizeSweepBug(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	require.NoError(t, g.SetEntrySize(50, 4096)) // 8 LBAs
	require.NoError(t, g.SetEntrySize(3, 8192))  // 16 LBAs, bumped past entry 50
	require.NoError(t, g.SetEntrySize(80, 4096)) // 8 LBAs, collides with entry 3

	entry3 := g.GetEntry(3)
	entry80 := g.GetEntry(80)

	require.Equal(t, entry3.FirstLBA, entry80.FirstLBA)
	require.LessOrEqual(t, entry80.LastLBA, entry3.LastLBA)
}

func TestCheckEntryIndexOffByOne(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	// entryIndex == PartitionEntryCount is accepted by the > comparison,
	// one past the last valid array index.
	err := g.checkEntryIndex(g.PrimaryHeader.PartitionEntryCount)
	require.NoError(t, err)

	err = g.checkEntryIndex(g.PrimaryHeader.PartitionEntryCount + 1)
	require.Error(t, err)
}

func TestSetEntryNameUTF8ASCIIOnlyBug(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	require.NoError(t, g.SetEntryNameUTF8(0, "café"))

	entry := g.GetEntry(0)
	// 'é' (U+00E9, encoded as 0xC3 0xA9 in UTF-8) is copied as two raw
	// bytes zero-extended to uint16, not decoded to the single code point.
	require.Equal(t, uint16(0xC3), entry.Name[3])
	require.Equal(t, uint16(0xA9), entry.Name[4])
}

func TestSetEntryNameTruncatesAt35(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	long := make([]uint16, 40)
	for i := range long {
		long[i] = 'a'
	}
	require.NoError(t, g.SetEntryName(0, long))

	entry := g.GetEntry(0)
	require.Equal(t, uint16(0), entry.Name[35])
}

func TestSetEntryType(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	const typeUUID = "daa1ab4e-7a2c-4404-8208-61a12c660382"
	require.NoError(t, g.SetEntryType(0, typeUUID))

	entry := g.GetEntry(0)
	require.True(t, entry.IsType(typeUUID))
}

func TestExportImportRoundTrip(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))
	require.NoError(t, g.SetEntryType(0, "daa1ab4e-7a2c-4404-8208-61a12c660382"))
	require.NoError(t, g.SetEntryName(0, []uint16{'s', 't', 'a', 'g', 'e'}))
	require.NoError(t, g.SetEntrySize(0, 4096))

	s := stream.NewMemory()
	require.NoError(t, s.Write(make([]byte, testDiskSize)))

	require.NoError(t, g.Export(s))

	got := New()
	require.NoError(t, got.Import(s))

	require.Equal(t, g.PrimaryHeader.CurrentLBA, got.PrimaryHeader.CurrentLBA)
	require.Equal(t, g.PrimaryHeader.BackupLBA, got.PrimaryHeader.BackupLBA)
	require.Equal(t, g.PrimaryEntries[0].FirstLBA, got.PrimaryEntries[0].FirstLBA)
	require.Equal(t, g.PrimaryEntries[0].LastLBA, got.PrimaryEntries[0].LastLBA)
	require.True(t, got.PrimaryEntries[0].IsType("daa1ab4e-7a2c-4404-8208-61a12c660382"))

	// checksums were stamped by Export and are read back as-is
	require.NotZero(t, got.PrimaryHeader.Checksum)
	require.Equal(t, g.PrimaryHeader.Checksum, got.PrimaryHeader.Checksum)
	require.Equal(t, g.PrimaryHeader.PartitionEntriesChecksum, got.PrimaryHeader.PartitionEntriesChecksum)
}

func TestSetEntrySizeNoSpace(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	err := g.SetEntrySize(0, testDiskSize)
	require.Error(t, err)
	require.ErrorIs(t, err, bootrc.Sentinel(bootrc.KindNoSpace))
}

// TestExportChecksumsVerifyOnDisk recomputes all four CRC-32 values
// from the exported bytes alone (header bytes with their checksum field
// zeroed, raw entry-array bytes) and checks them against the stamped
// checksum fields, for both the primary and the backup copies.
func TestExportChecksumsVerifyOnDisk(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))
	require.NoError(t, g.SetEntryType(0, "daa1ab4e-7a2c-4404-8208-61a12c660382"))
	require.NoError(t, g.SetEntrySize(0, 4096))

	s := stream.NewMemory()
	require.NoError(t, s.Write(make([]byte, testDiskSize)))
	require.NoError(t, g.Export(s))

	disk := s.Bytes()
	entriesBytes := uint64(EntryCount * EntrySize)

	verify := func(headerOffset, entriesOffset uint64) {
		header := make([]byte, HeaderSize)
		copy(header, disk[headerOffset:headerOffset+HeaderSize])

		stampedHeaderCRC := binary.LittleEndian.Uint32(header[16:20])
		header[16], header[17], header[18], header[19] = 0, 0, 0, 0
		require.Equal(t, stampedHeaderCRC, crc32x.Checksum(header))

		stampedEntriesCRC := binary.LittleEndian.Uint32(disk[headerOffset+88 : headerOffset+92])
		require.Equal(t, stampedEntriesCRC, crc32x.Checksum(disk[entriesOffset:entriesOffset+entriesBytes]))
	}

	backupLBA := binary.LittleEndian.Uint64(disk[512+32 : 512+40])
	verify(512, 1024)
	verify(backupLBA*512, backupLBA*512-entriesBytes)
}

func TestSetDiskUUID(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))

	u := uuid.MustParse("daa1ab4e-7a2c-4404-8208-61a12c660382")
	g.SetDiskUUID(u)

	require.Equal(t, u, g.PrimaryHeader.DiskUUID)
	require.Equal(t, u, g.BackupHeader.DiskUUID)
}

func TestGetEntryOutOfRange(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))
	require.Nil(t, g.GetEntry(g.PrimaryHeader.PartitionEntryCount))
}

func TestPartitionOffsetAndSize(t *testing.T) {
	g := New()
	require.NoError(t, g.Format(testDiskSize))
	require.NoError(t, g.SetEntrySize(0, 4096))

	off, err := g.PartitionOffset(0)
	require.NoError(t, err)
	size, err := g.PartitionSize(0)
	require.NoError(t, err)

	entry := g.GetEntry(0)
	require.Equal(t, entry.Offset(), off)
	require.Equal(t, entry.Size(), size)
}
