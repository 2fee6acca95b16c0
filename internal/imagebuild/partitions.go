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
	"github.com/return-infinity/bootable/internal/uuid"
)

// PartitionInfo describes one in-use GPT entry, for reporting rather
// than mutation.
type PartitionInfo struct {
	Index    uint32
	Name     string
	TypeUUID uuid.UUID
	Offset   uint64
	Size     uint64
}

// Partitions lists every in-use entry of the currently opened disk's
// GPT, using Entry.NameString and GPT.PartitionOffset/PartitionSize to
// report each partition's placement without touching its contents.
func (b *Builder) Partitions() ([]PartitionInfo, error) {
	if b.GPT == nil {
		return nil, bootrc.New(bootrc.KindNotImplemented, "no gpt imported for this disk")
	}

	var infos []PartitionInfo
	for i := uint32(0); i < b.GPT.PrimaryHeader.PartitionEntryCount; i++ {
		entry := b.GPT.GetEntry(i)
		if entry == nil || !entry.IsUsed() {
			continue
		}

		offset, err := b.GPT.PartitionOffset(i)
		if err != nil {
			return nil, err
		}
		size, err := b.GPT.PartitionSize(i)
		if err != nil {
			return nil, err
		}

		infos = append(infos, PartitionInfo{
			Index:    i,
			Name:     entry.NameString(),
			TypeUUID: entry.TypeUUID,
			Offset:   offset,
			Size:     size,
		})
	}
	return infos, nil
}
