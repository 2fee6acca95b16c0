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

// Package gpt implements the GUID Partition Table: primary and backup
// headers, the 128-entry partition array, and the CRC-32 checksums
// binding them together. Some behaviors here are compatibility quirks
// kept on purpose (the entry-size sweep, the byte-wise UTF-8 name copy,
// the entry index bound checks); each is called out where it lives.
package gpt

import (
	"github.com/return-infinity/bootable/internal/codec"
	"github.com/return-infinity/bootable/internal/stream"
	"github.com/return-infinity/bootable/internal/uuid"
)

// EntrySize is the fixed on-disk size, in bytes, of a single partition entry.
const EntrySize = 128

// EntryCount is the default number of partition entries Format reserves.
const EntryCount = 128

// HeaderSize is the fixed on-disk size, in bytes, of a GPT header,
// before the zero-padding that fills out the rest of its LBA.
const HeaderSize = 92

// InvalidLBA marks a first/last LBA pair as belonging to an unused entry.
// It is zero because LBA 0 holds the MBR and can never be a valid GPT entry bound.
const InvalidLBA = 0

// signature is the fixed 8-byte ASCII tag that opens every GPT header.
var signature = [8]byte{'E', 'F', 'I', ' ', 'P', 'A', 'R', 'T'}

// Header is a GPT header, either the primary copy at LBA 1 or the
// backup copy at the last LBA of the disk.
type Header struct {
	Version                  uint32
	HeaderSize               uint32
	Checksum                 uint32
	Reserved                 uint32
	CurrentLBA               uint64
	BackupLBA                uint64
	FirstUsableLBA           uint64
	LastUsableLBA            uint64
	DiskUUID                 uuid.UUID
	PartitionEntriesLBA      uint64
	PartitionEntryCount      uint32
	PartitionEntrySize       uint32
	PartitionEntriesChecksum uint32
}

func initHeader() Header {
	return Header{
		Version:             0x010000,
		CurrentLBA:          InvalidLBA,
		BackupLBA:           InvalidLBA,
		FirstUsableLBA:      InvalidLBA,
		LastUsableLBA:       InvalidLBA,
		PartitionEntriesLBA: InvalidLBA,
		PartitionEntrySize:  EntrySize,
	}
}

// Import decodes a header from s at its current position. The on-disk
// checksum is read as-is and not verified; GPT.Import documents that
// choice.
func (h *Header) Import(s stream.Stream) error {
	var sig [8]byte
	if err := s.Read(sig[:]); err != nil {
		return err
	}
	if err := codec.DecodeU32(&h.Version, s); err != nil {
		return err
	}
	if err := codec.DecodeU32(&h.HeaderSize, s); err != nil {
		return err
	}
	if err := codec.DecodeU32(&h.Checksum, s); err != nil {
		return err
	}
	if err := codec.DecodeU32(&h.Reserved, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&h.CurrentLBA, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&h.BackupLBA, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&h.FirstUsableLBA, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&h.LastUsableLBA, s); err != nil {
		return err
	}
	if err := s.Read(h.DiskUUID[:]); err != nil {
		return err
	}
	if err := codec.DecodeU64(&h.PartitionEntriesLBA, s); err != nil {
		return err
	}
	if err := codec.DecodeU32(&h.PartitionEntryCount, s); err != nil {
		return err
	}
	if err := codec.DecodeU32(&h.PartitionEntrySize, s); err != nil {
		return err
	}
	return codec.DecodeU32(&h.PartitionEntriesChecksum, s)
}

// Export encodes a header to s at its current position. The header and
// entries checksum fields are written from h; Export on the GPT as a
// whole computes both before writing any header. The version, header
// size and entry size fields are always written as their fixed values
// regardless of h's in-memory values. The remainder of the header's LBA
// (512 - HeaderSize bytes) is zero-padded.
func (h *Header) Export(s stream.Stream) error {
	if err := s.Write(signature[:]); err != nil {
		return err
	}
	if err := codec.EncodeU32(0x010000, s); err != nil {
		return err
	}
	if err := codec.EncodeU32(0x5c, s); err != nil {
		return err
	}
	if err := codec.EncodeU32(h.Checksum, s); err != nil {
		return err
	}
	if err := codec.EncodeU32(0, s); err != nil { // reserved
		return err
	}
	if err := codec.EncodeU64(h.CurrentLBA, s); err != nil {
		return err
	}
	if err := codec.EncodeU64(h.BackupLBA, s); err != nil {
		return err
	}
	if err := codec.EncodeU64(h.FirstUsableLBA, s); err != nil {
		return err
	}
	if err := codec.EncodeU64(h.LastUsableLBA, s); err != nil {
		return err
	}
	if err := s.Write(h.DiskUUID[:]); err != nil {
		return err
	}
	if err := codec.EncodeU64(h.PartitionEntriesLBA, s); err != nil {
		return err
	}
	if err := codec.EncodeU32(h.PartitionEntryCount, s); err != nil {
		return err
	}
	if err := codec.EncodeU32(0x80, s); err != nil {
		return err
	}
	if err := codec.EncodeU32(h.PartitionEntriesChecksum, s); err != nil {
		return err
	}

	pad := make([]byte, 512-HeaderSize)
	return s.Write(pad)
}

// checksumBytes returns the exact HeaderSize-byte encoding of h used as
// CRC-32 input: the checksum field forced to zero and the fixed
// version/size/entry-size fields forced to their canonical values, so
// the digest matches a CRC taken over the header bytes Export produced.
func (h *Header) checksumBytes() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, signature[:]...)
	buf = appendU32(buf, 0x010000)
	buf = appendU32(buf, 0x5c)
	buf = appendU32(buf, 0) // checksum
	buf = appendU32(buf, 0) // reserved
	buf = appendU64(buf, h.CurrentLBA)
	buf = appendU64(buf, h.BackupLBA)
	buf = appendU64(buf, h.FirstUsableLBA)
	buf = appendU64(buf, h.LastUsableLBA)
	buf = append(buf, h.DiskUUID[:]...)
	buf = appendU64(buf, h.PartitionEntriesLBA)
	buf = appendU32(buf, h.PartitionEntryCount)
	buf = appendU32(buf, 0x80)
	buf = appendU32(buf, h.PartitionEntriesChecksum)
	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendU64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
