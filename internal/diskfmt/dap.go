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

// Package diskfmt implements the fixed-layout, legacy-BIOS-facing
// on-disk structures: the Disk Address Packet (DAP) and the Master
// Boot Record (MBR). Both are serialized field by field through
// internal/codec over a stream.Stream.
package diskfmt

import (
	"github.com/return-infinity/bootable/internal/codec"
	"github.com/return-infinity/bootable/internal/stream"
)

// DAP is the 16-byte Disk Address Packet consumed by the legacy BIOS
// extended-read service (INT 13h, AH=42h): two reserved bytes, a sector
// count, a load offset, a load segment, and a starting LBA.
type DAP struct {
	SectorCount uint16
	Address     uint16
	Segment     uint16
	Sector      uint64
}

// Read decodes a DAP from s at its current position.
func (d *DAP) Read(s stream.Stream) error {
	var reserved [2]byte
	if err := s.Read(reserved[:]); err != nil {
		return err
	}
	if err := codec.DecodeU16(&d.SectorCount, s); err != nil {
		return err
	}
	if err := codec.DecodeU16(&d.Address, s); err != nil {
		return err
	}
	if err := codec.DecodeU16(&d.Segment, s); err != nil {
		return err
	}
	return codec.DecodeU64(&d.Sector, s)
}

// Write encodes a DAP to s at its current position, with the two
// reserved bytes written as zero.
func (d *DAP) Write(s stream.Stream) error {
	if err := s.Write([]byte{0, 0}); err != nil {
		return err
	}
	if err := codec.EncodeU16(d.SectorCount, s); err != nil {
		return err
	}
	if err := codec.EncodeU16(d.Address, s); err != nil {
		return err
	}
	if err := codec.EncodeU16(d.Segment, s); err != nil {
		return err
	}
	return codec.EncodeU64(d.Sector, s)
}
