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
package diskfmt

import (
	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/codec"
	"github.com/return-infinity/bootable/internal/stream"
)

// BootSignature is the fixed two-byte value that must terminate a valid
// MBR sector.
const BootSignature = 0xAA55

// CodeSize is the number of bytes of opaque bootstrap machine code that
// precede the two DAPs in the MBR sector.
const CodeSize = 476

// MBR is the 512-byte Master Boot Record: 476 bytes of opaque bootstrap
// code supplied by a bootsector resource, two back-to-back DAPs naming
// the stage-two and stage-three start LBAs, and a 2-byte signature.
type MBR struct {
	Code          [CodeSize]byte
	St2DAP        DAP
	St3DAP        DAP
	BootSignature uint16
}

// Zero resets m to its zero value.
func (m *MBR) Zero() { *m = MBR{} }

// Check validates the boot signature.
func (m *MBR) Check() error {
	if m.BootSignature != BootSignature {
		return bootrc.New(bootrc.KindInvalidArgument, "mbr signature is 0x%04x, expected 0x%04x", m.BootSignature, uint16(BootSignature))
	}
	return nil
}

// Read decodes the MBR from offset 0 of s.
func (m *MBR) Read(s stream.Stream) error {
	if err := s.SetPos(0); err != nil {
		return err
	}
	if err := s.Read(m.Code[:]); err != nil {
		return err
	}
	if err := m.St2DAP.Read(s); err != nil {
		return err
	}
	if err := m.St3DAP.Read(s); err != nil {
		return err
	}
	return codec.DecodeU16(&m.BootSignature, s)
}

// Write encodes the MBR to offset 0 of s.
func (m *MBR) Write(s stream.Stream) error {
	if err := s.SetPos(0); err != nil {
		return err
	}
	if err := s.Write(m.Code[:]); err != nil {
		return err
	}
	if err := m.St2DAP.Write(s); err != nil {
		return err
	}
	if err := m.St3DAP.Write(s); err != nil {
		return err
	}
	return codec.EncodeU16(m.BootSignature, s)
}
