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
	"github.com/return-infinity/bootable/internal/codec"
	"github.com/return-infinity/bootable/internal/stream"
	"github.com/return-infinity/bootable/internal/uuid"
)

// nameLen is the number of UTF-16 code units reserved for an entry's name.
const nameLen = 36

// Entry is a single GPT partition entry.
type Entry struct {
	TypeUUID   uuid.UUID
	EntryUUID  uuid.UUID
	FirstLBA   uint64
	LastLBA    uint64
	Attributes uint64
	Name       [nameLen]uint16
}

func initEntry() Entry {
	return Entry{FirstLBA: InvalidLBA, LastLBA: InvalidLBA}
}

// Import decodes an entry from s at its current position.
func (e *Entry) Import(s stream.Stream) error {
	if err := s.Read(e.TypeUUID[:]); err != nil {
		return err
	}
	if err := s.Read(e.EntryUUID[:]); err != nil {
		return err
	}
	if err := codec.DecodeU64(&e.FirstLBA, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&e.LastLBA, s); err != nil {
		return err
	}
	if err := codec.DecodeU64(&e.Attributes, s); err != nil {
		return err
	}
	for i := 0; i < nameLen; i++ {
		if err := codec.DecodeU16(&e.Name[i], s); err != nil {
			return err
		}
	}
	return nil
}

// Export encodes an entry to s at its current position.
func (e *Entry) Export(s stream.Stream) error {
	if err := s.Write(e.TypeUUID[:]); err != nil {
		return err
	}
	if err := s.Write(e.EntryUUID[:]); err != nil {
		return err
	}
	if err := codec.EncodeU64(e.FirstLBA, s); err != nil {
		return err
	}
	if err := codec.EncodeU64(e.LastLBA, s); err != nil {
		return err
	}
	if err := codec.EncodeU64(e.Attributes, s); err != nil {
		return err
	}
	for i := 0; i < nameLen; i++ {
		if err := codec.EncodeU16(e.Name[i], s); err != nil {
			return err
		}
	}
	return nil
}

// Offset returns the byte offset of the partition data this entry describes.
func (e *Entry) Offset() uint64 {
	return e.FirstLBA * 512
}

// Size returns the byte size of the partition data this entry describes.
func (e *Entry) Size() uint64 {
	return ((e.LastLBA - e.FirstLBA) + 1) * 512
}

// IsUsed reports whether the entry has been assigned a partition range.
func (e *Entry) IsUsed() bool {
	return e.FirstLBA != InvalidLBA && e.LastLBA != InvalidLBA
}

// IsType reports whether the entry's type UUID matches typeUUIDStr. An
// unparseable typeUUIDStr is treated as "does not match" rather than
// reported as an error.
func (e *Entry) IsType(typeUUIDStr string) bool {
	typeUUID, err := uuid.Parse(typeUUIDStr)
	if err != nil {
		return false
	}
	return uuid.Compare(typeUUID, e.TypeUUID) == 0
}

// NameString decodes e.Name back to a string, stopping at the first
// null code unit. SetEntryNameUTF8 writes a name by zero-extending
// each input byte into a code unit, so this reverses that exactly for
// the ASCII-only names the builder writes; it is not a general
// UTF-16-to-UTF-8 decoder.
func (e *Entry) NameString() string {
	n := 0
	for n < len(e.Name) && e.Name[n] != 0 {
		n++
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(e.Name[i])
	}
	return string(b)
}
