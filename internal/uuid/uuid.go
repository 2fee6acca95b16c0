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

// Package uuid implements the 16-byte GPT-flavored UUID: mixed-endian
// on-disk storage, RFC-4122 canonical text parsing/formatting, and
// byte comparison.
package uuid

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/return-infinity/bootable/internal/bootrc"
)

// UUID is a 16-byte identifier stored in GPT mixed-endian disk form:
// bytes 0-3 little-endian, bytes 4-5 little-endian, bytes 6-7
// little-endian, bytes 8-9 big-endian, bytes 10-15 big-endian.
type UUID [16]byte

// Zero is the distinguished "uninitialized" UUID.
var Zero UUID

// IsZero reports whether u is the all-zero UUID.
func (u UUID) IsZero() bool {
	return u == Zero
}

// Compare performs a lexicographic byte comparison of a and b.
func Compare(a, b UUID) int {
	return bytes.Compare(a[:], b[:])
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0x0a, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0x0a, true
	default:
		return 0, false
	}
}

// Parse reads a canonical hyphenated UUID text (case-insensitive) and
// reorders the first three groups from text byte-order (big-endian) to
// disk byte-order (little-endian) per the GPT mixed-endian rule.
func Parse(text string) (UUID, error) {
	var raw [16]byte

	i := 0 // byte index into raw
	j := 0 // rune index into text
	for i < 16 && j < len(text) {
		c := text[j]
		if c == '-' {
			j++
			continue
		}

		hi, ok := hexVal(c)
		if !ok {
			return UUID{}, bootrc.New(bootrc.KindInvalidArgument, "invalid hex digit %q in uuid %q", c, text)
		}

		if j+1 >= len(text) {
			return UUID{}, bootrc.New(bootrc.KindInvalidArgument, "truncated uuid %q", text)
		}

		lo, ok := hexVal(text[j+1])
		if !ok {
			return UUID{}, bootrc.New(bootrc.KindInvalidArgument, "invalid hex digit %q in uuid %q", text[j+1], text)
		}

		raw[i] = hi<<4 | lo
		j += 2
		i++
	}

	if i != 16 {
		return UUID{}, bootrc.New(bootrc.KindInvalidArgument, "uuid %q has too few hex digits", text)
	}

	var u UUID
	u[0], u[1], u[2], u[3] = raw[3], raw[2], raw[1], raw[0]
	u[4], u[5] = raw[5], raw[4]
	u[6], u[7] = raw[7], raw[6]
	u[8], u[9] = raw[8], raw[9]
	copy(u[10:16], raw[10:16])

	return u, nil
}

// MustParse parses text and panics on error; intended for package-level
// UUID constants derived from literal strings.
func MustParse(text string) UUID {
	u, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return u
}

// String formats u back into canonical hyphenated lower-case hex, the
// inverse of the mixed-endian rule Parse applies.
func (u UUID) String() string {
	var raw [16]byte
	raw[3], raw[2], raw[1], raw[0] = u[0], u[1], u[2], u[3]
	raw[5], raw[4] = u[4], u[5]
	raw[7], raw[6] = u[6], u[7]
	raw[8], raw[9] = u[8], u[9]
	copy(raw[10:16], u[10:16])

	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		raw[0], raw[1], raw[2], raw[3],
		raw[4], raw[5],
		raw[6], raw[7],
		raw[8], raw[9],
		raw[10], raw[11], raw[12], raw[13], raw[14], raw[15])
}

// Random generates a UUID from a cryptographically random byte source.
// It does not set the RFC-4122 version/variant bits; callers that need a
// disk identifier simply want 16 unpredictable bytes, not a compliant
// v4 UUID. If the entropy source fails, Random returns the Zero UUID
// rather than an error, since a zero disk UUID is already a valid,
// distinguished "uninitialized" value and failing `init` over an
// unreadable random source would be disproportionate.
func Random() UUID {
	var u UUID
	if _, err := rand.Read(u[:]); err != nil {
		return Zero
	}
	return u
}
