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
package humanize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/return-infinity/bootable/internal/bootrc"
)

// FormatBytes renders b as a human-readable size, avoiding trailing
// ".00" for whole numbers.
func FormatBytes(b int64) string {
	const (
		_  = iota // ignore first value
		KB = 1 << (10 * iota)
		MB
		GB
		TB
	)

	val := float64(b)
	var unit string

	switch {
	case b >= TB:
		val /= float64(TB)
		unit = "TB"
	case b >= GB:
		val /= float64(GB)
		unit = "GB"
	case b >= MB:
		val /= float64(MB)
		unit = "MB"
	case b >= KB:
		val /= float64(KB)
		unit = "KB"
	default:
		return fmt.Sprintf("%dB", b)
	}

	if val == float64(int64(val)) {
		return fmt.Sprintf("%.0f%s", val, unit)
	}
	return fmt.Sprintf("%.2f%s", val, unit)
}

// ParseBytes parses a plain integer byte count, or an integer followed
// by a K/M/G/T (optionally iB/B) suffix, case-insensitive. It reads
// back FormatBytes output only for whole multiples of 1KB: a bare "B"
// suffix and a fractional value are both rejected. It is what
// internal/config uses to read disk_size and fs_size fields out of a
// configuration file.
func ParseBytes(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, bootrc.New(bootrc.KindInvalidArgument, "empty byte size")
	}

	upper := strings.ToUpper(s)

	multiplier := uint64(1)
	numEnd := len(s)

	suffixes := []struct {
		suffix string
		mul    uint64
	}{
		{"TIB", 1 << 40}, {"GIB", 1 << 30}, {"MIB", 1 << 20}, {"KIB", 1 << 10},
		{"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
		{"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	}

	for _, sfx := range suffixes {
		if strings.HasSuffix(upper, sfx.suffix) {
			multiplier = sfx.mul
			numEnd = len(s) - len(sfx.suffix)
			break
		}
	}

	numPart := strings.TrimSpace(s[:numEnd])
	n, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return 0, bootrc.New(bootrc.KindInvalidArgument, "invalid byte size %q", s)
	}

	return n * multiplier, nil
}
