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
	"testing"

	"github.com/return-infinity/bootable/internal/stream"
	"github.com/stretchr/testify/require"
)

func TestMBRWriteReadRoundTrip(t *testing.T) {
	s := stream.NewMemory()
	require.NoError(t, s.Write(make([]byte, 512)))

	var m MBR
	m.Zero()
	m.St2DAP = DAP{SectorCount: 8, Address: 0x7c00, Segment: 0, Sector: 34}
	m.St3DAP = DAP{SectorCount: 16, Address: 0x8000, Segment: 0, Sector: 42}
	m.BootSignature = BootSignature

	require.NoError(t, m.Write(s))

	var got MBR
	got.Zero()
	require.NoError(t, got.Read(s))

	require.Equal(t, m.St2DAP, got.St2DAP)
	require.Equal(t, m.St3DAP, got.St3DAP)
	require.Equal(t, m.BootSignature, got.BootSignature)
	require.NoError(t, got.Check())
}

func TestMBRCheckRejectsBadSignature(t *testing.T) {
	var m MBR
	m.Zero()
	m.BootSignature = 0x1234
	require.Error(t, m.Check())
}

func TestDAPRoundTrip(t *testing.T) {
	s := stream.NewMemory()
	d := DAP{SectorCount: 4, Address: 0x1000, Segment: 0x2000, Sector: 12345}
	require.NoError(t, d.Write(s))

	require.NoError(t, s.SetPos(0))
	var got DAP
	require.NoError(t, got.Read(s))
	require.Equal(t, d, got)
}
