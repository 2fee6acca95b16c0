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
package path

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p := Parse("/boot/grub/grub.cfg")
	require.Equal(t, []string{"boot", "grub", "grub.cfg"}, p.Names())
}

func TestParseCollapsesSeparators(t *testing.T) {
	p := Parse("//boot\\\\grub//")
	require.Equal(t, []string{"boot", "grub"}, p.Names())
}

func TestParseEmpty(t *testing.T) {
	p := Parse("")
	require.Equal(t, 0, p.NameCount())
}

func TestNormalizeDotAndDotDot(t *testing.T) {
	p := Parse("/boot/./grub/../loader")
	p.Normalize()
	require.Equal(t, []string{"boot", "loader"}, p.Names())
}

func TestNormalizeDotDotUnderflowClampsToRoot(t *testing.T) {
	p := Parse("../../boot")
	p.Normalize()
	require.Equal(t, []string{"boot"}, p.Names())
}

func TestNameOutOfRange(t *testing.T) {
	p := Parse("/boot")
	_, ok := p.Name(5)
	require.False(t, ok)
}

func TestPushComponent(t *testing.T) {
	p := Parse("/boot")
	p.PushComponent("grub.cfg")
	require.Equal(t, []string{"boot", "grub.cfg"}, p.Names())
}

func TestParseNormalized(t *testing.T) {
	p := ParseNormalized("/boot/../boot/./grub")
	require.Equal(t, []string{"boot", "grub"}, p.Names())
}
