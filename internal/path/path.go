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

// Package path parses '/'- or '\'-separated path strings into an
// ordered list of components and normalizes '.' and '..' components.
package path

// Path is an ordered sequence of path components.
type Path struct {
	names []string
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

// Parse splits s on '/' and '\' into components, discarding empty
// components produced by consecutive or leading/trailing separators.
func Parse(s string) *Path {
	p := &Path{}
	start := 0
	for i := 0; i < len(s); i++ {
		if isSeparator(s[i]) {
			if i > start {
				p.names = append(p.names, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		p.names = append(p.names, s[start:])
	}
	return p
}

// Normalize removes '.' components and resolves '..' by popping the
// preceding component, if any; a '..' with no predecessor is simply
// discarded (underflow clamps to root).
func (p *Path) Normalize() {
	out := p.names[:0]
	for _, name := range p.names {
		switch name {
		case ".":
			// dropped
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, name)
		}
	}
	p.names = out
}

// NameCount returns the number of components in the path.
func (p *Path) NameCount() int { return len(p.names) }

// Name returns the component at index, or "" and false if out of range.
func (p *Path) Name(index int) (string, bool) {
	if index < 0 || index >= len(p.names) {
		return "", false
	}
	return p.names[index], true
}

// Names returns the path's components in order. The returned slice must
// not be mutated by the caller.
func (p *Path) Names() []string { return p.names }

// PushComponent appends a single raw component to the path without
// splitting it further.
func (p *Path) PushComponent(name string) {
	p.names = append(p.names, name)
}

// ParseNormalized is a convenience that parses and immediately
// normalizes s.
func ParseNormalized(s string) *Path {
	p := Parse(s)
	p.Normalize()
	return p
}
