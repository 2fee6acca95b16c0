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

// Package bootrc defines the finite error taxonomy shared by every layer
// of the image-construction engine, from byte streams up through the
// image builder.
package bootrc

import "fmt"

// Kind identifies the category of failure a component reports. The set
// is closed: every package in this module returns an *Error carrying one
// of these kinds rather than an ad hoc error value.
type Kind int

const (
	// KindBadAddress means a required object reference was nil/missing.
	KindBadAddress Kind = iota
	// KindOutOfMemory means an allocation failed.
	KindOutOfMemory
	// KindIsDirectory means a file operation targeted a directory.
	KindIsDirectory
	// KindNotDirectory means a directory operation targeted a file.
	KindNotDirectory
	// KindNotFound means a path component was absent.
	KindNotFound
	// KindAlreadyExists means a name collided within a directory.
	KindAlreadyExists
	// KindInvalidArgument means malformed input, a signature mismatch,
	// or a position out of range.
	KindInvalidArgument
	// KindNotImplemented means a capability is absent on a stream.
	KindNotImplemented
	// KindIO means a short read/write or a host I/O error.
	KindIO
	// KindNoSpace means the GPT entry array is full, or an entry's
	// last LBA fell past the usable region.
	KindNoSpace
)

func (k Kind) String() string {
	switch k {
	case KindBadAddress:
		return "bad-address"
	case KindOutOfMemory:
		return "out-of-memory"
	case KindIsDirectory:
		return "is-directory"
	case KindNotDirectory:
		return "not-directory"
	case KindNotFound:
		return "not-found"
	case KindAlreadyExists:
		return "already-exists"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindNotImplemented:
		return "not-implemented"
	case KindIO:
		return "io"
	case KindNoSpace:
		return "no-space"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every package in this
// module. It carries a Kind so callers can branch on failure category
// without string matching, and an optional wrapped cause for
// errors.Is/errors.As chains.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether e and target share the same Kind, so callers can
// write `errors.Is(err, bootrc.KindNotFound)`-style checks via
// errors.Is(err, &Error{Kind: KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel returns an *Error with only a Kind set, suitable as the
// target of an errors.Is comparison (e.g. errors.Is(err, bootrc.Sentinel(bootrc.KindNotFound))).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
