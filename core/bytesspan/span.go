// Package bytesspan provides the non-owning byte-slice view primitives the
// scanner and parser build on: O(1) slicing, and the handful of
// index/trim operations the lexical rules in the KEVS grammar need.
//
// A Span never copies; it is a window into a caller-owned byte slice, so
// the underlying bytes must outlive every Span derived from them.
package bytesspan

import "bytes"

// Span is a non-owning view into a byte slice.
type Span []byte

// IndexByte returns the index of the first occurrence of c, or -1.
func (s Span) IndexByte(c byte) int {
	return bytes.IndexByte(s, c)
}

// IndexAny returns the index of the first byte in s that also appears in
// chars, along with that byte, or (-1, 0) if none is found.
func (s Span) IndexAny(chars string) (int, byte) {
	for i, c := range s {
		if bytes.IndexByte([]byte(chars), c) != -1 {
			return i, c
		}
	}
	return -1, 0
}

// StartsWith reports whether s begins with c.
func (s Span) StartsWith(c byte) bool {
	return len(s) > 0 && s[0] == c
}

// TrimLeft removes a leading run of bytes found in cutset.
func (s Span) TrimLeft(cutset string) Span {
	i := 0
	for ; i < len(s); i++ {
		if bytes.IndexByte([]byte(cutset), s[i]) == -1 {
			break
		}
	}
	return s[i:]
}

// TrimRight removes a trailing run of bytes found in cutset.
func (s Span) TrimRight(cutset string) Span {
	i := len(s)
	for ; i > 0; i-- {
		if bytes.IndexByte([]byte(cutset), s[i-1]) == -1 {
			break
		}
	}
	return s[:i]
}

// CountNewlines counts '\n' bytes in s, used to advance the scanner's line
// counter across multi-line lexemes (raw strings).
func (s Span) CountNewlines() int {
	return bytes.Count(s, []byte{'\n'})
}
